package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// DecodeStep converts a step returned by the marketplace API into its executable action.
// Unknown ids yield *UnknownStepError. A step with neither a target nor a signature
// block, or with unparsable fields, yields *InvalidStepError.
func DecodeStep(step *models.Step) (models.Action, error) {
	kind := step.ID.Kind()
	if kind == models.StepKindUnknown {
		return nil, &UnknownStepError{ID: step.ID}
	}
	if step.To == "" && step.Signature == nil {
		return nil, &InvalidStepError{ID: step.ID, Reason: "step has neither a target nor a signature"}
	}

	switch kind {
	case models.StepKindApproval, models.StepKindTransaction:
		return decodeTransaction(step)
	case models.StepKindSignature:
		if step.ID == models.StepSignEIP191 {
			return decodePersonalSign(step)
		}
		return decodeTypedData(step)
	}
	return nil, &UnknownStepError{ID: step.ID}
}

func decodeTransaction(step *models.Step) (*models.TransactionAction, error) {
	if !common.IsHexAddress(step.To) {
		return nil, &InvalidStepError{ID: step.ID, Reason: fmt.Sprintf("invalid target address %q", step.To)}
	}
	data, err := models.DecodeHexData(step.Data)
	if err != nil {
		return nil, &InvalidStepError{ID: step.ID, Reason: fmt.Sprintf("invalid calldata: %v", err)}
	}
	value, err := models.ParseValue(step.Value)
	if err != nil {
		return nil, &InvalidStepError{ID: step.ID, Reason: fmt.Sprintf("invalid value: %v", err)}
	}
	return &models.TransactionAction{
		ID:    step.ID,
		To:    common.HexToAddress(step.To),
		Data:  data,
		Value: value,
	}, nil
}

func decodeTypedData(step *models.Step) (*models.TypedDataAction, error) {
	if step.Signature == nil {
		return nil, &InvalidStepError{ID: step.ID, Reason: "missing typed data"}
	}
	return &models.TypedDataAction{
		ID:        step.ID,
		TypedData: step.Signature.TypedData(),
		Post:      step.Post,
	}, nil
}

func decodePersonalSign(step *models.Step) (*models.PersonalSignAction, error) {
	msg, err := models.DecodeHexData(step.Data)
	if err != nil {
		return nil, &InvalidStepError{ID: step.ID, Reason: fmt.Sprintf("invalid message data: %v", err)}
	}
	return &models.PersonalSignAction{
		ID:      step.ID,
		Message: msg,
		Post:    step.Post,
	}, nil
}
