package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// StepID identifies the kind of a step returned by the marketplace API
type StepID string

const (
	StepTokenApproval StepID = "tokenApproval"
	StepBuy           StepID = "buy"
	StepSell          StepID = "sell"
	StepCreateListing StepID = "createListing"
	StepCreateOffer   StepID = "createOffer"
	StepCancel        StepID = "cancel"
	StepSignEIP712    StepID = "signEIP712"
	StepSignEIP191    StepID = "signEIP191"

	// StepSwitchChain is never returned by the API. It marks a pending
	// wallet network switch in a StepPlan.
	StepSwitchChain StepID = "switchChain"
)

// StepKind groups step ids by how they are executed
type StepKind int

const (
	StepKindUnknown StepKind = iota
	StepKindApproval
	StepKindTransaction
	StepKindSignature
)

func (k StepKind) String() string {
	switch k {
	case StepKindApproval:
		return "approval"
	case StepKindTransaction:
		return "transaction"
	case StepKindSignature:
		return "signature"
	default:
		return "unknown"
	}
}

// Kind classifies the step id. Ids outside the known set are StepKindUnknown.
func (id StepID) Kind() StepKind {
	switch id {
	case StepTokenApproval:
		return StepKindApproval
	case StepBuy, StepSell, StepCreateListing, StepCreateOffer, StepCancel:
		return StepKindTransaction
	case StepSignEIP712, StepSignEIP191:
		return StepKindSignature
	default:
		return StepKindUnknown
	}
}

// ExecuteType selects what the marketplace Execute endpoint finalizes
type ExecuteType string

const (
	ExecuteTypeUnknown ExecuteType = "unknown"
	ExecuteTypeOrder   ExecuteType = "order"
)

// SignatureDomain is the EIP-712 domain of a signature request
type SignatureDomain struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	ChainID           uint64 `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
	Salt              string `json:"salt,omitempty"`
}

// SignatureRequest carries EIP-712 typed data to sign
type SignatureRequest struct {
	Domain      SignatureDomain        `json:"domain"`
	Types       apitypes.Types         `json:"types"`
	PrimaryType string                 `json:"primaryType"`
	Message     map[string]interface{} `json:"message"`
}

// PostRequest is the off-chain payload submitted after a signature is collected
type PostRequest struct {
	Endpoint string          `json:"endpoint"`
	Method   string          `json:"method"`
	Body     json.RawMessage `json:"body"`
}

// Step is one unit of work in a marketplace transaction flow
type Step struct {
	ID          StepID            `json:"id"`
	Data        string            `json:"data"`
	To          string            `json:"to"`
	Value       string            `json:"value"`
	Price       string            `json:"price,omitempty"`
	Signature   *SignatureRequest `json:"signature,omitempty"`
	Post        *PostRequest      `json:"post,omitempty"`
	ExecuteType ExecuteType       `json:"executeType,omitempty"`
}

// Action is the executable form of a step, produced by domain.DecodeStep.
// Only the three action types below implement it.
type Action interface {
	StepID() StepID
	action()
}

// TransactionAction sends a transaction and waits for its receipt
type TransactionAction struct {
	ID    StepID
	To    common.Address
	Data  []byte
	Value *big.Int
}

// TypedDataAction requests an EIP-712 signature
type TypedDataAction struct {
	ID        StepID
	TypedData apitypes.TypedData
	Post      *PostRequest
}

// PersonalSignAction requests an EIP-191 personal signature over raw bytes
type PersonalSignAction struct {
	ID      StepID
	Message []byte
	Post    *PostRequest
}

func (a *TransactionAction) StepID() StepID  { return a.ID }
func (a *TypedDataAction) StepID() StepID    { return a.ID }
func (a *PersonalSignAction) StepID() StepID { return a.ID }

func (*TransactionAction) action()  {}
func (*TypedDataAction) action()    {}
func (*PersonalSignAction) action() {}

// TypedData converts the request into go-ethereum's EIP-712 representation.
// The EIP712Domain type is derived from the domain when the API omits it.
func (r *SignatureRequest) TypedData() apitypes.TypedData {
	types := make(apitypes.Types, len(r.Types)+1)
	for name, fields := range r.Types {
		types[name] = fields
	}
	if _, ok := types["EIP712Domain"]; !ok {
		types["EIP712Domain"] = r.domainType()
	}

	domain := apitypes.TypedDataDomain{
		Name:              r.Domain.Name,
		Version:           r.Domain.Version,
		VerifyingContract: r.Domain.VerifyingContract,
		Salt:              r.Domain.Salt,
	}
	if r.Domain.ChainID != 0 {
		domain.ChainId = math.NewHexOrDecimal256(int64(r.Domain.ChainID))
	}

	return apitypes.TypedData{
		Types:       types,
		PrimaryType: r.PrimaryType,
		Domain:      domain,
		Message:     apitypes.TypedDataMessage(r.Message),
	}
}

func (r *SignatureRequest) domainType() []apitypes.Type {
	var fields []apitypes.Type
	if r.Domain.Name != "" {
		fields = append(fields, apitypes.Type{Name: "name", Type: "string"})
	}
	if r.Domain.Version != "" {
		fields = append(fields, apitypes.Type{Name: "version", Type: "string"})
	}
	if r.Domain.ChainID != 0 {
		fields = append(fields, apitypes.Type{Name: "chainId", Type: "uint256"})
	}
	if r.Domain.VerifyingContract != "" {
		fields = append(fields, apitypes.Type{Name: "verifyingContract", Type: "address"})
	}
	if r.Domain.Salt != "" {
		fields = append(fields, apitypes.Type{Name: "salt", Type: "bytes32"})
	}
	return fields
}

// ParseValue parses a wei amount given as hex ("0x...") or decimal. Empty is zero.
func ParseValue(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base, digits = 16, s[2:]
		if digits == "" {
			return new(big.Int), nil
		}
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("not a non-negative integer: %q", s)
	}
	return v, nil
}

// DecodeHexData decodes 0x-prefixed hex bytes. Empty input and "0x" decode to nil.
func DecodeHexData(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return nil, nil
	}
	return hexutil.Decode(s)
}
