package domain

import (
	"fmt"

	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// ValidateIntent checks that an intent carries the fields its type requires.
// It returns *UnsupportedIntentError for unknown types and *InvalidIntentError
// for the first missing or malformed field. Chain ids may be decimal or 0x hex.
func ValidateIntent(intent models.TransactionIntent) error {
	missing := func(field string) error {
		return &InvalidIntentError{Type: intent.Type, Field: field}
	}

	switch intent.Type {
	case models.IntentBuy, models.IntentSell, models.IntentCancel:
		if intent.OrderID == "" {
			return missing("orderId")
		}
	case models.IntentListing, models.IntentOffer:
		if intent.ContractType == "" {
			return missing("contractType")
		}
		if intent.Orderbook == "" {
			return missing("orderbook")
		}
		if intent.Type == models.IntentListing && intent.Listing == nil {
			return missing("listing")
		}
		if intent.Type == models.IntentOffer && intent.Offer == nil {
			return missing("offer")
		}
	default:
		return &UnsupportedIntentError{Type: intent.Type}
	}

	if intent.ChainID == "" {
		return missing("chainId")
	}
	if _, ok := intent.TargetChainID(); !ok {
		return &InvalidIntentError{Type: intent.Type, Field: "chainId", Reason: fmt.Sprintf("%q is not a decimal or hex chain id", intent.ChainID)}
	}
	if intent.CollectionAddress == "" {
		return missing("collectionAddress")
	}
	return nil
}
