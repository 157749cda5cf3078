package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// IntentType is the high-level marketplace action a user wants to perform
type IntentType string

const (
	IntentBuy     IntentType = "BUY"
	IntentSell    IntentType = "SELL"
	IntentListing IntentType = "LISTING"
	IntentOffer   IntentType = "OFFER"
	IntentCancel  IntentType = "CANCEL"
)

// AllIntentTypes lists every supported intent in display order
var AllIntentTypes = []IntentType{IntentBuy, IntentSell, IntentListing, IntentOffer, IntentCancel}

// ParseIntentType parses a case-insensitive intent name
func ParseIntentType(s string) (IntentType, error) {
	t := IntentType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllIntentTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown intent type %q", s)
}

// MarketplaceKind identifies the order-book backend that owns an order
type MarketplaceKind string

const (
	MarketplaceUnknown    MarketplaceKind = "unknown"
	MarketplaceSequence   MarketplaceKind = "sequence_marketplace_v1"
	MarketplaceSequenceV2 MarketplaceKind = "sequence_marketplace_v2"
	MarketplaceOpenSea    MarketplaceKind = "opensea"
	MarketplaceMagicEden  MarketplaceKind = "magic_eden"
	MarketplaceMintify    MarketplaceKind = "mintify"
	MarketplaceLooksRare  MarketplaceKind = "looks_rare"
	MarketplaceX2Y2       MarketplaceKind = "x2y2"
	MarketplaceAlienSwap  MarketplaceKind = "alienswap"
)

// OrderbookKind identifies the order-book a new listing or offer is created in
type OrderbookKind string

const (
	OrderbookUnknown    OrderbookKind = "unknown"
	OrderbookSequence   OrderbookKind = "sequence_marketplace_v1"
	OrderbookSequenceV2 OrderbookKind = "sequence_marketplace_v2"
	OrderbookBlur       OrderbookKind = "blur"
	OrderbookOpenSea    OrderbookKind = "opensea"
	OrderbookLooksRare  OrderbookKind = "looks_rare"
	OrderbookReservoir  OrderbookKind = "reservoir"
	OrderbookX2Y2       OrderbookKind = "x2y2"
)

// ContractType is the token standard of a collection
type ContractType string

const (
	ContractTypeUnknown ContractType = "UNKNOWN"
	ContractTypeERC20   ContractType = "ERC20"
	ContractTypeERC721  ContractType = "ERC721"
	ContractTypeERC1155 ContractType = "ERC1155"
)

// DefaultQuantity is used for buy and sell orders that omit a quantity
const DefaultQuantity = "1"

// CreateRequest describes a listing or offer to create.
// PricePerToken is expressed in the currency's smallest unit.
type CreateRequest struct {
	TokenID         string `json:"tokenId" yaml:"tokenId"`
	Quantity        string `json:"quantity" yaml:"quantity"`
	Expiry          string `json:"expiry" yaml:"expiry"`
	CurrencyAddress string `json:"currencyAddress" yaml:"currencyAddress"`
	PricePerToken   string `json:"pricePerToken" yaml:"pricePerToken"`
}

// TransactionIntent is the immutable input of one transaction flow
type TransactionIntent struct {
	Type              IntentType      `json:"type" yaml:"type"`
	ChainID           string          `json:"chainId" yaml:"chainId"`
	CollectionAddress string          `json:"collectionAddress" yaml:"collectionAddress"`
	Marketplace       MarketplaceKind `json:"marketplace,omitempty" yaml:"marketplace,omitempty"`

	// Buy, sell and cancel
	OrderID  string `json:"orderId,omitempty" yaml:"orderId,omitempty"`
	Quantity string `json:"quantity,omitempty" yaml:"quantity,omitempty"`

	// Listing and offer
	ContractType ContractType   `json:"contractType,omitempty" yaml:"contractType,omitempty"`
	Orderbook    OrderbookKind  `json:"orderbook,omitempty" yaml:"orderbook,omitempty"`
	Listing      *CreateRequest `json:"listing,omitempty" yaml:"listing,omitempty"`
	Offer        *CreateRequest `json:"offer,omitempty" yaml:"offer,omitempty"`
}

// ParseChainID parses a decimal or 0x-prefixed hex chain id
func ParseChainID(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	return math.ParseUint64(s)
}

// FormatChainID renders a chain id in the decimal form networks and API paths use
func FormatChainID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// NativeCurrency returns the symbol of a chain's gas token, "native" when unknown
func NativeCurrency(chainID uint64) string {
	switch chainID {
	case 1, 10, 8453, 42161, 11155111, 84532, 421614:
		return "ETH"
	case 137, 80002:
		return "POL"
	case 56:
		return "BNB"
	case 43114:
		return "AVAX"
	case 1329:
		return "SEI"
	case 13371:
		return "IMX"
	default:
		return "native"
	}
}

// TargetChainID returns the numeric chain id of the intent
func (i TransactionIntent) TargetChainID() (uint64, bool) {
	return ParseChainID(i.ChainID)
}

// OrderQuantity returns the quantity of a buy or sell order, defaulting to one
func (i TransactionIntent) OrderQuantity() string {
	if i.Quantity == "" {
		return DefaultQuantity
	}
	return i.Quantity
}
