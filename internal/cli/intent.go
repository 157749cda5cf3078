package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// intentFlags holds the flags shared by the order commands
type intentFlags struct {
	chain       string
	collection  string
	marketplace string
	dryRun      bool

	// buy, sell, cancel
	orderID  string
	quantity string

	// list, offer
	tokenID      string
	price        string
	decimals     int32
	currency     string
	expiry       time.Duration
	contractType string
	orderbook    string
}

// addCommonFlags registers the flags every order command takes
func addCommonFlags(cmd *cobra.Command, f *intentFlags) {
	cmd.Flags().StringVar(&f.chain, "chain", "", "Chain ID (defaults to the selected network)")
	cmd.Flags().StringVarP(&f.collection, "collection", "c", "", "Collection contract address")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show the steps without executing them")
	_ = cmd.MarkFlagRequired("collection")
}

// addOrderFlags registers flags for commands acting on an existing order
func addOrderFlags(cmd *cobra.Command, f *intentFlags, withQuantity bool) {
	addCommonFlags(cmd, f)
	cmd.Flags().StringVar(&f.orderID, "order-id", "", "Order ID")
	cmd.Flags().StringVar(&f.marketplace, "marketplace", string(models.MarketplaceSequenceV2), "Marketplace that owns the order")
	if withQuantity {
		cmd.Flags().StringVarP(&f.quantity, "quantity", "q", "", "Number of tokens (default 1)")
	}
	_ = cmd.MarkFlagRequired("order-id")
}

// addCreateFlags registers flags for commands creating a listing or offer
func addCreateFlags(cmd *cobra.Command, f *intentFlags) {
	addCommonFlags(cmd, f)
	cmd.Flags().StringVar(&f.tokenID, "token-id", "", "Token ID")
	cmd.Flags().StringVarP(&f.quantity, "quantity", "q", models.DefaultQuantity, "Number of tokens")
	cmd.Flags().StringVarP(&f.price, "price", "p", "", "Price per token in currency units (e.g. 1.5)")
	cmd.Flags().Int32Var(&f.decimals, "decimals", 18, "Decimals of the currency")
	cmd.Flags().StringVar(&f.currency, "currency", "", "Currency token address")
	cmd.Flags().DurationVar(&f.expiry, "expiry", 7*24*time.Hour, "How long the order stays valid")
	cmd.Flags().StringVar(&f.contractType, "contract-type", string(models.ContractTypeERC721), "Collection type (ERC721 or ERC1155)")
	cmd.Flags().StringVar(&f.orderbook, "orderbook", "", "Orderbook to publish to (default from config, else sequence_marketplace_v2)")
	_ = cmd.MarkFlagRequired("token-id")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("currency")
}

// buildIntent turns flags into a validated intent of type t
func buildIntent(t models.IntentType, f *intentFlags, cfg *config.RuntimeConfig, now time.Time) (models.TransactionIntent, error) {
	chainID := f.chain
	if chainID == "" {
		if cfg.Network == nil {
			return models.TransactionIntent{}, fmt.Errorf("no chain selected (use --chain or --network)")
		}
		chainID = cfg.Network.ChainIDString()
	}

	intent := models.TransactionIntent{
		Type:              t,
		ChainID:           chainID,
		CollectionAddress: f.collection,
	}

	switch t {
	case models.IntentBuy, models.IntentSell, models.IntentCancel:
		intent.OrderID = f.orderID
		intent.Quantity = f.quantity
		intent.Marketplace = models.MarketplaceKind(f.marketplace)

	case models.IntentListing, models.IntentOffer:
		contractType := models.ContractType(strings.ToUpper(f.contractType))
		if contractType != models.ContractTypeERC721 && contractType != models.ContractTypeERC1155 {
			return models.TransactionIntent{}, fmt.Errorf("unsupported contract type %q (use ERC721 or ERC1155)", f.contractType)
		}

		price, err := toRawUnits(f.price, f.decimals)
		if err != nil {
			return models.TransactionIntent{}, err
		}

		orderbook := f.orderbook
		if orderbook == "" {
			orderbook = cfg.Orderbook
		}
		if orderbook == "" {
			orderbook = string(models.OrderbookSequenceV2)
		}

		intent.ContractType = contractType
		intent.Orderbook = models.OrderbookKind(orderbook)
		request := &models.CreateRequest{
			TokenID:         f.tokenID,
			Quantity:        f.quantity,
			Expiry:          strconv.FormatInt(now.Add(f.expiry).Unix(), 10),
			CurrencyAddress: f.currency,
			PricePerToken:   price,
		}
		if t == models.IntentListing {
			intent.Listing = request
		} else {
			intent.Offer = request
		}
	}

	if err := domain.ValidateIntent(intent); err != nil {
		return models.TransactionIntent{}, err
	}
	return intent, nil
}

// toRawUnits converts a decimal amount to the integer amount in the currency's smallest unit
func toRawUnits(amount string, decimals int32) (string, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid price %q: %w", amount, err)
	}
	if value.Sign() <= 0 {
		return "", fmt.Errorf("price must be positive, got %s", amount)
	}

	raw := value.Shift(decimals)
	if !raw.Equal(raw.Truncate(0)) {
		return "", fmt.Errorf("price %s has more than %d decimal places", amount, decimals)
	}
	return raw.BigInt().String(), nil
}
