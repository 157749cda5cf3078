package marketplace

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// DefaultAPIURL is the public marketplace orchestration API
const DefaultAPIURL = "https://marketplace-api.sequence.app"

// Config configures a Client
type Config struct {
	APIURL     string
	AccessKey  string
	ChainID    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the marketplace orchestration API of a single chain
type Client struct {
	endpoint   string
	accessKey  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client for cfg.ChainID
func NewClient(cfg Config) (*Client, error) {
	if cfg.ChainID == "" {
		return nil, fmt.Errorf("chain ID is required")
	}

	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		endpoint:   fmt.Sprintf("%s/%s/rpc/Marketplace", apiURL, cfg.ChainID),
		accessKey:  cfg.AccessKey,
		httpClient: httpClient,
		log:        log.With("component", "marketplace", "chain", cfg.ChainID),
	}, nil
}

// GenerateBuyTransaction returns the steps to fill sell orders
func (c *Client) GenerateBuyTransaction(ctx context.Context, req *models.GenerateBuyTransactionRequest) (*models.GenerateTransactionResponse, error) {
	var resp models.GenerateTransactionResponse
	if err := c.call(ctx, "GenerateBuyTransaction", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateSellTransaction returns the steps to accept offers
func (c *Client) GenerateSellTransaction(ctx context.Context, req *models.GenerateSellTransactionRequest) (*models.GenerateTransactionResponse, error) {
	var resp models.GenerateTransactionResponse
	if err := c.call(ctx, "GenerateSellTransaction", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateListingTransaction returns the steps to create a listing
func (c *Client) GenerateListingTransaction(ctx context.Context, req *models.GenerateListingTransactionRequest) (*models.GenerateTransactionResponse, error) {
	var resp models.GenerateTransactionResponse
	if err := c.call(ctx, "GenerateListingTransaction", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateOfferTransaction returns the steps to create an offer
func (c *Client) GenerateOfferTransaction(ctx context.Context, req *models.GenerateOfferTransactionRequest) (*models.GenerateTransactionResponse, error) {
	var resp models.GenerateTransactionResponse
	if err := c.call(ctx, "GenerateOfferTransaction", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateCancelTransaction returns the steps to cancel an order
func (c *Client) GenerateCancelTransaction(ctx context.Context, req *models.GenerateCancelTransactionRequest) (*models.GenerateTransactionResponse, error) {
	var resp models.GenerateTransactionResponse
	if err := c.call(ctx, "GenerateCancelTransaction", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Execute submits a signed off-chain order
func (c *Client) Execute(ctx context.Context, req *models.ExecuteRequest) (*models.ExecuteResponse, error) {
	var resp models.ExecuteResponse
	if err := c.call(ctx, "Execute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
