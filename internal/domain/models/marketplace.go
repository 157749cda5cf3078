package models

// OrderData references an existing order to fill
type OrderData struct {
	OrderID  string `json:"orderId"`
	Quantity string `json:"quantity"`
}

// AdditionalFee is an extra fee paid to a recipient when filling orders
type AdditionalFee struct {
	Amount   string `json:"amount"`
	Receiver string `json:"receiver"`
}

// WalletKind tells the marketplace API what kind of wallet will sign
type WalletKind string

const (
	WalletKindUnknown  WalletKind = "unknown"
	WalletKindSequence WalletKind = "sequence"
)

// GenerateBuyTransactionRequest asks for the steps to fill sell orders
type GenerateBuyTransactionRequest struct {
	CollectionAddress string          `json:"collectionAddress"`
	Buyer             string          `json:"buyer"`
	Marketplace       MarketplaceKind `json:"marketplace"`
	OrdersData        []OrderData     `json:"ordersData"`
	AdditionalFees    []AdditionalFee `json:"additionalFees"`
	WalletType        WalletKind      `json:"walletType,omitempty"`
}

// GenerateSellTransactionRequest asks for the steps to accept offers
type GenerateSellTransactionRequest struct {
	CollectionAddress string          `json:"collectionAddress"`
	Seller            string          `json:"seller"`
	Marketplace       MarketplaceKind `json:"marketplace"`
	OrdersData        []OrderData     `json:"ordersData"`
	AdditionalFees    []AdditionalFee `json:"additionalFees"`
	WalletType        WalletKind      `json:"walletType,omitempty"`
}

// GenerateListingTransactionRequest asks for the steps to create a listing
type GenerateListingTransactionRequest struct {
	CollectionAddress string         `json:"collectionAddress"`
	Owner             string         `json:"owner"`
	ContractType      ContractType   `json:"contractType"`
	Orderbook         OrderbookKind  `json:"orderbook"`
	Listing           *CreateRequest `json:"listing"`
	WalletType        WalletKind     `json:"walletType,omitempty"`
}

// GenerateOfferTransactionRequest asks for the steps to create an offer
type GenerateOfferTransactionRequest struct {
	CollectionAddress string         `json:"collectionAddress"`
	Maker             string         `json:"maker"`
	ContractType      ContractType   `json:"contractType"`
	Orderbook         OrderbookKind  `json:"orderbook"`
	Offer             *CreateRequest `json:"offer"`
	WalletType        WalletKind     `json:"walletType,omitempty"`
}

// GenerateCancelTransactionRequest asks for the steps to cancel an order
type GenerateCancelTransactionRequest struct {
	CollectionAddress string          `json:"collectionAddress"`
	Maker             string          `json:"maker"`
	Marketplace       MarketplaceKind `json:"marketplace"`
	OrderID           string          `json:"orderId"`
}

// GenerateTransactionResponse is the ordered step list for a flow
type GenerateTransactionResponse struct {
	Steps []Step `json:"steps"`
}

// ExecuteRequest finalizes a signed off-chain order
type ExecuteRequest struct {
	Signature   string       `json:"signature"`
	ExecuteType ExecuteType  `json:"executeType"`
	Body        *PostRequest `json:"body"`
}

// ExecuteResponse is the marketplace's answer to an ExecuteRequest
type ExecuteResponse struct {
	OrderID string `json:"orderId"`
}
