package lootex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lootex/exchange-sdk-go/aggregator"
	"github.com/lootex/exchange-sdk-go/chain"
	"github.com/lootex/exchange-sdk-go/merkle"
	"github.com/lootex/exchange-sdk-go/seaport"
)

// Client is the main SDK client. It is stateless beyond its injected
// collaborators: every operation recomputes its result from current
// chain state.
type Client struct {
	orderBook       *OrderBookClient
	reader          chain.Reader
	readClient      *chain.ReadClient
	formatter       *seaport.Formatter
	builder         *aggregator.Builder
	validator       *aggregator.Validator
	cancelPlanner   *aggregator.CancelPlanner
	transferPlanner *aggregator.TransferPlanner
	chainID         ChainID
	contracts       ContractAddresses
	nativeCurrency  common.Address
	logger          zerolog.Logger
}

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	Host    string
	APIKey  string
	ChainID ChainID
	RPCURL  string

	// Contract address overrides; chain defaults apply when empty.
	ExchangeAddr     string
	ConduitAddr      string
	AggregatorAddr   string
	BulkTransferAddr string

	// Reader overrides the RPC-backed read client, mainly for tests.
	Reader chain.Reader

	// Zone and conduit key baked into formatted orders.
	Zone       string
	ConduitKey string

	Logger *zerolog.Logger
}

// NewClient creates a new Lootex exchange SDK client
func NewClient(config ClientConfig) (*Client, error) {
	isSupported := false
	for _, supportedID := range SupportedChainIDs {
		if config.ChainID == supportedID {
			isSupported = true
			break
		}
	}
	if !isSupported {
		return nil, &InvalidParamError{
			Message: fmt.Sprintf("chain_id must be one of %v", SupportedChainIDs),
		}
	}

	contracts := DefaultContractAddresses[config.ChainID]
	if config.ExchangeAddr != "" {
		contracts.Exchange = config.ExchangeAddr
	}
	if config.ConduitAddr != "" {
		contracts.Conduit = config.ConduitAddr
	}
	if config.AggregatorAddr != "" {
		contracts.Aggregator = config.AggregatorAddr
	}
	if config.BulkTransferAddr != "" {
		contracts.BulkTransfer = config.BulkTransferAddr
	}

	conduitKey := config.ConduitKey
	if conduitKey == "" {
		conduitKey = DefaultConduitKey
	}

	reader := config.Reader
	var readClient *chain.ReadClient
	if reader == nil {
		var err error
		readClient, err = chain.NewReadClient(config.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create read client: %w", err)
		}
		reader = readClient
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	nativeCurrency := common.HexToAddress(NativeCurrencyAddress)

	formatter := seaport.NewFormatter(seaport.FormatterConfig{
		NativeCurrency: nativeCurrency,
		Zone:           common.HexToAddress(config.Zone),
		ConduitKey:     common.HexToHash(conduitKey),
	})

	aggregators := map[int64]common.Address{
		int64(config.ChainID): common.HexToAddress(contracts.Aggregator),
	}
	bulkTransfers := map[int64]common.Address{
		int64(config.ChainID): common.HexToAddress(contracts.BulkTransfer),
	}

	return &Client{
		orderBook:       NewOrderBookClient(config.Host, config.APIKey, config.ChainID),
		reader:          reader,
		readClient:      readClient,
		formatter:       formatter,
		builder:         aggregator.NewBuilder(aggregators),
		validator:       aggregator.NewValidator(reader),
		cancelPlanner:   aggregator.NewCancelPlanner(reader),
		transferPlanner: aggregator.NewTransferPlanner(reader, bulkTransfers),
		chainID:         config.ChainID,
		contracts:       contracts,
		nativeCurrency:  nativeCurrency,
		logger:          logger,
	}, nil
}

// Close closes the client and cleans up resources
func (c *Client) Close() {
	if c.readClient != nil {
		c.readClient.Close()
	}
}

// OrderBook exposes the order book API client.
func (c *Client) OrderBook() *OrderBookClient {
	return c.orderBook
}

// CreateOrderParams is the trade intent accepted by CreateOrder. Amounts
// are human-readable decimals; the client scales them exactly.
type CreateOrderParams struct {
	Offerer    string
	Token      string
	TokenID    string
	TokenType  seaport.TokenType
	Kind       seaport.TradeKind
	Currency   string
	Decimals   int32
	UnitPrice  string
	Quantity   int64
	Duration   time.Duration
	Fees       []seaport.FeeEntry
}

// CreateOrderResult carries signable order components together with the
// digest the offerer must sign.
type CreateOrderResult struct {
	Components *seaport.OrderComponents
	Hash       common.Hash
	Exchange   common.Address
}

// CreateOrder formats a trade intent into exchange-compliant order
// components, stamped with the offerer's current counter, and returns
// the EIP712 digest to sign. Signing happens outside the SDK.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*CreateOrderResult, error) {
	if params.Quantity <= 0 {
		return nil, &InvalidParamError{Message: "quantity must be a positive integer"}
	}

	unitPrice, err := ParseAmount(params.UnitPrice, params.Decimals)
	if err != nil {
		return nil, err
	}

	var tokenID *big.Int
	if params.TokenID != "" {
		tokenID, err = parseBig(params.TokenID, "tokenId")
		if err != nil {
			return nil, err
		}
	}

	exchange := common.HexToAddress(c.contracts.Exchange)
	offerer := common.HexToAddress(params.Offerer)

	counter, err := c.reader.Counter(ctx, exchange, offerer)
	if err != nil {
		return nil, fmt.Errorf("failed to read offerer counter: %w", err)
	}

	currency := c.nativeCurrency
	if params.Currency != "" {
		currency = common.HexToAddress(params.Currency)
	}

	components, err := c.formatter.BuildOrder(seaport.BuildOrderInput{
		Offerer:    offerer,
		Token:      common.HexToAddress(params.Token),
		Identifier: tokenID,
		TokenType:  params.TokenType,
		Kind:       params.Kind,
		Currency:   currency,
		UnitPrice:  unitPrice,
		Quantity:   big.NewInt(params.Quantity),
		Duration:   params.Duration,
		Fees:       params.Fees,
		Counter:    counter,
	})
	if err != nil {
		return nil, err
	}

	domain := seaport.NewDomain(big.NewInt(int64(c.chainID)), exchange)
	hash := components.Hash(domain)

	c.logger.Debug().
		Str("order_hash", hash.Hex()).
		Str("offerer", offerer.Hex()).
		Int("kind", int(params.Kind)).
		Msg("order formatted")

	return &CreateOrderResult{
		Components: components,
		Hash:       hash,
		Exchange:   exchange,
	}, nil
}

// SubmitSignedOrder wraps a signed order into an order book record and
// persists it.
func (c *Client) SubmitSignedOrder(components *seaport.OrderComponents, signature []byte, unitPrice decimal.Decimal) (*SubmitOrderResponse, error) {
	exchange := common.HexToAddress(c.contracts.Exchange)
	domain := seaport.NewDomain(big.NewInt(int64(c.chainID)), exchange)

	order := &aggregator.LootexOrder{
		Order: seaport.SignedOrder{
			Components: *components,
			Signature:  signature,
		},
		Hash:          components.Hash(domain),
		ChainID:       int64(c.chainID),
		Exchange:      exchange,
		Conduit:       common.HexToAddress(c.contracts.Conduit),
		MarketplaceID: aggregator.MarketplaceIDSeaport,
		UnitPrice:     unitPrice,
	}
	return c.orderBook.SubmitOrder(NewOrderRecord(order))
}

// ValidateOrders checks balance and approval backing for every order and
// returns a verdict per order in input order.
func (c *Client) ValidateOrders(ctx context.Context, orders []*aggregator.LootexOrder) ([]aggregator.Validity, error) {
	verdicts, _, err := c.validator.ValidateOrders(ctx, orders)
	return verdicts, err
}

// BuildFulfillment validates the batch, excludes orders that fail, and
// compiles the remainder into one aggregator transaction. The verdicts
// are always returned so callers can see exactly which orders were
// excluded; if nothing survives validation the build fails with
// ErrNoFillableOrders.
func (c *Client) BuildFulfillment(ctx context.Context, orders []*aggregator.LootexOrder, account common.Address) (*aggregator.TransactionRequest, []aggregator.Validity, error) {
	verdicts, _, err := c.validator.ValidateOrders(ctx, orders)
	if err != nil {
		return nil, nil, err
	}

	fillable := make([]*aggregator.LootexOrder, 0, len(orders))
	for i, verdict := range verdicts {
		if verdict.Valid {
			fillable = append(fillable, orders[i])
		} else {
			c.logger.Debug().
				Str("order_hash", verdict.OrderHash.Hex()).
				Msg("order excluded from fulfillment")
		}
	}
	if len(fillable) == 0 {
		return nil, verdicts, ErrNoFillableOrders
	}

	tx, err := c.builder.BuildFulfillment(fillable, account)
	if err != nil {
		return nil, verdicts, err
	}

	c.logger.Debug().
		Int("orders", len(fillable)).
		Int("excluded", len(orders)-len(fillable)).
		Str("to", tx.To.Hex()).
		Msg("fulfillment built")

	return tx, verdicts, nil
}

// PlanCancellation builds the cancel calls for a batch of orders,
// silently skipping any the chain already reports cancelled.
func (c *Client) PlanCancellation(ctx context.Context, orders []*aggregator.LootexOrder) ([]aggregator.CancelCall, error) {
	return c.cancelPlanner.Plan(ctx, orders)
}

// PlanBulkTransfer builds the approval and transfer calls moving assets
// from sender to recipient, in execution order.
func (c *Client) PlanBulkTransfer(ctx context.Context, sender, recipient common.Address, assets []aggregator.Asset) ([]aggregator.TransactionRequest, error) {
	return c.transferPlanner.Plan(ctx, int64(c.chainID), sender, recipient, assets)
}

// GenerateClaimTree builds the allow-list Merkle tree for a claim
// condition.
func (c *Client) GenerateClaimTree(entries []merkle.Entry) *merkle.Tree {
	return merkle.Generate(entries, c.nativeCurrency)
}

// VerifyClaim checks one allow-list entry against a claim tree root.
func (c *Client) VerifyClaim(entry merkle.Entry, proof []common.Hash, root common.Hash) bool {
	return merkle.Verify(entry, proof, root, c.nativeCurrency)
}
