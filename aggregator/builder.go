package aggregator

import (
	"encoding/binary"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lootex/exchange-sdk-go/chain"
	"github.com/lootex/exchange-sdk-go/seaport"
)

// Marketplace ids route order bytes to the matching decoder inside the
// aggregator contract. The values are part of the wire format.
const (
	MarketplaceIDSeaport = 1
)

// Composer serializes one marketplace's orders into the byte segment the
// aggregator contract forwards to that marketplace's decoder.
type Composer func(orders []*LootexOrder, marketplaceID int, account, aggregator common.Address) ([]byte, error)

// Builder compiles a mixed batch of orders into one aggregator call.
type Builder struct {
	aggregators map[int64]common.Address
	composers   map[int]Composer
}

// NewBuilder creates a Builder with the given per-chain aggregator
// deployments and the built-in composers registered.
func NewBuilder(aggregators map[int64]common.Address) *Builder {
	b := &Builder{
		aggregators: aggregators,
		composers:   make(map[int]Composer),
	}
	b.RegisterComposer(MarketplaceIDSeaport, SeaportComposer)
	return b
}

// RegisterComposer installs (or replaces) the composer for a marketplace
// id.
func (b *Builder) RegisterComposer(marketplaceID int, composer Composer) {
	b.composers[marketplaceID] = composer
}

// BuildFulfillment turns a validated batch of orders into one unsigned
// aggregator transaction. Orders may originate from different
// marketplaces but must share a chain. The caller is expected to have
// excluded invalid orders first.
func (b *Builder) BuildFulfillment(orders []*LootexOrder, account common.Address) (*TransactionRequest, error) {
	if len(orders) == 0 {
		return nil, ErrEmptyBatch
	}

	chainID := orders[0].ChainID
	for _, order := range orders[1:] {
		if order.ChainID != chainID {
			return nil, ErrMixedChains
		}
	}

	aggregatorAddr, ok := b.aggregators[chainID]
	if !ok {
		return nil, &UnsupportedChainError{ChainID: chainID}
	}

	// Reject unknown marketplaces before any composition work.
	for _, order := range orders {
		if _, ok := b.composers[order.MarketplaceID]; !ok {
			return nil, &UnsupportedMarketplaceError{MarketplaceID: order.MarketplaceID}
		}
	}

	payload, err := b.composePayload(orders, account, aggregatorAddr)
	if err != nil {
		return nil, err
	}

	flows, err := summarizeFlows(orders)
	if err != nil {
		return nil, err
	}

	var data []byte
	value := new(big.Int)
	switch {
	case flows.acceptOffer:
		data, err = chain.EncodeAcceptOffer(flows.acceptItemType, payload)
	case flows.erc20Currency != (common.Address{}):
		// Any native legs in the batch still ride along as call value.
		data, err = chain.EncodeBatchBuyWithERC20(flows.erc20Currency, flows.erc20Amount, payload)
		value = flows.nativeAmount
	default:
		data, err = chain.EncodeBatchBuyWithETH(payload)
		value = flows.nativeAmount
	}
	if err != nil {
		return nil, err
	}

	return &TransactionRequest{
		To:    aggregatorAddr,
		Data:  data,
		Value: value,
	}, nil
}

// composePayload partitions orders by marketplace id (stable, insertion
// order preserved within each group), sorts the groups ascending and
// concatenates the per-marketplace segments. The group ordering is how
// the contract demultiplexes the payload, not a cosmetic choice.
func (b *Builder) composePayload(orders []*LootexOrder, account, aggregatorAddr common.Address) ([]byte, error) {
	groups := make(map[int][]*LootexOrder)
	ids := make([]int, 0, len(b.composers))
	for _, order := range orders {
		if _, seen := groups[order.MarketplaceID]; !seen {
			ids = append(ids, order.MarketplaceID)
		}
		groups[order.MarketplaceID] = append(groups[order.MarketplaceID], order)
	}
	sort.Ints(ids)

	var payload []byte
	for _, id := range ids {
		segment, err := b.composers[id](groups[id], id, account, aggregatorAddr)
		if err != nil {
			return nil, err
		}
		payload = append(payload, segment...)
	}
	return payload, nil
}

// flowSummary nets out what the fulfiller moves across the whole batch.
type flowSummary struct {
	acceptOffer    bool
	acceptItemType seaport.ItemType
	erc20Currency  common.Address
	erc20Amount    *big.Int
	nativeAmount   *big.Int
}

// summarizeFlows totals the fungible payments the fulfiller owes across
// the batch and detects offer acceptance. Partial fills scale each
// payment by the order's fill fraction.
func summarizeFlows(orders []*LootexOrder) (*flowSummary, error) {
	flows := &flowSummary{
		erc20Amount:  new(big.Int),
		nativeAmount: new(big.Int),
	}

	for _, order := range orders {
		if order.IsAcceptOffer() {
			if !flows.acceptOffer {
				flows.acceptOffer = true
				// Mixed 721/1155 acceptance is resolved by the first
				// accept-offer order's token standard.
				if itemType, ok := order.TokenItemType(); ok {
					flows.acceptItemType = itemType
				}
			}
			continue
		}

		fraction, err := order.FillFraction()
		if err != nil {
			return nil, err
		}

		for _, item := range order.Order.Components.Consideration {
			if !item.ItemType.IsFungible() {
				continue
			}
			amount := scaleAmount(item.StartAmount, fraction)
			if item.ItemType == seaport.ItemTypeNative {
				flows.nativeAmount.Add(flows.nativeAmount, amount)
				continue
			}
			if flows.erc20Currency == (common.Address{}) {
				flows.erc20Currency = item.Token
			} else if flows.erc20Currency != item.Token {
				return nil, ErrMixedCurrencies
			}
			flows.erc20Amount.Add(flows.erc20Amount, amount)
		}
	}
	return flows, nil
}

// scaleAmount applies a fill fraction to a consideration amount. The
// multiplication happens before the division so well-formed orders divide
// exactly.
func scaleAmount(amount *big.Int, fraction seaport.Fraction) *big.Int {
	scaled := new(big.Int).Mul(amount, fraction.Numerator)
	return scaled.Quo(scaled, fraction.Denominator)
}

// SeaportComposer is the built-in composer for native exchange orders.
// Each segment is framed as marketplace id (2 bytes), payload length
// (4 bytes), then the ABI-encoded advanced orders.
func SeaportComposer(orders []*LootexOrder, marketplaceID int, account, aggregator common.Address) ([]byte, error) {
	signed := make([]seaport.SignedOrder, len(orders))
	fractions := make([]seaport.Fraction, len(orders))
	for i, order := range orders {
		fraction, err := order.FillFraction()
		if err != nil {
			return nil, err
		}
		signed[i] = order.Order
		fractions[i] = fraction
	}

	encoded, err := chain.EncodeAdvancedOrders(signed, fractions)
	if err != nil {
		return nil, err
	}

	segment := make([]byte, 6, 6+len(encoded))
	binary.BigEndian.PutUint16(segment[0:2], uint16(marketplaceID))
	binary.BigEndian.PutUint32(segment[2:6], uint32(len(encoded)))
	return append(segment, encoded...), nil
}
