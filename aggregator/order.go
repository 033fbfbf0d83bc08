package aggregator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/lootex/exchange-sdk-go/seaport"
)

// TransactionRequest is an unsigned transaction descriptor. Signing and
// broadcast are the caller's responsibility.
type TransactionRequest struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// LootexOrder wraps a signed exchange order with the derived fields the
// aggregation engine routes on. Immutable once signed; validity verdicts
// are recomputed by the Validator rather than mutated in place.
type LootexOrder struct {
	Order seaport.SignedOrder

	Hash          common.Hash
	ChainID       int64
	Exchange      common.Address
	Conduit       common.Address
	MarketplaceID int
	UnitPrice     decimal.Decimal

	// UnitsToFill limits a fulfillment to part of the order's total
	// size; nil fills the whole order.
	UnitsToFill *big.Int
}

// IsAcceptOffer reports whether fulfilling this order means accepting
// someone's offer: the offerer gives up a fungible payment and the
// fulfiller supplies the token.
func (o *LootexOrder) IsAcceptOffer() bool {
	offer := o.Order.Components.Offer
	return len(offer) > 0 && offer[0].ItemType.IsFungible()
}

// TokenItemType returns the item type of the traded token: the first
// non-fungible item on either side of the order.
func (o *LootexOrder) TokenItemType() (seaport.ItemType, bool) {
	for _, item := range o.Order.Components.Offer {
		if !item.ItemType.IsFungible() {
			return item.ItemType, true
		}
	}
	for _, item := range o.Order.Components.Consideration {
		if !item.ItemType.IsFungible() {
			return item.ItemType, true
		}
	}
	return 0, false
}

// TotalSize is the order's offered token quantity, the denominator basis
// for partial fills.
func (o *LootexOrder) TotalSize() *big.Int {
	for _, item := range o.Order.Components.Offer {
		if !item.ItemType.IsFungible() {
			return item.StartAmount
		}
	}
	for _, item := range o.Order.Components.Consideration {
		if !item.ItemType.IsFungible() {
			return item.StartAmount
		}
	}
	return big.NewInt(1)
}

// FillFraction reduces the requested units against the order's total
// size.
func (o *LootexOrder) FillFraction() (seaport.Fraction, error) {
	return seaport.FillFraction(o.TotalSize(), o.UnitsToFill)
}
