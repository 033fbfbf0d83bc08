package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ItemType mirrors the exchange contract's item type enumeration. The
// numeric values are part of the on-chain encoding and must not change.
type ItemType uint8

const (
	ItemTypeNative ItemType = iota
	ItemTypeERC20
	ItemTypeERC721
	ItemTypeERC1155
	ItemTypeERC721WithCriteria
	ItemTypeERC1155WithCriteria
)

// IsCriteria reports whether the item matches any token id under a
// Merkle-rooted criteria set instead of one fixed id.
func (t ItemType) IsCriteria() bool {
	return t == ItemTypeERC721WithCriteria || t == ItemTypeERC1155WithCriteria
}

// IsFungible reports whether the item is a payment-style asset.
func (t ItemType) IsFungible() bool {
	return t == ItemTypeNative || t == ItemTypeERC20
}

// OrderType is the exchange contract's order type enumeration.
type OrderType uint8

const (
	OrderTypeFullOpen OrderType = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
)

// TokenType identifies the asset standard of the traded token.
type TokenType int

const (
	TokenTypeERC721 TokenType = iota + 1
	TokenTypeERC1155
)

// TradeKind is the high-level intent behind an order.
type TradeKind int

const (
	TradeKindListing TradeKind = iota + 1
	TradeKindOffer
	TradeKindCollectionOffer
)

// OfferItem is an asset the offerer gives up.
type OfferItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

// ConsiderationItem is an asset the offerer demands in return. For fee
// splits the recipient is the fee collector rather than the offerer.
type ConsiderationItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

// OrderParameters is the exchange order body minus the offerer counter.
type OrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []OfferItem
	Consideration                   []ConsiderationItem
	OrderType                       OrderType
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        common.Hash
	Salt                            *big.Int
	ConduitKey                      common.Hash
	TotalOriginalConsiderationItems *big.Int
}

// OrderComponents is the signed form of an order: parameters plus the
// offerer's counter at signing time.
type OrderComponents struct {
	OrderParameters
	Counter *big.Int
}

// SignedOrder pairs order components with their externally produced
// signature. Both are immutable once created; re-serializing them must
// yield byte-identical hashes or the signature is invalidated.
type SignedOrder struct {
	Components OrderComponents
	Signature  []byte
}
