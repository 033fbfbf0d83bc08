package seaport

import (
	"fmt"
	"math/big"
	"math/rand"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// FeeEntry is one fee split applied to an order's total price. The
// percentage is expressed in whole percent, so 2.5 means 2.5%.
type FeeEntry struct {
	Recipient  common.Address
	Percentage decimal.Decimal
}

// FormatterConfig carries the deployment-specific values the formatter
// embeds into orders. Hoisted into configuration so cross-chain
// deployments can vary them without code changes.
type FormatterConfig struct {
	// NativeCurrency is the sentinel address representing the chain's
	// native currency in payment items.
	NativeCurrency common.Address
	Zone           common.Address
	ZoneHash       common.Hash
	ConduitKey     common.Hash
}

// Formatter converts high-level trade intents into exchange-compliant
// offer/consideration arrays.
type Formatter struct {
	cfg FormatterConfig
}

// NewFormatter creates a Formatter for one deployment configuration.
func NewFormatter(cfg FormatterConfig) *Formatter {
	return &Formatter{cfg: cfg}
}

// BuildOrderInput is a trade intent: what to trade, for how much, for how
// long, and who collects fees.
type BuildOrderInput struct {
	Offerer    common.Address
	Token      common.Address
	Identifier *big.Int
	TokenType  TokenType
	Kind       TradeKind

	// Currency is the payment token address; the configured native
	// currency sentinel selects a native payment.
	Currency  common.Address
	UnitPrice *big.Int
	Quantity  *big.Int

	StartTime time.Time
	Duration  time.Duration
	Fees      []FeeEntry

	// Counter is the offerer's current exchange counter, read from chain.
	Counter *big.Int

	// Salt overrides the generated salt when non-nil. Used by tests and
	// by callers re-deriving a previously built order.
	Salt *big.Int
}

// BuildOrder produces signable order components for the given intent.
// All amount math is exact integer arithmetic; fee amounts are
// floor(totalPrice * percentage / 100) and the remainder goes to the
// offerer (listings) or stays with the payment (offers).
func (f *Formatter) BuildOrder(input BuildOrderInput) (*OrderComponents, error) {
	if input.UnitPrice == nil || input.UnitPrice.Sign() <= 0 {
		return nil, &InvalidOrderError{Message: "unit price must be positive"}
	}
	if input.Quantity == nil || input.Quantity.Sign() <= 0 {
		return nil, &InvalidOrderError{Message: "quantity must be positive"}
	}

	nftType, err := f.nftItemType(input.TokenType, input.Kind)
	if err != nil {
		return nil, err
	}
	paymentType := ItemTypeERC20
	if input.Currency == f.cfg.NativeCurrency {
		paymentType = ItemTypeNative
	}

	totalPrice := new(big.Int).Mul(input.UnitPrice, input.Quantity)
	feeItems, feeTotal := feeConsiderations(totalPrice, paymentType, input.Currency, input.Fees)

	identifier := input.Identifier
	if identifier == nil || nftType.IsCriteria() {
		// Criteria offers carry the Merkle root (or zero for "whole
		// collection") in the criteria slot, never a token id.
		identifier = big.NewInt(0)
	}

	nftItem := func() (OfferItem, ConsiderationItem) {
		offer := OfferItem{
			ItemType:             nftType,
			Token:                input.Token,
			IdentifierOrCriteria: identifier,
			StartAmount:          input.Quantity,
			EndAmount:            input.Quantity,
		}
		consideration := ConsiderationItem{
			ItemType:             nftType,
			Token:                input.Token,
			IdentifierOrCriteria: identifier,
			StartAmount:          input.Quantity,
			EndAmount:            input.Quantity,
			Recipient:            input.Offerer,
		}
		return offer, consideration
	}

	var offer []OfferItem
	var consideration []ConsiderationItem

	switch input.Kind {
	case TradeKindListing:
		nftOffer, _ := nftItem()
		offer = []OfferItem{nftOffer}

		primary := new(big.Int).Sub(totalPrice, feeTotal)
		consideration = append(consideration, ConsiderationItem{
			ItemType:             paymentType,
			Token:                input.Currency,
			IdentifierOrCriteria: big.NewInt(0),
			StartAmount:          primary,
			EndAmount:            primary,
			Recipient:            input.Offerer,
		})
		consideration = append(consideration, feeItems...)

	case TradeKindOffer, TradeKindCollectionOffer:
		offer = []OfferItem{{
			ItemType:             paymentType,
			Token:                input.Currency,
			IdentifierOrCriteria: big.NewInt(0),
			StartAmount:          totalPrice,
			EndAmount:            totalPrice,
		}}

		_, nftConsideration := nftItem()
		consideration = append(consideration, nftConsideration)
		consideration = append(consideration, feeItems...)

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTradeKind, input.Kind)
	}

	SortFeeConsiderations(consideration)

	start := input.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	end := start.Add(input.Duration)

	salt := input.Salt
	if salt == nil {
		salt = generateSalt()
	}

	return &OrderComponents{
		OrderParameters: OrderParameters{
			Offerer:                         input.Offerer,
			Zone:                            f.cfg.Zone,
			Offer:                           offer,
			Consideration:                   consideration,
			OrderType:                       OrderTypePartialOpen,
			StartTime:                       big.NewInt(start.Unix()),
			EndTime:                         big.NewInt(end.Unix()),
			ZoneHash:                        f.cfg.ZoneHash,
			Salt:                            salt,
			ConduitKey:                      f.cfg.ConduitKey,
			TotalOriginalConsiderationItems: big.NewInt(int64(len(consideration))),
		},
		Counter: input.Counter,
	}, nil
}

// nftItemType resolves the asset standard and trade kind to the item type
// used on both sides of the order. Unknown inputs fail fast rather than
// defaulting.
func (f *Formatter) nftItemType(tokenType TokenType, kind TradeKind) (ItemType, error) {
	criteria := kind == TradeKindCollectionOffer
	switch tokenType {
	case TokenTypeERC721:
		if criteria {
			return ItemTypeERC721WithCriteria, nil
		}
		return ItemTypeERC721, nil
	case TokenTypeERC1155:
		if criteria {
			return ItemTypeERC1155WithCriteria, nil
		}
		return ItemTypeERC1155, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownTokenType, tokenType)
	}
}

// feeConsiderations expands a fee schedule into consideration items and
// returns them with the summed fee amount.
func feeConsiderations(totalPrice *big.Int, paymentType ItemType, currency common.Address, fees []FeeEntry) ([]ConsiderationItem, *big.Int) {
	items := make([]ConsiderationItem, 0, len(fees))
	feeTotal := new(big.Int)
	total := decimal.NewFromBigInt(totalPrice, 0)

	for _, fee := range fees {
		amount := total.Mul(fee.Percentage.Shift(-2)).Floor().BigInt()
		feeTotal.Add(feeTotal, amount)
		items = append(items, ConsiderationItem{
			ItemType:             paymentType,
			Token:                currency,
			IdentifierOrCriteria: big.NewInt(0),
			StartAmount:          amount,
			EndAmount:            amount,
			Recipient:            fee.Recipient,
		})
	}
	return items, feeTotal
}

// SortFeeConsiderations orders the fee tail of a consideration list by
// item type (descending), amount (descending), then recipient
// (ascending). The first item is the primary recipient and stays in
// place. The ordering feeds the order hash, so it is part of on-chain
// validity; re-sorting a sorted list is a no-op.
func SortFeeConsiderations(consideration []ConsiderationItem) {
	if len(consideration) < 3 {
		return
	}
	tail := consideration[1:]
	sort.SliceStable(tail, func(i, j int) bool {
		if tail[i].ItemType != tail[j].ItemType {
			return tail[i].ItemType > tail[j].ItemType
		}
		if c := tail[i].StartAmount.Cmp(tail[j].StartAmount); c != 0 {
			return c > 0
		}
		return tail[i].Recipient.Cmp(tail[j].Recipient) < 0
	})
}

func generateSalt() *big.Int {
	return new(big.Int).SetInt64(rand.Int63())
}
