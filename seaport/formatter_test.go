package seaport

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNative       = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
	testSeller       = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testBuyer        = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testCollection   = common.HexToAddress("0x7217217217217217217217217217217217217217")
	testFeeRecipient = common.HexToAddress("0xFee0000000000000000000000000000000000001")
	testERC20        = common.HexToAddress("0x20e0000000000000000000000000000000000002")
)

func newTestFormatter() *Formatter {
	return NewFormatter(FormatterConfig{NativeCurrency: testNative})
}

func TestBuildOrderListingWithSingleFee(t *testing.T) {
	// Listing one ERC-721 at 1.0 native (18 decimals) with a 1% fee.
	price, _ := new(big.Int).SetString("1000000000000000000", 10)

	components, err := newTestFormatter().BuildOrder(BuildOrderInput{
		Offerer:    testSeller,
		Token:      testCollection,
		Identifier: big.NewInt(1),
		TokenType:  TokenTypeERC721,
		Kind:       TradeKindListing,
		Currency:   testNative,
		UnitPrice:  price,
		Quantity:   big.NewInt(1),
		Duration:   24 * time.Hour,
		Fees: []FeeEntry{
			{Recipient: testFeeRecipient, Percentage: decimal.NewFromInt(1)},
		},
		Counter: big.NewInt(0),
	})
	require.NoError(t, err)

	require.Len(t, components.Offer, 1)
	assert.Equal(t, ItemTypeERC721, components.Offer[0].ItemType)
	assert.Equal(t, testCollection, components.Offer[0].Token)
	assert.Equal(t, int64(1), components.Offer[0].IdentifierOrCriteria.Int64())
	assert.Equal(t, int64(1), components.Offer[0].StartAmount.Int64())

	require.Len(t, components.Consideration, 2)

	primary := components.Consideration[0]
	assert.Equal(t, ItemTypeNative, primary.ItemType)
	assert.Equal(t, testSeller, primary.Recipient)
	assert.Equal(t, "990000000000000000", primary.StartAmount.String())

	fee := components.Consideration[1]
	assert.Equal(t, testFeeRecipient, fee.Recipient)
	assert.Equal(t, "10000000000000000", fee.StartAmount.String())

	assert.Equal(t, OrderTypePartialOpen, components.OrderType)
	assert.Equal(t, int64(2), components.TotalOriginalConsiderationItems.Int64())
	assert.Equal(t, int64(24*3600), new(big.Int).Sub(components.EndTime, components.StartTime).Int64())
}

func TestBuildOrderFeeSumPlusPrimaryEqualsTotal(t *testing.T) {
	// Fee math must be exact: floor each fee, remainder to the seller.
	price, _ := new(big.Int).SetString("333333333333333333", 10)
	pct, _ := decimal.NewFromString("2.5")

	components, err := newTestFormatter().BuildOrder(BuildOrderInput{
		Offerer:    testSeller,
		Token:      testCollection,
		Identifier: big.NewInt(9),
		TokenType:  TokenTypeERC1155,
		Kind:       TradeKindListing,
		Currency:   testERC20,
		UnitPrice:  price,
		Quantity:   big.NewInt(3),
		Duration:   time.Hour,
		Fees: []FeeEntry{
			{Recipient: testFeeRecipient, Percentage: pct},
			{Recipient: testBuyer, Percentage: decimal.NewFromInt(1)},
		},
		Counter: big.NewInt(4),
	})
	require.NoError(t, err)

	total := new(big.Int).Mul(price, big.NewInt(3))
	sum := new(big.Int)
	for _, item := range components.Consideration {
		assert.Equal(t, ItemTypeERC20, item.ItemType)
		assert.Equal(t, testERC20, item.Token)
		sum.Add(sum, item.StartAmount)
	}
	assert.Zero(t, sum.Cmp(total))
	assert.Equal(t, testSeller, components.Consideration[0].Recipient)
}

func TestBuildOrderOffer(t *testing.T) {
	components, err := newTestFormatter().BuildOrder(BuildOrderInput{
		Offerer:    testBuyer,
		Token:      testCollection,
		Identifier: big.NewInt(42),
		TokenType:  TokenTypeERC721,
		Kind:       TradeKindOffer,
		Currency:   testERC20,
		UnitPrice:  big.NewInt(500),
		Quantity:   big.NewInt(1),
		Duration:   time.Hour,
		Counter:    big.NewInt(0),
	})
	require.NoError(t, err)

	require.Len(t, components.Offer, 1)
	assert.Equal(t, ItemTypeERC20, components.Offer[0].ItemType)
	assert.Equal(t, int64(500), components.Offer[0].StartAmount.Int64())

	require.Len(t, components.Consideration, 1)
	nft := components.Consideration[0]
	assert.Equal(t, ItemTypeERC721, nft.ItemType)
	assert.Equal(t, int64(42), nft.IdentifierOrCriteria.Int64())
	assert.Equal(t, testBuyer, nft.Recipient)
}

func TestBuildOrderCollectionOfferUsesCriteria(t *testing.T) {
	components, err := newTestFormatter().BuildOrder(BuildOrderInput{
		Offerer:    testBuyer,
		Token:      testCollection,
		Identifier: big.NewInt(42), // ignored for collection offers
		TokenType:  TokenTypeERC1155,
		Kind:       TradeKindCollectionOffer,
		Currency:   testERC20,
		UnitPrice:  big.NewInt(100),
		Quantity:   big.NewInt(5),
		Duration:   time.Hour,
		Counter:    big.NewInt(0),
	})
	require.NoError(t, err)

	nft := components.Consideration[0]
	assert.Equal(t, ItemTypeERC1155WithCriteria, nft.ItemType)
	assert.Zero(t, nft.IdentifierOrCriteria.Sign())
	assert.Equal(t, int64(5), nft.StartAmount.Int64())
}

func TestBuildOrderRejectsUnknownInputs(t *testing.T) {
	base := BuildOrderInput{
		Offerer:    testSeller,
		Token:      testCollection,
		Identifier: big.NewInt(1),
		TokenType:  TokenTypeERC721,
		Kind:       TradeKindListing,
		Currency:   testNative,
		UnitPrice:  big.NewInt(1),
		Quantity:   big.NewInt(1),
		Duration:   time.Hour,
	}

	bad := base
	bad.TokenType = TokenType(99)
	_, err := newTestFormatter().BuildOrder(bad)
	assert.True(t, errors.Is(err, ErrUnknownTokenType))

	bad = base
	bad.Kind = TradeKind(99)
	_, err = newTestFormatter().BuildOrder(bad)
	assert.True(t, errors.Is(err, ErrUnknownTradeKind))

	bad = base
	bad.UnitPrice = big.NewInt(0)
	_, err = newTestFormatter().BuildOrder(bad)
	var invalid *InvalidOrderError
	assert.True(t, errors.As(err, &invalid))

	bad = base
	bad.Quantity = nil
	_, err = newTestFormatter().BuildOrder(bad)
	assert.Error(t, err)
}

func TestSortFeeConsiderationsOrdering(t *testing.T) {
	a := common.HexToAddress("0x000000000000000000000000000000000000000a")
	b := common.HexToAddress("0x000000000000000000000000000000000000000b")

	consideration := []ConsiderationItem{
		{ItemType: ItemTypeNative, StartAmount: big.NewInt(900), Recipient: testSeller},
		{ItemType: ItemTypeNative, StartAmount: big.NewInt(10), Recipient: b},
		{ItemType: ItemTypeERC20, StartAmount: big.NewInt(5), Recipient: a},
		{ItemType: ItemTypeNative, StartAmount: big.NewInt(10), Recipient: a},
		{ItemType: ItemTypeNative, StartAmount: big.NewInt(50), Recipient: b},
	}

	SortFeeConsiderations(consideration)

	// Primary recipient stays first.
	assert.Equal(t, testSeller, consideration[0].Recipient)

	// Tail: item type descending, then amount descending, then recipient
	// ascending.
	assert.Equal(t, ItemTypeERC20, consideration[1].ItemType)
	assert.Equal(t, int64(50), consideration[2].StartAmount.Int64())
	assert.Equal(t, a, consideration[3].Recipient)
	assert.Equal(t, b, consideration[4].Recipient)

	// Sorting is idempotent.
	sorted := make([]ConsiderationItem, len(consideration))
	copy(sorted, consideration)
	SortFeeConsiderations(consideration)
	assert.Equal(t, sorted, consideration)
}
