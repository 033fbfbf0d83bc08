package aggregator

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootex/exchange-sdk-go/chain"
	"github.com/lootex/exchange-sdk-go/seaport"
)

func selector(method string) []byte {
	return chain.GetAggregatorABI().Methods[method].ID
}

func TestBuildFulfillmentEmptyBatch(t *testing.T) {
	_, err := newTestBuilder().BuildFulfillment(nil, testBuyer)
	assert.True(t, errors.Is(err, ErrEmptyBatch))
}

func TestBuildFulfillmentMixedChains(t *testing.T) {
	a := nativeListing(1, 1, 100)
	b := nativeListing(2, 2, 200)
	b.ChainID = 1

	_, err := newTestBuilder().BuildFulfillment([]*LootexOrder{a, b}, testBuyer)
	assert.True(t, errors.Is(err, ErrMixedChains))
}

func TestBuildFulfillmentUnsupportedChain(t *testing.T) {
	order := nativeListing(1, 1, 100)
	order.ChainID = 999

	_, err := newTestBuilder().BuildFulfillment([]*LootexOrder{order}, testBuyer)
	var unsupported *UnsupportedChainError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, int64(999), unsupported.ChainID)
}

func TestBuildFulfillmentUnsupportedMarketplace(t *testing.T) {
	order := nativeListing(1, 1, 100)
	order.MarketplaceID = 42

	_, err := newTestBuilder().BuildFulfillment([]*LootexOrder{order}, testBuyer)
	var unsupported *UnsupportedMarketplaceError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, 42, unsupported.MarketplaceID)
}

func TestBuildFulfillmentNativeBatch(t *testing.T) {
	orders := []*LootexOrder{
		nativeListing(1, 1, 100),
		nativeListing(2, 2, 250),
	}

	tx, err := newTestBuilder().BuildFulfillment(orders, testBuyer)
	require.NoError(t, err)

	assert.Equal(t, testAggregator, tx.To)
	assert.Equal(t, selector("batchBuyWithETH"), tx.Data[:4])
	assert.Equal(t, int64(350), tx.Value.Int64())
}

func TestBuildFulfillmentERC20Batch(t *testing.T) {
	orders := []*LootexOrder{
		erc20Listing(1, 1, 100, testWETH),
		erc20Listing(2, 2, 200, testWETH),
	}

	tx, err := newTestBuilder().BuildFulfillment(orders, testBuyer)
	require.NoError(t, err)

	assert.Equal(t, selector("batchBuyWithERC20"), tx.Data[:4])
	assert.Zero(t, tx.Value.Sign())
}

func TestBuildFulfillmentMixedCurrencyBatch(t *testing.T) {
	// A native leg alongside an ERC20 leg rides along as call value on the
	// ERC20 entry point.
	orders := []*LootexOrder{
		nativeListing(1, 1, 100),
		erc20Listing(2, 2, 200, testWETH),
	}

	tx, err := newTestBuilder().BuildFulfillment(orders, testBuyer)
	require.NoError(t, err)

	assert.Equal(t, selector("batchBuyWithERC20"), tx.Data[:4])
	assert.Equal(t, int64(100), tx.Value.Int64())
}

func TestBuildFulfillmentMixedERC20CurrenciesRejected(t *testing.T) {
	orders := []*LootexOrder{
		erc20Listing(1, 1, 100, testWETH),
		erc20Listing(2, 2, 200, common.HexToAddress("0xDa1000000000000000000000000000000000000d")),
	}

	_, err := newTestBuilder().BuildFulfillment(orders, testBuyer)
	assert.True(t, errors.Is(err, ErrMixedCurrencies))
}

func TestBuildFulfillmentAcceptOffer(t *testing.T) {
	tx, err := newTestBuilder().BuildFulfillment(
		[]*LootexOrder{tokenOffer(1, seaport.ItemTypeERC721, 500)}, testSeller)
	require.NoError(t, err)
	assert.Equal(t, selector("acceptOfferERC721"), tx.Data[:4])
	assert.Zero(t, tx.Value.Sign())

	tx, err = newTestBuilder().BuildFulfillment(
		[]*LootexOrder{tokenOffer(2, seaport.ItemTypeERC1155, 500)}, testSeller)
	require.NoError(t, err)
	assert.Equal(t, selector("acceptOfferERC1155"), tx.Data[:4])
}

func TestBuildFulfillmentGroupOrderDeterministic(t *testing.T) {
	// Permuting orders across marketplace groups must not change the
	// payload: groups are re-sorted by marketplace id before
	// concatenation.
	builder := newTestBuilder()
	builder.RegisterComposer(2, SeaportComposer)

	a := nativeListing(1, 1, 100)
	b := nativeListing(2, 2, 200)
	b.MarketplaceID = 2

	tx1, err := builder.BuildFulfillment([]*LootexOrder{a, b}, testBuyer)
	require.NoError(t, err)
	tx2, err := builder.BuildFulfillment([]*LootexOrder{b, a}, testBuyer)
	require.NoError(t, err)

	assert.Equal(t, tx1.Data, tx2.Data)
	assert.Zero(t, tx1.Value.Cmp(tx2.Value))
}

func TestSeaportComposerFraming(t *testing.T) {
	order := nativeListing(1, 1, 100)
	segment, err := SeaportComposer([]*LootexOrder{order}, MarketplaceIDSeaport, testBuyer, testAggregator)
	require.NoError(t, err)

	require.Greater(t, len(segment), 6)
	assert.Equal(t, []byte{0x00, 0x01}, segment[0:2])

	length := uint32(segment[2])<<24 | uint32(segment[3])<<16 | uint32(segment[4])<<8 | uint32(segment[5])
	assert.Equal(t, len(segment)-6, int(length))
}

func TestBuildFulfillmentPartialFillScalesValue(t *testing.T) {
	order := nativeListing(1, 1, 1000)
	order.Order.Components.Offer[0].ItemType = seaport.ItemTypeERC1155
	order.Order.Components.Offer[0].StartAmount = big.NewInt(1000)
	order.Order.Components.Offer[0].EndAmount = big.NewInt(1000)
	order.UnitsToFill = big.NewInt(250)

	tx, err := newTestBuilder().BuildFulfillment([]*LootexOrder{order}, testBuyer)
	require.NoError(t, err)
	assert.Equal(t, int64(250), tx.Value.Int64())
}
