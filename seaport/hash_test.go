package seaport

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedOrderComponents(t *testing.T) *OrderComponents {
	t.Helper()

	start := time.Unix(1700000000, 0)
	components, err := newTestFormatter().BuildOrder(BuildOrderInput{
		Offerer:    testSeller,
		Token:      testCollection,
		Identifier: big.NewInt(1),
		TokenType:  TokenTypeERC721,
		Kind:       TradeKindListing,
		Currency:   testNative,
		UnitPrice:  big.NewInt(1000),
		Quantity:   big.NewInt(1),
		StartTime:  start,
		Duration:   time.Hour,
		Counter:    big.NewInt(0),
		Salt:       big.NewInt(12345),
	})
	require.NoError(t, err)
	return components
}

func TestOrderHashDeterministic(t *testing.T) {
	domain := NewDomain(big.NewInt(1), common.HexToAddress("0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC"))

	a := fixedOrderComponents(t)
	b := fixedOrderComponents(t)

	assert.Equal(t, a.Hash(domain), b.Hash(domain))
	assert.Equal(t, a.StructHash(), b.StructHash())
}

func TestOrderHashSensitivity(t *testing.T) {
	domain := NewDomain(big.NewInt(1), common.HexToAddress("0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC"))
	base := fixedOrderComponents(t).Hash(domain)

	salted := fixedOrderComponents(t)
	salted.Salt = big.NewInt(54321)
	assert.NotEqual(t, base, salted.Hash(domain))

	counted := fixedOrderComponents(t)
	counted.Counter = big.NewInt(1)
	assert.NotEqual(t, base, counted.Hash(domain))

	// Consideration order feeds the digest.
	shuffled := fixedOrderComponents(t)
	require.GreaterOrEqual(t, len(shuffled.Consideration), 1)
	shuffled.Consideration = append(shuffled.Consideration, ConsiderationItem{
		ItemType:             ItemTypeNative,
		IdentifierOrCriteria: big.NewInt(0),
		StartAmount:          big.NewInt(1),
		EndAmount:            big.NewInt(1),
		Recipient:            testFeeRecipient,
	})
	assert.NotEqual(t, base, shuffled.Hash(domain))
}

func TestOrderHashDomainBinding(t *testing.T) {
	components := fixedOrderComponents(t)
	exchange := common.HexToAddress("0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC")

	mainnet := NewDomain(big.NewInt(1), exchange)
	polygon := NewDomain(big.NewInt(137), exchange)
	assert.NotEqual(t, components.Hash(mainnet), components.Hash(polygon))

	other := NewDomain(big.NewInt(1), common.HexToAddress("0x0000000000000000000000000000000000000bad"))
	assert.NotEqual(t, components.Hash(mainnet), components.Hash(other))
}

func TestNilCounterHashesAsZero(t *testing.T) {
	domain := NewDomain(big.NewInt(1), common.HexToAddress("0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC"))

	zeroed := fixedOrderComponents(t)
	zeroed.Counter = big.NewInt(0)

	nilled := fixedOrderComponents(t)
	nilled.Counter = nil

	assert.Equal(t, zeroed.Hash(domain), nilled.Hash(domain))
}

func TestDomainSeparatorStable(t *testing.T) {
	domain := NewDomain(big.NewInt(137), common.HexToAddress("0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC"))
	assert.Equal(t, domain.Separator(), domain.Separator())
	assert.NotEqual(t, common.Hash{}, domain.Separator())
}
