package aggregator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootex/exchange-sdk-go/chain"
)

func cancelSelector() []byte {
	return chain.GetSeaportABI().Methods["cancel"].ID
}

func TestCancelPlanEmptyBatch(t *testing.T) {
	_, err := NewCancelPlanner(newFakeReader()).Plan(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrEmptyBatch))
}

func TestCancelPlanSkipsAlreadyCancelled(t *testing.T) {
	live := nativeListing(1, 1, 100)
	dead := nativeListing(2, 2, 200)

	reader := newFakeReader()
	reader.statuses[dead.Hash] = &chain.OrderStatus{
		IsCancelled: true,
		TotalFilled: big.NewInt(0),
		TotalSize:   big.NewInt(0),
	}

	calls, err := NewCancelPlanner(reader).Plan(context.Background(), []*LootexOrder{live, dead})
	require.NoError(t, err)
	require.Len(t, calls, 1)

	call := calls[0]
	assert.Equal(t, testExchange, call.Tx.To)
	assert.Equal(t, cancelSelector(), call.Tx.Data[:4])
	assert.Equal(t, []common.Hash{live.Hash}, call.OrderHashes)
}

func TestCancelPlanAllAlreadyCancelled(t *testing.T) {
	order := nativeListing(1, 1, 100)
	reader := newFakeReader()
	reader.statuses[order.Hash] = &chain.OrderStatus{
		IsCancelled: true,
		TotalFilled: big.NewInt(0),
		TotalSize:   big.NewInt(0),
	}

	calls, err := NewCancelPlanner(reader).Plan(context.Background(), []*LootexOrder{order})
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestCancelPlanGroupsByExchange(t *testing.T) {
	otherExchange := common.HexToAddress("0x0000000000000000000000000000000000000e2e")
	a := nativeListing(1, 1, 100)
	b := nativeListing(2, 2, 200)
	c := nativeListing(3, 3, 300)
	b.Exchange = otherExchange

	calls, err := NewCancelPlanner(newFakeReader()).Plan(context.Background(), []*LootexOrder{a, b, c})
	require.NoError(t, err)
	require.Len(t, calls, 2)

	// First-seen exchange ordering is preserved.
	assert.Equal(t, testExchange, calls[0].Tx.To)
	assert.Equal(t, []common.Hash{a.Hash, c.Hash}, calls[0].OrderHashes)
	assert.Equal(t, otherExchange, calls[1].Tx.To)
	assert.Equal(t, []common.Hash{b.Hash}, calls[1].OrderHashes)
}

func TestCancelPlanStatusReadFailure(t *testing.T) {
	reader := newFakeReader()
	reader.failWith = errors.New("rpc unavailable")

	_, err := NewCancelPlanner(reader).Plan(context.Background(), []*LootexOrder{nativeListing(1, 1, 100)})
	assert.ErrorContains(t, err, "rpc unavailable")
}
