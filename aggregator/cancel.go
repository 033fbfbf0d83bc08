package aggregator

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/lootex/exchange-sdk-go/chain"
	"github.com/lootex/exchange-sdk-go/seaport"
)

// CancelCall is one cancel transaction plus the hashes it covers, for
// caller bookkeeping.
type CancelCall struct {
	Tx          TransactionRequest
	OrderHashes []common.Hash
}

// CancelPlanner turns a batch of orders into the minimal set of on-chain
// cancel calls.
type CancelPlanner struct {
	reader chain.Reader
}

// NewCancelPlanner creates a CancelPlanner over the given read client.
func NewCancelPlanner(reader chain.Reader) *CancelPlanner {
	return &CancelPlanner{reader: reader}
}

// Plan filters out orders the chain already reports cancelled (a silent
// no-op, not an error), groups the rest by exchange contract, and emits
// one cancel call per contract. A batch cannot span contracts in one
// call.
func (p *CancelPlanner) Plan(ctx context.Context, orders []*LootexOrder) ([]CancelCall, error) {
	if len(orders) == 0 {
		return nil, ErrEmptyBatch
	}

	cancelled := make([]bool, len(orders))
	g, gctx := errgroup.WithContext(ctx)
	for i, order := range orders {
		i, order := i, order
		g.Go(func() error {
			status, err := p.reader.OrderStatus(gctx, order.Exchange, order.Hash)
			if err != nil {
				return err
			}
			cancelled[i] = status.IsCancelled
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stable grouping by exchange address, first-seen order preserved.
	groups := make(map[common.Address][]*LootexOrder)
	var exchanges []common.Address
	for i, order := range orders {
		if cancelled[i] {
			continue
		}
		if _, seen := groups[order.Exchange]; !seen {
			exchanges = append(exchanges, order.Exchange)
		}
		groups[order.Exchange] = append(groups[order.Exchange], order)
	}

	calls := make([]CancelCall, 0, len(exchanges))
	for _, exchange := range exchanges {
		group := groups[exchange]
		components := make([]seaport.OrderComponents, len(group))
		hashes := make([]common.Hash, len(group))
		for i, order := range group {
			components[i] = order.Order.Components
			hashes[i] = order.Hash
		}

		data, err := chain.EncodeCancel(components)
		if err != nil {
			return nil, err
		}
		calls = append(calls, CancelCall{
			Tx:          TransactionRequest{To: exchange, Data: data},
			OrderHashes: hashes,
		})
	}
	return calls, nil
}
