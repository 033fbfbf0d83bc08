package aggregator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/lootex/exchange-sdk-go/chain"
	"github.com/lootex/exchange-sdk-go/seaport"
)

// Asset is one token to move in a batch transfer.
type Asset struct {
	ItemType   seaport.ItemType
	Token      common.Address
	Identifier *big.Int
	Amount     *big.Int
}

// TransferPlanner chooses the cheapest path for moving a set of assets:
// a direct transfer for a single asset, or an approval-gated bulk
// transfer for several.
type TransferPlanner struct {
	reader        chain.Reader
	bulkTransfers map[int64]common.Address
}

// NewTransferPlanner creates a TransferPlanner with the given per-chain
// bulk transfer deployments.
func NewTransferPlanner(reader chain.Reader, bulkTransfers map[int64]common.Address) *TransferPlanner {
	return &TransferPlanner{reader: reader, bulkTransfers: bulkTransfers}
}

// Plan returns the transactions to execute, in order. Approvals always
// precede the bulk transfer: execution is sequential and the transfer
// depends on the approvals landing first.
func (p *TransferPlanner) Plan(ctx context.Context, chainID int64, sender, recipient common.Address, assets []Asset) ([]TransactionRequest, error) {
	if len(assets) == 0 {
		return nil, nil
	}

	if len(assets) == 1 {
		// A single asset skips the bulk transfer contract entirely; the
		// direct call needs no operator approval.
		tx, err := directTransfer(sender, recipient, assets[0])
		if err != nil {
			return nil, err
		}
		return []TransactionRequest{*tx}, nil
	}

	operator, ok := p.bulkTransfers[chainID]
	if !ok {
		return nil, &UnsupportedChainError{ChainID: chainID}
	}

	contracts := distinctContracts(assets)
	approved := make([]bool, len(contracts))
	g, gctx := errgroup.WithContext(ctx)
	for i, contract := range contracts {
		i, contract := i, contract
		g.Go(func() error {
			ok, err := p.reader.IsApprovedForAll(gctx, contract, sender, operator)
			if err != nil {
				return err
			}
			approved[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var txs []TransactionRequest
	for i, contract := range contracts {
		if approved[i] {
			continue
		}
		data, err := chain.EncodeSetApprovalForAll(operator, true)
		if err != nil {
			return nil, err
		}
		txs = append(txs, TransactionRequest{To: contract, Data: data})
	}

	items := make([]chain.BulkTransferItem, len(assets))
	for i, asset := range assets {
		amount := asset.Amount
		if amount == nil {
			amount = big.NewInt(1)
		}
		items[i] = chain.BulkTransferItem{
			ItemType:   uint8(asset.ItemType),
			Token:      asset.Token,
			Identifier: asset.Identifier,
			Amount:     amount,
		}
	}
	data, err := chain.EncodeBulkTransfer(items, recipient)
	if err != nil {
		return nil, err
	}
	return append(txs, TransactionRequest{To: operator, Data: data}), nil
}

// directTransfer builds a safeTransferFrom call for one asset.
func directTransfer(sender, recipient common.Address, asset Asset) (*TransactionRequest, error) {
	switch asset.ItemType {
	case seaport.ItemTypeERC721:
		data, err := chain.EncodeERC721SafeTransferFrom(sender, recipient, asset.Identifier)
		if err != nil {
			return nil, err
		}
		return &TransactionRequest{To: asset.Token, Data: data}, nil
	case seaport.ItemTypeERC1155:
		amount := asset.Amount
		if amount == nil {
			amount = big.NewInt(1)
		}
		data, err := chain.EncodeERC1155SafeTransferFrom(sender, recipient, asset.Identifier, amount)
		if err != nil {
			return nil, err
		}
		return &TransactionRequest{To: asset.Token, Data: data}, nil
	default:
		return nil, fmt.Errorf("asset type %d is not transferable: %w", asset.ItemType, seaport.ErrUnknownTokenType)
	}
}

// distinctContracts returns the unique contract addresses among the
// assets, preserving first-seen order. The explicit map keeps the merge
// rule testable on its own.
func distinctContracts(assets []Asset) []common.Address {
	seen := make(map[common.Address]struct{}, len(assets))
	var contracts []common.Address
	for _, asset := range assets {
		if _, ok := seen[asset.Token]; ok {
			continue
		}
		seen[asset.Token] = struct{}{}
		contracts = append(contracts, asset.Token)
	}
	return contracts
}
