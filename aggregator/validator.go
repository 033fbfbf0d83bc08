package aggregator

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/lootex/exchange-sdk-go/chain"
	"github.com/lootex/exchange-sdk-go/seaport"
)

// Validity is one order's verdict. Callers must act on invalid entries
// (typically by excluding them from a fulfillment) rather than having
// them silently dropped.
type Validity struct {
	OrderHash common.Hash
	Valid     bool
}

// Validator checks that every offer item across a batch of orders is
// currently backed by sufficient balance and operator approval on chain.
type Validator struct {
	reader chain.Reader
}

// NewValidator creates a Validator over the given read client.
func NewValidator(reader chain.Reader) *Validator {
	return &Validator{reader: reader}
}

// offerCheck tags one offer item with its order and settlement context.
type offerCheck struct {
	orderIdx int
	item     seaport.OfferItem
	owner    common.Address
	operator common.Address
}

// ValidateOrders returns a verdict per order, in input order, plus the
// same verdicts keyed by order hash. An order is valid only if every one
// of its offer items passes every associated check. Reads are batched by
// check type and dispatched concurrently; a failed chain read aborts the
// whole validation and propagates to the caller unmodified.
func (v *Validator) ValidateOrders(ctx context.Context, orders []*LootexOrder) ([]Validity, map[common.Hash]bool, error) {
	if len(orders) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	var native, erc20, erc721, erc1155 []offerCheck
	for idx, order := range orders {
		for _, item := range order.Order.Components.Offer {
			check := offerCheck{
				orderIdx: idx,
				item:     item,
				owner:    order.Order.Components.Offerer,
				operator: order.Conduit,
			}
			switch item.ItemType {
			case seaport.ItemTypeNative:
				native = append(native, check)
			case seaport.ItemTypeERC20:
				erc20 = append(erc20, check)
			case seaport.ItemTypeERC721, seaport.ItemTypeERC721WithCriteria:
				erc721 = append(erc721, check)
			case seaport.ItemTypeERC1155, seaport.ItemTypeERC1155WithCriteria:
				erc1155 = append(erc1155, check)
			}
		}
	}

	nativeOK := make([]bool, len(native))
	erc20OK := make([]bool, len(erc20))
	erc721OK := make([]bool, len(erc721))
	erc1155OK := make([]bool, len(erc1155))

	g, gctx := errgroup.WithContext(ctx)

	for i, check := range native {
		i, check := i, check
		g.Go(func() error {
			balance, err := v.reader.NativeBalance(gctx, check.owner)
			if err != nil {
				return err
			}
			nativeOK[i] = balance.Cmp(check.item.StartAmount) >= 0
			return nil
		})
	}

	for i, check := range erc20 {
		i, check := i, check
		g.Go(func() error {
			balance, err := v.reader.ERC20Balance(gctx, check.item.Token, check.owner)
			if err != nil {
				return err
			}
			allowance, err := v.reader.ERC20Allowance(gctx, check.item.Token, check.owner, check.operator)
			if err != nil {
				return err
			}
			erc20OK[i] = balance.Cmp(check.item.StartAmount) >= 0 &&
				allowance.Cmp(check.item.StartAmount) >= 0
			return nil
		})
	}

	for i, check := range erc721 {
		i, check := i, check
		g.Go(func() error {
			approved, err := v.reader.IsApprovedForAll(gctx, check.item.Token, check.owner, check.operator)
			if err != nil {
				return err
			}
			if check.item.ItemType.IsCriteria() {
				// A criteria offer names no concrete id to resolve
				// ownership for, so only the operator approval is
				// checkable here.
				erc721OK[i] = approved
				return nil
			}
			owner, err := v.reader.ERC721Owner(gctx, check.item.Token, check.item.IdentifierOrCriteria)
			if err != nil {
				return err
			}
			erc721OK[i] = approved && owner == check.owner
			return nil
		})
	}

	for i, check := range erc1155 {
		i, check := i, check
		g.Go(func() error {
			approved, err := v.reader.IsApprovedForAll(gctx, check.item.Token, check.owner, check.operator)
			if err != nil {
				return err
			}
			if check.item.ItemType.IsCriteria() {
				erc1155OK[i] = approved
				return nil
			}
			balance, err := v.reader.ERC1155Balance(gctx, check.item.Token, check.owner, check.item.IdentifierOrCriteria)
			if err != nil {
				return err
			}
			erc1155OK[i] = approved && balance.Cmp(check.item.StartAmount) >= 0
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	valid := make([]bool, len(orders))
	for i := range valid {
		valid[i] = true
	}
	fail := func(checks []offerCheck, results []bool) {
		for i, check := range checks {
			if !results[i] {
				valid[check.orderIdx] = false
			}
		}
	}
	fail(native, nativeOK)
	fail(erc20, erc20OK)
	fail(erc721, erc721OK)
	fail(erc1155, erc1155OK)

	verdicts := make([]Validity, len(orders))
	byHash := make(map[common.Hash]bool, len(orders))
	for i, order := range orders {
		verdicts[i] = Validity{OrderHash: order.Hash, Valid: valid[i]}
		byHash[order.Hash] = valid[i]
	}
	return verdicts, byHash, nil
}
