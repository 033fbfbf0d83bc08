package aggregator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lootex/exchange-sdk-go/chain"
	"github.com/lootex/exchange-sdk-go/seaport"
)

var (
	testChainID    = int64(137)
	testExchange   = common.HexToAddress("0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC")
	testConduit    = common.HexToAddress("0x1E0049783F008A0085193E00003D00cd54003c71")
	testAggregator = common.HexToAddress("0xA66e000000000000000000000000000000000001")
	testBulkXfer   = common.HexToAddress("0xB07c000000000000000000000000000000000002")
	testNative     = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
	testWETH       = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	testCollection = common.HexToAddress("0x7217000000000000000000000000000000000003")
	testSeller     = common.HexToAddress("0x5e11000000000000000000000000000000000004")
	testBuyer      = common.HexToAddress("0xb04e000000000000000000000000000000000005")
)

// fakeReader is an in-memory chain.Reader. Unset entries read as zero
// values, matching how an empty chain state would look.
type fakeReader struct {
	nativeBalances  map[common.Address]*big.Int
	erc20Balances   map[string]*big.Int
	erc20Allowances map[string]*big.Int
	erc721Owners    map[string]common.Address
	erc1155Balances map[string]*big.Int
	approvals       map[string]bool
	statuses        map[common.Hash]*chain.OrderStatus
	counters        map[common.Address]*big.Int

	// failWith, when set, makes every read fail with this error.
	failWith error
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		nativeBalances:  make(map[common.Address]*big.Int),
		erc20Balances:   make(map[string]*big.Int),
		erc20Allowances: make(map[string]*big.Int),
		erc721Owners:    make(map[string]common.Address),
		erc1155Balances: make(map[string]*big.Int),
		approvals:       make(map[string]bool),
		statuses:        make(map[common.Hash]*chain.OrderStatus),
		counters:        make(map[common.Address]*big.Int),
	}
}

func key(parts ...interface{}) string {
	return fmt.Sprintln(parts...)
}

func (f *fakeReader) setERC20(token, owner common.Address, balance, allowance int64, spender common.Address) {
	f.erc20Balances[key(token, owner)] = big.NewInt(balance)
	f.erc20Allowances[key(token, owner, spender)] = big.NewInt(allowance)
}

func (f *fakeReader) setERC721(token common.Address, id int64, owner common.Address) {
	f.erc721Owners[key(token, big.NewInt(id))] = owner
}

func (f *fakeReader) setERC1155(token, owner common.Address, id, balance int64) {
	f.erc1155Balances[key(token, owner, big.NewInt(id))] = big.NewInt(balance)
}

func (f *fakeReader) setApproval(token, owner, operator common.Address, approved bool) {
	f.approvals[key(token, owner, operator)] = approved
}

func (f *fakeReader) NativeBalance(_ context.Context, owner common.Address) (*big.Int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if b, ok := f.nativeBalances[owner]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeReader) ERC20Balance(_ context.Context, token, owner common.Address) (*big.Int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if b, ok := f.erc20Balances[key(token, owner)]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeReader) ERC20Allowance(_ context.Context, token, owner, spender common.Address) (*big.Int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if a, ok := f.erc20Allowances[key(token, owner, spender)]; ok {
		return a, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeReader) ERC721Owner(_ context.Context, token common.Address, identifier *big.Int) (common.Address, error) {
	if f.failWith != nil {
		return common.Address{}, f.failWith
	}
	return f.erc721Owners[key(token, identifier)], nil
}

func (f *fakeReader) ERC1155Balance(_ context.Context, token, owner common.Address, identifier *big.Int) (*big.Int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if b, ok := f.erc1155Balances[key(token, owner, identifier)]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeReader) IsApprovedForAll(_ context.Context, token, owner, operator common.Address) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	return f.approvals[key(token, owner, operator)], nil
}

func (f *fakeReader) OrderStatus(_ context.Context, _ common.Address, orderHash common.Hash) (*chain.OrderStatus, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if s, ok := f.statuses[orderHash]; ok {
		return s, nil
	}
	return &chain.OrderStatus{TotalFilled: big.NewInt(0), TotalSize: big.NewInt(0)}, nil
}

func (f *fakeReader) Counter(_ context.Context, _, offerer common.Address) (*big.Int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if c, ok := f.counters[offerer]; ok {
		return c, nil
	}
	return big.NewInt(0), nil
}

func testHash(b byte) common.Hash {
	var h common.Hash
	h[31] = b
	return h
}

// nativeListing builds a signed listing selling one ERC721 for price in
// native currency, fee-free.
func nativeListing(hashByte byte, tokenID, price int64) *LootexOrder {
	return listingWithCurrency(hashByte, tokenID, price, testNative, seaport.ItemTypeNative)
}

func erc20Listing(hashByte byte, tokenID, price int64, currency common.Address) *LootexOrder {
	return listingWithCurrency(hashByte, tokenID, price, currency, seaport.ItemTypeERC20)
}

func listingWithCurrency(hashByte byte, tokenID, price int64, currency common.Address, paymentType seaport.ItemType) *LootexOrder {
	return &LootexOrder{
		Order: seaport.SignedOrder{
			Components: seaport.OrderComponents{
				OrderParameters: seaport.OrderParameters{
					Offerer: testSeller,
					Offer: []seaport.OfferItem{{
						ItemType:             seaport.ItemTypeERC721,
						Token:                testCollection,
						IdentifierOrCriteria: big.NewInt(tokenID),
						StartAmount:          big.NewInt(1),
						EndAmount:            big.NewInt(1),
					}},
					Consideration: []seaport.ConsiderationItem{{
						ItemType:             paymentType,
						Token:                currency,
						IdentifierOrCriteria: big.NewInt(0),
						StartAmount:          big.NewInt(price),
						EndAmount:            big.NewInt(price),
						Recipient:            testSeller,
					}},
					OrderType:                       seaport.OrderTypePartialOpen,
					StartTime:                       big.NewInt(1700000000),
					EndTime:                         big.NewInt(1800000000),
					Salt:                            big.NewInt(int64(hashByte)),
					TotalOriginalConsiderationItems: big.NewInt(1),
				},
				Counter: big.NewInt(0),
			},
			Signature: []byte{0x01, 0x02},
		},
		Hash:          testHash(hashByte),
		ChainID:       testChainID,
		Exchange:      testExchange,
		Conduit:       testConduit,
		MarketplaceID: MarketplaceIDSeaport,
	}
}

// tokenOffer builds a signed offer paying WETH for one token of the
// given standard; fulfilling it is an offer acceptance.
func tokenOffer(hashByte byte, tokenType seaport.ItemType, price int64) *LootexOrder {
	return &LootexOrder{
		Order: seaport.SignedOrder{
			Components: seaport.OrderComponents{
				OrderParameters: seaport.OrderParameters{
					Offerer: testBuyer,
					Offer: []seaport.OfferItem{{
						ItemType:             seaport.ItemTypeERC20,
						Token:                testWETH,
						IdentifierOrCriteria: big.NewInt(0),
						StartAmount:          big.NewInt(price),
						EndAmount:            big.NewInt(price),
					}},
					Consideration: []seaport.ConsiderationItem{{
						ItemType:             tokenType,
						Token:                testCollection,
						IdentifierOrCriteria: big.NewInt(7),
						StartAmount:          big.NewInt(1),
						EndAmount:            big.NewInt(1),
						Recipient:            testBuyer,
					}},
					OrderType:                       seaport.OrderTypePartialOpen,
					StartTime:                       big.NewInt(1700000000),
					EndTime:                         big.NewInt(1800000000),
					Salt:                            big.NewInt(int64(hashByte)),
					TotalOriginalConsiderationItems: big.NewInt(1),
				},
				Counter: big.NewInt(0),
			},
			Signature: []byte{0x03, 0x04},
		},
		Hash:          testHash(hashByte),
		ChainID:       testChainID,
		Exchange:      testExchange,
		Conduit:       testConduit,
		MarketplaceID: MarketplaceIDSeaport,
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(map[int64]common.Address{testChainID: testAggregator})
}
