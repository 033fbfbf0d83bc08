package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// OrderStatus is the exchange contract's view of one order.
type OrderStatus struct {
	IsValidated bool
	IsCancelled bool
	TotalFilled *big.Int
	TotalSize   *big.Int
}

// Reader is the chain read surface the fulfillment engine depends on.
// Implementations must be safe for concurrent use; the validator and the
// transfer planner issue reads in parallel.
type Reader interface {
	NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error)
	ERC20Balance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	ERC721Owner(ctx context.Context, token common.Address, identifier *big.Int) (common.Address, error)
	ERC1155Balance(ctx context.Context, token, owner common.Address, identifier *big.Int) (*big.Int, error)
	IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error)
	OrderStatus(ctx context.Context, exchange common.Address, orderHash common.Hash) (*OrderStatus, error)
	Counter(ctx context.Context, exchange, offerer common.Address) (*big.Int, error)
}

// ReadClient implements Reader over a JSON-RPC endpoint. It performs no
// signing and broadcasts nothing; transaction submission stays with the
// caller.
type ReadClient struct {
	client *ethclient.Client
}

// NewReadClient connects to the given RPC endpoint.
func NewReadClient(rpcURL string) (*ReadClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return &ReadClient{client: client}, nil
}

// NewReadClientFrom wraps an already connected client.
func NewReadClientFrom(client *ethclient.Client) *ReadClient {
	return &ReadClient{client: client}
}

// Close closes the underlying client connection.
func (rc *ReadClient) Close() {
	if rc.client != nil {
		rc.client.Close()
	}
}

// NativeBalance returns the native currency balance of an account.
func (rc *ReadClient) NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance, err := rc.client.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get native balance: %w", err)
	}
	return balance, nil
}

// ERC20Balance returns the ERC20 balance of an account.
func (rc *ReadClient) ERC20Balance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	erc20ABI := GetERC20ABI()
	data, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, err
	}

	result, err := rc.call(ctx, token, data)
	if err != nil {
		return nil, err
	}

	var balance *big.Int
	if err := erc20ABI.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return nil, err
	}
	return balance, nil
}

// ERC20Allowance returns the ERC20 allowance granted by owner to spender.
func (rc *ReadClient) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	erc20ABI := GetERC20ABI()
	data, err := erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, err
	}

	result, err := rc.call(ctx, token, data)
	if err != nil {
		return nil, err
	}

	var allowance *big.Int
	if err := erc20ABI.UnpackIntoInterface(&allowance, "allowance", result); err != nil {
		return nil, err
	}
	return allowance, nil
}

// ERC721Owner returns the current owner of a token id.
func (rc *ReadClient) ERC721Owner(ctx context.Context, token common.Address, identifier *big.Int) (common.Address, error) {
	erc721ABI := GetERC721ABI()
	data, err := erc721ABI.Pack("ownerOf", identifier)
	if err != nil {
		return common.Address{}, err
	}

	result, err := rc.call(ctx, token, data)
	if err != nil {
		return common.Address{}, err
	}

	var owner common.Address
	if err := erc721ABI.UnpackIntoInterface(&owner, "ownerOf", result); err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

// ERC1155Balance returns the balance of one token id for an account.
func (rc *ReadClient) ERC1155Balance(ctx context.Context, token, owner common.Address, identifier *big.Int) (*big.Int, error) {
	erc1155ABI := GetERC1155ABI()
	data, err := erc1155ABI.Pack("balanceOf", owner, identifier)
	if err != nil {
		return nil, err
	}

	result, err := rc.call(ctx, token, data)
	if err != nil {
		return nil, err
	}

	var balance *big.Int
	if err := erc1155ABI.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return nil, err
	}
	return balance, nil
}

// IsApprovedForAll checks whether operator may move all of owner's tokens
// on the given contract. The selector is shared between ERC721 and
// ERC1155 so one read path serves both standards.
func (rc *ReadClient) IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	erc721ABI := GetERC721ABI()
	data, err := erc721ABI.Pack("isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}

	result, err := rc.call(ctx, token, data)
	if err != nil {
		return false, err
	}

	var approved bool
	if err := erc721ABI.UnpackIntoInterface(&approved, "isApprovedForAll", result); err != nil {
		return false, err
	}
	return approved, nil
}

// OrderStatus reads the exchange contract's status record for an order
// hash.
func (rc *ReadClient) OrderStatus(ctx context.Context, exchange common.Address, orderHash common.Hash) (*OrderStatus, error) {
	seaportABI := GetSeaportABI()
	data, err := seaportABI.Pack("getOrderStatus", orderHash)
	if err != nil {
		return nil, err
	}

	result, err := rc.call(ctx, exchange, data)
	if err != nil {
		return nil, err
	}

	values, err := seaportABI.Unpack("getOrderStatus", result)
	if err != nil {
		return nil, err
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("unexpected getOrderStatus output arity: %d", len(values))
	}

	status := &OrderStatus{}
	var ok bool
	if status.IsValidated, ok = values[0].(bool); !ok {
		return nil, fmt.Errorf("unexpected isValidated type %T", values[0])
	}
	if status.IsCancelled, ok = values[1].(bool); !ok {
		return nil, fmt.Errorf("unexpected isCancelled type %T", values[1])
	}
	if status.TotalFilled, ok = values[2].(*big.Int); !ok {
		return nil, fmt.Errorf("unexpected totalFilled type %T", values[2])
	}
	if status.TotalSize, ok = values[3].(*big.Int); !ok {
		return nil, fmt.Errorf("unexpected totalSize type %T", values[3])
	}
	return status, nil
}

// Counter reads the offerer's current counter on the exchange contract.
func (rc *ReadClient) Counter(ctx context.Context, exchange, offerer common.Address) (*big.Int, error) {
	seaportABI := GetSeaportABI()
	data, err := seaportABI.Pack("getCounter", offerer)
	if err != nil {
		return nil, err
	}

	result, err := rc.call(ctx, exchange, data)
	if err != nil {
		return nil, err
	}

	var counter *big.Int
	if err := seaportABI.UnpackIntoInterface(&counter, "getCounter", result); err != nil {
		return nil, err
	}
	return counter, nil
}

func (rc *ReadClient) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return rc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
}
