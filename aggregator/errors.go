package aggregator

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when an operation is asked to work on
	// zero orders.
	ErrEmptyBatch = errors.New("empty order batch")

	// ErrMixedChains is returned when one batch spans chain ids.
	ErrMixedChains = errors.New("orders span multiple chains")

	// ErrMixedCurrencies is returned when a buy batch requires more than
	// one ERC20 payment currency.
	ErrMixedCurrencies = errors.New("orders require multiple ERC20 currencies")
)

// UnsupportedChainError reports a chain id with no known aggregator
// deployment.
type UnsupportedChainError struct {
	ChainID int64
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain id %d", e.ChainID)
}

// UnsupportedMarketplaceError reports a marketplace id with no registered
// payload composer.
type UnsupportedMarketplaceError struct {
	MarketplaceID int
}

func (e *UnsupportedMarketplaceError) Error() string {
	return fmt.Sprintf("unsupported marketplace id %d", e.MarketplaceID)
}
