package lootex

import "errors"

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrOrderBook represents an order book API error
	ErrOrderBook = errors.New("order book error")

	// ErrNoFillableOrders is returned when every order in a fulfillment
	// batch failed validation
	ErrNoFillableOrders = errors.New("no fillable orders in batch")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

// OrderBookError represents an order book API error with context
type OrderBookError struct {
	Message string
}

func (e *OrderBookError) Error() string {
	return e.Message
}
