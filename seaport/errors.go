package seaport

import "errors"

var (
	// ErrUnknownTokenType is returned when a trade intent names an asset
	// standard the formatter does not support.
	ErrUnknownTokenType = errors.New("unknown token type")

	// ErrUnknownTradeKind is returned when a trade intent names an order
	// category the formatter does not support.
	ErrUnknownTradeKind = errors.New("unknown trade kind")
)

// InvalidOrderError reports a caller-contract violation in order input.
type InvalidOrderError struct {
	Message string
}

func (e *InvalidOrderError) Error() string {
	return e.Message
}
