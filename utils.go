package lootex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// MaxDecimals caps supported currency precision at the EVM convention.
const MaxDecimals = 18

// ParseAmount converts a human-readable amount to base units, exactly.
// "1.5" with 18 decimals yields 1500000000000000000; excess fractional
// digits are a caller error rather than being rounded away.
func ParseAmount(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid amount: %s", amount)}
	}
	if parsed.Sign() <= 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount must be positive, got: %s", amount)}
	}

	scaled := parsed.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %s has more than %d decimal places", amount, decimals)}
	}

	result := scaled.BigInt()
	if result.BitLen() > 256 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount too large for uint256: %s", result.String())}
	}
	return result, nil
}

// FormatAmount converts base units back to a human-readable decimal.
func FormatAmount(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, 0).Shift(-decimals)
}

// NormalizeAddress canonicalizes a hex address to its checksummed form.
func NormalizeAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}
