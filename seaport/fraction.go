package seaport

import (
	"math/big"
)

// Fraction is the exact portion of an order's total size being filled in
// one fulfillment. Invariant: 0 < Numerator <= Denominator and the two
// are coprime.
type Fraction struct {
	Numerator   *big.Int
	Denominator *big.Int
}

// FillFraction reduces unitsToFill against totalSize to a coprime
// numerator/denominator pair. A nil unitsToFill means a full fill.
func FillFraction(totalSize, unitsToFill *big.Int) (Fraction, error) {
	if totalSize == nil || totalSize.Sign() <= 0 {
		return Fraction{}, &InvalidOrderError{Message: "total size must be positive"}
	}
	if unitsToFill == nil {
		return Fraction{Numerator: big.NewInt(1), Denominator: big.NewInt(1)}, nil
	}
	if unitsToFill.Sign() <= 0 {
		return Fraction{}, &InvalidOrderError{Message: "units to fill must be positive"}
	}
	if unitsToFill.Cmp(totalSize) > 0 {
		return Fraction{}, &InvalidOrderError{Message: "units to fill exceed total size"}
	}

	d := gcd(unitsToFill, totalSize)
	return Fraction{
		Numerator:   new(big.Int).Quo(unitsToFill, d),
		Denominator: new(big.Int).Quo(totalSize, d),
	}, nil
}

// gcd is the iterative Euclidean algorithm. Iteration keeps stack usage
// bounded for adversarial input magnitudes.
func gcd(a, b *big.Int) *big.Int {
	x := new(big.Int).Set(a)
	y := new(big.Int).Set(b)
	for y.Sign() != 0 {
		x.Mod(x, y)
		x, y = y, x
	}
	return x
}
