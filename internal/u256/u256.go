// Package u256 implements a checked 256-bit unsigned integer, the width the
// AMM pricing path needs so that coin/pc reserves and their products never
// silently wrap.
package u256

import (
	"math/big"

	"raydiumsentry/internal/errs"
)

// ceiling is 2^256, the exclusive upper bound every operation is checked
// against.
var ceiling = new(big.Int).Lsh(big.NewInt(1), 256)

// U256 is an immutable 256-bit unsigned integer.
type U256 struct {
	v *big.Int
}

// Zero is the additive identity.
var Zero = U256{v: big.NewInt(0)}

// FromUint64 lifts a u64 into U256.
func FromUint64(n uint64) U256 {
	return U256{v: new(big.Int).SetUint64(n)}
}

func fromBig(v *big.Int) (U256, error) {
	if v.Sign() < 0 || v.Cmp(ceiling) >= 0 {
		return U256{}, errs.New(errs.OutOfRange)
	}
	return U256{v: v}, nil
}

// CheckedAdd returns a+b, failing with OutOfRange on overflow past 2^256-1.
func (a U256) CheckedAdd(b U256) (U256, error) {
	return fromBig(new(big.Int).Add(a.v, b.v))
}

// CheckedSub returns a-b, failing with OutOfRange if b > a.
func (a U256) CheckedSub(b U256) (U256, error) {
	return fromBig(new(big.Int).Sub(a.v, b.v))
}

// CheckedMul returns a*b, failing with OutOfRange on overflow past 2^256-1.
func (a U256) CheckedMul(b U256) (U256, error) {
	return fromBig(new(big.Int).Mul(a.v, b.v))
}

// CheckedDiv returns a/b (floor division), failing with OutOfRange if b is
// zero.
func (a U256) CheckedDiv(b U256) (U256, error) {
	if b.v.Sign() == 0 {
		return U256{}, errs.New(errs.OutOfRange)
	}
	return fromBig(new(big.Int).Quo(a.v, b.v))
}

// CheckedRem returns a mod b, failing with OutOfRange if b is zero.
func (a U256) CheckedRem(b U256) (U256, error) {
	if b.v.Sign() == 0 {
		return U256{}, errs.New(errs.OutOfRange)
	}
	return fromBig(new(big.Int).Rem(a.v, b.v))
}

// IsZero reports whether a is zero.
func (a U256) IsZero() bool { return a.v.Sign() == 0 }

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func (a U256) Cmp(b U256) int { return a.v.Cmp(b.v) }

// Uint64 returns a as a uint64, truncating silently if it does not fit; call
// sites in this module only use it once a value is already known to be
// small (e.g. the pricing result, which never exceeds the u64 coin
// reserve it was scaled from).
func (a U256) Uint64() uint64 { return a.v.Uint64() }

func (a U256) String() string { return a.v.String() }

// CheckedCeilDiv computes (quotient, adjustedDivisor) for a/b with these
// contracts:
//   - if a/b == 0: (1, 0) when 2*a >= b, else (0, 0).
//   - else if a mod b > 0: quotient = a/b + 1, then adjustedDivisor = a/quotient,
//     plus 1 if a mod quotient > 0.
//   - else: (a/b, b).
//
// All intermediate arithmetic is checked; overflow or division by zero fails
// with OutOfRange.
func (a U256) CheckedCeilDiv(b U256) (quotient U256, adjustedDivisor U256, err error) {
	quotient, err = a.CheckedDiv(b)
	if err != nil {
		return U256{}, U256{}, err
	}
	if quotient.IsZero() {
		two, err := a.CheckedMul(FromUint64(2))
		if err != nil {
			return U256{}, U256{}, err
		}
		if two.Cmp(b) >= 0 {
			return FromUint64(1), Zero, nil
		}
		return Zero, Zero, nil
	}
	remainder, err := a.CheckedRem(b)
	if err != nil {
		return U256{}, U256{}, err
	}
	divisor := b
	if remainder.Cmp(Zero) > 0 {
		quotient, err = quotient.CheckedAdd(FromUint64(1))
		if err != nil {
			return U256{}, U256{}, err
		}
		divisor, err = a.CheckedDiv(quotient)
		if err != nil {
			return U256{}, U256{}, err
		}
		remainder2, err := a.CheckedRem(quotient)
		if err != nil {
			return U256{}, U256{}, err
		}
		if remainder2.Cmp(Zero) > 0 {
			divisor, err = divisor.CheckedAdd(FromUint64(1))
			if err != nil {
				return U256{}, U256{}, err
			}
		}
	}
	return quotient, divisor, nil
}
