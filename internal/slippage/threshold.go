// Package slippage implements the relay's slippage-tolerance semantics: the
// per-owner tolerance record and the threshold computation that bounds every
// forwarded swap.
package slippage

import (
	"math/big"

	"github.com/lugondev/clmm-relay/internal/errors"
)

const (
	// DefaultBps is the tolerance substituted when an owner has no explicit
	// setting. A stored value of zero means "unset".
	DefaultBps uint16 = 500

	// MaxBps is the inclusive upper bound for an explicit tolerance (5%).
	MaxBps uint16 = 500

	// bpsDenominator is the number of basis points in 100%.
	bpsDenominator = 10_000
)

var u64Mask = new(big.Int).SetUint64(^uint64(0))

// Threshold converts an expected counter-amount, a basis-point tolerance, and
// a trade direction into a protective bound.
//
// When isBaseInput is true the caller specifies the input side and the result
// is the minimum acceptable output: floor(expected * (10000 - bps) / 10000).
// Otherwise the caller specifies the output side and the result is the
// maximum acceptable input: floor(expected * (10000 + bps) / 10000).
//
// The multiplication is carried out in arbitrary precision and the quotient
// narrowed to 64 bits the same way the engine narrows it, so the bound is
// bit-identical to what the engine enforces. Division truncates; the bound
// never rounds in the caller's favor.
//
// bps must already be validated to (0, MaxBps] by the caller.
func Threshold(expected uint64, bps uint16, isBaseInput bool) uint64 {
	factor := int64(bpsDenominator)
	if isBaseInput {
		factor -= int64(bps)
	} else {
		factor += int64(bps)
	}

	product := new(big.Int).SetUint64(expected)
	product.Mul(product, big.NewInt(factor))
	product.Quo(product, big.NewInt(bpsDenominator))
	return product.And(product, u64Mask).Uint64()
}

// ValidateBps reports whether an explicit tolerance is within (0, MaxBps].
func ValidateBps(bps uint16) error {
	if bps == 0 || bps > MaxBps {
		return errors.ErrInvalidSlippage
	}
	return nil
}

// Resolve maps a stored tolerance to the effective one: the zero sentinel
// resolves to DefaultBps, anything else must be a valid explicit setting.
// The stored value is re-validated so a corrupted record is rejected rather
// than silently widening the bound.
func Resolve(stored uint16) (uint16, error) {
	if stored == 0 {
		return DefaultBps, nil
	}
	if err := ValidateBps(stored); err != nil {
		return 0, err
	}
	return stored, nil
}
