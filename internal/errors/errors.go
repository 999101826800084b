// Package errors defines the error taxonomy used throughout the relay.
//
// Every validation failure the relay can produce has a distinct code, so
// callers always receive the specific failure kind rather than a generic
// catch-all. Engine failures are never wrapped into relay codes; they
// propagate verbatim.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the relay.
const (
	ErrCodeInvalidSlippage        = "INVALID_SLIPPAGE"
	ErrCodeZeroSwapAmount         = "ZERO_SWAP_AMOUNT"
	ErrCodeInvalidExpectedAmount  = "INVALID_EXPECTED_AMOUNT"
	ErrCodeInvalidTickRange       = "INVALID_TICK_RANGE"
	ErrCodeZeroLiquidity          = "ZERO_LIQUIDITY"
	ErrCodeZeroDeposit            = "ZERO_DEPOSIT"
	ErrCodeInvalidVault           = "INVALID_VAULT"
	ErrCodeInvalidAmmConfig       = "INVALID_AMM_CONFIG"
	ErrCodeInvalidObservation     = "INVALID_OBSERVATION"
	ErrCodeInvalidTickArray       = "INVALID_TICK_ARRAY"
	ErrCodeInvalidTokenAccount    = "INVALID_TOKEN_ACCOUNT"
	ErrCodeInvalidPositionAddress = "INVALID_POSITION_ADDRESS"
	ErrCodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	ErrCodeStorageFailed          = "STORAGE_FAILED"
)

// RelayError represents a validation or infrastructure error in the relay.
type RelayError struct {
	// Code is a unique error code for this error type.
	Code string

	// Message is a human-readable error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *RelayError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target by code.
func (e *RelayError) Is(target error) bool {
	t, ok := target.(*RelayError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause attached.
func (e *RelayError) WithCause(cause error) *RelayError {
	return &RelayError{Code: e.Code, Message: e.Message, Cause: cause}
}

// NewError creates a new RelayError.
func NewError(code, message string) *RelayError {
	return &RelayError{
		Code:    code,
		Message: message,
	}
}

// Pre-defined errors for every failure kind the relay produces.
var (
	// ErrInvalidSlippage is returned when a tolerance is outside (0, 500] basis points.
	ErrInvalidSlippage = NewError(ErrCodeInvalidSlippage, "slippage basis points must be in (0, 500]")

	// ErrZeroSwapAmount is returned when a swap amount is zero.
	ErrZeroSwapAmount = NewError(ErrCodeZeroSwapAmount, "swap amount must be greater than zero")

	// ErrInvalidExpectedAmount is returned when the caller-declared counter-amount is zero.
	ErrInvalidExpectedAmount = NewError(ErrCodeInvalidExpectedAmount, "expected counter amount must be greater than zero")

	// ErrInvalidTickRange is returned when the lower tick is not strictly below the upper tick.
	ErrInvalidTickRange = NewError(ErrCodeInvalidTickRange, "lower tick must be strictly below upper tick")

	// ErrZeroLiquidity is returned when a liquidity amount is zero.
	ErrZeroLiquidity = NewError(ErrCodeZeroLiquidity, "liquidity must be greater than zero")

	// ErrZeroDeposit is returned when both deposit caps are zero.
	ErrZeroDeposit = NewError(ErrCodeZeroDeposit, "at least one deposit cap must be greater than zero")

	// ErrInvalidVault is returned when a supplied vault does not match the pool's recorded vault.
	ErrInvalidVault = NewError(ErrCodeInvalidVault, "vault does not match pool state")

	// ErrInvalidAmmConfig is returned when the supplied AMM config is not the one the pool points to.
	ErrInvalidAmmConfig = NewError(ErrCodeInvalidAmmConfig, "amm config does not match pool state")

	// ErrInvalidObservation is returned when the supplied observation account is not the one the pool points to.
	ErrInvalidObservation = NewError(ErrCodeInvalidObservation, "observation account does not match pool state")

	// ErrInvalidTickArray is returned when a tick array does not belong to the pool.
	ErrInvalidTickArray = NewError(ErrCodeInvalidTickArray, "tick array does not belong to pool")

	// ErrInvalidTokenAccount is returned when a deposit token account mint does not match its vault.
	ErrInvalidTokenAccount = NewError(ErrCodeInvalidTokenAccount, "token account mint does not match vault mint")

	// ErrInvalidPositionAddress is returned when a position account does not match its derived address.
	ErrInvalidPositionAddress = NewError(ErrCodeInvalidPositionAddress, "position account does not match derived address")
)

// AccountNotFound creates an error for a missing on-chain account.
func AccountNotFound(pubkey string) *RelayError {
	return NewError(ErrCodeAccountNotFound, fmt.Sprintf("account %s not found", pubkey))
}

// StorageFailed creates an error for storage substrate failures.
func StorageFailed(what string, cause error) *RelayError {
	return NewError(ErrCodeStorageFailed, fmt.Sprintf("storage operation failed: %s", what)).WithCause(cause)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
