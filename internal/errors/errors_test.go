package errors

import (
	stderrors "errors"
	"testing"
)

func TestRelayErrorIs(t *testing.T) {
	if !Is(ErrInvalidSlippage, ErrInvalidSlippage) {
		t.Error("error does not match itself")
	}
	if Is(ErrInvalidSlippage, ErrZeroSwapAmount) {
		t.Error("distinct codes matched")
	}

	wrapped := Wrap(ErrInvalidVault, "while checking pool accounts")
	if !Is(wrapped, ErrInvalidVault) {
		t.Error("wrapped error lost its code")
	}
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StorageFailed("save slippage config", cause)

	if !Is(err, NewError(ErrCodeStorageFailed, "")) {
		t.Error("storage error does not match its code")
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}

	var relayErr *RelayError
	if !As(err, &relayErr) {
		t.Fatal("As failed to extract *RelayError")
	}
	if relayErr.Code != ErrCodeStorageFailed {
		t.Errorf("code = %s, want %s", relayErr.Code, ErrCodeStorageFailed)
	}
}

func TestWithCauseDoesNotMutate(t *testing.T) {
	cause := stderrors.New("boom")
	derived := ErrInvalidTickArray.WithCause(cause)

	if ErrInvalidTickArray.Cause != nil {
		t.Error("WithCause mutated the shared sentinel")
	}
	if derived.Cause != cause {
		t.Error("derived error dropped its cause")
	}
	if !Is(derived, ErrInvalidTickArray) {
		t.Error("derived error lost its code")
	}
}
