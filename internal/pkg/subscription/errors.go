package subscription

import (
	"errors"

	"github.com/DanielKramer/PropNest/internal/pkg/payment"
)

var (
	// ErrNotFound means the referenced customer does not exist.
	ErrNotFound = errors.New("customer not found")

	// ErrInvalidState means the requested transition's precondition no longer
	// holds against the currently persisted status, e.g. reactivating an
	// account that is not suspended or that a concurrent sweep just changed.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrNoPaymentMethod means reactivation or conversion was attempted with
	// zero payment methods on file.
	ErrNoPaymentMethod = errors.New("no payment method on file")

	// ErrPaymentVerificationFailed is propagated from the payment gateway on
	// manual conversion. The scheduled sweep never surfaces it; there a failed
	// charge downgrades to the grace/suspend fallback.
	ErrPaymentVerificationFailed = payment.ErrVerificationFailed
)
