package payment

import (
	"context"
	"errors"
)

// ErrVerificationFailed is returned when a caller-supplied payment reference
// cannot be confirmed as a successful payment.
var ErrVerificationFailed = errors.New("payment verification failed")

// ChargeRequest describes one charge attempt against a stored payment method.
type ChargeRequest struct {
	CustomerUUID string
	MethodRef    string
	Amount       float64
	Currency     string
	Description  string
}

// ChargeResult reports the outcome of a charge attempt.
type ChargeResult struct {
	Reference string
	Status    string
}

// Gateway is the payment collaborator the lifecycle engine talks to. The
// engine never interprets provider details; any Charge error is treated as a
// failed conversion attempt.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	VerifyPayment(ctx context.Context, reference string) error
	Name() string
}
