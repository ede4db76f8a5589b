package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/DanielKramer/PropNest/internal/pkg/env"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeGateway charges stored payment methods through Stripe PaymentIntents.
type StripeGateway struct {
	currency string
}

// NewStripeGatewayFromEnv configures the Stripe API key from the environment.
func NewStripeGatewayFromEnv() *StripeGateway {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
	currency := strings.ToLower(env.GetEnv("STRIPE_CURRENCY", "eur"))
	return &StripeGateway{currency: currency}
}

// Charge creates and confirms an off-session PaymentIntent against the stored
// payment method. Returns an error on any non-succeeded outcome.
func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.MethodRef == "" {
		return nil, fmt.Errorf("charge requires a payment method reference")
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountInMinorUnits(req.Amount)),
		Currency:      stripe.String(g.currency),
		PaymentMethod: stripe.String(req.MethodRef),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
		Description:   stripe.String(req.Description),
	}
	params.Context = ctx
	params.AddMetadata("customer_uuid", req.CustomerUUID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe charge failed: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("stripe charge not completed, status %s", pi.Status)
	}

	return &ChargeResult{Reference: pi.ID, Status: string(pi.Status)}, nil
}

// VerifyPayment confirms that a caller-supplied PaymentIntent id belongs to a
// succeeded payment.
func (g *StripeGateway) VerifyPayment(ctx context.Context, reference string) error {
	if strings.TrimSpace(reference) == "" {
		return ErrVerificationFailed
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(reference, params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: payment intent status %s", ErrVerificationFailed, pi.Status)
	}
	return nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}

// amountInMinorUnits converts a decimal amount to the integer minor units
// Stripe expects (cents for eur/usd).
func amountInMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
