package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/DanielKramer/PropNest/app/repository"
	"github.com/DanielKramer/PropNest/internal/pkg/mail"
	"github.com/DanielKramer/PropNest/internal/pkg/payment"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Lifecycle constants. These are platform policy, not per-customer settings.
const (
	TrialLengthDays         = 14
	GracePeriodDays         = 3
	SuspensionRetentionDays = 30

	chargeTimeout = 30 * time.Second

	suspensionReasonTrialExpired = "Trial expired without payment"
)

// SweepReport aggregates the outcome of one scheduled evaluation pass.
// Per-customer errors end up in Errors instead of aborting the sweep.
type SweepReport struct {
	Evaluated           int `json:"evaluated"`
	ConvertedToActive   int `json:"converted_to_active"`
	GracePeriodsStarted int `json:"grace_periods_started"`
	Suspended           int `json:"suspended"`
	Deleted             int `json:"deleted"`
	Errors              int `json:"errors"`
}

// Service implements the customer subscription lifecycle state machine: the
// scheduled sweep over expiring trials and grace periods, the manual
// reactivate and convert triggers, and the retention purge of long-suspended
// accounts.
type Service struct {
	customers CustomerStore
	methods   PaymentMethodStore
	gate      *UserAccessGate
	events    *EventRecorder
	notifier  *Notifier
	gateway   payment.Gateway
}

// NewService wires the state machine from its collaborators.
func NewService(customers CustomerStore, methods PaymentMethodStore, users UserStore, events EventStore, notifier *Notifier, gateway payment.Gateway) *Service {
	return &Service{
		customers: customers,
		methods:   methods,
		gate:      NewUserAccessGate(users),
		events:    NewEventRecorder(events),
		notifier:  notifier,
		gateway:   gateway,
	}
}

// NewServiceFromDB wires the service with GORM repositories, the SMTP
// notifier and the Stripe gateway.
func NewServiceFromDB(db *gorm.DB) *Service {
	repos := repository.NewRepositories(db)
	notifier := NewNotifier(repos.TrialNotification, mail.SendMail)
	return NewService(repos.Customer, repos.PaymentMethod, repos.User, repos.SubscriptionEvent, notifier, payment.NewStripeGatewayFromEnv())
}

// RunScheduledSweep evaluates every customer whose trial or grace deadline
// has passed as of now, applies the transition rules per customer, and purges
// accounts past the suspension retention window. One customer's failure never
// stops the batch.
func (s *Service) RunScheduledSweep() SweepReport {
	now := time.Now()
	var report SweepReport

	trials, err := s.customers.FindExpiringTrials(now)
	if err != nil {
		log.Errorf("[Lifecycle] failed to load expiring trials: %v", err)
		report.Errors++
	}
	for i := range trials {
		s.sweepCustomer(&trials[i], now, &report)
	}

	graced, err := s.customers.FindExpiringGrace(now)
	if err != nil {
		log.Errorf("[Lifecycle] failed to load expiring grace periods: %v", err)
		report.Errors++
	}
	for i := range graced {
		s.sweepCustomer(&graced[i], now, &report)
	}

	s.purgeExpiredSuspensions(now, &report)

	log.Infof("[Lifecycle] sweep done: evaluated=%d converted=%d grace=%d suspended=%d deleted=%d errors=%d",
		report.Evaluated, report.ConvertedToActive, report.GracePeriodsStarted, report.Suspended, report.Deleted, report.Errors)
	return report
}

// sweepCustomer applies the transition rules to one candidate. An expired
// trial falls back to grace, an expired grace period falls back to
// suspension.
func (s *Service) sweepCustomer(c *models.Customer, now time.Time, report *SweepReport) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[Lifecycle] panic while processing customer %d: %v", c.ID, r)
			report.Errors++
		}
	}()

	report.Evaluated++

	hasMethod, err := s.methods.HasAny(c.ID)
	if err != nil {
		log.Errorf("[Lifecycle] payment method lookup failed for customer %d: %v", c.ID, err)
		report.Errors++
		return
	}

	if hasMethod && s.attemptConversion(c, now) {
		report.ConvertedToActive++
		return
	}

	if c.IsInGrace() {
		if s.suspend(c, now) {
			report.Suspended++
		}
		return
	}
	if s.startGrace(c, now) {
		report.GracePeriodsStarted++
	}
}

// attemptConversion charges the default payment method (or the first one when
// none is marked default) and activates the subscription on success. Any
// charge failure, including a gateway timeout, returns false so the caller
// falls back to grace or suspension; a failed attempt must never leave the
// customer with an expired deadline and no scheduled follow-up.
func (s *Service) attemptConversion(c *models.Customer, now time.Time) bool {
	method, err := s.methods.GetDefaultOrFirst(c.ID)
	if err != nil {
		log.Errorf("[Lifecycle] no usable payment method for customer %d: %v", c.ID, err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), chargeTimeout)
	defer cancel()

	result, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		CustomerUUID: c.UUID,
		MethodRef:    method.ProviderRef,
		Amount:       c.MRR,
		Description:  fmt.Sprintf("PropNest subscription (%s)", c.BillingCycle),
	})
	if err != nil {
		log.Warnf("[Lifecycle] conversion charge failed for customer %d: %v", c.ID, err)
		return false
	}

	ok, err := s.customers.UpdateIfStatus(c.ID, []string{models.CustomerStatusTrial}, map[string]interface{}{
		"status":                  models.CustomerStatusActive,
		"subscription_start_date": now,
		"trial_ends_at":           nil,
		"grace_period_ends_at":    nil,
	})
	if err != nil {
		log.Errorf("[Lifecycle] activation write failed for customer %d after successful charge %s: %v", c.ID, result.Reference, err)
		return false
	}
	if !ok {
		// A concurrent transition won; the charge went through but the state
		// did not. Needs manual reconciliation, so log loudly.
		log.Errorf("[Lifecycle] lost activation race for customer %d, charge %s captured without state change", c.ID, result.Reference)
		return false
	}

	s.events.Record(c.ID, models.EventSubscriptionActivated, c.Status, models.CustomerStatusActive, models.TriggeredBySystem, map[string]interface{}{
		"payment_reference": result.Reference,
		"payment_method_id": method.ID,
	})
	s.notifier.Notify(c, models.NotificationSubscriptionActivated)
	return true
}

// startGrace arms the grace deadline for an expired trial. The conditional
// write fires at most once per trial, so a second sweep run is a no-op.
func (s *Service) startGrace(c *models.Customer, now time.Time) bool {
	endsAt := now.AddDate(0, 0, GracePeriodDays)

	ok, err := s.customers.BeginGraceIfNotStarted(c.ID, endsAt)
	if err != nil {
		log.Errorf("[Lifecycle] failed to start grace period for customer %d: %v", c.ID, err)
		return false
	}
	if !ok {
		// Already in grace or no longer in trial.
		return false
	}

	s.events.Record(c.ID, models.EventGracePeriodStarted, c.Status, models.CustomerStatusTrial, models.TriggeredBySystem, map[string]interface{}{
		"grace_period_ends_at": endsAt,
	})
	s.notifier.Notify(c, models.NotificationGraceStarted)
	return true
}

// suspend disables the customer after grace expired without payment. The
// status write commits first; disabling users and notifying are dependent
// side effects and never roll the transition back.
func (s *Service) suspend(c *models.Customer, now time.Time) bool {
	ok, err := s.customers.UpdateIfStatus(c.ID, []string{models.CustomerStatusTrial}, map[string]interface{}{
		"status":               models.CustomerStatusSuspended,
		"suspended_at":         now,
		"suspension_reason":    suspensionReasonTrialExpired,
		"grace_period_ends_at": nil,
	})
	if err != nil {
		log.Errorf("[Lifecycle] suspension write failed for customer %d: %v", c.ID, err)
		return false
	}
	if !ok {
		return false
	}

	disabled, err := s.gate.SetActive(c.ID, false)
	if err != nil {
		log.Errorf("[Lifecycle] failed to disable users of customer %d: %v", c.ID, err)
	}

	s.events.Record(c.ID, models.EventAccountSuspended, c.Status, models.CustomerStatusSuspended, models.TriggeredBySystem, map[string]interface{}{
		"reason":         suspensionReasonTrialExpired,
		"users_disabled": disabled,
	})
	s.notifier.Notify(c, models.NotificationAccountSuspended)
	return true
}

// purgeExpiredSuspensions hard-deletes customers suspended longer than the
// retention window. The account_deleted event is written before the delete;
// the audit trail itself is never removed.
func (s *Service) purgeExpiredSuspensions(now time.Time, report *SweepReport) {
	cutoff := now.AddDate(0, 0, -SuspensionRetentionDays)

	expired, err := s.customers.FindSuspendedBefore(cutoff)
	if err != nil {
		log.Errorf("[Lifecycle] failed to load suspended customers for purge: %v", err)
		report.Errors++
		return
	}

	for i := range expired {
		c := &expired[i]
		s.events.Record(c.ID, models.EventAccountDeleted, c.Status, "", models.TriggeredBySystem, map[string]interface{}{
			"suspended_at":      c.SuspendedAt,
			"suspension_reason": c.SuspensionReason,
		})
		if err := s.customers.Delete(c.ID); err != nil {
			log.Errorf("[Lifecycle] failed to delete customer %d: %v", c.ID, err)
			report.Errors++
			continue
		}
		report.Deleted++
	}
}

// ReactivateAccount is the manual self-service trigger for a suspended
// customer. Unlike the sweep, it reports errors to the caller.
func (s *Service) ReactivateAccount(customerUUID string) error {
	c, err := s.customers.GetByUUID(customerUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !c.IsSuspended() {
		return ErrInvalidState
	}

	hasMethod, err := s.methods.HasAny(c.ID)
	if err != nil {
		return err
	}
	if !hasMethod {
		return ErrNoPaymentMethod
	}

	now := time.Now()
	ok, err := s.customers.UpdateIfStatus(c.ID, []string{models.CustomerStatusSuspended}, map[string]interface{}{
		"status":                  models.CustomerStatusActive,
		"subscription_start_date": now,
		"suspended_at":            nil,
		"suspension_reason":       "",
		"trial_ends_at":           nil,
		"grace_period_ends_at":    nil,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}

	if _, err := s.gate.SetActive(c.ID, true); err != nil {
		log.Errorf("[Lifecycle] failed to re-enable users of customer %d: %v", c.ID, err)
	}

	s.events.Record(c.ID, models.EventAccountReactivated, models.CustomerStatusSuspended, models.CustomerStatusActive, models.TriggeredByCustomer, nil)
	s.notifier.Notify(c, models.NotificationAccountReactivated)
	return nil
}

// RecordConversion is the manual upgrade/convert trigger. The payment
// reference must verify as a successful payment before any state changes.
// Returns the updated customer snapshot.
func (s *Service) RecordConversion(customerUUID, planID, billingCycle, paymentReference string) (*models.Customer, error) {
	c, err := s.customers.GetByUUID(customerUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if c.Status != models.CustomerStatusTrial && !c.IsSuspended() {
		return nil, ErrInvalidState
	}

	ctx, cancel := context.WithTimeout(context.Background(), chargeTimeout)
	defer cancel()
	if err := s.gateway.VerifyPayment(ctx, paymentReference); err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.customers.UpdateIfStatus(c.ID, []string{models.CustomerStatusTrial, models.CustomerStatusSuspended}, map[string]interface{}{
		"status":                  models.CustomerStatusActive,
		"plan_id":                 planID,
		"billing_cycle":           billingCycle,
		"subscription_start_date": now,
		"trial_ends_at":           nil,
		"grace_period_ends_at":    nil,
		"suspended_at":            nil,
		"suspension_reason":       "",
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}

	if c.IsSuspended() {
		if _, err := s.gate.SetActive(c.ID, true); err != nil {
			log.Errorf("[Lifecycle] failed to re-enable users of customer %d: %v", c.ID, err)
		}
	}

	s.events.Record(c.ID, models.EventSubscriptionActivated, c.Status, models.CustomerStatusActive, models.TriggeredByCustomer, map[string]interface{}{
		"plan_id":           planID,
		"billing_cycle":     billingCycle,
		"payment_reference": paymentReference,
	})
	s.notifier.Notify(c, models.NotificationSubscriptionActivated)

	return s.customers.GetByID(c.ID)
}
