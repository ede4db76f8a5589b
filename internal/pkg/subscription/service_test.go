package subscription

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleFixture struct {
	customers     *fakeCustomerStore
	methods       *fakePaymentMethodStore
	users         *fakeUserStore
	events        *fakeEventStore
	notifications *fakeNotificationStore
	gateway       *fakeGateway
	mailer        *mailRecorder
	svc           *Service
}

func newLifecycleFixture(customers ...*models.Customer) *lifecycleFixture {
	f := &lifecycleFixture{
		customers:     newFakeCustomerStore(customers...),
		methods:       newFakePaymentMethodStore(),
		users:         &fakeUserStore{},
		events:        &fakeEventStore{},
		notifications: newFakeNotificationStore(),
		gateway:       &fakeGateway{},
		mailer:        &mailRecorder{},
	}
	notifier := NewNotifier(f.notifications, f.mailer.send)
	f.svc = NewService(f.customers, f.methods, f.users, f.events, notifier, f.gateway)
	return f
}

func trialCustomer(id uint, trialEndsAt time.Time) *models.Customer {
	starts := trialEndsAt.AddDate(0, 0, -TrialLengthDays)
	return &models.Customer{
		ID:            id,
		UUID:          fmt.Sprintf("cust-%d", id),
		CompanyName:   "Musterhaus Immobilien",
		Email:         "billing@musterhaus.example",
		Status:        models.CustomerStatusTrial,
		TrialStartsAt: &starts,
		TrialEndsAt:   &trialEndsAt,
		BillingCycle:  models.BillingCycleMonthly,
		MRR:           49.90,
	}
}

func TestSweepExpiredTrialWithPaymentMethodActivates(t *testing.T) {
	c := trialCustomer(1, time.Now().Add(-time.Second))
	f := newLifecycleFixture(c)
	f.methods.add(1, models.PaymentMethod{ID: 10, ProviderRef: "pm_123", IsDefault: true})

	report := f.svc.RunScheduledSweep()

	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, 1, report.ConvertedToActive)
	assert.Equal(t, 0, report.GracePeriodsStarted)

	updated, err := f.customers.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusActive, updated.Status)
	assert.NotNil(t, updated.SubscriptionStartDate)
	assert.Nil(t, updated.TrialEndsAt)
	assert.Nil(t, updated.GracePeriodEndsAt)

	require.Len(t, f.gateway.charges, 1)
	assert.Equal(t, "pm_123", f.gateway.charges[0].MethodRef)

	latest := f.events.latest(1)
	require.NotNil(t, latest)
	assert.Equal(t, models.EventSubscriptionActivated, latest.EventType)
	assert.Equal(t, models.TriggeredBySystem, latest.TriggeredBy)
	assert.Equal(t, models.CustomerStatusTrial, latest.PreviousStatus)
	assert.Equal(t, models.CustomerStatusActive, latest.NewStatus)
}

func TestSweepExpiredTrialWithoutPaymentMethodStartsGrace(t *testing.T) {
	now := time.Now()
	c := trialCustomer(1, now.Add(-time.Second))
	f := newLifecycleFixture(c)

	report := f.svc.RunScheduledSweep()

	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, 1, report.GracePeriodsStarted)
	assert.Equal(t, 0, report.ConvertedToActive)
	assert.Equal(t, 0, report.Suspended)

	updated, err := f.customers.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusTrial, updated.Status)
	require.NotNil(t, updated.GracePeriodEndsAt)
	expected := now.AddDate(0, 0, GracePeriodDays)
	assert.WithinDuration(t, expected, *updated.GracePeriodEndsAt, time.Minute)

	events := f.events.forCustomer(1)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventGracePeriodStarted, events[0].EventType)
}

func TestSweepExpiredGraceWithoutPaymentMethodSuspends(t *testing.T) {
	graceEnds := time.Now().Add(-time.Second)
	c := trialCustomer(1, time.Now().AddDate(0, 0, -GracePeriodDays))
	c.GracePeriodEndsAt = &graceEnds
	f := newLifecycleFixture(c)
	f.users.add(1, true)
	f.users.add(1, true)

	report := f.svc.RunScheduledSweep()

	assert.Equal(t, 1, report.Suspended)

	updated, err := f.customers.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusSuspended, updated.Status)
	require.NotNil(t, updated.SuspendedAt)
	assert.Equal(t, "Trial expired without payment", updated.SuspensionReason)
	assert.Nil(t, updated.GracePeriodEndsAt)

	for _, u := range f.users.users {
		assert.False(t, u.IsActive)
	}

	latest := f.events.latest(1)
	require.NotNil(t, latest)
	assert.Equal(t, models.EventAccountSuspended, latest.EventType)
}

func TestSweepIsIdempotent(t *testing.T) {
	c := trialCustomer(1, time.Now().Add(-time.Second))
	f := newLifecycleFixture(c)

	first := f.svc.RunScheduledSweep()
	require.Equal(t, 1, first.GracePeriodsStarted)
	eventsAfterFirst := len(f.events.forCustomer(1))
	mailsAfterFirst := len(f.mailer.sent)

	second := f.svc.RunScheduledSweep()

	assert.Equal(t, 0, second.Evaluated, "already-transitioned customer must not be a candidate again")
	assert.Equal(t, 0, second.GracePeriodsStarted)
	assert.Equal(t, eventsAfterFirst, len(f.events.forCustomer(1)), "no duplicate events")
	assert.Equal(t, mailsAfterFirst, len(f.mailer.sent), "no duplicate notifications")
}

func TestSweepChargeFailureFallsBackToGrace(t *testing.T) {
	c := trialCustomer(1, time.Now().Add(-time.Second))
	f := newLifecycleFixture(c)
	f.methods.add(1, models.PaymentMethod{ID: 10, ProviderRef: "pm_declined"})
	f.gateway.chargeErr = errors.New("card declined")

	report := f.svc.RunScheduledSweep()

	assert.Equal(t, 0, report.ConvertedToActive)
	assert.Equal(t, 1, report.GracePeriodsStarted)

	updated, err := f.customers.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusTrial, updated.Status)
	assert.NotNil(t, updated.GracePeriodEndsAt, "failed conversion must leave a scheduled follow-up")
}

func TestSweepChargeFailureDuringGraceSuspends(t *testing.T) {
	graceEnds := time.Now().Add(-time.Second)
	c := trialCustomer(1, time.Now().AddDate(0, 0, -GracePeriodDays))
	c.GracePeriodEndsAt = &graceEnds
	f := newLifecycleFixture(c)
	f.methods.add(1, models.PaymentMethod{ID: 10, ProviderRef: "pm_declined"})
	f.gateway.chargeErr = errors.New("card declined")

	report := f.svc.RunScheduledSweep()

	assert.Equal(t, 1, report.Suspended)
	updated, err := f.customers.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusSuspended, updated.Status)
}

func TestReactivateRequiresPaymentMethod(t *testing.T) {
	suspendedAt := time.Now().AddDate(0, 0, -2)
	c := trialCustomer(1, time.Now().AddDate(0, 0, -10))
	c.Status = models.CustomerStatusSuspended
	c.SuspendedAt = &suspendedAt
	c.SuspensionReason = "Trial expired without payment"
	f := newLifecycleFixture(c)

	err := f.svc.ReactivateAccount(c.UUID)

	require.ErrorIs(t, err, ErrNoPaymentMethod)

	unchanged, gerr := f.customers.GetByID(1)
	require.NoError(t, gerr)
	assert.Equal(t, models.CustomerStatusSuspended, unchanged.Status)
	assert.NotNil(t, unchanged.SuspendedAt)
	assert.Empty(t, f.events.forCustomer(1))
}

func TestReactivateSuccess(t *testing.T) {
	suspendedAt := time.Now().AddDate(0, 0, -2)
	c := trialCustomer(1, time.Now().AddDate(0, 0, -10))
	c.Status = models.CustomerStatusSuspended
	c.SuspendedAt = &suspendedAt
	f := newLifecycleFixture(c)
	f.methods.add(1, models.PaymentMethod{ID: 10, ProviderRef: "pm_123"})
	u1 := f.users.add(1, false)
	u2 := f.users.add(1, false)

	err := f.svc.ReactivateAccount(c.UUID)
	require.NoError(t, err)

	updated, gerr := f.customers.GetByID(1)
	require.NoError(t, gerr)
	assert.Equal(t, models.CustomerStatusActive, updated.Status)
	assert.Nil(t, updated.SuspendedAt)
	assert.Empty(t, updated.SuspensionReason)
	assert.NotNil(t, updated.SubscriptionStartDate)
	assert.True(t, u1.IsActive)
	assert.True(t, u2.IsActive)

	latest := f.events.latest(1)
	require.NotNil(t, latest)
	assert.Equal(t, models.EventAccountReactivated, latest.EventType)
	assert.Equal(t, models.TriggeredByCustomer, latest.TriggeredBy)
}

func TestReactivateInvalidStates(t *testing.T) {
	c := trialCustomer(1, time.Now().AddDate(0, 0, 5))
	f := newLifecycleFixture(c)
	f.methods.add(1, models.PaymentMethod{ID: 10, ProviderRef: "pm_123"})

	assert.ErrorIs(t, f.svc.ReactivateAccount(c.UUID), ErrInvalidState)
	assert.ErrorIs(t, f.svc.ReactivateAccount("does-not-exist"), ErrNotFound)
}

func TestReactivateLosesRaceToConcurrentTransition(t *testing.T) {
	suspendedAt := time.Now().AddDate(0, 0, -2)
	c := trialCustomer(1, time.Now().AddDate(0, 0, -10))
	c.Status = models.CustomerStatusSuspended
	c.SuspendedAt = &suspendedAt
	f := newLifecycleFixture(c)
	f.methods.add(1, models.PaymentMethod{ID: 10, ProviderRef: "pm_123"})
	u := f.users.add(1, false)

	racing := &racingCustomerStore{fakeCustomerStore: f.customers, flipTo: models.CustomerStatusActive}
	notifier := NewNotifier(f.notifications, f.mailer.send)
	svc := NewService(racing, f.methods, f.users, f.events, notifier, f.gateway)

	err := svc.ReactivateAccount(c.UUID)

	require.ErrorIs(t, err, ErrInvalidState)

	// The concurrent winner's state stands, with no side effects from the loser.
	current, gerr := f.customers.GetByID(1)
	require.NoError(t, gerr)
	assert.Equal(t, models.CustomerStatusActive, current.Status)
	assert.NotNil(t, current.SuspendedAt)
	assert.False(t, u.IsActive)
	assert.Empty(t, f.events.forCustomer(1))
	assert.Empty(t, f.mailer.sent)
}

func TestRecordConversionVerifiesPayment(t *testing.T) {
	c := trialCustomer(1, time.Now().AddDate(0, 0, 5))
	f := newLifecycleFixture(c)
	f.gateway.verifyErr = ErrPaymentVerificationFailed

	_, err := f.svc.RecordConversion(c.UUID, "pro", models.BillingCycleMonthly, "pi_bogus")

	require.ErrorIs(t, err, ErrPaymentVerificationFailed)

	unchanged, gerr := f.customers.GetByID(1)
	require.NoError(t, gerr)
	assert.Equal(t, models.CustomerStatusTrial, unchanged.Status)
	assert.Empty(t, f.events.forCustomer(1))
}

func TestRecordConversionFromTrial(t *testing.T) {
	c := trialCustomer(1, time.Now().AddDate(0, 0, 5))
	f := newLifecycleFixture(c)

	updated, err := f.svc.RecordConversion(c.UUID, "pro", models.BillingCycleYearly, "pi_ok_1")
	require.NoError(t, err)

	assert.Equal(t, models.CustomerStatusActive, updated.Status)
	assert.Equal(t, "pro", updated.PlanID)
	assert.Equal(t, models.BillingCycleYearly, updated.BillingCycle)
	assert.Nil(t, updated.TrialEndsAt)
	assert.Nil(t, updated.GracePeriodEndsAt)
	assert.NotNil(t, updated.SubscriptionStartDate)

	require.Equal(t, []string{"pi_ok_1"}, f.gateway.verified)

	latest := f.events.latest(1)
	require.NotNil(t, latest)
	assert.Equal(t, models.EventSubscriptionActivated, latest.EventType)
	assert.Equal(t, models.TriggeredByCustomer, latest.TriggeredBy)
}

func TestRecordConversionInvalidStates(t *testing.T) {
	c := trialCustomer(1, time.Now().AddDate(0, 0, 5))
	c.Status = models.CustomerStatusActive
	f := newLifecycleFixture(c)

	_, err := f.svc.RecordConversion(c.UUID, "pro", models.BillingCycleMonthly, "pi_ok")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.RecordConversion("does-not-exist", "pro", models.BillingCycleMonthly, "pi_ok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordConversionLosesRaceToConcurrentTransition(t *testing.T) {
	c := trialCustomer(1, time.Now().AddDate(0, 0, 5))
	f := newLifecycleFixture(c)

	racing := &racingCustomerStore{fakeCustomerStore: f.customers, flipTo: models.CustomerStatusActive}
	notifier := NewNotifier(f.notifications, f.mailer.send)
	svc := NewService(racing, f.methods, f.users, f.events, notifier, f.gateway)

	_, err := svc.RecordConversion(c.UUID, "pro", models.BillingCycleMonthly, "pi_ok_1")

	require.ErrorIs(t, err, ErrInvalidState)

	// Verification ran before the write, but the loser records nothing.
	require.Equal(t, []string{"pi_ok_1"}, f.gateway.verified)
	current, gerr := f.customers.GetByID(1)
	require.NoError(t, gerr)
	assert.Equal(t, models.CustomerStatusActive, current.Status)
	assert.Empty(t, current.PlanID)
	assert.Empty(t, f.events.forCustomer(1))
	assert.Empty(t, f.mailer.sent)
}

func TestRetentionPurgeDeletesAfterThirtyDays(t *testing.T) {
	suspendedAt := time.Now().AddDate(0, 0, -(SuspensionRetentionDays + 1))
	c := trialCustomer(1, time.Now().AddDate(0, 0, -40))
	c.Status = models.CustomerStatusSuspended
	c.SuspendedAt = &suspendedAt

	recent := time.Now().AddDate(0, 0, -2)
	keeper := trialCustomer(2, time.Now().AddDate(0, 0, -10))
	keeper.Status = models.CustomerStatusSuspended
	keeper.SuspendedAt = &recent

	f := newLifecycleFixture(c, keeper)

	report := f.svc.RunScheduledSweep()

	assert.Equal(t, 1, report.Deleted)

	_, err := f.customers.GetByID(1)
	assert.Error(t, err, "customer past retention must be removed")
	_, err = f.customers.GetByID(2)
	assert.NoError(t, err, "recently suspended customer must be kept")

	// The audit trail outlives the account.
	events := f.events.forCustomer(1)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventAccountDeleted, events[0].EventType)
}

// Full walk through the spec scenario: expired trial without payment method
// enters grace, expired grace suspends, payment method plus manual
// reactivation restores access.
func TestLifecycleEndToEnd(t *testing.T) {
	c := trialCustomer(1, time.Now().Add(-time.Second))
	f := newLifecycleFixture(c)
	f.users.add(1, true)

	report := f.svc.RunScheduledSweep()
	require.Equal(t, 1, report.GracePeriodsStarted)

	stored, err := f.customers.GetByID(1)
	require.NoError(t, err)
	require.NotNil(t, stored.GracePeriodEndsAt)
	require.Len(t, f.events.forCustomer(1), 1)

	// Force the grace deadline into the past and sweep again.
	expired := time.Now().Add(-time.Second)
	f.customers.byID[1].GracePeriodEndsAt = &expired

	report = f.svc.RunScheduledSweep()
	require.Equal(t, 1, report.Suspended)

	stored, err = f.customers.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusSuspended, stored.Status)
	assert.False(t, f.users.users[0].IsActive)

	events := f.events.forCustomer(1)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventGracePeriodStarted, events[0].EventType)
	assert.Equal(t, models.EventAccountSuspended, events[1].EventType)

	// Customer adds a card and reactivates.
	f.methods.add(1, models.PaymentMethod{ID: 10, ProviderRef: "pm_123"})
	require.NoError(t, f.svc.ReactivateAccount(c.UUID))

	stored, err = f.customers.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusActive, stored.Status)
	assert.Nil(t, stored.SuspendedAt)
	assert.True(t, f.users.users[0].IsActive)

	events = f.events.forCustomer(1)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventAccountReactivated, events[2].EventType)
}
