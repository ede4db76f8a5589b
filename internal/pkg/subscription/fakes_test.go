package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/DanielKramer/PropNest/internal/pkg/payment"
	"gorm.io/gorm"
)

// In-memory fakes of the store contracts, mirroring the SQL semantics of the
// GORM repositories closely enough for lifecycle tests.

type fakeCustomerStore struct {
	byID map[uint]*models.Customer
}

func newFakeCustomerStore(customers ...*models.Customer) *fakeCustomerStore {
	s := &fakeCustomerStore{byID: make(map[uint]*models.Customer)}
	for _, c := range customers {
		s.byID[c.ID] = c
	}
	return s
}

func (s *fakeCustomerStore) GetByID(id uint) (*models.Customer, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *fakeCustomerStore) GetByUUID(uuid string) (*models.Customer, error) {
	for _, c := range s.byID {
		if c.UUID == uuid {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeCustomerStore) UpdateIfStatus(id uint, expected []string, fields map[string]interface{}) (bool, error) {
	c, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, status := range expected {
		if c.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	applyCustomerFields(c, fields)
	return true, nil
}

// racingCustomerStore changes the stored status between the caller's read and
// its conditional write, like a concurrent sweep committing first. The write
// then fails the status check and must lose cleanly.
type racingCustomerStore struct {
	*fakeCustomerStore
	flipTo string
}

func (s *racingCustomerStore) UpdateIfStatus(id uint, expected []string, fields map[string]interface{}) (bool, error) {
	if c, ok := s.byID[id]; ok {
		c.Status = s.flipTo
	}
	return s.fakeCustomerStore.UpdateIfStatus(id, expected, fields)
}

func (s *fakeCustomerStore) BeginGraceIfNotStarted(id uint, endsAt time.Time) (bool, error) {
	c, ok := s.byID[id]
	if !ok || c.Status != models.CustomerStatusTrial || c.GracePeriodEndsAt != nil {
		return false, nil
	}
	c.GracePeriodEndsAt = &endsAt
	return true, nil
}

func (s *fakeCustomerStore) FindExpiringTrials(now time.Time) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range s.byID {
		if c.Status == models.CustomerStatusTrial && c.TrialEndsAt != nil && !c.TrialEndsAt.After(now) && c.GracePeriodEndsAt == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCustomerStore) FindExpiringGrace(now time.Time) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range s.byID {
		if c.Status == models.CustomerStatusTrial && c.GracePeriodEndsAt != nil && !c.GracePeriodEndsAt.After(now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCustomerStore) FindTrialsEndingBetween(from, to time.Time) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range s.byID {
		if c.Status != models.CustomerStatusTrial || c.GracePeriodEndsAt != nil || c.TrialEndsAt == nil {
			continue
		}
		if !c.TrialEndsAt.Before(from) && c.TrialEndsAt.Before(to) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCustomerStore) FindSuspendedBefore(cutoff time.Time) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range s.byID {
		if c.Status == models.CustomerStatusSuspended && c.SuspendedAt != nil && !c.SuspendedAt.After(cutoff) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCustomerStore) Delete(id uint) error {
	delete(s.byID, id)
	return nil
}

func applyCustomerFields(c *models.Customer, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "status":
			c.Status = value.(string)
		case "plan_id":
			c.PlanID = value.(string)
		case "billing_cycle":
			c.BillingCycle = value.(string)
		case "suspension_reason":
			c.SuspensionReason = value.(string)
		case "subscription_start_date":
			c.SubscriptionStartDate = asTimePtr(value)
		case "trial_ends_at":
			c.TrialEndsAt = asTimePtr(value)
		case "grace_period_ends_at":
			c.GracePeriodEndsAt = asTimePtr(value)
		case "suspended_at":
			c.SuspendedAt = asTimePtr(value)
		default:
			panic(fmt.Sprintf("fakeCustomerStore: unhandled field %q", key))
		}
	}
}

func asTimePtr(value interface{}) *time.Time {
	if value == nil {
		return nil
	}
	t := value.(time.Time)
	return &t
}

type fakePaymentMethodStore struct {
	methods map[uint][]models.PaymentMethod
}

func newFakePaymentMethodStore() *fakePaymentMethodStore {
	return &fakePaymentMethodStore{methods: make(map[uint][]models.PaymentMethod)}
}

func (s *fakePaymentMethodStore) add(customerID uint, method models.PaymentMethod) {
	method.CustomerID = customerID
	s.methods[customerID] = append(s.methods[customerID], method)
}

func (s *fakePaymentMethodStore) HasAny(customerID uint) (bool, error) {
	return len(s.methods[customerID]) > 0, nil
}

func (s *fakePaymentMethodStore) GetDefaultOrFirst(customerID uint) (*models.PaymentMethod, error) {
	methods := s.methods[customerID]
	if len(methods) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range methods {
		if methods[i].IsDefault {
			return &methods[i], nil
		}
	}
	return &methods[0], nil
}

type fakeEventStore struct {
	events []models.SubscriptionEvent
}

func (s *fakeEventStore) Record(event *models.SubscriptionEvent) error {
	e := *event
	e.ID = uint(len(s.events) + 1)
	e.CreatedAt = time.Now()
	s.events = append(s.events, e)
	return nil
}

func (s *fakeEventStore) forCustomer(customerID uint) []models.SubscriptionEvent {
	var out []models.SubscriptionEvent
	for _, e := range s.events {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out
}

func (s *fakeEventStore) latest(customerID uint) *models.SubscriptionEvent {
	events := s.forCustomer(customerID)
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

type fakeNotificationStore struct {
	rows map[string]bool // "customerID:type" -> email sent
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{rows: make(map[string]bool)}
}

func notificationKey(customerID uint, notificationType string) string {
	return fmt.Sprintf("%d:%s", customerID, notificationType)
}

func (s *fakeNotificationStore) Exists(customerID uint, notificationType string) (bool, error) {
	_, ok := s.rows[notificationKey(customerID, notificationType)]
	return ok, nil
}

func (s *fakeNotificationStore) Create(customerID uint, notificationType string, emailSent bool) error {
	key := notificationKey(customerID, notificationType)
	if _, ok := s.rows[key]; ok {
		// Unique key conflict is a silent no-op, like the GORM upsert.
		return nil
	}
	s.rows[key] = emailSent
	return nil
}

type fakeUserStore struct {
	users []*models.User
}

func (s *fakeUserStore) add(customerID uint, active bool) *models.User {
	u := &models.User{ID: uint(len(s.users) + 1), CustomerID: customerID, IsActive: active}
	s.users = append(s.users, u)
	return u
}

func (s *fakeUserStore) SetActiveByCustomer(customerID uint, active bool) (int64, error) {
	var changed int64
	for _, u := range s.users {
		if u.CustomerID == customerID && u.IsActive != active {
			u.IsActive = active
			changed++
		}
	}
	return changed, nil
}

type fakeGateway struct {
	chargeErr error
	verifyErr error
	charges   []payment.ChargeRequest
	verified  []string
}

func (g *fakeGateway) Charge(_ context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	g.charges = append(g.charges, req)
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return &payment.ChargeResult{Reference: fmt.Sprintf("pi_test_%d", len(g.charges)), Status: "succeeded"}, nil
}

func (g *fakeGateway) VerifyPayment(_ context.Context, reference string) error {
	g.verified = append(g.verified, reference)
	return g.verifyErr
}

func (g *fakeGateway) Name() string {
	return "fake"
}

type mailRecorder struct {
	sent []string // recipient addresses in send order
	fail bool
}

func (m *mailRecorder) send(to, subject, body string) error {
	m.sent = append(m.sent, to)
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	return nil
}
