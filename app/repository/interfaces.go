package repository

import (
	"time"

	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
)

// CustomerRepository defines the interface for customer-related database operations
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id uint) (*models.Customer, error)
	GetByUUID(uuid string) (*models.Customer, error)
	Update(customer *models.Customer) error
	// UpdateIfStatus applies fields only when the stored status still matches
	// one of the expected values. Returns false when the row was not updated,
	// which means a concurrent transition won the race.
	UpdateIfStatus(id uint, expected []string, fields map[string]interface{}) (bool, error)
	// BeginGraceIfNotStarted sets the grace deadline only when the customer is
	// still in trial and no grace period is running.
	BeginGraceIfNotStarted(id uint, endsAt time.Time) (bool, error)
	FindExpiringTrials(now time.Time) ([]models.Customer, error)
	FindExpiringGrace(now time.Time) ([]models.Customer, error)
	FindTrialsEndingBetween(from, to time.Time) ([]models.Customer, error)
	FindSuspendedBefore(cutoff time.Time) ([]models.Customer, error)
	Delete(id uint) error
	List(offset, limit int) ([]models.Customer, error)
	Count() (int64, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByCustomerID(customerID uint) ([]models.User, error)
	// SetActiveByCustomer bulk-enables or bulk-disables every user belonging
	// to a customer and returns the number of rows changed. Idempotent.
	SetActiveByCustomer(customerID uint, active bool) (int64, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// PaymentMethodRepository defines the interface for stored payment instruments
type PaymentMethodRepository interface {
	Create(method *models.PaymentMethod) error
	HasAny(customerID uint) (bool, error)
	// GetDefaultOrFirst returns the default method, or the first available when
	// none is marked default, or gorm.ErrRecordNotFound when none exists.
	GetDefaultOrFirst(customerID uint) (*models.PaymentMethod, error)
	ListByCustomer(customerID uint) ([]models.PaymentMethod, error)
	Delete(id uint) error
}

// SubscriptionEventRepository defines the interface for the append-only audit trail
type SubscriptionEventRepository interface {
	Record(event *models.SubscriptionEvent) error
	ListByCustomer(customerID uint) ([]models.SubscriptionEvent, error)
	LatestByCustomer(customerID uint) (*models.SubscriptionEvent, error)
	CountByCustomer(customerID uint) (int64, error)
}

// TrialNotificationRepository defines the interface for the notification dedup records
type TrialNotificationRepository interface {
	Exists(customerID uint, notificationType string) (bool, error)
	// Create inserts the dedup row; a duplicate (customer, type) pair is a
	// silent no-op so repeated scanner runs stay idempotent.
	Create(customerID uint, notificationType string, emailSent bool) error
	ListByCustomer(customerID uint) ([]models.TrialNotification, error)
}

// LeaseRepository defines the interface for lease CRUD operations
type LeaseRepository interface {
	Create(lease *models.Lease) error
	GetByID(id uint) (*models.Lease, error)
	GetByUUID(uuid string) (*models.Lease, error)
	ListByCustomer(customerID uint, offset, limit int) ([]models.Lease, error)
	Update(lease *models.Lease) error
	Delete(id uint) error
	CountByCustomer(customerID uint) (int64, error)
}

// FormSubmissionRepository defines the interface for inbound form records
type FormSubmissionRepository interface {
	Create(submission *models.FormSubmission) error
	ListByCustomer(customerID uint, offset, limit int) ([]models.FormSubmission, error)
	Count() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Customer          CustomerRepository
	User              UserRepository
	PaymentMethod     PaymentMethodRepository
	SubscriptionEvent SubscriptionEventRepository
	TrialNotification TrialNotificationRepository
	Lease             LeaseRepository
	FormSubmission    FormSubmissionRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer:          NewCustomerRepository(db),
		User:              NewUserRepository(db),
		PaymentMethod:     NewPaymentMethodRepository(db),
		SubscriptionEvent: NewSubscriptionEventRepository(db),
		TrialNotification: NewTrialNotificationRepository(db),
		Lease:             NewLeaseRepository(db),
		FormSubmission:    NewFormSubmissionRepository(db),
	}
}
