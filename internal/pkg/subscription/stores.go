package subscription

import (
	"time"

	"github.com/DanielKramer/PropNest/app/models"
)

// The lifecycle engine only sees the narrow store contracts below. The GORM
// repositories in app/repository satisfy them; tests use in-memory fakes.

// CustomerStore provides customer reads plus the conditional writes every
// transition goes through.
type CustomerStore interface {
	GetByID(id uint) (*models.Customer, error)
	GetByUUID(uuid string) (*models.Customer, error)
	UpdateIfStatus(id uint, expected []string, fields map[string]interface{}) (bool, error)
	BeginGraceIfNotStarted(id uint, endsAt time.Time) (bool, error)
	FindExpiringTrials(now time.Time) ([]models.Customer, error)
	FindExpiringGrace(now time.Time) ([]models.Customer, error)
	FindTrialsEndingBetween(from, to time.Time) ([]models.Customer, error)
	FindSuspendedBefore(cutoff time.Time) ([]models.Customer, error)
	Delete(id uint) error
}

// PaymentMethodStore answers the only two payment questions the engine asks.
type PaymentMethodStore interface {
	HasAny(customerID uint) (bool, error)
	GetDefaultOrFirst(customerID uint) (*models.PaymentMethod, error)
}

// EventStore is the append-only audit sink.
type EventStore interface {
	Record(event *models.SubscriptionEvent) error
}

// NotificationStore holds the per-type notification dedup records.
type NotificationStore interface {
	Exists(customerID uint, notificationType string) (bool, error)
	Create(customerID uint, notificationType string, emailSent bool) error
}

// UserStore is the bulk access switch for a customer's users.
type UserStore interface {
	SetActiveByCustomer(customerID uint, active bool) (int64, error)
}
