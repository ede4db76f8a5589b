package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	CustomerStatusTrial     = "trial"
	CustomerStatusActive    = "active"
	CustomerStatusSuspended = "suspended"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// Customer is the tenant-owning entity. All users, leases, payment methods and
// lifecycle records hang off a customer. Deletion is a hard delete after the
// retention window, not a soft-delete flag.
type Customer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UUID        string `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CompanyName string `gorm:"type:varchar(150)" json:"company_name" validate:"required,min=2,max=150"`
	Email       string `gorm:"type:varchar(200);index" json:"email" validate:"required,email,min=5,max=200"`
	Status      string `gorm:"type:varchar(20);default:'trial';index" json:"status" validate:"oneof=trial active suspended"`

	TrialStartsAt         *time.Time `gorm:"type:timestamp;default:null" json:"trial_starts_at,omitempty"`
	TrialEndsAt           *time.Time `gorm:"type:timestamp;default:null;index" json:"trial_ends_at,omitempty"`
	GracePeriodEndsAt     *time.Time `gorm:"type:timestamp;default:null;index" json:"grace_period_ends_at,omitempty"`
	SubscriptionStartDate *time.Time `gorm:"type:timestamp;default:null" json:"subscription_start_date,omitempty"`
	SuspendedAt           *time.Time `gorm:"type:timestamp;default:null;index" json:"suspended_at,omitempty"`
	SuspensionReason      string     `gorm:"type:varchar(255);default:null" json:"suspension_reason,omitempty"`

	// Billing fields are owned by the plan/pricing neighbors and read-only here.
	BillingCycle string  `gorm:"type:varchar(16);default:'monthly'" json:"billing_cycle"`
	MRR          float64 `gorm:"type:decimal(10,2);default:0" json:"mrr"`
	PlanID       string  `gorm:"type:varchar(50);default:''" json:"plan_id"`

	Users          []User              `gorm:"foreignKey:CustomerID" json:"users,omitempty"`
	PaymentMethods []PaymentMethod     `gorm:"foreignKey:CustomerID" json:"payment_methods,omitempty"`
	Events         []SubscriptionEvent `gorm:"foreignKey:CustomerID" json:"events,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Customer) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// NewTrialCustomer creates a customer in trial status with the given trial length.
// The lifecycle engine never creates customers; onboarding does, through this.
func NewTrialCustomer(companyName, email string, trialLengthDays int) *Customer {
	now := time.Now()
	ends := now.AddDate(0, 0, trialLengthDays)

	return &Customer{
		UUID:          uuid.New().String(),
		CompanyName:   companyName,
		Email:         email,
		Status:        CustomerStatusTrial,
		TrialStartsAt: &now,
		TrialEndsAt:   &ends,
		BillingCycle:  BillingCycleMonthly,
	}
}

// IsInGrace reports whether the customer is in the overdue window after trial
// expiry. Grace only exists while the customer is nominally still in trial.
func (c *Customer) IsInGrace() bool {
	return c.Status == CustomerStatusTrial && c.GracePeriodEndsAt != nil
}

// IsSuspended reports whether access is currently disabled.
func (c *Customer) IsSuspended() bool {
	return c.Status == CustomerStatusSuspended
}
