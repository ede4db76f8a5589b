package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeaseStatusDraft      = "draft"
	LeaseStatusActive     = "active"
	LeaseStatusTerminated = "terminated"
	LeaseStatusExpired    = "expired"
)

// Lease is a customer-scoped rental agreement record.
type Lease struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UUID       string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CustomerID uint           `gorm:"not null;index" json:"customer_id"`
	UnitLabel  string         `gorm:"type:varchar(100)" json:"unit_label" validate:"required,min=1,max=100"`
	TenantName string         `gorm:"type:varchar(150)" json:"tenant_name" validate:"required,min=2,max=150"`
	RentAmount float64        `gorm:"type:decimal(10,2);default:0" json:"rent_amount" validate:"gte=0"`
	StartsAt   time.Time      `gorm:"type:timestamp" json:"starts_at"`
	EndsAt     *time.Time     `gorm:"type:timestamp;default:null" json:"ends_at,omitempty"`
	Status     string         `gorm:"type:varchar(20);default:'draft'" json:"status" validate:"oneof=draft active terminated expired"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *Lease) Validate() error {
	v := validator.New()

	return v.Struct(l)
}

// BeforeCreate assigns the public identifier.
func (l *Lease) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == "" {
		l.UUID = uuid.New().String()
	}
	return nil
}
