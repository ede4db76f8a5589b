package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	FormKindContact     = "contact"
	FormKindMaintenance = "maintenance"
)

// FormSubmission is a public inbound form (contact or maintenance request).
// Submissions are rate limited per source before they ever reach the database.
type FormSubmission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"index" json:"customer_id"`
	Kind       string    `gorm:"type:varchar(30);default:'contact'" json:"kind" validate:"oneof=contact maintenance"`
	Name       string    `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email      string    `gorm:"type:varchar(200)" json:"email" validate:"required,email"`
	Message    string    `gorm:"type:text" json:"message" validate:"required,min=5,max=5000"`
	SourceIP   string    `gorm:"type:varchar(45)" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *FormSubmission) Validate() error {
	v := validator.New()

	return v.Struct(f)
}
