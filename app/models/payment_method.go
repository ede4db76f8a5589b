package models

import "time"

// PaymentMethod is a stored charge instrument belonging to one customer. The
// lifecycle engine only cares about existence; validity is the gateway's call.
type PaymentMethod struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  uint      `gorm:"not null;index" json:"customer_id"`
	ProviderRef string    `gorm:"type:varchar(191);not null" json:"provider_ref"`
	Brand       string    `gorm:"type:varchar(30);default:''" json:"brand"`
	Last4       string    `gorm:"type:varchar(4);default:''" json:"last4"`
	ExpMonth    int       `gorm:"default:0" json:"exp_month"`
	ExpYear     int       `gorm:"default:0" json:"exp_year"`
	IsDefault   bool      `gorm:"default:false;index" json:"is_default"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
