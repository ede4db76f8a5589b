package repository

import (
	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
)

// paymentMethodRepository implements the PaymentMethodRepository interface
type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository instance
func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

// Create stores a new payment method
func (r *paymentMethodRepository) Create(method *models.PaymentMethod) error {
	return r.db.Create(method).Error
}

// HasAny reports whether the customer has at least one payment method on file.
// This existence check is the only signal the lifecycle engine consumes.
func (r *paymentMethodRepository) HasAny(customerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PaymentMethod{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetDefaultOrFirst returns the default method, falling back to the oldest one
// when no default is marked.
func (r *paymentMethodRepository) GetDefaultOrFirst(customerID uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.
		Where("customer_id = ?", customerID).
		Order("is_default DESC, id ASC").
		First(&method).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// ListByCustomer returns all payment methods of a customer
func (r *paymentMethodRepository) ListByCustomer(customerID uint) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.Where("customer_id = ?", customerID).Order("is_default DESC, id ASC").Find(&methods).Error
	return methods, err
}

// Delete removes a payment method
func (r *paymentMethodRepository) Delete(id uint) error {
	return r.db.Delete(&models.PaymentMethod{}, id).Error
}
