package repository

import (
	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
)

// subscriptionEventRepository implements the SubscriptionEventRepository interface
type subscriptionEventRepository struct {
	db *gorm.DB
}

// NewSubscriptionEventRepository creates a new subscription event repository instance
func NewSubscriptionEventRepository(db *gorm.DB) SubscriptionEventRepository {
	return &subscriptionEventRepository{db: db}
}

// Record appends one event to the audit trail. Events are never updated.
func (r *subscriptionEventRepository) Record(event *models.SubscriptionEvent) error {
	return r.db.Create(event).Error
}

// ListByCustomer returns a customer's full event history, oldest first
func (r *subscriptionEventRepository) ListByCustomer(customerID uint) ([]models.SubscriptionEvent, error) {
	var events []models.SubscriptionEvent
	err := r.db.
		Where("customer_id = ?", customerID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// LatestByCustomer returns the most recent event for a customer
func (r *subscriptionEventRepository) LatestByCustomer(customerID uint) (*models.SubscriptionEvent, error) {
	var event models.SubscriptionEvent
	err := r.db.
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CountByCustomer returns the number of recorded events for a customer
func (r *subscriptionEventRepository) CountByCustomer(customerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SubscriptionEvent{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}
