package repository

import (
	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// trialNotificationRepository implements the TrialNotificationRepository interface
type trialNotificationRepository struct {
	db *gorm.DB
}

// NewTrialNotificationRepository creates a new trial notification repository instance
func NewTrialNotificationRepository(db *gorm.DB) TrialNotificationRepository {
	return &trialNotificationRepository{db: db}
}

// Exists reports whether a notification of this type was already attempted.
func (r *trialNotificationRepository) Exists(customerID uint, notificationType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.TrialNotification{}).
		Where("customer_id = ? AND notification_type = ?", customerID, notificationType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the dedup row. The unique (customer_id, notification_type)
// key plus DO NOTHING makes a duplicate insert a harmless no-op.
func (r *trialNotificationRepository) Create(customerID uint, notificationType string, emailSent bool) error {
	notification := models.TrialNotification{
		CustomerID:       customerID,
		NotificationType: notificationType,
		EmailSent:        emailSent,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "customer_id"},
			{Name: "notification_type"},
		},
		DoNothing: true,
	}).Create(&notification).Error
}

// ListByCustomer returns all notification records for a customer
func (r *trialNotificationRepository) ListByCustomer(customerID uint) ([]models.TrialNotification, error) {
	var notifications []models.TrialNotification
	err := r.db.
		Where("customer_id = ?", customerID).
		Order("created_at ASC, id ASC").
		Find(&notifications).Error
	return notifications, err
}
