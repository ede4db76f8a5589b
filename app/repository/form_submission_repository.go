package repository

import (
	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
)

// formSubmissionRepository implements the FormSubmissionRepository interface
type formSubmissionRepository struct {
	db *gorm.DB
}

// NewFormSubmissionRepository creates a new form submission repository instance
func NewFormSubmissionRepository(db *gorm.DB) FormSubmissionRepository {
	return &formSubmissionRepository{db: db}
}

// Create stores a new form submission
func (r *formSubmissionRepository) Create(submission *models.FormSubmission) error {
	return r.db.Create(submission).Error
}

// ListByCustomer retrieves submissions addressed to a customer with pagination
func (r *formSubmissionRepository) ListByCustomer(customerID uint, offset, limit int) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := r.db.
		Where("customer_id = ?", customerID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// Count returns the total number of form submissions
func (r *formSubmissionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.FormSubmission{}).Count(&count).Error
	return count, err
}
