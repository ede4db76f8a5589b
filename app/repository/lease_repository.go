package repository

import (
	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
)

// leaseRepository implements the LeaseRepository interface
type leaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository instance
func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

// Create creates a new lease in the database
func (r *leaseRepository) Create(lease *models.Lease) error {
	return r.db.Create(lease).Error
}

// GetByID retrieves a lease by its ID
func (r *leaseRepository) GetByID(id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// GetByUUID retrieves a lease by its public identifier
func (r *leaseRepository) GetByUUID(uuid string) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.Where("uuid = ?", uuid).First(&lease).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// ListByCustomer retrieves leases of a customer with pagination
func (r *leaseRepository) ListByCustomer(customerID uint, offset, limit int) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.
		Where("customer_id = ?", customerID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&leases).Error
	return leases, err
}

// Update updates an existing lease in the database
func (r *leaseRepository) Update(lease *models.Lease) error {
	return r.db.Save(lease).Error
}

// Delete removes a lease from the database
func (r *leaseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Lease{}, id).Error
}

// CountByCustomer returns the number of leases for a customer
func (r *leaseRepository) CountByCustomer(customerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Lease{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}
