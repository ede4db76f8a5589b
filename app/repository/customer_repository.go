package repository

import (
	"time"

	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer in the database
func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// GetByID retrieves a customer by their ID
func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByUUID retrieves a customer by their public identifier
func (r *customerRepository) GetByUUID(uuid string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("uuid = ?", uuid).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update updates an existing customer in the database
func (r *customerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// UpdateIfStatus performs the conditional write every lifecycle transition
// goes through. The status check and the mutation happen in one UPDATE, so
// racing transitions serialize per customer row.
func (r *customerRepository) UpdateIfStatus(id uint, expected []string, fields map[string]interface{}) (bool, error) {
	tx := r.db.Model(&models.Customer{}).
		Where("id = ? AND status IN ?", id, expected).
		Updates(fields)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// BeginGraceIfNotStarted arms the grace deadline exactly once per trial.
func (r *customerRepository) BeginGraceIfNotStarted(id uint, endsAt time.Time) (bool, error) {
	tx := r.db.Model(&models.Customer{}).
		Where("id = ? AND status = ? AND grace_period_ends_at IS NULL", id, models.CustomerStatusTrial).
		Update("grace_period_ends_at", endsAt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// FindExpiringTrials returns trial customers whose trial deadline has passed
// and who have not yet entered grace. The deadline comparison is inclusive.
func (r *customerRepository) FindExpiringTrials(now time.Time) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at <= ? AND grace_period_ends_at IS NULL",
			models.CustomerStatusTrial, now).
		Order("trial_ends_at ASC, id ASC").
		Find(&customers).Error
	return customers, err
}

// FindExpiringGrace returns customers whose grace deadline has passed.
func (r *customerRepository) FindExpiringGrace(now time.Time) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.
		Where("status = ? AND grace_period_ends_at IS NOT NULL AND grace_period_ends_at <= ?",
			models.CustomerStatusTrial, now).
		Order("grace_period_ends_at ASC, id ASC").
		Find(&customers).Error
	return customers, err
}

// FindTrialsEndingBetween returns trial customers whose trial ends inside
// [from, to). Used by the reminder scanner's calendar-day windows.
func (r *customerRepository) FindTrialsEndingBetween(from, to time.Time) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.
		Where("status = ? AND grace_period_ends_at IS NULL AND trial_ends_at >= ? AND trial_ends_at < ?",
			models.CustomerStatusTrial, from, to).
		Order("trial_ends_at ASC, id ASC").
		Find(&customers).Error
	return customers, err
}

// FindSuspendedBefore returns customers suspended at or before the cutoff,
// i.e. those past the retention window and due for removal.
func (r *customerRepository) FindSuspendedBefore(cutoff time.Time) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.
		Where("status = ? AND suspended_at IS NOT NULL AND suspended_at <= ?",
			models.CustomerStatusSuspended, cutoff).
		Order("suspended_at ASC, id ASC").
		Find(&customers).Error
	return customers, err
}

// Delete removes a customer and its dependent records in one transaction.
// This is the hard delete at the end of the retention window. Subscription
// events are deliberately kept; the audit trail outlives the account.
func (r *customerRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("customer_id = ?", id).Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.PaymentMethod{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.TrialNotification{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("customer_id = ?", id).Delete(&models.Lease{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.FormSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Customer{}, id).Error
	})
}

// List retrieves customers with pagination
func (r *customerRepository) List(offset, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

// Count returns the total number of customers
func (r *customerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Count(&count).Error
	return count, err
}
