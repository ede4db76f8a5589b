package repository

import (
	"github.com/DanielKramer/PropNest/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByCustomerID retrieves all users belonging to a customer
func (r *userRepository) GetByCustomerID(customerID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("customer_id = ?", customerID).Order("id ASC").Find(&users).Error
	return users, err
}

// SetActiveByCustomer flips the access switch for every user of a customer.
// Users already in the target state are left alone, so the call is idempotent
// and the returned count only reflects rows that actually changed.
func (r *userRepository) SetActiveByCustomer(customerID uint, active bool) (int64, error) {
	tx := r.db.Model(&models.User{}).
		Where("customer_id = ? AND is_active = ?", customerID, !active).
		Update("is_active", active)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user from the database
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
