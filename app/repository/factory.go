package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetCustomerRepository returns the customer repository instance
func (f *Factory) GetCustomerRepository() CustomerRepository {
	return f.GetRepositories().Customer
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetPaymentMethodRepository returns the payment method repository instance
func (f *Factory) GetPaymentMethodRepository() PaymentMethodRepository {
	return f.GetRepositories().PaymentMethod
}

// GetSubscriptionEventRepository returns the subscription event repository instance
func (f *Factory) GetSubscriptionEventRepository() SubscriptionEventRepository {
	return f.GetRepositories().SubscriptionEvent
}

// GetTrialNotificationRepository returns the trial notification repository instance
func (f *Factory) GetTrialNotificationRepository() TrialNotificationRepository {
	return f.GetRepositories().TrialNotification
}

// GetLeaseRepository returns the lease repository instance
func (f *Factory) GetLeaseRepository() LeaseRepository {
	return f.GetRepositories().Lease
}

// GetFormSubmissionRepository returns the form submission repository instance
func (f *Factory) GetFormSubmissionRepository() FormSubmissionRepository {
	return f.GetRepositories().FormSubmission
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
