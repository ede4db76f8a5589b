package subscription

// UserAccessGate bulk-enables or bulk-disables every user belonging to a
// customer. Idempotent: flipping users already in the target state changes
// nothing and is not an error.
type UserAccessGate struct {
	users UserStore
}

// NewUserAccessGate creates an access gate on top of a user store.
func NewUserAccessGate(users UserStore) *UserAccessGate {
	return &UserAccessGate{users: users}
}

// SetActive flips access for all of the customer's users and returns how many
// rows actually changed.
func (g *UserAccessGate) SetActive(customerID uint, active bool) (int64, error) {
	return g.users.SetActiveByCustomer(customerID, active)
}
