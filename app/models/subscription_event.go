package models

import "time"

// Lifecycle event types recorded in the audit trail.
const (
	EventTrialStarted          = "trial_started"
	EventSubscriptionActivated = "subscription_activated"
	EventGracePeriodStarted    = "grace_period_started"
	EventAccountSuspended      = "account_suspended"
	EventAccountReactivated    = "account_reactivated"
	EventAccountDeleted        = "account_deleted"
)

// Actors that can trigger a lifecycle transition.
const (
	TriggeredBySystem   = "system"
	TriggeredByCustomer = "customer"
	TriggeredByAdmin    = "admin"
)

// SubscriptionEvent is one entry in a customer's append-only lifecycle audit
// trail. Rows are never updated or deleted; support replays them to
// reconstruct what happened to an account and when.
type SubscriptionEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CustomerID     uint      `gorm:"not null;index:idx_subscription_events_customer_created,priority:1" json:"customer_id"`
	EventType      string    `gorm:"type:varchar(50);not null;index" json:"event_type"`
	PreviousStatus string    `gorm:"type:varchar(20);default:''" json:"previous_status"`
	NewStatus      string    `gorm:"type:varchar(20);default:''" json:"new_status"`
	TriggeredBy    string    `gorm:"type:varchar(20);not null;default:'system'" json:"triggered_by"`
	Metadata       string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_subscription_events_customer_created,priority:2" json:"created_at"`
}
