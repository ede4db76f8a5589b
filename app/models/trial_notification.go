package models

import "time"

// Notification types the lifecycle engine sends. The trial_* reminder types
// are deduplicated via the unique (customer_id, notification_type) key.
const (
	NotificationTrial7Days            = "trial_7_days"
	NotificationTrial3Days            = "trial_3_days"
	NotificationTrial1Day             = "trial_1_day"
	NotificationGraceStarted          = "grace_started"
	NotificationAccountSuspended      = "account_suspended"
	NotificationAccountReactivated    = "account_reactivated"
	NotificationSubscriptionActivated = "subscription_activated"
)

// TrialNotification records that a lifecycle notification of a given type was
// attempted for a customer. The existence of a row is the idempotency guard:
// at most one attempt per (customer, type), regardless of how often the
// scanner runs. EmailSent records the actual delivery outcome.
type TrialNotification struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CustomerID       uint      `gorm:"not null;index:ux_trial_notifications_customer_type,unique,priority:1" json:"customer_id"`
	NotificationType string    `gorm:"type:varchar(50);not null;index:ux_trial_notifications_customer_type,unique,priority:2" json:"notification_type"`
	EmailSent        bool      `gorm:"default:false" json:"email_sent"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}
