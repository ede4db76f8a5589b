package subscription

import (
	"fmt"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/gofiber/fiber/v2/log"
)

// MailFunc is the outbound mail transport. Defaults to mail.SendMail.
type MailFunc func(to, subject, body string) error

// Notifier sends a templated lifecycle message to a customer's primary
// contact and records the attempt. It is best-effort: failure returns false,
// never an error, so the owning transition is unaffected.
type Notifier struct {
	notifications NotificationStore
	send          MailFunc
}

// NewNotifier creates a notifier with the given dedup store and transport.
func NewNotifier(notifications NotificationStore, send MailFunc) *Notifier {
	return &Notifier{notifications: notifications, send: send}
}

// Notify sends the message for the given notification type and records a
// TrialNotification row with the delivery outcome. Returns whether delivery
// succeeded. Idempotency of "already sent" is the caller's responsibility.
func (n *Notifier) Notify(customer *models.Customer, notificationType string) bool {
	subject, body, ok := messageFor(customer, notificationType)
	if !ok {
		log.Errorf("[Lifecycle] unknown notification type %q for customer %d", notificationType, customer.ID)
		return false
	}

	delivered := true
	if err := n.send(customer.Email, subject, body); err != nil {
		log.Warnf("[Lifecycle] notification %s to customer %d failed: %v", notificationType, customer.ID, err)
		delivered = false
	}

	if err := n.notifications.Create(customer.ID, notificationType, delivered); err != nil {
		log.Errorf("[Lifecycle] failed to record notification %s for customer %d: %v", notificationType, customer.ID, err)
	}

	return delivered
}

// messageFor builds the subject and HTML body for a notification type.
func messageFor(c *models.Customer, notificationType string) (string, string, bool) {
	switch notificationType {
	case models.NotificationTrial7Days:
		return "Your trial ends in 7 days",
			fmt.Sprintf("<p>Hello %s,</p><p>your PropNest trial ends on %s. Add a payment method to keep your account running.</p>", c.CompanyName, trialEndDate(c)), true
	case models.NotificationTrial3Days:
		return "Your trial ends in 3 days",
			fmt.Sprintf("<p>Hello %s,</p><p>only 3 days of trial left. Your trial ends on %s.</p>", c.CompanyName, trialEndDate(c)), true
	case models.NotificationTrial1Day:
		return "Your trial ends tomorrow",
			fmt.Sprintf("<p>Hello %s,</p><p>your trial ends tomorrow. Add a payment method now to avoid interruption.</p>", c.CompanyName), true
	case models.NotificationGraceStarted:
		return "Your trial has expired",
			fmt.Sprintf("<p>Hello %s,</p><p>your trial has expired. You have a short grace period to add a payment method before your account is suspended.</p>", c.CompanyName), true
	case models.NotificationAccountSuspended:
		return "Your account has been suspended",
			fmt.Sprintf("<p>Hello %s,</p><p>your account was suspended because the trial expired without payment. Add a payment method and reactivate to restore access.</p>", c.CompanyName), true
	case models.NotificationAccountReactivated:
		return "Your account is active again",
			fmt.Sprintf("<p>Hello %s,</p><p>welcome back! Your account has been reactivated and all users can sign in again.</p>", c.CompanyName), true
	case models.NotificationSubscriptionActivated:
		return "Your subscription is active",
			fmt.Sprintf("<p>Hello %s,</p><p>thank you! Your PropNest subscription is now active.</p>", c.CompanyName), true
	}
	return "", "", false
}

func trialEndDate(c *models.Customer) string {
	if c.TrialEndsAt == nil {
		return ""
	}
	return c.TrialEndsAt.Format("02.01.2006")
}
