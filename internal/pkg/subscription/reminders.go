package subscription

import (
	"time"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/DanielKramer/PropNest/app/repository"
	"github.com/DanielKramer/PropNest/internal/pkg/mail"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// reminderThresholds maps days-remaining thresholds to their notification
// type, scanned in descending order.
var reminderThresholds = []struct {
	days             int
	notificationType string
}{
	{7, models.NotificationTrial7Days},
	{3, models.NotificationTrial3Days},
	{1, models.NotificationTrial1Day},
}

// ReminderScanner sends proactive trial-expiry reminders. For each threshold
// it looks at the calendar-day window [today+N 00:00, today+N+1 00:00) and
// notifies trial customers whose trial ends inside it. The dedup record
// guarantees at most one reminder per type per customer no matter how often
// the scanner runs.
type ReminderScanner struct {
	customers     CustomerStore
	notifications NotificationStore
	notifier      *Notifier
}

// NewReminderScanner creates a scanner from its collaborators.
func NewReminderScanner(customers CustomerStore, notifications NotificationStore, notifier *Notifier) *ReminderScanner {
	return &ReminderScanner{
		customers:     customers,
		notifications: notifications,
		notifier:      notifier,
	}
}

// NewReminderScannerFromDB wires the scanner with GORM repositories and the
// SMTP notifier.
func NewReminderScannerFromDB(db *gorm.DB) *ReminderScanner {
	repos := repository.NewRepositories(db)
	notifier := NewNotifier(repos.TrialNotification, mail.SendMail)
	return NewReminderScanner(repos.Customer, repos.TrialNotification, notifier)
}

// Run executes one scan over all thresholds and returns the number of
// reminders sent. A failing threshold is logged and does not stop the rest.
func (s *ReminderScanner) Run() (int, error) {
	now := time.Now()
	sent := 0
	var lastErr error

	for _, threshold := range reminderThresholds {
		from := startOfDay(now).AddDate(0, 0, threshold.days)
		to := from.AddDate(0, 0, 1)

		candidates, err := s.customers.FindTrialsEndingBetween(from, to)
		if err != nil {
			log.Errorf("[Lifecycle] reminder scan for %d days failed: %v", threshold.days, err)
			lastErr = err
			continue
		}

		for i := range candidates {
			c := &candidates[i]

			exists, err := s.notifications.Exists(c.ID, threshold.notificationType)
			if err != nil {
				log.Errorf("[Lifecycle] notification lookup failed for customer %d: %v", c.ID, err)
				lastErr = err
				continue
			}
			if exists {
				continue
			}

			s.notifier.Notify(c, threshold.notificationType)
			sent++
		}
	}

	return sent, lastErr
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
