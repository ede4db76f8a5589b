package subscription

import (
	"testing"
	"time"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReminderFixture(customers ...*models.Customer) (*ReminderScanner, *fakeNotificationStore, *mailRecorder) {
	store := newFakeCustomerStore(customers...)
	notifications := newFakeNotificationStore()
	mailer := &mailRecorder{}
	scanner := NewReminderScanner(store, notifications, NewNotifier(notifications, mailer.send))
	return scanner, notifications, mailer
}

// inThresholdWindow returns a trial end inside the calendar-day window for
// the given days-remaining threshold, away from the midnight boundaries.
func inThresholdWindow(days int) time.Time {
	day := startOfDay(time.Now()).AddDate(0, 0, days)
	return day.Add(12 * time.Hour)
}

func TestReminderScannerSendsForEachThreshold(t *testing.T) {
	c7 := trialCustomer(1, inThresholdWindow(7))
	c3 := trialCustomer(2, inThresholdWindow(3))
	c1 := trialCustomer(3, inThresholdWindow(1))
	scanner, notifications, mailer := newReminderFixture(c7, c3, c1)

	sent, err := scanner.Run()
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Len(t, mailer.sent, 3)

	for _, tc := range []struct {
		id  uint
		typ string
	}{
		{1, models.NotificationTrial7Days},
		{2, models.NotificationTrial3Days},
		{3, models.NotificationTrial1Day},
	} {
		exists, err := notifications.Exists(tc.id, tc.typ)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s record for customer %d", tc.typ, tc.id)
	}
}

func TestReminderScannerDeduplicates(t *testing.T) {
	c := trialCustomer(1, inThresholdWindow(3))
	scanner, notifications, mailer := newReminderFixture(c)

	sent, err := scanner.Run()
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	// Running again the same day must not send a second reminder.
	sent, err = scanner.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, mailer.sent, 1)
	assert.Len(t, notifications.rows, 1)
}

func TestReminderScannerIgnoresOtherDays(t *testing.T) {
	c := trialCustomer(1, inThresholdWindow(5))
	scanner, _, mailer := newReminderFixture(c)

	sent, err := scanner.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, mailer.sent)
}

func TestReminderScannerSkipsCustomersInGrace(t *testing.T) {
	c := trialCustomer(1, inThresholdWindow(1))
	graceEnds := time.Now().AddDate(0, 0, 2)
	c.GracePeriodEndsAt = &graceEnds
	scanner, _, mailer := newReminderFixture(c)

	sent, err := scanner.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, mailer.sent)
}

func TestReminderRecordedEvenWhenDeliveryFails(t *testing.T) {
	c := trialCustomer(1, inThresholdWindow(3))
	scanner, notifications, mailer := newReminderFixture(c)
	mailer.fail = true

	sent, err := scanner.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// One attempt per type, even if it failed; the row records the outcome.
	delivered, ok := notifications.rows[notificationKey(1, models.NotificationTrial3Days)]
	require.True(t, ok)
	assert.False(t, delivered)

	sent, err = scanner.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, sent, "failed deliveries are not retried by the scanner")
}
