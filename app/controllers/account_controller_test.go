package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielKramer/PropNest/app/models"
)

func TestAccountEventsPayload(t *testing.T) {
	customer := &models.Customer{UUID: "11111111-2222-3333-4444-555555555555", Status: models.CustomerStatusSuspended}
	events := []models.SubscriptionEvent{
		{ID: 1, EventType: models.EventGracePeriodStarted},
		{ID: 2, EventType: models.EventAccountSuspended},
	}
	latest := &events[1]

	payload := accountEventsPayload(customer, events, latest, 2)

	assert.Equal(t, customer.UUID, payload["customer"])
	assert.Equal(t, models.CustomerStatusSuspended, payload["status"])
	assert.Equal(t, int64(2), payload["total"])
	assert.Equal(t, events, payload["events"])
	require.Contains(t, payload, "latest_event")
	assert.Equal(t, latest, payload["latest_event"])
}

func TestAccountEventsPayloadWithoutHistory(t *testing.T) {
	customer := &models.Customer{UUID: "11111111-2222-3333-4444-555555555555", Status: models.CustomerStatusTrial}

	payload := accountEventsPayload(customer, nil, nil, 0)

	assert.Equal(t, int64(0), payload["total"])
	assert.NotContains(t, payload, "latest_event")
}
