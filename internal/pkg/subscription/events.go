package subscription

import (
	"encoding/json"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/gofiber/fiber/v2/log"
)

// EventRecorder appends immutable lifecycle events to the audit trail. A
// failed write is logged and swallowed; losing an audit row must never abort
// the transition that caused it.
type EventRecorder struct {
	store EventStore
}

// NewEventRecorder creates an event recorder on top of an event store.
func NewEventRecorder(store EventStore) *EventRecorder {
	return &EventRecorder{store: store}
}

// Record appends one event. Metadata is stored as JSON.
func (r *EventRecorder) Record(customerID uint, eventType, previousStatus, newStatus, triggeredBy string, metadata map[string]interface{}) {
	var meta string
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			log.Errorf("[Lifecycle] failed to encode event metadata for customer %d: %v", customerID, err)
		} else {
			meta = string(raw)
		}
	}

	event := &models.SubscriptionEvent{
		CustomerID:     customerID,
		EventType:      eventType,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		TriggeredBy:    triggeredBy,
		Metadata:       meta,
	}
	if err := r.store.Record(event); err != nil {
		log.Errorf("[Lifecycle] failed to record %s event for customer %d: %v", eventType, customerID, err)
	}
}
