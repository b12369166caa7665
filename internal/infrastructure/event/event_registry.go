package event

import (
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
)

// RegisterPOSEvents registers every domain event the POS raises with the serializer
func RegisterPOSEvents(serializer *EventSerializer) {
	serializer.Register(billing.EventTypeBillCreated, &billing.BillCreatedEvent{})

	serializer.Register(printing.EventTypePrintJobCreated, &printing.PrintJobCreatedEvent{})
	serializer.Register(printing.EventTypePrintJobCompleted, &printing.PrintJobCompletedEvent{})
	serializer.Register(printing.EventTypePrintJobFailed, &printing.PrintJobFailedEvent{})
}

// ForwardedEventTypes are the events relayed to the message broker
var ForwardedEventTypes = []string{
	billing.EventTypeBillCreated,
	printing.EventTypePrintJobCompleted,
}
