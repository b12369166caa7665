package event

import (
	"context"
	"fmt"

	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"go.uber.org/zap"
)

// Forwarder relays domain events to a message broker.
// The routing key is the event type and the message ID is the event ID.
type Forwarder struct {
	publisher  BrokerPublisher
	serializer *EventSerializer
	eventTypes []string
	logger     *zap.Logger
}

// NewForwarder creates a forwarder for eventTypes, or ForwardedEventTypes when none are given
func NewForwarder(publisher BrokerPublisher, serializer *EventSerializer, logger *zap.Logger, eventTypes ...string) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(eventTypes) == 0 {
		eventTypes = ForwardedEventTypes
	}
	return &Forwarder{
		publisher:  publisher,
		serializer: serializer,
		eventTypes: eventTypes,
		logger:     logger.Named("event_forwarder"),
	}
}

// Handle serializes the event and publishes it
func (f *Forwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	body, err := f.serializer.Serialize(event)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", event.EventType(), err)
	}

	msg := Message{
		RoutingKey: event.EventType(),
		MessageID:  event.EventID().String(),
		Type:       event.EventType(),
		Timestamp:  event.OccurredAt(),
		Body:       body,
	}
	if err := f.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to forward %s: %w", event.EventType(), err)
	}

	f.logger.Info("event forwarded",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", msg.MessageID),
		zap.String("aggregate_id", event.AggregateID().String()))
	return nil
}

// EventTypes returns the forwarded event types
func (f *Forwarder) EventTypes() []string {
	return f.eventTypes
}

// Ensure Forwarder implements EventHandler
var _ shared.EventHandler = (*Forwarder)(nil)
