package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"voicemarket/internal/models"
	"voicemarket/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventWriter is the part of Producer the publisher needs
type EventWriter interface {
	PublishEvent(ctx context.Context, key, eventType string, event interface{}) error
}

// EventPublisher handles publishing marketplace events
type EventPublisher struct {
	writer EventWriter
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(writer EventWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

func (ep *EventPublisher) publish(ctx context.Context, base models.BaseEvent, event interface{}) error {
	return ep.writer.PublishEvent(ctx, "session-"+base.SessionID, base.EventType, event)
}

// PublishUserAuthenticated publishes UserAuthenticated event
func (ep *EventPublisher) PublishUserAuthenticated(ctx context.Context, event *models.UserAuthenticatedEvent) error {
	return ep.publish(ctx, event.BaseEvent, event)
}

// PublishVendorOrderPlaced publishes VendorOrderPlaced event
func (ep *EventPublisher) PublishVendorOrderPlaced(ctx context.Context, event *models.VendorOrderPlacedEvent) error {
	return ep.publish(ctx, event.BaseEvent, event)
}

// PublishVendorOrderMatched publishes VendorOrderMatched event
func (ep *EventPublisher) PublishVendorOrderMatched(ctx context.Context, event *models.VendorOrderMatchedEvent) error {
	return ep.publish(ctx, event.BaseEvent, event)
}

// PublishIncomingOrderDecided publishes IncomingOrderDecided event
func (ep *EventPublisher) PublishIncomingOrderDecided(ctx context.Context, event *models.IncomingOrderDecidedEvent) error {
	return ep.publish(ctx, event.BaseEvent, event)
}

// PublishStockAdded publishes StockAdded event
func (ep *EventPublisher) PublishStockAdded(ctx context.Context, event *models.StockAddedEvent) error {
	return ep.publish(ctx, event.BaseEvent, event)
}

// EventHandler routes incoming events by type
type EventHandler struct {
	handlers map[string]func(context.Context, models.BaseEvent, []byte) error
	logger   *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{
		handlers: make(map[string]func(context.Context, models.BaseEvent, []byte) error),
		logger:   util.Component("broker"),
	}
}

// On registers a handler for one event type. The raw payload is passed on
// so the handler can decode the concrete event.
func (eh *EventHandler) On(eventType string, handler func(context.Context, models.BaseEvent, []byte) error) {
	eh.handlers[eventType] = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	handler, ok := eh.handlers[baseEvent.EventType]
	if !ok {
		eh.logger.Debug("Unhandled event type", zap.String("event_type", baseEvent.EventType))
		return nil
	}

	eh.logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))
	return handler(ctx, baseEvent, msg.Value)
}
