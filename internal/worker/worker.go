package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"voicemarket/internal/broker"
	"voicemarket/internal/models"
	"voicemarket/internal/store"
	"voicemarket/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Journal receives one entry per consumed event
type Journal interface {
	RecordActivity(ctx context.Context, entry *store.ActivityEntry) error
}

// ActivityWorker copies marketplace events into the activity journal
type ActivityWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	journal      Journal
	logger       *zap.Logger
}

// NewActivityWorker creates a new activity worker
func NewActivityWorker(consumer *broker.Consumer, journal Journal) *ActivityWorker {
	w := &ActivityWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		journal:      journal,
		logger:       util.Component("worker"),
	}

	w.eventHandler.On(models.EventTypeUserAuthenticated, journalAs(w, func(e *models.UserAuthenticatedEvent) string {
		return fmt.Sprintf("%s completed %s, redirected to %s", e.Role, e.Mode, e.Redirect)
	}))
	w.eventHandler.On(models.EventTypeVendorOrderPlaced, journalAs(w, func(e *models.VendorOrderPlacedEvent) string {
		return fmt.Sprintf("Vendor ordered %s %s under %s", e.Order.Quantity, e.Order.Item, e.Order.PriceLimit)
	}))
	w.eventHandler.On(models.EventTypeVendorOrderMatched, journalAs(w, func(e *models.VendorOrderMatchedEvent) string {
		return fmt.Sprintf("%s matched order %s at %s", e.Supplier, e.OrderID, e.MatchedPrice)
	}))
	w.eventHandler.On(models.EventTypeIncomingOrderDecided, journalAs(w, func(e *models.IncomingOrderDecidedEvent) string {
		return fmt.Sprintf("Order %s from %s", e.Status, e.VendorName)
	}))
	w.eventHandler.On(models.EventTypeStockAdded, journalAs(w, func(e *models.StockAddedEvent) string {
		return fmt.Sprintf("Added %s%s %s to inventory", decimal.NewFromFloat(e.Item.Quantity).String(), e.Item.Unit, e.Item.Name)
	}))

	return w
}

// Start starts the worker
func (w *ActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting activity worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ActivityWorker) Stop() error {
	w.logger.Info("Stopping activity worker")
	return w.consumer.Close()
}

// journalAs decodes the concrete event and writes its one-line description
func journalAs[E any](w *ActivityWorker, describe func(*E) string) func(context.Context, models.BaseEvent, []byte) error {
	return func(ctx context.Context, base models.BaseEvent, payload []byte) error {
		event := new(E)
		if err := json.Unmarshal(payload, event); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", base.EventType, err)
		}

		entry := &store.ActivityEntry{
			EventID:   base.EventID,
			EventType: base.EventType,
			SessionID: base.SessionID,
			Message:   describe(event),
			CreatedAt: base.Timestamp,
		}
		if err := w.journal.RecordActivity(ctx, entry); err != nil {
			return err
		}

		util.ActivityJournaledTotal.WithLabelValues(base.EventType).Inc()
		return nil
	}
}
