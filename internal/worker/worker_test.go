package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"voicemarket/internal/models"
	"voicemarket/internal/store"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	entries []*store.ActivityEntry
	err     error
}

func (f *fakeJournal) RecordActivity(_ context.Context, entry *store.ActivityEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestActivityWorkerJournalsEvents(t *testing.T) {
	journal := &fakeJournal{}
	w := NewActivityWorker(nil, journal)
	ctx := context.Background()

	stock := &models.StockAddedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeStockAdded, "s-1"),
		Item:      models.InventoryItem{Name: "Carrots", Quantity: 40, Unit: "kg", Price: decimal.NewFromInt(12)},
	}
	decided := &models.IncomingOrderDecidedEvent{
		BaseEvent:  models.NewBaseEvent(models.EventTypeIncomingOrderDecided, "s-1"),
		OrderID:    "1",
		VendorName: "Ramesh Street Vendor",
		Status:     models.IncomingStatusAccepted,
	}
	placed := &models.VendorOrderPlacedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeVendorOrderPlaced, "v-1"),
		Order:     models.VendorOrder{ID: "o", Item: "Tomatoes", Quantity: "5 kg", PriceLimit: "₹10/kg"},
	}

	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, stock)))
	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, decided)))
	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, placed)))

	require.Len(t, journal.entries, 3)
	assert.Equal(t, "Added 40kg Carrots to inventory", journal.entries[0].Message)
	assert.Equal(t, stock.EventID, journal.entries[0].EventID)
	assert.Equal(t, "s-1", journal.entries[0].SessionID)
	assert.Equal(t, "Order accepted from Ramesh Street Vendor", journal.entries[1].Message)
	assert.Equal(t, "Vendor ordered 5 kg Tomatoes under ₹10/kg", journal.entries[2].Message)
}

func TestActivityWorkerIgnoresUnknownEvents(t *testing.T) {
	journal := &fakeJournal{}
	w := NewActivityWorker(nil, journal)

	base := models.NewBaseEvent("SOMETHING_ELSE", "x")
	require.NoError(t, w.eventHandler.HandleMessage(context.Background(), message(t, base)))
	assert.Empty(t, journal.entries)
}

func TestActivityWorkerSurfacesJournalErrors(t *testing.T) {
	journal := &fakeJournal{err: errors.New("db down")}
	w := NewActivityWorker(nil, journal)

	event := &models.VendorOrderMatchedEvent{
		BaseEvent:    models.NewBaseEvent(models.EventTypeVendorOrderMatched, "v-1"),
		OrderID:      "o",
		Supplier:     "Nashik Fresh Supplier",
		MatchedPrice: "₹9.5/kg",
	}
	err := w.eventHandler.HandleMessage(context.Background(), message(t, event))
	assert.Error(t, err)
}

func TestActivityWorkerRejectsGarbage(t *testing.T) {
	w := NewActivityWorker(nil, &fakeJournal{})
	err := w.eventHandler.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
