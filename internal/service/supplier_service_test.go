package service

import (
	"context"
	"testing"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carrots = session.StockForm{
	Name:     "Carrots",
	Quantity: "40",
	Price:    "12",
	Expiry:   "2030-01-01",
	Location: "Warehouse C",
}

func TestSupplierServiceAddStockIsIdempotent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewSupplierService(pub, newMemoryIdempotency(), time.Minute)
	defer svc.CloseAll()
	ctx := context.Background()

	id, snap := svc.Open(ctx)
	assert.Len(t, snap.Inventory, 3)

	item, err := svc.AddStock(ctx, id, "key-1", carrots)
	require.NoError(t, err)

	again, err := svc.AddStock(ctx, id, "key-1", carrots)
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)

	snap, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, snap.Inventory, 4)
	assert.Equal(t, 1, pub.count(models.EventTypeStockAdded))

	// no key means no replay
	_, err = svc.AddStock(ctx, id, "", carrots)
	require.NoError(t, err)
	snap, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, snap.Inventory, 5)
}

func TestSupplierServiceActOnOrder(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewSupplierService(pub, nil, time.Minute)
	defer svc.CloseAll()
	ctx := context.Background()

	id, _ := svc.Open(ctx)

	snap, err := svc.ActOnOrder(ctx, id, "1", session.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.IncomingStatusAccepted, snap.Orders[0].Status)
	assert.Equal(t, 1, pub.count(models.EventTypeIncomingOrderDecided))

	snap, err = svc.ActOnOrder(ctx, id, "missing", session.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.IncomingStatusPending, snap.Orders[1].Status)
	assert.Equal(t, 1, pub.count(models.EventTypeIncomingOrderDecided))
}

func TestSupplierServiceAlerts(t *testing.T) {
	svc := NewSupplierService(nil, nil, time.Minute)
	defer svc.CloseAll()
	ctx := context.Background()

	id, _ := svc.Open(ctx)
	alerts, err := svc.Alerts(ctx, id)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestSupplierServiceUnknownSession(t *testing.T) {
	svc := NewSupplierService(nil, nil, time.Minute)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, "nope", "", carrots)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = svc.ActOnOrder(ctx, "nope", "1", session.ActionAccept)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
