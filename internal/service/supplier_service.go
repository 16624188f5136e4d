package service

import (
	"context"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/session"
	"voicemarket/internal/util"

	"go.uber.org/zap"
)

const (
	kindSupplier  = "supplier"
	scopeAddStock = "add-stock"
)

// SupplierService drives supplier dashboards
type SupplierService struct {
	sessions    *session.Registry[*session.Supplier]
	publisher   Publisher
	idempotency IdempotencyStore
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewSupplierService creates a new supplier service
func NewSupplierService(publisher Publisher, idempotency IdempotencyStore, ttl time.Duration) *SupplierService {
	return &SupplierService{
		sessions:    session.NewRegistry[*session.Supplier](),
		publisher:   publisher,
		idempotency: idempotency,
		ttl:         ttl,
		now:         time.Now,
		logger:      util.Component("supplier"),
	}
}

// Open mounts a supplier dashboard with fresh seed data
func (s *SupplierService) Open(ctx context.Context) (string, session.SupplierSnapshot) {
	_, span := util.StartSpan(ctx, "SupplierService.Open")
	defer span.End()

	id, sup := s.sessions.Add(func(string) *session.Supplier {
		return session.NewSupplier(s.now)
	})
	util.SessionsActive.WithLabelValues(kindSupplier).Inc()

	s.logger.Info("Supplier dashboard opened", zap.String("session_id", id))
	return id, sup.Snapshot(s.now())
}

// Get returns the dashboard snapshot evaluated now
func (s *SupplierService) Get(ctx context.Context, id string) (session.SupplierSnapshot, error) {
	sup, err := s.sessions.Get(id)
	if err != nil {
		return session.SupplierSnapshot{}, err
	}
	return sup.Snapshot(s.now()), nil
}

// AddStock adds an inventory item. A repeated idempotency key returns the
// item added the first time.
func (s *SupplierService) AddStock(ctx context.Context, id, idempotencyKey string, form session.StockForm) (models.InventoryItem, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.AddStock")
	defer span.End()

	sup, err := s.sessions.Get(id)
	if err != nil {
		return models.InventoryItem{}, err
	}

	scope := scopeAddStock + ":" + id
	if itemID, ok := replayed(ctx, s.logger, s.idempotency, scope, idempotencyKey); ok {
		for _, view := range sup.Snapshot(s.now()).Inventory {
			if view.ID == itemID {
				util.IdempotentReplaysTotal.WithLabelValues(scopeAddStock).Inc()
				s.logger.Info("Duplicate add-stock request detected",
					zap.String("session_id", id),
					zap.String("item_id", itemID))
				return view.InventoryItem, nil
			}
		}
	}

	item := sup.AddStock(form)
	util.StockItemsAddedTotal.Inc()
	s.logger.Info("Stock added",
		zap.String("session_id", id),
		zap.String("item_id", item.ID),
		zap.String("name", item.Name))

	remember(ctx, s.logger, s.idempotency, scope, idempotencyKey, item.ID, s.ttl)

	if s.publisher != nil {
		event := &models.StockAddedEvent{
			BaseEvent: models.NewBaseEvent(models.EventTypeStockAdded, id),
			Item:      item,
		}
		publish(ctx, s.logger, event.EventType, func(ctx context.Context) error {
			return s.publisher.PublishStockAdded(ctx, event)
		})
	}
	return item, nil
}

// ActOnOrder accepts or rejects an incoming order and returns the resulting
// snapshot. Unknown orders and settled orders are no-ops.
func (s *SupplierService) ActOnOrder(ctx context.Context, id, orderID, action string) (session.SupplierSnapshot, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.ActOnOrder")
	defer span.End()

	sup, err := s.sessions.Get(id)
	if err != nil {
		return session.SupplierSnapshot{}, err
	}

	order, changed := sup.ActOnOrder(orderID, action)
	if !changed {
		s.logger.Debug("Order decision ignored",
			zap.String("session_id", id),
			zap.String("order_id", orderID),
			zap.String("action", action))
		return sup.Snapshot(s.now()), nil
	}

	util.IncomingOrdersDecidedTotal.WithLabelValues(order.Status).Inc()
	s.logger.Info("Incoming order decided",
		zap.String("session_id", id),
		zap.String("order_id", order.ID),
		zap.String("status", order.Status))

	if s.publisher != nil {
		event := &models.IncomingOrderDecidedEvent{
			BaseEvent:  models.NewBaseEvent(models.EventTypeIncomingOrderDecided, id),
			OrderID:    order.ID,
			VendorName: order.VendorName,
			Status:     order.Status,
		}
		publish(ctx, s.logger, event.EventType, func(ctx context.Context) error {
			return s.publisher.PublishIncomingOrderDecided(ctx, event)
		})
	}
	return sup.Snapshot(s.now()), nil
}

// Alerts lists items expiring within five days
func (s *SupplierService) Alerts(ctx context.Context, id string) ([]session.InventoryView, error) {
	sup, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return sup.ExpiryAlerts(s.now()), nil
}

// Close unmounts a supplier dashboard
func (s *SupplierService) Close(ctx context.Context, id string) error {
	if err := s.sessions.Close(id); err != nil {
		return err
	}
	util.SessionsActive.WithLabelValues(kindSupplier).Dec()
	s.logger.Info("Supplier dashboard closed", zap.String("session_id", id))
	return nil
}

// CloseAll unmounts every supplier dashboard
func (s *SupplierService) CloseAll() {
	n := s.sessions.Len()
	s.sessions.CloseAll()
	util.SessionsActive.WithLabelValues(kindSupplier).Sub(float64(n))
}
