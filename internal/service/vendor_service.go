package service

import (
	"context"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/session"
	"voicemarket/internal/util"
	"voicemarket/internal/voice"

	"go.uber.org/zap"
)

const (
	kindVendor        = "vendor"
	scopeConfirmOrder = "confirm-order"
	outcomeCompleted  = "completed"
	outcomeStopped    = "stopped"
)

// VendorService drives vendor dashboards and their voice assistant
type VendorService struct {
	sessions    *session.Registry[*session.Vendor]
	timings     session.Timings
	pick        voice.Picker
	publisher   Publisher
	idempotency IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
}

// NewVendorService creates a new vendor service. pick may be nil for random transcripts.
func NewVendorService(
	timings session.Timings,
	pick voice.Picker,
	publisher Publisher,
	idempotency IdempotencyStore,
	ttl time.Duration,
) *VendorService {
	return &VendorService{
		sessions:    session.NewRegistry[*session.Vendor](),
		timings:     timings,
		pick:        pick,
		publisher:   publisher,
		idempotency: idempotency,
		ttl:         ttl,
		logger:      util.Component("vendor"),
	}
}

// Open mounts a vendor dashboard
func (s *VendorService) Open(ctx context.Context) (string, session.VendorSnapshot) {
	_, span := util.StartSpan(ctx, "VendorService.Open")
	defer span.End()

	id, v := s.sessions.Add(func(id string) *session.Vendor {
		return session.NewVendor(s.timings, s.pick, session.VendorHooks{
			OnParsed:  func(p session.ParsedPreview) { s.parsed(id, p) },
			OnMatched: func(o models.VendorOrder) { s.matched(id, o) },
		}, nil)
	})
	util.SessionsActive.WithLabelValues(kindVendor).Inc()

	s.logger.Info("Vendor dashboard opened", zap.String("session_id", id))
	return id, v.Snapshot()
}

// Get returns the dashboard snapshot
func (s *VendorService) Get(ctx context.Context, id string) (session.VendorSnapshot, error) {
	v, err := s.sessions.Get(id)
	if err != nil {
		return session.VendorSnapshot{}, err
	}
	return v.Snapshot(), nil
}

// StartListening begins a simulated capture and returns the sentence being replayed
func (s *VendorService) StartListening(ctx context.Context, id string) (string, session.VendorSnapshot, error) {
	_, span := util.StartSpan(ctx, "VendorService.StartListening")
	defer span.End()

	v, err := s.sessions.Get(id)
	if err != nil {
		return "", session.VendorSnapshot{}, err
	}

	sentence, snap := v.StartListening()
	s.logger.Debug("Listening started", zap.String("session_id", id), zap.String("sentence", sentence))
	return sentence, snap, nil
}

// StopListening cancels the capture and keeps the partial transcript
func (s *VendorService) StopListening(ctx context.Context, id string) (session.VendorSnapshot, error) {
	_, span := util.StartSpan(ctx, "VendorService.StopListening")
	defer span.End()

	v, err := s.sessions.Get(id)
	if err != nil {
		return session.VendorSnapshot{}, err
	}

	wasListening := v.Snapshot().State == session.VendorStateListening
	snap := v.StopListening()
	if wasListening {
		util.VoiceCapturesTotal.WithLabelValues(outcomeStopped).Inc()
	}
	return snap, nil
}

// ConfirmOrder places the parsed order. A repeated idempotency key returns
// the order placed the first time. The bool is false when there was nothing
// to confirm.
func (s *VendorService) ConfirmOrder(ctx context.Context, id, idempotencyKey string) (models.VendorOrder, bool, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.ConfirmOrder")
	defer span.End()

	v, err := s.sessions.Get(id)
	if err != nil {
		return models.VendorOrder{}, false, err
	}

	scope := scopeConfirmOrder + ":" + id
	if orderID, ok := replayed(ctx, s.logger, s.idempotency, scope, idempotencyKey); ok {
		for _, o := range v.Snapshot().Orders {
			if o.ID == orderID {
				util.IdempotentReplaysTotal.WithLabelValues(scopeConfirmOrder).Inc()
				s.logger.Info("Duplicate confirm request detected",
					zap.String("session_id", id),
					zap.String("order_id", orderID))
				return o, true, nil
			}
		}
	}

	order, ok := v.ConfirmOrder()
	if !ok {
		return models.VendorOrder{}, false, nil
	}

	util.VendorOrdersPlacedTotal.Inc()
	s.logger.Info("Vendor order placed",
		zap.String("session_id", id),
		zap.String("order_id", order.ID),
		zap.String("item", order.Item))

	remember(ctx, s.logger, s.idempotency, scope, idempotencyKey, order.ID, s.ttl)

	if s.publisher != nil {
		event := &models.VendorOrderPlacedEvent{
			BaseEvent: models.NewBaseEvent(models.EventTypeVendorOrderPlaced, id),
			Order:     order,
		}
		publish(ctx, s.logger, event.EventType, func(ctx context.Context) error {
			return s.publisher.PublishVendorOrderPlaced(ctx, event)
		})
	}
	return order, true, nil
}

// Suppliers lists the candidate suppliers
func (s *VendorService) Suppliers(ctx context.Context, id string) ([]models.MockSupplier, error) {
	v, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return v.Suppliers(), nil
}

// Close unmounts a vendor dashboard
func (s *VendorService) Close(ctx context.Context, id string) error {
	if err := s.sessions.Close(id); err != nil {
		return err
	}
	util.SessionsActive.WithLabelValues(kindVendor).Dec()
	s.logger.Info("Vendor dashboard closed", zap.String("session_id", id))
	return nil
}

// CloseAll unmounts every vendor dashboard
func (s *VendorService) CloseAll() {
	n := s.sessions.Len()
	s.sessions.CloseAll()
	util.SessionsActive.WithLabelValues(kindVendor).Sub(float64(n))
}

func (s *VendorService) parsed(id string, p session.ParsedPreview) {
	util.VoiceCapturesTotal.WithLabelValues(outcomeCompleted).Inc()
	for _, field := range p.Defaulted {
		util.ParseFallbacksTotal.WithLabelValues(field).Inc()
	}
	s.logger.Info("Order parsed",
		zap.String("session_id", id),
		zap.String("summary", p.Summary()),
		zap.Strings("defaulted", p.Defaulted))
}

func (s *VendorService) matched(id string, o models.VendorOrder) {
	util.VendorOrdersMatchedTotal.Inc()
	s.logger.Info("Vendor order matched",
		zap.String("session_id", id),
		zap.String("order_id", o.ID),
		zap.String("supplier", o.Supplier))

	if s.publisher == nil {
		return
	}
	event := &models.VendorOrderMatchedEvent{
		BaseEvent:    models.NewBaseEvent(models.EventTypeVendorOrderMatched, id),
		OrderID:      o.ID,
		Supplier:     o.Supplier,
		MatchedPrice: o.MatchedPrice,
	}
	publish(context.Background(), s.logger, event.EventType, func(ctx context.Context) error {
		return s.publisher.PublishVendorOrderMatched(ctx, event)
	})
}
