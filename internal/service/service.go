package service

import (
	"context"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/util"

	"go.uber.org/zap"
)

// Publisher is the part of broker.EventPublisher the services use. A nil
// Publisher disables events.
type Publisher interface {
	PublishUserAuthenticated(ctx context.Context, event *models.UserAuthenticatedEvent) error
	PublishVendorOrderPlaced(ctx context.Context, event *models.VendorOrderPlacedEvent) error
	PublishVendorOrderMatched(ctx context.Context, event *models.VendorOrderMatchedEvent) error
	PublishIncomingOrderDecided(ctx context.Context, event *models.IncomingOrderDecidedEvent) error
	PublishStockAdded(ctx context.Context, event *models.StockAddedEvent) error
}

// IdempotencyStore remembers which resource a request key produced. A nil
// store disables replay detection.
type IdempotencyStore interface {
	GetIdempotencyKey(ctx context.Context, scope, key string) (string, bool, error)
	SetIdempotencyKey(ctx context.Context, scope, key, value string, ttl time.Duration) error
}

const publishTimeout = 5 * time.Second

// publish runs fn and logs a failure. Simulated actions never fail because of events.
func publish(ctx context.Context, logger *zap.Logger, eventType string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		util.EventsPublishFailedTotal.WithLabelValues(eventType).Inc()
		logger.Error("Failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

// replayed looks up a stored key. Lookup errors are logged and treated as a miss.
func replayed(ctx context.Context, logger *zap.Logger, store IdempotencyStore, scope, key string) (string, bool) {
	if store == nil || key == "" {
		return "", false
	}
	val, ok, err := store.GetIdempotencyKey(ctx, scope, key)
	if err != nil {
		logger.Warn("Failed to check idempotency key",
			zap.String("scope", scope),
			zap.Error(err))
		return "", false
	}
	return val, ok
}

func remember(ctx context.Context, logger *zap.Logger, store IdempotencyStore, scope, key, value string, ttl time.Duration) {
	if store == nil || key == "" {
		return
	}
	if err := store.SetIdempotencyKey(ctx, scope, key, value, ttl); err != nil {
		logger.Warn("Failed to store idempotency key",
			zap.String("scope", scope),
			zap.Error(err))
	}
}
