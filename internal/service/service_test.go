package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/session"
)

var fastTimings = session.Timings{
	AuthDelay:     2 * time.Millisecond,
	RedirectDelay: 2 * time.Millisecond,
	WordInterval:  time.Millisecond,
	SettleDelay:   2 * time.Millisecond,
	MatchDelay:    5 * time.Millisecond,
}

func first(int) int { return 0 }

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) record(base models.BaseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, base.EventType)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func (p *recordingPublisher) count(eventType string) int {
	n := 0
	for _, t := range p.types() {
		if t == eventType {
			n++
		}
	}
	return n
}

func (p *recordingPublisher) PublishUserAuthenticated(_ context.Context, e *models.UserAuthenticatedEvent) error {
	return p.record(e.BaseEvent)
}

func (p *recordingPublisher) PublishVendorOrderPlaced(_ context.Context, e *models.VendorOrderPlacedEvent) error {
	return p.record(e.BaseEvent)
}

func (p *recordingPublisher) PublishVendorOrderMatched(_ context.Context, e *models.VendorOrderMatchedEvent) error {
	return p.record(e.BaseEvent)
}

func (p *recordingPublisher) PublishIncomingOrderDecided(_ context.Context, e *models.IncomingOrderDecidedEvent) error {
	return p.record(e.BaseEvent)
}

func (p *recordingPublisher) PublishStockAdded(_ context.Context, e *models.StockAddedEvent) error {
	return p.record(e.BaseEvent)
}

type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
	err  error
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{keys: make(map[string]string)}
}

func (m *memoryIdempotency) GetIdempotencyKey(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.keys[fmt.Sprintf("%s/%s", scope, key)]
	return v, ok, nil
}

func (m *memoryIdempotency) SetIdempotencyKey(_ context.Context, scope, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.keys[fmt.Sprintf("%s/%s", scope, key)] = value
	return nil
}

var errBrokerDown = errors.New("broker down")
