package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/voice"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Timings are the fixed delays of the simulated flows
type Timings struct {
	AuthDelay     time.Duration
	RedirectDelay time.Duration
	WordInterval  time.Duration
	SettleDelay   time.Duration
	MatchDelay    time.Duration
}

// DefaultTimings reproduces the prototype's cadence
var DefaultTimings = Timings{
	AuthDelay:     2000 * time.Millisecond,
	RedirectDelay: 1500 * time.Millisecond,
	WordInterval:  300 * time.Millisecond,
	SettleDelay:   500 * time.Millisecond,
	MatchDelay:    2000 * time.Millisecond,
}

func (t Timings) voice() voice.Timing {
	return voice.Timing{WordInterval: t.WordInterval, SettleDelay: t.SettleDelay}
}

// Closer is implemented by every session kind
type Closer interface {
	Close()
}

// Registry maps session ids to live sessions
type Registry[T Closer] struct {
	mu       sync.RWMutex
	sessions map[string]T
}

func NewRegistry[T Closer]() *Registry[T] {
	return &Registry[T]{sessions: make(map[string]T)}
}

// Add builds a session under a fresh id and stores it. The id is known to
// build so callbacks can carry it.
func (r *Registry[T]) Add(build func(id string) T) (string, T) {
	id := uuid.New().String()
	s := build(id)
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id, s
}

func (r *Registry[T]) Get(id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return s, nil
}

// Close removes and shuts down a session
func (r *Registry[T]) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

// CloseAll shuts down every session, used on server shutdown
func (r *Registry[T]) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]T)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// base carries the lifetime and notification log shared by all sessions
type base struct {
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time

	notifications []models.Notification
}

const maxNotifications = 20

func newBase(now func() time.Time) base {
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return base{ctx: ctx, cancel: cancel, now: now}
}

func (b *base) closed() bool {
	return b.ctx.Err() != nil
}

// notify must be called with the owning session's lock held
func (b *base) notify(title, description string) models.Notification {
	n := models.Notification{Title: title, Description: description, Timestamp: b.now()}
	b.notifications = append(b.notifications, n)
	if len(b.notifications) > maxNotifications {
		b.notifications = b.notifications[len(b.notifications)-maxNotifications:]
	}
	return n
}

func (b *base) copyNotifications() []models.Notification {
	return append([]models.Notification(nil), b.notifications...)
}

// after runs fn once d elapses unless the session closes first
func (b *base) after(d time.Duration, fn func()) {
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-b.ctx.Done():
		case <-t.C:
			fn()
		}
	}()
}
