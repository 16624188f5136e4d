package service

import (
	"context"
	"errors"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/session"
	"voicemarket/internal/util"

	"go.uber.org/zap"
)

const kindAuth = "auth"

// AuthService drives the simulated role selection and sign-in
type AuthService struct {
	sessions  *session.Registry[*session.Auth]
	timings   session.Timings
	retention time.Duration
	publisher Publisher
	logger    *zap.Logger
}

// NewAuthService creates a new auth service. A redirected session stays
// readable for retention and is then released.
func NewAuthService(timings session.Timings, retention time.Duration, publisher Publisher) *AuthService {
	return &AuthService{
		sessions:  session.NewRegistry[*session.Auth](),
		timings:   timings,
		retention: retention,
		publisher: publisher,
		logger:    util.Component("auth"),
	}
}

// SelectRole opens an auth session with the chosen role
func (s *AuthService) SelectRole(ctx context.Context, role string) (string, session.AuthSnapshot, error) {
	_, span := util.StartSpan(ctx, "AuthService.SelectRole")
	defer span.End()

	r, err := models.ParseRole(role)
	if err != nil {
		return "", session.AuthSnapshot{}, err
	}

	id, a := s.sessions.Add(func(id string) *session.Auth {
		a := session.NewAuth(s.timings, nil)
		a.OnAuthenticated(func(snap session.AuthSnapshot) { s.authenticated(id, snap) })
		return a
	})
	util.SessionsActive.WithLabelValues(kindAuth).Inc()

	s.logger.Info("Auth session opened", zap.String("session_id", id), zap.String("role", string(r)))
	return id, a.SelectRole(r), nil
}

// ChangeRole picks a role again after going back
func (s *AuthService) ChangeRole(ctx context.Context, id, role string) (session.AuthSnapshot, error) {
	_, span := util.StartSpan(ctx, "AuthService.ChangeRole")
	defer span.End()

	r, err := models.ParseRole(role)
	if err != nil {
		return session.AuthSnapshot{}, err
	}
	a, err := s.sessions.Get(id)
	if err != nil {
		return session.AuthSnapshot{}, err
	}
	return a.SelectRole(r), nil
}

// Submit starts the simulated login or signup
func (s *AuthService) Submit(ctx context.Context, id string, form session.AuthForm, isLogin bool) (session.AuthSnapshot, error) {
	_, span := util.StartSpan(ctx, "AuthService.Submit")
	defer span.End()

	a, err := s.sessions.Get(id)
	if err != nil {
		return session.AuthSnapshot{}, err
	}

	before := a.Snapshot().State
	snap := a.Submit(form, isLogin)
	if before == session.AuthStateCredentials && snap.State == session.AuthStateAuthenticating {
		util.AuthSubmissionsTotal.WithLabelValues(string(snap.Role), snap.Mode).Inc()
		s.logger.Info("Auth submitted",
			zap.String("session_id", id),
			zap.String("role", string(snap.Role)),
			zap.String("mode", snap.Mode))
	}
	return snap, nil
}

// Back returns to role selection
func (s *AuthService) Back(ctx context.Context, id string) (session.AuthSnapshot, error) {
	_, span := util.StartSpan(ctx, "AuthService.Back")
	defer span.End()

	a, err := s.sessions.Get(id)
	if err != nil {
		return session.AuthSnapshot{}, err
	}
	return a.Back(), nil
}

// Get returns the current auth state
func (s *AuthService) Get(ctx context.Context, id string) (session.AuthSnapshot, error) {
	a, err := s.sessions.Get(id)
	if err != nil {
		return session.AuthSnapshot{}, err
	}
	return a.Snapshot(), nil
}

// Close discards an auth session
func (s *AuthService) Close(ctx context.Context, id string) error {
	if err := s.sessions.Close(id); err != nil {
		return err
	}
	util.SessionsActive.WithLabelValues(kindAuth).Dec()
	return nil
}

// CloseAll discards every auth session
func (s *AuthService) CloseAll() {
	n := s.sessions.Len()
	s.sessions.CloseAll()
	util.SessionsActive.WithLabelValues(kindAuth).Sub(float64(n))
}

func (s *AuthService) authenticated(id string, snap session.AuthSnapshot) {
	util.AuthRedirectsTotal.WithLabelValues(snap.Redirect).Inc()
	s.logger.Info("Auth completed",
		zap.String("session_id", id),
		zap.String("redirect", snap.Redirect))

	if s.publisher != nil {
		event := &models.UserAuthenticatedEvent{
			BaseEvent: models.NewBaseEvent(models.EventTypeUserAuthenticated, id),
			Role:      snap.Role,
			Mode:      snap.Mode,
			Redirect:  snap.Redirect,
		}
		publish(context.Background(), s.logger, event.EventType, func(ctx context.Context) error {
			return s.publisher.PublishUserAuthenticated(ctx, event)
		})
	}

	time.AfterFunc(s.retention, func() { s.release(id) })
}

// release drops a finished session unless the client already closed it
func (s *AuthService) release(id string) {
	err := s.Close(context.Background(), id)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		s.logger.Warn("Failed to release auth session", zap.String("session_id", id), zap.Error(err))
		return
	}
	if err == nil {
		s.logger.Debug("Auth session released", zap.String("session_id", id))
	}
}
