package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceFlowPublishesOnRedirect(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewAuthService(fastTimings, time.Minute, pub)
	defer svc.CloseAll()
	ctx := context.Background()

	id, snap, err := svc.SelectRole(ctx, "supplier")
	require.NoError(t, err)
	assert.Equal(t, session.AuthStateCredentials, snap.State)

	snap, err = svc.Submit(ctx, id, session.AuthForm{Email: "s@x.in", Password: "pw"}, false)
	require.NoError(t, err)
	assert.Equal(t, session.AuthStateAuthenticating, snap.State)

	require.Eventually(t, func() bool {
		snap, err := svc.Get(ctx, id)
		return err == nil && snap.State == session.AuthStateRedirected
	}, 2*time.Second, time.Millisecond)

	snap, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SupplierDashboardPath, snap.Redirect)

	require.Eventually(t, func() bool {
		return pub.count(models.EventTypeUserAuthenticated) == 1
	}, time.Second, time.Millisecond)
}

func TestAuthServiceRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(fastTimings, time.Minute, nil)

	_, _, err := svc.SelectRole(context.Background(), "admin")
	assert.ErrorIs(t, err, models.ErrInvalidRole)
}

func TestAuthServiceBackAndChangeRole(t *testing.T) {
	svc := NewAuthService(fastTimings, time.Minute, nil)
	defer svc.CloseAll()
	ctx := context.Background()

	id, _, err := svc.SelectRole(ctx, "vendor")
	require.NoError(t, err)

	snap, err := svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.AuthStateRoleSelection, snap.State)

	snap, err = svc.ChangeRole(ctx, id, "supplier")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSupplier, snap.Role)
	assert.Equal(t, session.AuthStateCredentials, snap.State)
}

func TestAuthServiceUnknownSession(t *testing.T) {
	svc := NewAuthService(fastTimings, time.Minute, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = svc.Submit(ctx, "nope", session.AuthForm{}, true)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, svc.Close(ctx, "nope"), session.ErrNotFound)
}

func TestAuthServiceReleasesRedirectedSessions(t *testing.T) {
	svc := NewAuthService(fastTimings, 100*time.Millisecond, nil)
	defer svc.CloseAll()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id, _, err := svc.SelectRole(ctx, "vendor")
		require.NoError(t, err)
		_, err = svc.Submit(ctx, id, session.AuthForm{Email: "v@x.in", Password: "pw"}, true)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, svc.sessions.Len())

	require.Eventually(t, func() bool {
		return svc.sessions.Len() == 0
	}, 2*time.Second, time.Millisecond)
}

func TestAuthServiceRedirectStaysReadableUntilReleased(t *testing.T) {
	svc := NewAuthService(fastTimings, 150*time.Millisecond, nil)
	defer svc.CloseAll()
	ctx := context.Background()

	id, _, err := svc.SelectRole(ctx, "supplier")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, id, session.AuthForm{}, true)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := svc.Get(ctx, id)
		return err == nil && snap.Redirect == models.SupplierDashboardPath
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		_, err := svc.Get(ctx, id)
		return errors.Is(err, session.ErrNotFound)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestAuthServiceCloseBeforeReleaseIsQuiet(t *testing.T) {
	svc := NewAuthService(fastTimings, 50*time.Millisecond, nil)
	ctx := context.Background()

	id, _, err := svc.SelectRole(ctx, "vendor")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, id, session.AuthForm{}, true)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := svc.Get(ctx, id)
		return err == nil && snap.State == session.AuthStateRedirected
	}, time.Second, time.Millisecond)

	require.NoError(t, svc.Close(ctx, id))
	assert.Equal(t, 0, svc.sessions.Len())

	// the scheduled release finds nothing left to drop
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, svc.sessions.Len())
	assert.ErrorIs(t, svc.Close(ctx, id), session.ErrNotFound)
}
