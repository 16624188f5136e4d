package session

import (
	"testing"
	"time"

	"voicemarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRedirectsByRole(t *testing.T) {
	tests := []struct {
		role     models.Role
		isLogin  bool
		redirect string
		title    string
	}{
		{models.RoleVendor, true, "/vendor-dashboard", "Login Successful!"},
		{models.RoleSupplier, false, "/supplier-dashboard", "Account Created!"},
		{models.RoleSupplier, true, "/supplier-dashboard", "Login Successful!"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			done := make(chan AuthSnapshot, 1)
			a := NewAuth(fastTimings, nil)
			defer a.Close()
			a.OnAuthenticated(func(s AuthSnapshot) { done <- s })

			snap := a.SelectRole(tt.role)
			assert.Equal(t, AuthStateCredentials, snap.State)

			snap = a.Submit(AuthForm{Email: "a@b.c", Password: "x"}, tt.isLogin)
			assert.Equal(t, AuthStateAuthenticating, snap.State)
			assert.Empty(t, snap.Redirect)

			select {
			case got := <-done:
				assert.Equal(t, AuthStateRedirected, got.State)
				assert.Equal(t, tt.redirect, got.Redirect)
				require.Len(t, got.Notifications, 1)
				assert.Equal(t, tt.title, got.Notifications[0].Title)
				assert.Equal(t, "Welcome "+string(tt.role)+"! Redirecting to your dashboard...", got.Notifications[0].Description)
			case <-time.After(2 * time.Second):
				t.Fatal("auth never completed")
			}
		})
	}
}

func TestAuthStagesRespectDelays(t *testing.T) {
	timings := fastTimings
	timings.AuthDelay = 40 * time.Millisecond
	timings.RedirectDelay = 200 * time.Millisecond

	a := NewAuth(timings, nil)
	defer a.Close()

	a.SelectRole(models.RoleVendor)
	a.Submit(AuthForm{}, true)

	require.Eventually(t, func() bool {
		return a.Snapshot().State == AuthStateAuthenticated
	}, time.Second, time.Millisecond)
	assert.Empty(t, a.Snapshot().Redirect)

	require.Eventually(t, func() bool {
		return a.Snapshot().State == AuthStateRedirected
	}, time.Second, time.Millisecond)
	assert.Equal(t, models.VendorDashboardPath, a.Snapshot().Redirect)
}

func TestAuthSubmitTwiceIsIgnored(t *testing.T) {
	timings := fastTimings
	timings.AuthDelay = 100 * time.Millisecond

	a := NewAuth(timings, nil)
	defer a.Close()

	a.SelectRole(models.RoleSupplier)
	a.Submit(AuthForm{}, true)
	snap := a.Submit(AuthForm{}, false)

	assert.Equal(t, AuthStateAuthenticating, snap.State)
	assert.Equal(t, "login", snap.Mode)
}

func TestAuthSubmitBeforeRoleIsIgnored(t *testing.T) {
	a := NewAuth(fastTimings, nil)
	defer a.Close()

	snap := a.Submit(AuthForm{}, true)
	assert.Equal(t, AuthStateRoleSelection, snap.State)
}

func TestAuthBack(t *testing.T) {
	a := NewAuth(fastTimings, nil)
	defer a.Close()

	a.SelectRole(models.RoleVendor)
	snap := a.Back()
	assert.Equal(t, AuthStateRoleSelection, snap.State)
	assert.Empty(t, snap.Role)

	snap = a.SelectRole(models.RoleSupplier)
	assert.Equal(t, models.RoleSupplier, snap.Role)
}

func TestAuthCloseStopsTimers(t *testing.T) {
	timings := fastTimings
	timings.AuthDelay = 30 * time.Millisecond

	a := NewAuth(timings, nil)
	a.SelectRole(models.RoleVendor)
	a.Submit(AuthForm{}, true)
	a.Close()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, AuthStateAuthenticating, a.Snapshot().State)
}
