package session

import (
	"fmt"
	"sync"
	"time"

	"voicemarket/internal/models"
)

// Auth flow states
const (
	AuthStateRoleSelection  = "role_selection"
	AuthStateCredentials    = "credentials"
	AuthStateAuthenticating = "authenticating"
	AuthStateAuthenticated  = "authenticated"
	AuthStateRedirected     = "redirected"
)

// AuthForm is whatever the login or signup form submitted. Nothing is checked.
type AuthForm struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"-"`
}

// AuthSnapshot is a copy of the auth session state
type AuthSnapshot struct {
	State         string                `json:"state"`
	Role          models.Role           `json:"role,omitempty"`
	Mode          string                `json:"mode,omitempty"`
	Redirect      string                `json:"redirect,omitempty"`
	Notifications []models.Notification `json:"notifications"`
}

// Auth simulates role selection and sign-in
type Auth struct {
	mu      sync.Mutex
	base    base
	timings Timings

	state string
	role  models.Role
	mode  string

	onAuthenticated func(AuthSnapshot)
}

func NewAuth(timings Timings, now func() time.Time) *Auth {
	return &Auth{
		base:    newBase(now),
		timings: timings,
		state:   AuthStateRoleSelection,
	}
}

// OnAuthenticated registers a callback fired once the simulated sign-in succeeds
func (a *Auth) OnAuthenticated(fn func(AuthSnapshot)) {
	a.mu.Lock()
	a.onAuthenticated = fn
	a.mu.Unlock()
}

// SelectRole picks the role and moves to the credentials form
func (a *Auth) SelectRole(role models.Role) AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == AuthStateRoleSelection || a.state == AuthStateCredentials {
		a.role = role
		a.state = AuthStateCredentials
	}
	return a.snapshotLocked()
}

// Submit starts the simulated sign-in. The form is neither checked nor kept.
// Later calls are ignored, like a disabled button.
func (a *Auth) Submit(_ AuthForm, isLogin bool) AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != AuthStateCredentials || a.base.closed() {
		return a.snapshotLocked()
	}

	a.mode = "signup"
	if isLogin {
		a.mode = "login"
	}
	a.state = AuthStateAuthenticating

	a.base.after(a.timings.AuthDelay, a.authenticated)
	return a.snapshotLocked()
}

func (a *Auth) authenticated() {
	a.mu.Lock()
	if a.base.closed() || a.state != AuthStateAuthenticating {
		a.mu.Unlock()
		return
	}

	title := "Account Created!"
	if a.mode == "login" {
		title = "Login Successful!"
	}
	a.base.notify(title, fmt.Sprintf("Welcome %s! Redirecting to your dashboard...", a.role))
	a.state = AuthStateAuthenticated
	a.base.after(a.timings.RedirectDelay, a.redirect)
	a.mu.Unlock()
}

func (a *Auth) redirect() {
	a.mu.Lock()
	if a.base.closed() || a.state != AuthStateAuthenticated {
		a.mu.Unlock()
		return
	}
	a.state = AuthStateRedirected
	snap := a.snapshotLocked()
	cb := a.onAuthenticated
	a.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}

// Back returns to role selection. Only allowed before a submission.
func (a *Auth) Back() AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == AuthStateCredentials {
		a.role = ""
		a.state = AuthStateRoleSelection
	}
	return a.snapshotLocked()
}

func (a *Auth) Snapshot() AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Auth) snapshotLocked() AuthSnapshot {
	snap := AuthSnapshot{
		State:         a.state,
		Role:          a.role,
		Mode:          a.mode,
		Notifications: a.base.copyNotifications(),
	}
	if a.state == AuthStateRedirected {
		snap.Redirect = a.role.DashboardPath()
	}
	return snap
}

// Close stops pending timers
func (a *Auth) Close() {
	a.base.cancel()
}
