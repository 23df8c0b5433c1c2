package logs_viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// AuthResult is what a completed authentication sequence hands back.
type AuthResult struct {
	Token         string
	SessionCookie string
	Redirect      string
}

// AuthSequence drives the password-based mutual authentication handshake.
// Its internals are opaque to the login manager; it either completes with
// credentials or fails with an error the manager maps to the taxonomy in
// errors.go.
type AuthSequence func(ctx context.Context, username, password string) (*AuthResult, error)

type LoginResult struct {
	OK       bool
	Redirect string
}

// LoginManager orchestrates interactive logins. Concurrent Login calls join
// a single in-flight attempt instead of starting a duplicate handshake,
// replacing the ad-hoc "is a dialog already open" global with an explicit
// single-flight group.
type LoginManager struct {
	sequence AuthSequence
	client   *Client
	logger   *slog.Logger

	group         singleflight.Group
	loginRequired atomic.Bool

	// installed once at construction, re-invoked after every successful login
	refreshSession func(ctx context.Context)
	reloadListing  func()
}

func NewLoginManager(
	client *Client,
	sequence AuthSequence,
	reloadListing func(),
	logger *slog.Logger,
) *LoginManager {
	manager := &LoginManager{
		sequence:      sequence,
		client:        client,
		logger:        logger,
		reloadListing: reloadListing,
	}

	manager.refreshSession = func(ctx context.Context) {
		if _, err := client.GetProfile(ctx); err != nil {
			logger.Warn("Failed to refresh session state after login",
				slog.String("error", err.Error()))
		}
	}

	return manager
}

// RequireLogin flags that the next operation needs an authenticated session.
// A successful login clears the flag.
func (m *LoginManager) RequireLogin() {
	m.loginRequired.Store(true)
}

func (m *LoginManager) IsLoginRequired() bool {
	return m.loginRequired.Load()
}

// Login runs the authentication sequence for the given credentials. Both
// fields are required after trimming. All returned errors are recoverable:
// the caller shows UserMessage(err) and lets the user retry.
func (m *LoginManager) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	value, err, _ := m.group.Do("login", func() (any, error) {
		return m.doLogin(ctx, username, password)
	})
	if err != nil {
		return nil, err
	}

	return value.(*LoginResult), nil
}

func (m *LoginManager) doLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	result, err := m.sequence(ctx, username, password)
	if err != nil {
		return nil, m.mapAuthError(err)
	}

	m.client.SetCredentials(result.Token, result.SessionCookie)
	m.loginRequired.Store(false)

	m.refreshSession(ctx)
	if m.reloadListing != nil {
		m.reloadListing()
	}

	m.logger.Info("Login completed", slog.String("username", username))

	return &LoginResult{OK: true, Redirect: result.Redirect}, nil
}

func (m *LoginManager) mapAuthError(err error) error {
	if errors.Is(err, ErrUntrustedServer) {
		return err
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401:
			return ErrInvalidCredentials
		case 409:
			return ErrCookieFailure
		}
	}

	return fmt.Errorf("%w: %w", ErrLoginFailed, err)
}
