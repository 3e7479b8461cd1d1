package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mercadolance/lanceweb/internal/api"
	"github.com/mercadolance/lanceweb/pkg/config"
	"github.com/mercadolance/lanceweb/pkg/logger"
)

// Manager establishes and resolves sessions. It owns the login side
// effects: code exchange, local user bootstrap and session persistence.
type Manager struct {
	store Store
	auth0 *Authenticator
	api   *api.Client
	log   *logger.Logger
}

func NewManager(store Store, auth0 *Authenticator, client *api.Client, log *logger.Logger) *Manager {
	return &Manager{
		store: store,
		auth0: auth0,
		api:   client,
		log:   log,
	}
}

// LoginURL proxies to the authenticator so handlers only deal with the
// manager.
func (m *Manager) LoginURL(state string) string { return m.auth0.LoginURL(state) }

// LogoutURL proxies to the authenticator.
func (m *Manager) LogoutURL(returnTo string) string { return m.auth0.LogoutURL(returnTo) }

// Establish turns an authorization code into a stored session and returns
// it with the cookie lifetime. Local user bootstrap failures are logged
// and leave UserID at zero, which gates bid and create actions later on.
func (m *Manager) Establish(ctx context.Context, code string) (Session, time.Duration, error) {
	token, err := m.auth0.Exchange(ctx, code)
	if err != nil {
		return Session{}, 0, fmt.Errorf("establish session: %w", err)
	}

	identity, err := m.auth0.IdentityFromIDToken(token.IDToken)
	if err != nil {
		return Session{}, 0, fmt.Errorf("establish session: %w", err)
	}

	sess := Session{
		ID:        uuid.NewString(),
		Subject:   identity.Subject,
		Email:     identity.Email,
		Name:      identity.Name,
		Token:     token.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
	sess.UserID = m.resolveUser(ctx, sess)

	ttl := time.Duration(token.ExpiresIn) * time.Second
	if ttl < config.MinSessionTTL {
		ttl = config.MinSessionTTL
		sess.ExpiresAt = time.Now().Add(ttl)
	}
	if err := m.store.Put(ctx, sess, ttl); err != nil {
		return Session{}, 0, fmt.Errorf("persist session: %w", err)
	}
	return sess, ttl, nil
}

// resolveUser looks the local user up by external-identity subject and
// creates one on 404. Up to two backend calls.
func (m *Manager) resolveUser(ctx context.Context, sess Session) int64 {
	user, err := m.api.UserByAuth0(ctx, sess.Token, sess.Subject)
	if err == nil {
		return user.ID
	}
	if !api.IsNotFound(err) {
		m.log.Warnw("[AUTH] user lookup failed", "subject", sess.Subject, "error", err)
		return 0
	}

	created, err := m.api.CreateUser(ctx, sess.Token, api.CreateUserRequest{
		Auth0ID: sess.Subject,
		Email:   sess.Email,
		Name:    sess.Name,
	})
	if err != nil {
		m.log.Warnw("[AUTH] user bootstrap failed", "subject", sess.Subject, "error", err)
		return 0
	}
	return created.ID
}

// Lookup loads the session behind a cookie value.
func (m *Manager) Lookup(ctx context.Context, id string) (Session, bool) {
	if id == "" {
		return Session{}, false
	}
	sess, ok, err := m.store.Get(ctx, id)
	if err != nil {
		m.log.Warnw("[AUTH] session lookup failed", "error", err)
		return Session{}, false
	}
	return sess, ok
}

// Destroy removes a stored session on sign-out.
func (m *Manager) Destroy(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Warnw("[AUTH] session delete failed", "error", err)
	}
}
