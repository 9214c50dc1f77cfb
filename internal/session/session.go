// Package session provides the signed-in identity that gates every cart and
// order call, with an explicit start/end lifecycle.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"droneFoodOrdering/internal/auth"
	"droneFoodOrdering/models"
	"droneFoodOrdering/repository"
)

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = errors.New("no active session")

// Accessor yields the current session, or nil when nobody is signed in.
type Accessor interface {
	Current(ctx context.Context) (*models.Session, error)
}

// Require is Current that turns "signed out" into ErrNoSession.
func Require(ctx context.Context, a Accessor) (*models.Session, error) {
	s, err := a.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// Manager owns the persisted session. A session whose token carries an
// exp in the past is treated as absent.
type Manager struct {
	store  repository.SessionRepositoryI
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(store repository.SessionRepositoryI, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Current implements Accessor.
func (m *Manager) Current(ctx context.Context) (*models.Session, error) {
	s, err := m.store.Get(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	claims, err := auth.Inspect(s.Token)
	if err != nil {
		// Opaque tokens are accepted as-is; the backend is the judge.
		m.logger.Debug("session token is not a readable JWT", "error", err)
		return s, nil
	}
	if claims.Expired(m.now()) {
		m.logger.Info("session token expired", "uid", s.User.UID, "expired_at", claims.ExpiresAt)
		return nil, nil
	}
	return s, nil
}

// Start begins a session for user, replacing any previous one.
func (m *Manager) Start(ctx context.Context, user models.User, token string) (*models.Session, error) {
	s := &models.Session{User: user, Token: token}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("session started", "uid", user.UID)
	return s, nil
}

// UpdateUser refreshes the cached profile after a successful edit.
func (m *Manager) UpdateUser(ctx context.Context, user models.User) error {
	return m.store.UpdateUser(ctx, user)
}

// End forgets the current session.
func (m *Manager) End(ctx context.Context) error {
	if err := m.store.Delete(ctx); err != nil {
		return err
	}
	m.logger.Info("session ended")
	return nil
}

// Static is an Accessor over a fixed session; nil means signed out.
type Static struct {
	Session *models.Session
}

func (s Static) Current(context.Context) (*models.Session, error) {
	return s.Session, nil
}
