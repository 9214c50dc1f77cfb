package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"droneFoodOrdering/models"
)

// SessionRepository persists the single signed-in session.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores s as the current session, replacing any previous one.
func (r *SessionRepository) Save(ctx context.Context, s *models.Session) error {
	if s == nil {
		return errors.New("session is nil")
	}
	if s.User.UID == "" || s.Token == "" {
		return errors.New("session requires uid and token")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (slot, uid, email, name, phone, address, token, saved_at)
        VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(slot) DO UPDATE SET uid = excluded.uid, email = excluded.email, name = excluded.name,
            phone = excluded.phone, address = excluded.address, token = excluded.token, saved_at = excluded.saved_at`,
		s.User.UID, s.User.Email, s.User.Name, s.User.Phone, s.User.Address, s.Token)
	return err
}

// Get returns the current session, or nil when nobody is signed in.
func (r *SessionRepository) Get(ctx context.Context) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s models.Session
	err := r.db.QueryRowContext(ctx, `SELECT uid, email, name, phone, address, token FROM sessions WHERE slot = 1`).
		Scan(&s.User.UID, &s.User.Email, &s.User.Name, &s.User.Phone, &s.User.Address, &s.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpdateUser rewrites the cached profile of the current session.
// It is a no-op when nobody is signed in.
func (r *SessionRepository) UpdateUser(ctx context.Context, u models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET email = ?, name = ?, phone = ?, address = ? WHERE slot = 1 AND uid = ?`,
		u.Email, u.Name, u.Phone, u.Address, u.UID)
	return err
}

// Delete forgets the current session.
func (r *SessionRepository) Delete(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}
