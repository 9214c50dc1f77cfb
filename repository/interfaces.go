package repository

import (
	"context"

	"droneFoodOrdering/models"
)

// SessionRepositoryI defines operations on the persisted session.
type SessionRepositoryI interface {
	Save(ctx context.Context, s *models.Session) error
	Get(ctx context.Context) (*models.Session, error)
	UpdateUser(ctx context.Context, u models.User) error
	Delete(ctx context.Context) error
}

var _ SessionRepositoryI = (*SessionRepository)(nil)
