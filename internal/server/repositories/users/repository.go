// Package users stores campus accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByErpID(ctx context.Context, erpID string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
