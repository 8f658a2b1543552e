// Package rides stores the ride catalog and owns the seat counter.
package rides

import (
	"context"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, ride *models.Ride) error
	// GetByID loads a ride. With forUpdate the row stays locked until the
	// surrounding transaction ends.
	GetByID(ctx context.Context, id string, forUpdate bool) (*models.Ride, error)
	ListAll(ctx context.Context) ([]models.Ride, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Ride, error)
	// ReserveSeat takes one seat if any is left and reports whether it did.
	ReserveSeat(ctx context.Context, id string) (bool, error)
}
