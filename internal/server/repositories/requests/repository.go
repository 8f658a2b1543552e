// Package requests stores seat requests passengers make against rides.
package requests

import (
	"context"
	"time"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

type Repository interface {
	// Create inserts a request. A second active request for the same
	// (ride, passenger) pair fails with common.ErrDuplicateRequest.
	Create(ctx context.Context, req *models.RideRequest) error
	GetByID(ctx context.Context, id string, forUpdate bool) (*models.RideRequest, error)
	FindActive(ctx context.Context, rideID, passengerID string) (*models.RideRequest, error)
	ListByRide(ctx context.Context, rideID string) ([]models.RideRequest, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]models.PassengerRequest, error)
	// UpdateStatusFrom moves a request from one status to another and
	// reports false when the request was not in the expected status.
	UpdateStatusFrom(ctx context.Context, id string, from, to models.RequestStatus, at time.Time) (bool, error)
}
