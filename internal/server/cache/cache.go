// Package cache keeps a short-lived copy of the ride listing. Cached seat
// counts are display data only; seat accounting always goes to the store.
package cache

import (
	"context"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

type RideListCache interface {
	// Get returns the cached listing and whether there was one.
	Get(ctx context.Context) ([]models.Ride, bool, error)
	Set(ctx context.Context, rides []models.Ride) error
	Invalidate(ctx context.Context) error
}

// Noop never holds anything.
type Noop struct{}

func (Noop) Get(context.Context) ([]models.Ride, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, []models.Ride) error         { return nil }
func (Noop) Invalidate(context.Context) error                 { return nil }
