package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/models"
)

const (
	MinSeats = 1
	MaxSeats = 8
)

type CreateRideInput struct {
	HostID              string
	HostName            string
	DepartureLocation   string
	DestinationLocation string
	DepartureTime       time.Time
	Fare                *float64
	TotalSeats          int
}

func (in *CreateRideInput) normalize() error {
	in.HostID = strings.TrimSpace(in.HostID)
	in.HostName = strings.TrimSpace(in.HostName)
	in.DepartureLocation = strings.TrimSpace(in.DepartureLocation)
	in.DestinationLocation = strings.TrimSpace(in.DestinationLocation)

	switch {
	case in.HostID == "":
		return fmt.Errorf("%w: host_id is required", common.ErrorValidation)
	case in.HostName == "":
		return fmt.Errorf("%w: host_name is required", common.ErrorValidation)
	case in.DepartureLocation == "":
		return fmt.Errorf("%w: departure_location is required", common.ErrorValidation)
	case in.DestinationLocation == "":
		return fmt.Errorf("%w: destination_location is required", common.ErrorValidation)
	case in.DepartureTime.IsZero():
		return fmt.Errorf("%w: departure_time is required", common.ErrorValidation)
	case in.TotalSeats < MinSeats || in.TotalSeats > MaxSeats:
		return fmt.Errorf("%w: total_seats must be between %d and %d", common.ErrorValidation, MinSeats, MaxSeats)
	case in.Fare != nil && *in.Fare < 0:
		return fmt.Errorf("%w: fare must not be negative", common.ErrorValidation)
	}
	return nil
}

// RideService is the ride catalog.
type RideService struct {
	deps Deps
}

func NewRideService(d Deps) *RideService {
	d = d.withDefaults()
	d.Log = d.Log.With("module", "rides")
	return &RideService{deps: d}
}

// CreateRide posts a ride with every seat available.
func (s *RideService) CreateRide(ctx context.Context, in CreateRideInput) (*models.Ride, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var ride *models.Ride
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := s.deps.Repos.Users(tx).GetByID(ctx, in.HostID); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("host %w", common.ErrorNotFound)
				}
				return err
			}

			r := &models.Ride{
				ID:                  s.deps.NewID(),
				HostID:              in.HostID,
				HostName:            in.HostName,
				DepartureLocation:   in.DepartureLocation,
				DestinationLocation: in.DestinationLocation,
				DepartureTime:       in.DepartureTime.UTC(),
				Fare:                in.Fare,
				TotalSeats:          in.TotalSeats,
				AvailableSeats:      in.TotalSeats,
				CreatedAt:           s.deps.Now().UTC(),
			}
			if err := s.deps.Repos.Rides(tx).Create(ctx, r); err != nil {
				return err
			}
			ride = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.RideCreated()
	if err := s.deps.Cache.Invalidate(ctx); err != nil {
		s.deps.Log.Warn(ctx, "ride cache invalidation failed", "error", err)
	}
	s.deps.Log.Info(ctx, "ride created", "ride_id", ride.ID, "host_id", ride.HostID, "seats", ride.TotalSeats)
	return ride, nil
}

// ListAll returns every ride, soonest departure first. The listing may be
// served from the cache; cache failures fall back to the store.
func (s *RideService) ListAll(ctx context.Context) ([]models.Ride, error) {
	cached, ok, err := s.deps.Cache.Get(ctx)
	if err != nil {
		s.deps.Log.Warn(ctx, "ride cache read failed", "error", err)
	}
	if ok {
		s.deps.Metrics.CacheLookup(true)
		return cached, nil
	}
	s.deps.Metrics.CacheLookup(false)

	var rides []models.Ride
	err = s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		rides, err = s.deps.Repos.Rides(s.deps.DB).ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.deps.Cache.Set(ctx, rides); err != nil {
		s.deps.Log.Warn(ctx, "ride cache write failed", "error", err)
	}
	return rides, nil
}

// ListByHost returns a host's rides, latest departure first.
func (s *RideService) ListByHost(ctx context.Context, hostID string) ([]models.Ride, error) {
	hostID = strings.TrimSpace(hostID)
	if hostID == "" {
		return nil, fmt.Errorf("%w: host id is required", common.ErrorValidation)
	}

	var rides []models.Ride
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		rides, err = s.deps.Repos.Rides(s.deps.DB).ListByHost(ctx, hostID)
		return err
	})
	return rides, err
}

// GetRide returns the ride or nil when there is none.
func (s *RideService) GetRide(ctx context.Context, id string) (*models.Ride, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: ride id is required", common.ErrorValidation)
	}

	var ride *models.Ride
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		ride, err = s.deps.Repos.Rides(s.deps.DB).GetByID(ctx, id, false)
		return err
	})
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return ride, err
}
