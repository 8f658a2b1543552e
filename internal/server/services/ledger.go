package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/events"
	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/dmitrijs2005/carpool/internal/server/observability"
)

// SubmitRequestInput is a passenger's request for a seat.
type SubmitRequestInput struct {
	RideID        string
	PassengerID   string
	PassengerName string
	OfferedPrice  *float64
	Comment       string
}

func (in *SubmitRequestInput) normalize() error {
	in.RideID = strings.TrimSpace(in.RideID)
	in.PassengerID = strings.TrimSpace(in.PassengerID)
	in.PassengerName = strings.TrimSpace(in.PassengerName)
	in.Comment = strings.TrimSpace(in.Comment)

	switch {
	case in.RideID == "":
		return fmt.Errorf("%w: ride_id is required", common.ErrorValidation)
	case in.PassengerID == "":
		return fmt.Errorf("%w: passenger_id is required", common.ErrorValidation)
	case in.PassengerName == "":
		return fmt.Errorf("%w: passenger_name is required", common.ErrorValidation)
	case in.OfferedPrice != nil && *in.OfferedPrice < 0:
		return fmt.Errorf("%w: offered_price must not be negative", common.ErrorValidation)
	}
	return nil
}

// LedgerService owns the seat requests: it keeps at most one active request
// per (ride, passenger) and ties every accepted request to exactly one seat.
type LedgerService struct {
	deps Deps
}

func NewLedgerService(d Deps) *LedgerService {
	d = d.withDefaults()
	d.Log = d.Log.With("module", "ledger")
	return &LedgerService{deps: d}
}

// SubmitRequest records a pending request. Submission is allowed regardless
// of remaining seats; seats are only taken on acceptance.
func (s *LedgerService) SubmitRequest(ctx context.Context, in SubmitRequestInput) (*models.RideRequest, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var (
		created *models.RideRequest
		hostID  string
	)
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
			ride, err := s.deps.Repos.Rides(tx).GetByID(ctx, in.RideID, false)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("ride %w", common.ErrorNotFound)
				}
				return err
			}
			if ride.HostID == in.PassengerID {
				return fmt.Errorf("%w: you cannot request a seat on your own ride", common.ErrorValidation)
			}

			repo := s.deps.Repos.Requests(tx)
			_, err = repo.FindActive(ctx, in.RideID, in.PassengerID)
			switch {
			case err == nil:
				return common.ErrDuplicateRequest
			case !errors.Is(err, common.ErrorNotFound):
				return err
			}

			now := s.deps.Now().UTC()
			req := &models.RideRequest{
				ID:            s.deps.NewID(),
				RideID:        in.RideID,
				PassengerID:   in.PassengerID,
				PassengerName: in.PassengerName,
				OfferedPrice:  in.OfferedPrice,
				Comment:       in.Comment,
				Status:        models.StatusPending,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			// the active-request unique index still guards the window
			// between FindActive and this insert
			if err := repo.Create(ctx, req); err != nil {
				return err
			}

			created, hostID = req, ride.HostID
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateRequest) {
			s.deps.Metrics.RequestSubmitted(observability.OutcomeDuplicate)
		}
		return nil, err
	}

	s.deps.Metrics.RequestSubmitted("created")
	s.publish(ctx, events.LedgerEvent{
		Type:        events.RequestSubmitted,
		RequestID:   created.ID,
		RideID:      created.RideID,
		PassengerID: created.PassengerID,
		HostID:      hostID,
		Status:      string(created.Status),
		OccurredAt:  created.CreatedAt,
	})
	return created, nil
}

// ResolveRequest accepts or rejects a pending request. When actorID is not
// empty it must be the host of the request's ride.
//
// Accepting takes one seat with a conditional decrement and flips the status
// in the same transaction, so concurrent accepts on a ride with one seat
// left produce exactly one acceptance; the others get ErrNoSeatsAvailable.
func (s *LedgerService) ResolveRequest(ctx context.Context, requestID string, status models.RequestStatus, actorID string) error {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return fmt.Errorf("%w: request id is required", common.ErrorValidation)
	}
	if status != models.StatusAccepted && status != models.StatusRejected {
		return fmt.Errorf("%w: status must be accepted or rejected", common.ErrorValidation)
	}

	var ev events.LedgerEvent
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			ev, err = s.resolveTx(ctx, tx, requestID, status, actorID)
			return err
		})
	})
	if err != nil {
		s.deps.Metrics.RequestResolved(resolveOutcome(err))
		return err
	}

	s.deps.Metrics.RequestResolved(string(status))
	if status == models.StatusAccepted {
		if err := s.deps.Cache.Invalidate(ctx); err != nil {
			s.deps.Log.Warn(ctx, "ride cache invalidation failed", "error", err)
		}
	}
	s.publish(ctx, ev)
	return nil
}

func (s *LedgerService) resolveTx(ctx context.Context, tx dbx.DBTX, requestID string, status models.RequestStatus, actorID string) (events.LedgerEvent, error) {
	reqRepo := s.deps.Repos.Requests(tx)
	rideRepo := s.deps.Repos.Rides(tx)

	req, err := reqRepo.GetByID(ctx, requestID, true)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return events.LedgerEvent{}, fmt.Errorf("request %w", common.ErrorNotFound)
		}
		return events.LedgerEvent{}, err
	}
	if req.Status != models.StatusPending {
		return events.LedgerEvent{}, fmt.Errorf("%w (status %s)", common.ErrInvalidState, req.Status)
	}

	ride, err := rideRepo.GetByID(ctx, req.RideID, false)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return events.LedgerEvent{}, fmt.Errorf("ride %w", common.ErrorNotFound)
		}
		return events.LedgerEvent{}, err
	}
	if actorID != "" && actorID != ride.HostID {
		return events.LedgerEvent{}, fmt.Errorf("%w: only the ride's host can resolve its requests", common.ErrorForbidden)
	}

	ev := events.LedgerEvent{
		Type:        events.RequestRejected,
		RequestID:   req.ID,
		RideID:      req.RideID,
		PassengerID: req.PassengerID,
		HostID:      ride.HostID,
		Status:      string(status),
	}

	if status == models.StatusAccepted {
		ok, err := rideRepo.ReserveSeat(ctx, req.RideID)
		if err != nil {
			return events.LedgerEvent{}, err
		}
		if !ok {
			return events.LedgerEvent{}, common.ErrNoSeatsAvailable
		}
		// the row is ours until commit, so this count is exact
		after, err := rideRepo.GetByID(ctx, req.RideID, false)
		if err != nil {
			return events.LedgerEvent{}, err
		}
		ev.Type = events.RequestAccepted
		ev.AvailableSeats = &after.AvailableSeats
	}

	now := s.deps.Now().UTC()
	ok, err := reqRepo.UpdateStatusFrom(ctx, req.ID, models.StatusPending, status, now)
	if err != nil {
		return events.LedgerEvent{}, err
	}
	if !ok {
		// someone resolved it after we read it; the seat taken above is
		// released by the rollback
		return events.LedgerEvent{}, common.ErrInvalidState
	}

	ev.OccurredAt = now
	return ev, nil
}

func (s *LedgerService) ListForRide(ctx context.Context, rideID string) ([]models.RideRequest, error) {
	rideID = strings.TrimSpace(rideID)
	if rideID == "" {
		return nil, fmt.Errorf("%w: ride id is required", common.ErrorValidation)
	}

	var out []models.RideRequest
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.deps.Repos.Requests(s.deps.DB).ListByRide(ctx, rideID)
		return err
	})
	return out, err
}

func (s *LedgerService) ListForPassenger(ctx context.Context, passengerID string) ([]models.PassengerRequest, error) {
	passengerID = strings.TrimSpace(passengerID)
	if passengerID == "" {
		return nil, fmt.Errorf("%w: passenger id is required", common.ErrorValidation)
	}

	var out []models.PassengerRequest
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.deps.Repos.Requests(s.deps.DB).ListByPassenger(ctx, passengerID)
		return err
	})
	return out, err
}

func (s *LedgerService) publish(ctx context.Context, ev events.LedgerEvent) {
	if err := s.deps.Events.Publish(ctx, ev); err != nil {
		s.deps.Log.Error(ctx, "publish ledger event", "type", ev.Type, "request_id", ev.RequestID, "error", err)
	}
}

func resolveOutcome(err error) string {
	switch {
	case errors.Is(err, common.ErrNoSeatsAvailable):
		return observability.OutcomeNoSeats
	case errors.Is(err, common.ErrInvalidState):
		return observability.OutcomeInvalidState
	case errors.Is(err, common.ErrorForbidden):
		return observability.OutcomeForbidden
	}
	return "error"
}
