package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/logging"
	"github.com/dmitrijs2005/carpool/internal/server/events"
	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/dmitrijs2005/carpool/internal/server/observability"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carpool/internal/server/storetest"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

// stepClock advances one second per call so creation order is strict.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type seqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (s *seqIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.LedgerEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type env struct {
	db      *sql.DB
	deps    Deps
	pub     *recordingPublisher
	metrics *observability.Metrics
	ledger  *LedgerService
	rides   *RideService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := storetest.NewSQLite(t)
	pub := &recordingPublisher{}
	metrics := observability.NewMetrics()
	clock := &stepClock{now: t0}
	ids := &seqIDs{prefix: "id"}

	deps := Deps{
		DB:      db,
		Repos:   repomanager.NewRepositoryManager(dbx.SQLite),
		Retrier: dbx.NewRetrier(2, time.Millisecond, dbx.SQLite.IsTransient),
		Log:     logging.NewNop(),
		Metrics: metrics,
		Events:  pub,
		Now:     clock.Now,
		NewID:   ids.Next,
	}
	return &env{
		db:      db,
		deps:    deps,
		pub:     pub,
		metrics: metrics,
		ledger:  NewLedgerService(deps),
		rides:   NewRideService(deps),
	}
}

// addUser inserts an account directly, skipping the expensive hashing.
func (e *env) addUser(t *testing.T, id, name string) {
	t.Helper()
	err := e.deps.Repos.Users(e.db).Create(context.Background(), &models.User{
		ID: id, ErpID: "erp-" + id, Email: id + "@campus.edu", PasswordHash: "x",
		Name: name, Role: models.RoleStudent, CreatedAt: t0,
	})
	require.NoError(t, err)
}

func (e *env) addRide(t *testing.T, hostID string, seats int) *models.Ride {
	t.Helper()
	ride, err := e.rides.CreateRide(context.Background(), CreateRideInput{
		HostID:              hostID,
		HostName:            "Host " + hostID,
		DepartureLocation:   "Gulshan-e-Iqbal",
		DestinationLocation: "Main campus",
		DepartureTime:       t0.Add(24 * time.Hour),
		TotalSeats:          seats,
	})
	require.NoError(t, err)
	return ride
}

func (e *env) submit(t *testing.T, rideID, passengerID string) *models.RideRequest {
	t.Helper()
	req, err := e.ledger.SubmitRequest(context.Background(), SubmitRequestInput{
		RideID: rideID, PassengerID: passengerID, PassengerName: "P " + passengerID,
	})
	require.NoError(t, err)
	return req
}

func (e *env) seats(t *testing.T, rideID string) int {
	t.Helper()
	ride, err := e.rides.GetRide(context.Background(), rideID)
	require.NoError(t, err)
	require.NotNil(t, ride)
	return ride.AvailableSeats
}
