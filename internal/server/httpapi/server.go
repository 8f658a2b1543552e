// Package httpapi exposes the carpool services as action-tagged JSON
// endpoints: /api/{resource}?action=<name> or /api/{resource}/<name>.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/carpool/internal/logging"
	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/dmitrijs2005/carpool/internal/server/observability"
	"github.com/dmitrijs2005/carpool/internal/server/services"
	"github.com/gorilla/mux"
)

// Ledger is the ride-request side of the API.
type Ledger interface {
	SubmitRequest(ctx context.Context, in services.SubmitRequestInput) (*models.RideRequest, error)
	ResolveRequest(ctx context.Context, requestID string, status models.RequestStatus, actorID string) error
	ListForRide(ctx context.Context, rideID string) ([]models.RideRequest, error)
	ListForPassenger(ctx context.Context, passengerID string) ([]models.PassengerRequest, error)
}

// Catalog is the ride side of the API.
type Catalog interface {
	CreateRide(ctx context.Context, in services.CreateRideInput) (*models.Ride, error)
	ListAll(ctx context.Context) ([]models.Ride, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Ride, error)
	GetRide(ctx context.Context, id string) (*models.Ride, error)
}

// Directory is the account side of the API.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByErpID(ctx context.Context, erpID string) (*models.User, error)
	Create(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	SecurityQuestions(ctx context.Context, erpID string) ([2]string, error)
	ResetPassword(ctx context.Context, erpID, answer1, answer2, newPassword string) error
}

// Pinger reports store readiness. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	JWTSecret []byte
	// RequireAuth makes mutating ride and request actions demand a bearer
	// token whose user matches the acting party.
	RequireAuth bool
}

type Server struct {
	opts     Options
	ledger   Ledger
	rides    Catalog
	accounts Directory
	store    Pinger
	metrics  *observability.Metrics
	logger   logging.Logger
	router   *mux.Router
	handler  http.Handler
}

func NewServer(opts Options, l logging.Logger, m *observability.Metrics, store Pinger, ledger Ledger, rides Catalog, accounts Directory) *Server {
	s := &Server{
		opts:     opts,
		ledger:   ledger,
		rides:    rides,
		accounts: accounts,
		store:    store,
		metrics:  m,
		logger:   l.With("module", "http_server"),
		router:   mux.NewRouter(),
	}
	s.routes()
	s.registerMiddleware()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	for name, h := range map[string]http.HandlerFunc{
		"rides":    s.handleRides,
		"requests": s.handleRequests,
		"users":    s.handleUsers,
	} {
		api.HandleFunc("/"+name, h)
		api.HandleFunc("/"+name+"/{action}", h)
	}

	s.router.HandleFunc("/healthz", s.handleHealth)
	s.router.HandleFunc("/ready", s.handleReady)
	s.router.Handle("/metrics", s.metrics.Handler())
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout())
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.opts.ShutdownTimeout > 0 {
		return s.opts.ShutdownTimeout
	}
	return 10 * time.Second
}
