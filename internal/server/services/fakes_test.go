package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/logging"
	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/requests"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/rides"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/users"
	"github.com/jackc/pgx/v5/pgconn"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	users.Repository
	byID     *models.User
	getErrs  []error
	getCalls int
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.getCalls++
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.byID, nil
}

type fakeRidesRepo struct {
	rides.Repository
	list      []models.Ride
	listErrs  []error
	listCalls int
	created   []*models.Ride
}

func (f *fakeRidesRepo) ListAll(ctx context.Context) ([]models.Ride, error) {
	f.listCalls++
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.list, nil
}

func (f *fakeRidesRepo) Create(ctx context.Context, r *models.Ride) error {
	f.created = append(f.created, r)
	return nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
	r *fakeRidesRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository       { return m.u }
func (m *fakeRepoManager) Rides(db dbx.DBTX) rides.Repository       { return m.r }
func (m *fakeRepoManager) Requests(db dbx.DBTX) requests.Repository { return nil }

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func mockDeps(db *sql.DB, m *fakeRepoManager) Deps {
	return Deps{
		DB:      db,
		Repos:   m,
		Retrier: dbx.NewRetrier(2, time.Millisecond, dbx.Postgres.IsTransient),
		Log:     logging.NewNop(),
		Now:     func() time.Time { return t0 },
		NewID:   func() string { return "fixed-id" },
	}
}

var errSerialization = &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
