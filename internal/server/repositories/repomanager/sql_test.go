package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/requests"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/rides"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)
	var m RepositoryManager = NewRepositoryManager(dbx.Postgres)

	assert.IsType(t, &users.SQLRepository{}, m.Users(db))
	assert.IsType(t, &rides.SQLRepository{}, m.Rides(db))
	assert.IsType(t, &requests.SQLRepository{}, m.Requests(db))
	assert.Equal(t, "postgres", m.Dialect().Name)
}

func stubGoose(t *testing.T, fn func(dir string) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return fn(dir)
	}
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestRunMigrations_PicksDialectDir(t *testing.T) {
	for _, d := range []dbx.Dialect{dbx.Postgres, dbx.SQLite} {
		t.Run(d.Name, func(t *testing.T) {
			var got string
			stubGoose(t, func(dir string) error { got = dir; return nil })

			require.NoError(t, NewRepositoryManager(d).RunMigrations(context.Background(), newDB(t)))
			want := map[string]string{"postgres": "postgres", "sqlite3": "sqlite"}[d.Name]
			assert.Equal(t, want, got)
		})
	}
}

func TestRunMigrations_Error(t *testing.T) {
	stubGoose(t, func(string) error { return errors.New("boom") })

	err := NewRepositoryManager(dbx.Postgres).RunMigrations(context.Background(), newDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunMigrations_UnknownDialect(t *testing.T) {
	err := NewRepositoryManager(dbx.Dialect{Name: "oracle"}).RunMigrations(context.Background(), newDB(t))
	assert.ErrorContains(t, err, "no migrations")
}

func TestRunMigrations_SQLiteForReal(t *testing.T) {
	db, err := sql.Open("sqlite", "file:repomanager_real?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	goose.SetLogger(goose.NopLogger())
	require.NoError(t, NewRepositoryManager(dbx.SQLite).RunMigrations(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'ride_requests_active_uq'`).Scan(&n))
	assert.Equal(t, 1, n)
}
