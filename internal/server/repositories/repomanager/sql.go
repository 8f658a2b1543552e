package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/migrations"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/requests"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/rides"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends squirrel-backed repositories for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func NewRepositoryManager(d dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: d}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Rides(db dbx.DBTX) rides.Repository {
	return rides.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Requests(db dbx.DBTX) requests.Repository {
	return requests.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// migrationDir maps a dialect to its directory inside migrations.Migrations.
func migrationDir(d dbx.Dialect) (string, error) {
	switch d.Name {
	case dbx.Postgres.Name:
		return "postgres", nil
	case dbx.SQLite.Name:
		return "sqlite", nil
	}
	return "", fmt.Errorf("no migrations for dialect %q", d.Name)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dir, err := migrationDir(m.dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.Name); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
