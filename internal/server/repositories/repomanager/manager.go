// Package repomanager vends repositories bound to a connection or an open
// transaction, and applies the schema migrations for the configured dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/requests"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/rides"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/users"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Rides(db dbx.DBTX) rides.Repository
	Requests(db dbx.DBTX) requests.Repository
}
