// Package services contains the server-side business logic: the ride-request
// ledger, the ride catalog and the account directory. Every store interaction
// runs as one retried unit of work, usually a single transaction.
package services

import (
	"database/sql"
	"time"

	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/logging"
	"github.com/dmitrijs2005/carpool/internal/server/cache"
	"github.com/dmitrijs2005/carpool/internal/server/events"
	"github.com/dmitrijs2005/carpool/internal/server/observability"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Deps bundles what the services share. Zero-valued optional fields are
// replaced with harmless defaults by withDefaults.
type Deps struct {
	DB      *sql.DB
	Repos   repomanager.RepositoryManager
	Retrier *dbx.Retrier
	Log     logging.Logger
	Metrics *observability.Metrics
	Events  events.Publisher
	Cache   cache.RideListCache
	Now     func() time.Time
	NewID   func() string
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = logging.NewNop()
	}
	if d.Events == nil {
		d.Events = events.NewLogPublisher(d.Log)
	}
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}
