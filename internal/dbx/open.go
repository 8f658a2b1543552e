package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a pool for the dialect and verifies it with a ping. Ping
// failures are retried with r's spacing regardless of their kind, since the
// store may simply not be up yet.
func Open(ctx context.Context, d Dialect, dsn string, r *Retrier) (*sql.DB, error) {
	if d.Name == SQLite.Name {
		dsn = withSQLitePragmas(dsn)
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}

	if d.MaxOpenConns > 0 {
		db.SetMaxOpenConns(d.MaxOpenConns)
	}

	ping := NewRetrier(DefaultRetries, DefaultRetryDelay, func(error) bool { return true })
	if r != nil {
		ping = NewRetrier(r.retries, r.delay, func(error) bool { return true })
	}

	err = ping.Do(ctx, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}

	return db, nil
}

// withSQLitePragmas turns on foreign key enforcement and a busy timeout for
// every connection the driver opens.
func withSQLitePragmas(dsn string) string {
	pragmas := []string{}
	if !strings.Contains(dsn, "foreign_keys") {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		pragmas = append(pragmas, "_pragma=busy_timeout(5000)")
	}
	if len(pragmas) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}
