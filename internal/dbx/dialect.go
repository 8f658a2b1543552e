package dbx

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures everything that differs between the supported relational
// backends: driver, migration dialect, placeholder style, row locking and
// error classification.
type Dialect struct {
	// Name is the configuration / goose dialect name.
	Name string
	// DriverName is the database/sql driver registered for the backend.
	DriverName string
	// Builder renders statements with the backend's placeholder format.
	Builder sq.StatementBuilderType
	// LockSuffix is appended to SELECTs that must lock the row for the rest
	// of the transaction. Empty when the backend serializes writers itself.
	LockSuffix string
	// MaxOpenConns limits the pool; 0 means unlimited.
	MaxOpenConns int

	uniqueViolation func(error) (string, bool)
	transient       func(error) bool
}

// UniqueViolation reports whether err is a unique-constraint violation and,
// if so, which constraint (PostgreSQL) or column list (SQLite) was violated.
func (d Dialect) UniqueViolation(err error) (string, bool) {
	if err == nil || d.uniqueViolation == nil {
		return "", false
	}
	return d.uniqueViolation(err)
}

// IsTransient reports whether err is worth retrying: the store was
// unreachable, restarting, busy, or aborted the transaction for
// serialization reasons.
func (d Dialect) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if d.transient == nil {
		return false
	}
	return d.transient(err)
}

// Postgres is the PostgreSQL dialect served by the pgx stdlib driver.
var Postgres = Dialect{
	Name:            "postgres",
	DriverName:      "pgx",
	Builder:         sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	LockSuffix:      "FOR UPDATE",
	uniqueViolation: pgUniqueViolation,
	transient:       pgTransient,
}

// SQLite is the embedded single-file dialect served by modernc.org/sqlite.
// Writers are serialized through a single pooled connection.
var SQLite = Dialect{
	Name:            "sqlite3",
	DriverName:      "sqlite",
	Builder:         sq.StatementBuilder.PlaceholderFormat(sq.Question),
	MaxOpenConns:    1,
	uniqueViolation: sqliteUniqueViolation,
	transient:       sqliteTransient,
}

// DialectByName resolves a configured backend name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
}

const pgUniqueViolationCode = "23505"

func pgUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func pgTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization failure, deadlock
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P03": // admin shutdown, cannot connect now
			return true
		}
		return false
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

func sqliteUniqueViolation(err error) (string, bool) {
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return "", false
	}
	msg := sErr.Error()
	switch {
	case sErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE, sErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
	case sErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE"):
	default:
		return "", false
	}
	// "constraint failed: UNIQUE constraint failed: users.email (2067)"
	if i := strings.LastIndex(msg, "failed: "); i >= 0 {
		msg = msg[i+len("failed: "):]
	}
	if i := strings.LastIndex(msg, " ("); i >= 0 {
		msg = msg[:i]
	}
	return msg, true
}

func sqliteTransient(err error) bool {
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return false
	}
	switch sErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
