package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// seatDB holds one ride with two seats and one pending request.
func seatDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE rides (id TEXT PRIMARY KEY, available_seats INTEGER NOT NULL CHECK (available_seats >= 0))`,
		`CREATE TABLE ride_requests (id TEXT PRIMARY KEY, status TEXT NOT NULL)`,
		`INSERT INTO rides VALUES ('r1', 2)`,
		`INSERT INTO ride_requests VALUES ('q1', 'pending')`,
	} {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func state(t *testing.T, db *sql.DB) (seats int, status string) {
	t.Helper()
	require.NoError(t, db.QueryRow(`SELECT available_seats FROM rides WHERE id = 'r1'`).Scan(&seats))
	require.NoError(t, db.QueryRow(`SELECT status FROM ride_requests WHERE id = 'q1'`).Scan(&status))
	return seats, status
}

func accept(ctx context.Context, tx DBTX) error {
	if _, err := tx.ExecContext(ctx, `UPDATE rides SET available_seats = available_seats - 1 WHERE id = 'r1'`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `UPDATE ride_requests SET status = 'accepted' WHERE id = 'q1'`)
	return err
}

func TestWithTx_CommitsBothWrites(t *testing.T) {
	db := seatDB(t)

	require.NoError(t, WithTx(context.Background(), db, nil, accept))

	seats, status := state(t, db)
	assert.Equal(t, 1, seats)
	assert.Equal(t, "accepted", status)
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := seatDB(t)
	errLate := errors.New("status flip lost")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, accept(ctx, tx))
		return errLate
	})
	require.ErrorIs(t, err, errLate)

	seats, status := state(t, db)
	assert.Equal(t, 2, seats, "seat must be given back")
	assert.Equal(t, "pending", status)
}

func TestWithTx_ConstraintErrorRollsBack(t *testing.T) {
	db := seatDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `UPDATE ride_requests SET status = 'accepted' WHERE id = 'q1'`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE rides SET available_seats = available_seats - 3 WHERE id = 'r1'`)
		return err
	})
	require.Error(t, err, "CHECK keeps seats non-negative")

	seats, status := state(t, db)
	assert.Equal(t, 2, seats)
	assert.Equal(t, "pending", status)
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := seatDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		seats, status := state(t, db)
		assert.Equal(t, 2, seats)
		assert.Equal(t, "pending", status)
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, accept(ctx, tx))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := seatDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
	assert.False(t, called)
}
