package rides

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/models"
)

// Columns lists the ride columns in scan order.
var Columns = []string{
	"id", "host_id", "host_name", "departure_location", "destination_location",
	"departure_time", "fare", "total_seats", "available_seats", "created_at",
}

// QualifiedColumns returns Columns prefixed with a table alias for joins.
func QualifiedColumns(alias string) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = alias + "." + c
	}
	return out
}

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Create(ctx context.Context, ride *models.Ride) error {
	query, args, err := r.d.Builder.
		Insert("rides").
		Columns(Columns...).
		Values(ride.ID, ride.HostID, ride.HostName, ride.DepartureLocation, ride.DestinationLocation,
			ride.DepartureTime, ride.Fare, ride.TotalSeats, ride.AvailableSeats, ride.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string, forUpdate bool) (*models.Ride, error) {
	b := r.d.Builder.Select(Columns...).From("rides").Where(sq.Eq{"id": id})
	if forUpdate && r.d.LockSuffix != "" {
		b = b.Suffix(r.d.LockSuffix)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	ride, err := ScanRide(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ride, nil
}

func (r *SQLRepository) ListAll(ctx context.Context) ([]models.Ride, error) {
	return r.list(ctx, r.d.Builder.Select(Columns...).From("rides").OrderBy("departure_time ASC", "id ASC"))
}

func (r *SQLRepository) ListByHost(ctx context.Context, hostID string) ([]models.Ride, error) {
	return r.list(ctx, r.d.Builder.Select(Columns...).From("rides").
		Where(sq.Eq{"host_id": hostID}).
		OrderBy("departure_time DESC", "id ASC"))
}

func (r *SQLRepository) list(ctx context.Context, b sq.SelectBuilder) ([]models.Ride, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Ride, 0)
	for rows.Next() {
		ride, err := ScanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ReserveSeat(ctx context.Context, id string) (bool, error) {
	query, args, err := r.d.Builder.
		Update("rides").
		Set("available_seats", sq.Expr("available_seats - 1")).
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"available_seats": 0}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// ScanRide reads one ride in Columns order, optionally preceded by extra
// destinations (used by joins that select request columns first).
func ScanRide(s scanner, extra ...any) (*models.Ride, error) {
	ride := &models.Ride{}
	var fare sql.NullFloat64

	dest := append(extra,
		&ride.ID, &ride.HostID, &ride.HostName, &ride.DepartureLocation, &ride.DestinationLocation,
		&ride.DepartureTime, &fare, &ride.TotalSeats, &ride.AvailableSeats, &ride.CreatedAt,
	)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	if fare.Valid {
		ride.Fare = &fare.Float64
	}
	ride.DepartureTime = ride.DepartureTime.UTC()
	ride.CreatedAt = ride.CreatedAt.UTC()
	return ride, nil
}
