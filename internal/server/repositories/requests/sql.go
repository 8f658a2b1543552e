package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/rides"
)

var columns = []string{
	"id", "ride_id", "passenger_id", "passenger_name", "offered_price",
	"comment", "status", "created_at", "updated_at",
}

func qualified(alias string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
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

func (r *SQLRepository) Create(ctx context.Context, req *models.RideRequest) error {
	query, args, err := r.d.Builder.
		Insert("ride_requests").
		Columns(columns...).
		Values(req.ID, req.RideID, req.PassengerID, req.PassengerName, req.OfferedPrice,
			req.Comment, string(req.Status), req.CreatedAt, req.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if _, ok := r.d.UniqueViolation(err); ok {
			return common.ErrDuplicateRequest
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string, forUpdate bool) (*models.RideRequest, error) {
	b := r.d.Builder.Select(columns...).From("ride_requests").Where(sq.Eq{"id": id})
	if forUpdate && r.d.LockSuffix != "" {
		b = b.Suffix(r.d.LockSuffix)
	}
	return r.getOne(ctx, b)
}

func (r *SQLRepository) FindActive(ctx context.Context, rideID, passengerID string) (*models.RideRequest, error) {
	return r.getOne(ctx, r.d.Builder.Select(columns...).From("ride_requests").
		Where(sq.Eq{
			"ride_id":      rideID,
			"passenger_id": passengerID,
			"status":       []string{string(models.StatusPending), string(models.StatusAccepted)},
		}).
		Limit(1))
}

func (r *SQLRepository) getOne(ctx context.Context, b sq.SelectBuilder) (*models.RideRequest, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *SQLRepository) ListByRide(ctx context.Context, rideID string) ([]models.RideRequest, error) {
	query, args, err := r.d.Builder.Select(columns...).From("ride_requests").
		Where(sq.Eq{"ride_id": rideID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.RideRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListByPassenger(ctx context.Context, passengerID string) ([]models.PassengerRequest, error) {
	cols := append(qualified("rr"), rides.QualifiedColumns("r")...)
	query, args, err := r.d.Builder.Select(cols...).
		From("ride_requests rr").
		Join("rides r ON r.id = rr.ride_id").
		Where(sq.Eq{"rr.passenger_id": passengerID}).
		OrderBy("rr.created_at DESC", "rr.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.PassengerRequest, 0)
	for rows.Next() {
		var (
			req   models.RideRequest
			price sql.NullFloat64
			st    string
		)
		ride, err := rides.ScanRide(rows,
			&req.ID, &req.RideID, &req.PassengerID, &req.PassengerName, &price,
			&req.Comment, &st, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		finish(&req, price, st)
		out = append(out, models.PassengerRequest{Request: req, Ride: *ride})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) UpdateStatusFrom(ctx context.Context, id string, from, to models.RequestStatus, at time.Time) (bool, error) {
	query, args, err := r.d.Builder.
		Update("ride_requests").
		Set("status", string(to)).
		Set("updated_at", at).
		Where(sq.Eq{"id": id, "status": string(from)}).
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

func scanRequest(s scanner) (*models.RideRequest, error) {
	req := &models.RideRequest{}
	var (
		price sql.NullFloat64
		st    string
	)
	err := s.Scan(&req.ID, &req.RideID, &req.PassengerID, &req.PassengerName, &price,
		&req.Comment, &st, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	finish(req, price, st)
	return req, nil
}

func finish(req *models.RideRequest, price sql.NullFloat64, st string) {
	if price.Valid {
		p := price.Float64
		req.OfferedPrice = &p
	}
	req.Status = models.RequestStatus(st)
	req.CreatedAt = req.CreatedAt.UTC()
	req.UpdatedAt = req.UpdatedAt.UTC()
}
