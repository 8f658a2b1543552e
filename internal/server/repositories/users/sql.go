package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/models"
)

var columns = []string{
	"id", "erp_id", "email", "password_hash", "name", "gender", "graduating_year",
	"contact_number", "role", "sec_question_1", "sec_answer_1_hash",
	"sec_question_2", "sec_answer_2_hash", "created_at",
}

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Create(ctx context.Context, u *models.User) error {
	query, args, err := r.d.Builder.
		Insert("users").
		Columns(columns...).
		Values(u.ID, u.ErpID, u.Email, u.PasswordHash, u.Name, u.Gender, u.GraduatingYear,
			u.ContactNumber, string(u.Role), u.SecQuestion1, u.SecAnswer1Hash,
			u.SecQuestion2, u.SecAnswer2Hash, u.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := r.d.UniqueViolation(err); ok {
			switch {
			case strings.Contains(constraint, "email"):
				return common.ErrDuplicateEmail
			case strings.Contains(constraint, "erp_id"):
				return common.ErrDuplicateErpID
			}
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, sq.Eq{"email": email})
}

func (r *SQLRepository) GetByErpID(ctx context.Context, erpID string) (*models.User, error) {
	return r.getBy(ctx, sq.Eq{"erp_id": erpID})
}

func (r *SQLRepository) getBy(ctx context.Context, pred sq.Eq) (*models.User, error) {
	query, args, err := r.d.Builder.Select(columns...).From("users").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	u := &models.User{}
	var role string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.ErpID, &u.Email, &u.PasswordHash, &u.Name, &u.Gender, &u.GraduatingYear,
		&u.ContactNumber, &role, &u.SecQuestion1, &u.SecAnswer1Hash,
		&u.SecQuestion2, &u.SecAnswer2Hash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.Role = models.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (r *SQLRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query, args, err := r.d.Builder.
		Update("users").
		Set("password_hash", hash).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
