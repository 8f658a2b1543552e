package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/cryptox"
	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/server/auth"
	"github.com/dmitrijs2005/carpool/internal/server/models"
)

const MinPasswordLength = 6

type CreateUserInput struct {
	ErpID          string
	Email          string
	Password       string
	Name           string
	Gender         string
	GraduatingYear int
	ContactNumber  string
	Role           models.Role
	SecQuestion1   string
	SecAnswer1     string
	SecQuestion2   string
	SecAnswer2     string
}

func (in *CreateUserInput) normalize() error {
	in.ErpID = strings.TrimSpace(in.ErpID)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Gender = strings.TrimSpace(in.Gender)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.SecQuestion1 = strings.TrimSpace(in.SecQuestion1)
	in.SecQuestion2 = strings.TrimSpace(in.SecQuestion2)
	if in.Role == "" {
		in.Role = models.RoleStudent
	}

	switch {
	case in.ErpID == "":
		return fmt.Errorf("%w: erp_id is required", common.ErrorValidation)
	case in.Email == "":
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	case !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: email is malformed", common.ErrorValidation)
	case in.Name == "":
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	case in.Role != models.RoleStudent && in.Role != models.RoleAdmin:
		return fmt.Errorf("%w: unknown role %q", common.ErrorValidation, in.Role)
	case cryptox.NormalizeAnswer(in.SecAnswer1) == "" || cryptox.NormalizeAnswer(in.SecAnswer2) == "":
		return fmt.Errorf("%w: both security answers are required", common.ErrorValidation)
	}
	return validatePassword(in.Password)
}

func validatePassword(p string) error {
	if len(p) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	return nil
}

// AccountService is the directory of campus accounts. Passwords and security
// answers are only ever stored as argon2id hashes.
type AccountService struct {
	deps      Deps
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAccountService(d Deps, jwtSecret []byte, tokenTTL time.Duration) *AccountService {
	d = d.withDefaults()
	d.Log = d.Log.With("module", "accounts")
	return &AccountService{deps: d, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// FindByEmail returns the account or nil when none matches.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	return s.find(ctx, func(ctx context.Context, db dbx.DBTX) (*models.User, error) {
		return s.deps.Repos.Users(db).GetByEmail(ctx, email)
	})
}

// FindByErpID returns the account or nil when none matches.
func (s *AccountService) FindByErpID(ctx context.Context, erpID string) (*models.User, error) {
	erpID = strings.TrimSpace(erpID)
	if erpID == "" {
		return nil, fmt.Errorf("%w: erp_id is required", common.ErrorValidation)
	}
	return s.find(ctx, func(ctx context.Context, db dbx.DBTX) (*models.User, error) {
		return s.deps.Repos.Users(db).GetByErpID(ctx, erpID)
	})
}

func (s *AccountService) find(ctx context.Context, get func(context.Context, dbx.DBTX) (*models.User, error)) (*models.User, error) {
	var u *models.User
	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		u, err = get(ctx, s.deps.DB)
		return err
	})
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return u, err
}

// Create registers an account. Email is checked before ERP id so the caller
// sees the same message the sign-up form always showed.
func (s *AccountService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	u := &models.User{
		ID:             s.deps.NewID(),
		ErpID:          in.ErpID,
		Email:          in.Email,
		PasswordHash:   cryptox.HashSecret(in.Password),
		Name:           in.Name,
		Gender:         in.Gender,
		GraduatingYear: in.GraduatingYear,
		ContactNumber:  in.ContactNumber,
		Role:           in.Role,
		SecQuestion1:   in.SecQuestion1,
		SecAnswer1Hash: cryptox.HashSecret(cryptox.NormalizeAnswer(in.SecAnswer1)),
		SecQuestion2:   in.SecQuestion2,
		SecAnswer2Hash: cryptox.HashSecret(cryptox.NormalizeAnswer(in.SecAnswer2)),
		CreatedAt:      s.deps.Now().UTC(),
	}

	err := s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.deps.Repos.Users(tx)
			if err := absent(repo.GetByEmail(ctx, u.Email)); err != nil {
				if errors.Is(err, errPresent) {
					return common.ErrDuplicateEmail
				}
				return err
			}
			if err := absent(repo.GetByErpID(ctx, u.ErpID)); err != nil {
				if errors.Is(err, errPresent) {
					return common.ErrDuplicateErpID
				}
				return err
			}
			return repo.Create(ctx, u)
		})
	})
	if err != nil {
		return nil, err
	}

	s.deps.Log.Info(ctx, "account created", "user_id", u.ID, "erp_id", u.ErpID)
	return u, nil
}

var errPresent = errors.New("present")

// absent turns a lookup result into nil when nothing was found.
func absent(_ *models.User, err error) error {
	switch {
	case err == nil:
		return errPresent
	case errors.Is(err, common.ErrorNotFound):
		return nil
	}
	return err
}

// Login checks the credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		// burn comparable time so unknown emails are not distinguishable
		_, _ = cryptox.VerifySecret(password, cryptox.HashSecret(""))
		return nil, "", fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
	}

	ok, err := cryptox.VerifySecret(password, u.PasswordHash)
	if err != nil {
		s.deps.Log.Error(ctx, "stored password hash unreadable", "user_id", u.ID, "error", err)
		return nil, "", common.ErrorInternal
	}
	if !ok {
		return nil, "", fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// UpdatePassword replaces a password after re-checking the current one.
func (s *AccountService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", common.ErrorValidation)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	return s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.deps.Repos.Users(tx)
			u, err := repo.GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("user %w", common.ErrorNotFound)
				}
				return err
			}
			ok, err := cryptox.VerifySecret(currentPassword, u.PasswordHash)
			if err != nil || !ok {
				return fmt.Errorf("%w: current password is incorrect", common.ErrorUnauthorized)
			}
			return repo.UpdatePasswordHash(ctx, u.ID, cryptox.HashSecret(newPassword))
		})
	})
}

// SecurityQuestions returns the two recovery questions of an account.
func (s *AccountService) SecurityQuestions(ctx context.Context, erpID string) ([2]string, error) {
	u, err := s.FindByErpID(ctx, erpID)
	if err != nil {
		return [2]string{}, err
	}
	if u == nil {
		return [2]string{}, fmt.Errorf("account %w", common.ErrorNotFound)
	}
	return [2]string{u.SecQuestion1, u.SecQuestion2}, nil
}

// ResetPassword sets a new password when both security answers match,
// ignoring case and surrounding spaces.
func (s *AccountService) ResetPassword(ctx context.Context, erpID, answer1, answer2, newPassword string) error {
	erpID = strings.TrimSpace(erpID)
	if erpID == "" {
		return fmt.Errorf("%w: erp_id is required", common.ErrorValidation)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	return s.deps.Retrier.Do(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.deps.Repos.Users(tx)
			u, err := repo.GetByErpID(ctx, erpID)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("account %w", common.ErrorNotFound)
				}
				return err
			}

			ok1, err1 := cryptox.VerifySecret(cryptox.NormalizeAnswer(answer1), u.SecAnswer1Hash)
			ok2, err2 := cryptox.VerifySecret(cryptox.NormalizeAnswer(answer2), u.SecAnswer2Hash)
			if err1 != nil || err2 != nil || !ok1 || !ok2 {
				return fmt.Errorf("%w: security answers do not match", common.ErrorUnauthorized)
			}
			return repo.UpdatePasswordHash(ctx, u.ID, cryptox.HashSecret(newPassword))
		})
	})
}
