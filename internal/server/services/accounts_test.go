package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/server/auth"
	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newAccounts(t *testing.T) (*env, *AccountService) {
	t.Helper()
	e := newEnv(t)
	return e, NewAccountService(e.deps, testSecret, time.Hour)
}

func signUp(erp, email string) CreateUserInput {
	return CreateUserInput{
		ErpID: erp, Email: email, Password: "secret1", Name: "Ayesha",
		Gender: "female", GraduatingYear: 2026, ContactNumber: "0300-1234567",
		SecQuestion1: "First pet?", SecAnswer1: "Milo",
		SecQuestion2: "Home town?", SecAnswer2: "Karachi",
	}
}

func TestAccounts_CreateAndFind(t *testing.T) {
	_, svc := newAccounts(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, signUp("24001", " Ayesha@Campus.edu "))
	require.NoError(t, err)
	assert.Equal(t, "ayesha@campus.edu", u.Email)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.NotContains(t, u.PasswordHash, "secret1")
	assert.NotContains(t, u.SecAnswer1Hash, "milo")

	byEmail, err := svc.FindByEmail(ctx, "AYESHA@campus.edu")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	byErp, err := svc.FindByErpID(ctx, "24001")
	require.NoError(t, err)
	require.NotNil(t, byErp)
	assert.Equal(t, u.ID, byErp.ID)

	missing, err := svc.FindByEmail(ctx, "nobody@campus.edu")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// hashes never reach the wire
	raw, err := json.Marshal(byEmail)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "argon2id")
}

func TestAccounts_CreateDuplicates(t *testing.T) {
	_, svc := newAccounts(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, signUp("24001", "a@campus.edu"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, signUp("24002", "A@campus.edu"))
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	_, err = svc.Create(ctx, signUp("24001", "b@campus.edu"))
	assert.ErrorIs(t, err, common.ErrDuplicateErpID)

	// email wins when both collide
	_, err = svc.Create(ctx, signUp("24001", "a@campus.edu"))
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestAccounts_CreateValidation(t *testing.T) {
	_, svc := newAccounts(t)

	tests := []struct {
		name   string
		mutate func(*CreateUserInput)
	}{
		{"no erp", func(in *CreateUserInput) { in.ErpID = "" }},
		{"no email", func(in *CreateUserInput) { in.Email = " " }},
		{"bad email", func(in *CreateUserInput) { in.Email = "campus.edu" }},
		{"no name", func(in *CreateUserInput) { in.Name = "" }},
		{"short password", func(in *CreateUserInput) { in.Password = "12345" }},
		{"unknown role", func(in *CreateUserInput) { in.Role = "driver" }},
		{"blank answer", func(in *CreateUserInput) { in.SecAnswer2 = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := signUp("1", "x@campus.edu")
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestAccounts_Login(t *testing.T) {
	_, svc := newAccounts(t)
	ctx := context.Background()
	u, err := svc.Create(ctx, signUp("24001", "a@campus.edu"))
	require.NoError(t, err)

	got, token, err := svc.Login(ctx, "A@campus.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	uid, err := auth.GetUserIDFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, _, err = svc.Login(ctx, "a@campus.edu", "wrong-pass")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, _, err = svc.Login(ctx, "ghost@campus.edu", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAccounts_UpdatePassword(t *testing.T) {
	_, svc := newAccounts(t)
	ctx := context.Background()
	u, err := svc.Create(ctx, signUp("24001", "a@campus.edu"))
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, u.ID, "not-it", "newsecret")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = svc.UpdatePassword(ctx, u.ID, "secret1", "short")
	assert.ErrorIs(t, err, common.ErrorValidation)

	err = svc.UpdatePassword(ctx, "ghost", "secret1", "newsecret")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, svc.UpdatePassword(ctx, u.ID, "secret1", "newsecret"))

	_, _, err = svc.Login(ctx, "a@campus.edu", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, _, err = svc.Login(ctx, "a@campus.edu", "newsecret")
	assert.NoError(t, err)
}

func TestAccounts_SecurityQuestionsAndReset(t *testing.T) {
	_, svc := newAccounts(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, signUp("24001", "a@campus.edu"))
	require.NoError(t, err)

	qs, err := svc.SecurityQuestions(ctx, "24001")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"First pet?", "Home town?"}, qs)

	_, err = svc.SecurityQuestions(ctx, "99999")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = svc.ResetPassword(ctx, "24001", "milo", "lahore", "resetpass")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = svc.ResetPassword(ctx, "99999", "milo", "karachi", "resetpass")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, svc.ResetPassword(ctx, "24001", "  MILO ", "karachi", "resetpass"))

	_, _, err = svc.Login(ctx, "a@campus.edu", "resetpass")
	assert.NoError(t, err)
}
