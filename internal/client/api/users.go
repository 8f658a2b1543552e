package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

// NewUser is the sign-up form.
type NewUser struct {
	ErpID          string `json:"erp_id"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	GraduatingYear int    `json:"graduating_year"`
	ContactNumber  string `json:"contact_number"`
	Role           string `json:"role,omitempty"`
	SecQuestion1   string `json:"sec_question_1"`
	SecAnswer1     string `json:"sec_answer_1"`
	SecQuestion2   string `json:"sec_question_2"`
	SecAnswer2     string `json:"sec_answer_2"`
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

// FindUserByEmail returns nil when no account has the email.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var out userEnvelope
	err := c.call(ctx, http.MethodPost, "users", "findByEmail", nil, map[string]string{"email": email}, &out)
	return out.User, err
}

// FindUserByERP returns nil when no account has the ERP id.
func (c *Client) FindUserByERP(ctx context.Context, erpID string) (*models.User, error) {
	var out userEnvelope
	err := c.call(ctx, http.MethodPost, "users", "findByERP", nil, map[string]string{"erp_id": erpID}, &out)
	return out.User, err
}

func (c *Client) CreateUser(ctx context.Context, u NewUser) (*models.User, error) {
	var out userEnvelope
	err := c.call(ctx, http.MethodPost, "users", "create", nil, u, &out)
	return out.User, err
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}
	err := c.call(ctx, http.MethodPost, "users", "login", nil,
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.User, nil
}

func (c *Client) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return c.call(ctx, http.MethodPost, "users", "updatePassword", nil, map[string]string{
		"userId": userID, "currentPassword": currentPassword, "newPassword": newPassword,
	}, nil)
}

func (c *Client) SecurityQuestions(ctx context.Context, erpID string) ([2]string, error) {
	var out struct {
		Q1 string `json:"sec_question_1"`
		Q2 string `json:"sec_question_2"`
	}
	err := c.call(ctx, http.MethodPost, "users", "securityQuestions", nil, map[string]string{"erp_id": erpID}, &out)
	return [2]string{out.Q1, out.Q2}, err
}

func (c *Client) ResetPassword(ctx context.Context, erpID, answer1, answer2, newPassword string) error {
	return c.call(ctx, http.MethodPost, "users", "resetPassword", nil, map[string]string{
		"erp_id": erpID, "sec_answer_1": answer1, "sec_answer_2": answer2, "newPassword": newPassword,
	}, nil)
}
