package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is a registered campus member. Credential hashes never leave the
// server: they are excluded from JSON.
type User struct {
	ID             string    `json:"id"`
	ErpID          string    `json:"erp_id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	Gender         string    `json:"gender"`
	GraduatingYear int       `json:"graduating_year"`
	ContactNumber  string    `json:"contact_number"`
	Role           Role      `json:"role"`
	SecQuestion1   string    `json:"sec_question_1"`
	SecAnswer1Hash string    `json:"-"`
	SecQuestion2   string    `json:"sec_question_2"`
	SecAnswer2Hash string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
