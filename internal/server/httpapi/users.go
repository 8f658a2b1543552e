package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/dmitrijs2005/carpool/internal/server/services"
)

type createUserRequest struct {
	ErpID          string `json:"erp_id"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	GraduatingYear int    `json:"graduating_year"`
	ContactNumber  string `json:"contact_number"`
	Role           string `json:"role"`
	SecQuestion1   string `json:"sec_question_1"`
	SecAnswer1     string `json:"sec_answer_1"`
	SecQuestion2   string `json:"sec_question_2"`
	SecAnswer2     string `json:"sec_answer_2"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type resetPasswordRequest struct {
	ErpID       string `json:"erp_id"`
	SecAnswer1  string `json:"sec_answer_1"`
	SecAnswer2  string `json:"sec_answer_2"`
	NewPassword string `json:"newPassword"`
}

type securityQuestionsResponse struct {
	SecQuestion1 string `json:"sec_question_1"`
	SecQuestion2 string `json:"sec_question_2"`
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, map[string]action{
		"findByEmail":       {http.MethodPost, s.findUserByEmail},
		"findByERP":         {http.MethodPost, s.findUserByERP},
		"create":            {http.MethodPost, s.createUser},
		"login":             {http.MethodPost, s.login},
		"updatePassword":    {http.MethodPost, s.updatePassword},
		"securityQuestions": {http.MethodPost, s.securityQuestions},
		"resetPassword":     {http.MethodPost, s.resetPassword},
	})
}

func (s *Server) findUserByEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.Email, "Email is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.accounts.FindByEmail(r.Context(), req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (s *Server) findUserByERP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ErpID string `json:"erp_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.ErpID, "ERP ID is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.accounts.FindByErpID(r.Context(), req.ErpID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.accounts.Create(r.Context(), services.CreateUserInput{
		ErpID:          req.ErpID,
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Gender:         req.Gender,
		GraduatingYear: req.GraduatingYear,
		ContactNumber:  req.ContactNumber,
		Role:           models.Role(req.Role),
		SecQuestion1:   req.SecQuestion1,
		SecAnswer1:     req.SecAnswer1,
		SecQuestion2:   req.SecQuestion2,
		SecAnswer2:     req.SecAnswer2,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.Email, "Email is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u, "token": token})
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.UserID, "User ID and new password are required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.NewPassword, "User ID and new password are required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.caller(r, "userId", req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.accounts.UpdatePassword(r.Context(), req.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) securityQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ErpID string `json:"erp_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.ErpID, "ERP ID is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	qs, err := s.accounts.SecurityQuestions(r.Context(), req.ErpID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, securityQuestionsResponse{SecQuestion1: qs[0], SecQuestion2: qs[1]})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.ErpID, "ERP ID is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.accounts.ResetPassword(r.Context(), req.ErpID, req.SecAnswer1, req.SecAnswer2, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
