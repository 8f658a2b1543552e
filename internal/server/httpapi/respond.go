package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

var errMalformedJSON = errors.New("Invalid JSON in request body")

type errorBody struct {
	Error string `json:"error"`
}

type successBody struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor is the only place errors become HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMalformedJSON),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrDuplicateRequest),
		errors.Is(err, common.ErrNoSeatsAvailable),
		errors.Is(err, common.ErrInvalidState),
		errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrDuplicateErpID):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"route", routeTemplate(r),
			"action", actionName(r),
			"request_id", requestIDFromContext(r.Context()),
			"error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// decodeBody reads a JSON object into dst. An empty body leaves dst as is.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errMalformedJSON, err)
	}
	return nil
}

func actionName(r *http.Request) string {
	if a := mux.Vars(r)["action"]; a != "" {
		return a
	}
	return r.URL.Query().Get("action")
}

type action struct {
	method string
	fn     http.HandlerFunc
}

// dispatch routes a request to one of actions by name, answering 400 for an
// unknown name and 405 for the wrong verb.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, actions map[string]action) {
	a, ok := actions[actionName(r)]
	if !ok {
		names := make([]string, 0, len(actions))
		for n := range actions {
			names = append(names, n)
		}
		sort.Strings(names)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid action. Use: " + strings.Join(names, ", ")})
		return
	}
	if r.Method != a.method {
		w.Header().Set("Allow", a.method+", OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		return
	}
	a.fn(w, r)
}

func required(value, message string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", common.ErrorValidation, message)
	}
	return nil
}
