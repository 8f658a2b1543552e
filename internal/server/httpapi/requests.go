package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/dmitrijs2005/carpool/internal/server/services"
)

type createRequestRequest struct {
	RideID        string   `json:"ride_id"`
	PassengerID   string   `json:"passenger_id"`
	PassengerName string   `json:"passenger_name"`
	OfferedPrice  *float64 `json:"offered_price"`
	Comment       string   `json:"comment"`
}

type updateStatusRequest struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, map[string]action{
		"create":         {http.MethodPost, s.createRequest},
		"getForRide":     {http.MethodGet, s.getRequestsForRide},
		"getByPassenger": {http.MethodGet, s.getRequestsByPassenger},
		"updateStatus":   {http.MethodPost, s.updateRequestStatus},
	})
}

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.caller(r, "passenger_id", req.PassengerID); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.ledger.SubmitRequest(r.Context(), services.SubmitRequestInput{
		RideID:        req.RideID,
		PassengerID:   req.PassengerID,
		PassengerName: req.PassengerName,
		OfferedPrice:  req.OfferedPrice,
		Comment:       req.Comment,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"request": created})
}

func (s *Server) getRequestsForRide(w http.ResponseWriter, r *http.Request) {
	rideID := r.URL.Query().Get("rideId")
	if err := required(rideID, "Ride ID is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	reqs, err := s.ledger.ListForRide(r.Context(), rideID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": reqs})
}

func (s *Server) getRequestsByPassenger(w http.ResponseWriter, r *http.Request) {
	passengerID := r.URL.Query().Get("passengerId")
	if err := required(passengerID, "Passenger ID is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	reqs, err := s.ledger.ListForPassenger(r.Context(), passengerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": reqs})
}

// updateRequestStatus resolves a request. An authenticated caller must be
// the ride's host; anonymous callers are only let through when
// authentication is not required.
func (s *Server) updateRequestStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.RequestID, "Request ID and status are required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(req.Status, "Request ID and status are required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	actor, err := s.caller(r, "", "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.ledger.ResolveRequest(r.Context(), req.RequestID, models.RequestStatus(req.Status), actor); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
