package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/dmitrijs2005/carpool/internal/server/services"
	"github.com/dmitrijs2005/carpool/internal/timex"
)

type createRideRequest struct {
	HostID              string   `json:"host_id"`
	HostName            string   `json:"host_name"`
	DepartureLocation   string   `json:"departure_location"`
	DestinationLocation string   `json:"destination_location"`
	DepartureTime       string   `json:"departure_time"`
	Fare                *float64 `json:"fare"`
	TotalSeats          int      `json:"total_seats"`
}

func (s *Server) handleRides(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, map[string]action{
		"create":    {http.MethodPost, s.createRide},
		"getAll":    {http.MethodGet, s.getAllRides},
		"getByHost": {http.MethodGet, s.getRidesByHost},
		"get":       {http.MethodGet, s.getRide},
	})
}

func (s *Server) createRide(w http.ResponseWriter, r *http.Request) {
	var req createRideRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.caller(r, "host_id", req.HostID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var departure time.Time
	if req.DepartureTime != "" {
		t, err := timex.ParseFlexible(req.DepartureTime, time.UTC)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: departure_time: %v", common.ErrorValidation, err))
			return
		}
		departure = t
	}

	ride, err := s.rides.CreateRide(r.Context(), services.CreateRideInput{
		HostID:              req.HostID,
		HostName:            req.HostName,
		DepartureLocation:   req.DepartureLocation,
		DestinationLocation: req.DestinationLocation,
		DepartureTime:       departure,
		Fare:                req.Fare,
		TotalSeats:          req.TotalSeats,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ride": ride})
}

func (s *Server) getAllRides(w http.ResponseWriter, r *http.Request) {
	rides, err := s.rides.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rides": rides})
}

func (s *Server) getRidesByHost(w http.ResponseWriter, r *http.Request) {
	hostID := r.URL.Query().Get("hostId")
	if err := required(hostID, "Host ID is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	rides, err := s.rides.ListByHost(r.Context(), hostID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rides": rides})
}

func (s *Server) getRide(w http.ResponseWriter, r *http.Request) {
	rideID := r.URL.Query().Get("rideId")
	if err := required(rideID, "Ride ID is required"); err != nil {
		s.writeError(w, r, err)
		return
	}
	ride, err := s.rides.GetRide(r.Context(), rideID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ride": ride})
}
