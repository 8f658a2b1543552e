package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

type NewRideRequest struct {
	RideID        string   `json:"ride_id"`
	PassengerID   string   `json:"passenger_id"`
	PassengerName string   `json:"passenger_name"`
	OfferedPrice  *float64 `json:"offered_price,omitempty"`
	Comment       string   `json:"comment,omitempty"`
}

func (c *Client) CreateRideRequest(ctx context.Context, r NewRideRequest) (*models.RideRequest, error) {
	var out struct {
		Request *models.RideRequest `json:"request"`
	}
	err := c.call(ctx, http.MethodPost, "requests", "create", nil, r, &out)
	return out.Request, err
}

func (c *Client) GetRequestsForRide(ctx context.Context, rideID string) ([]models.RideRequest, error) {
	var out struct {
		Requests []models.RideRequest `json:"requests"`
	}
	err := c.call(ctx, http.MethodGet, "requests", "getForRide", url.Values{"rideId": {rideID}}, nil, &out)
	return out.Requests, err
}

// GetRequestsByPassenger lists a passenger's requests with their rides,
// most recent first.
func (c *Client) GetRequestsByPassenger(ctx context.Context, passengerID string) ([]models.PassengerRequest, error) {
	var out struct {
		Requests []models.PassengerRequest `json:"requests"`
	}
	err := c.call(ctx, http.MethodGet, "requests", "getByPassenger", url.Values{"passengerId": {passengerID}}, nil, &out)
	return out.Requests, err
}

// UpdateRequestStatus accepts or rejects a pending request.
func (c *Client) UpdateRequestStatus(ctx context.Context, requestID string, status models.RequestStatus) error {
	return c.call(ctx, http.MethodPost, "requests", "updateStatus", nil,
		map[string]string{"requestId": requestID, "status": string(status)}, nil)
}
