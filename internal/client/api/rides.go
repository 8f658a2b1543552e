package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

type NewRide struct {
	HostID              string    `json:"host_id"`
	HostName            string    `json:"host_name"`
	DepartureLocation   string    `json:"departure_location"`
	DestinationLocation string    `json:"destination_location"`
	DepartureTime       time.Time `json:"departure_time"`
	Fare                *float64  `json:"fare,omitempty"`
	TotalSeats          int       `json:"total_seats"`
}

type ridesEnvelope struct {
	Rides []models.Ride `json:"rides"`
}

func (c *Client) CreateRide(ctx context.Context, r NewRide) (*models.Ride, error) {
	var out struct {
		Ride *models.Ride `json:"ride"`
	}
	err := c.call(ctx, http.MethodPost, "rides", "create", nil, r, &out)
	return out.Ride, err
}

// GetRides lists every ride, soonest departure first.
func (c *Client) GetRides(ctx context.Context) ([]models.Ride, error) {
	var out ridesEnvelope
	err := c.call(ctx, http.MethodGet, "rides", "getAll", nil, nil, &out)
	return out.Rides, err
}

// GetRidesByHost lists a host's rides, latest departure first.
func (c *Client) GetRidesByHost(ctx context.Context, hostID string) ([]models.Ride, error) {
	var out ridesEnvelope
	err := c.call(ctx, http.MethodGet, "rides", "getByHost", url.Values{"hostId": {hostID}}, nil, &out)
	return out.Rides, err
}

// GetRide returns nil when the ride does not exist.
func (c *Client) GetRide(ctx context.Context, rideID string) (*models.Ride, error) {
	var out struct {
		Ride *models.Ride `json:"ride"`
	}
	err := c.call(ctx, http.MethodGet, "rides", "get", url.Values{"rideId": {rideID}}, nil, &out)
	return out.Ride, err
}
