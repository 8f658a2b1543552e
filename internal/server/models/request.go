package models

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// Active reports whether the status blocks another request by the same
// passenger for the same ride.
func (s RequestStatus) Active() bool {
	return s == StatusPending || s == StatusAccepted
}

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// RideRequest is a passenger's request for a seat on a ride.
type RideRequest struct {
	ID            string        `json:"id"`
	RideID        string        `json:"ride_id"`
	PassengerID   string        `json:"passenger_id"`
	PassengerName string        `json:"passenger_name"`
	OfferedPrice  *float64      `json:"offered_price"`
	Comment       string        `json:"comment"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PassengerRequest pairs a request with the ride it targets, as listed on a
// passenger's "my requests" page.
type PassengerRequest struct {
	Request RideRequest `json:"request"`
	Ride    Ride        `json:"ride"`
}
