package models

import "time"

// Ride is a trip offered by a host. AvailableSeats only ever moves down, one
// seat per accepted request, and stays within [0, TotalSeats].
type Ride struct {
	ID                  string    `json:"id"`
	HostID              string    `json:"host_id"`
	HostName            string    `json:"host_name"`
	DepartureLocation   string    `json:"departure_location"`
	DestinationLocation string    `json:"destination_location"`
	DepartureTime       time.Time `json:"departure_time"`
	Fare                *float64  `json:"fare"`
	TotalSeats          int       `json:"total_seats"`
	AvailableSeats      int       `json:"available_seats"`
	CreatedAt           time.Time `json:"created_at"`
}
