// Package events publishes ride-request ledger changes for downstream
// consumers such as notification workers.
package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/carpool/internal/logging"
)

type Type string

const (
	RequestSubmitted Type = "request.submitted"
	RequestAccepted  Type = "request.accepted"
	RequestRejected  Type = "request.rejected"
)

// LedgerEvent describes one committed ledger change.
type LedgerEvent struct {
	Type           Type      `json:"type"`
	RequestID      string    `json:"request_id"`
	RideID         string    `json:"ride_id"`
	PassengerID    string    `json:"passenger_id"`
	HostID         string    `json:"host_id"`
	Status         string    `json:"status"`
	AvailableSeats *int      `json:"available_seats,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev LedgerEvent) error
	Close() error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	log logging.Logger
}

func NewLogPublisher(log logging.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("module", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, ev LedgerEvent) error {
	args := []any{
		"type", ev.Type,
		"request_id", ev.RequestID,
		"ride_id", ev.RideID,
		"passenger_id", ev.PassengerID,
		"status", ev.Status,
	}
	if ev.AvailableSeats != nil {
		args = append(args, "available_seats", *ev.AvailableSeats)
	}
	p.log.Info(ctx, "ledger event", args...)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
