package domain

import (
	"context"
	"time"
)

// RSVPActivity is one recorded guest response.
type RSVPActivity struct {
	EventID        string      `json:"event_id"`
	GuestID        string      `json:"guest_id"`
	Status         GuestStatus `json:"status"`
	SeatsConfirmed int         `json:"seats_confirmed"`
	RecordedAt     time.Time   `json:"recorded_at"`
}

// RSVPNotifier publishes RSVP activity to downstream consumers.
type RSVPNotifier interface {
	Notify(ctx context.Context, activity RSVPActivity) error
	Close() error
}
