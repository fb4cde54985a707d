package domain

import (
	"crypto/subtle"
	"time"
)

// LinkScope limits what a signed RSVP link authorises.
type LinkScope string

const (
	LinkScopeView   LinkScope = "rsvp.view"
	LinkScopeSubmit LinkScope = "rsvp.submit"
)

// LinkSigner mints and checks time-limited signed RSVP links for one guest.
type LinkSigner interface {
	// Sign returns an opaque signature covering guestID, scope and expiresAt.
	Sign(guestID string, scope LinkScope, expiresAt time.Time) (string, error)
	// Verify returns ErrLinkUnauthorized when sig is malformed, expired, or covers another guest or scope.
	Verify(sig, guestID string, scope LinkScope) error
}

// SecretGenerator produces per-guest secret tokens.
type SecretGenerator interface {
	NewSecret() (string, error)
}

// SecretMatches compares a presented secret token with the stored one in constant time.
func SecretMatches(stored, presented string) bool {
	if stored == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// RSVPLinkExpiry is the end of the deadline day when the event has a deadline, else now plus fallback.
func RSVPLinkExpiry(event *Event, now time.Time, loc *time.Location, fallback time.Duration) time.Time {
	if closesAt, ok := event.RSVPClosesAt(loc); ok {
		return closesAt
	}
	return now.Add(fallback)
}

// Viewer is the identity a read operation runs as. The zero value is an anonymous visitor.
type Viewer struct {
	AdminID string
}

// Anonymous is the viewer of an unauthenticated request.
var Anonymous = Viewer{}

// IsAdmin reports whether the viewer is an authenticated administrator.
func (v Viewer) IsAdmin() bool {
	return v.AdminID != ""
}
