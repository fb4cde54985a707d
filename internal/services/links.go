package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"guestrsvp/internal/domain"
)

// LinkBuilder builds the absolute guest-facing URLs shared with invitees.
type LinkBuilder struct {
	baseURL  string
	signer   domain.LinkSigner
	loc      *time.Location
	fallback time.Duration
}

// NewLinkBuilder returns a LinkBuilder. fallback is the RSVP link lifetime for events without a deadline.
func NewLinkBuilder(baseURL string, signer domain.LinkSigner, loc *time.Location, fallback time.Duration) *LinkBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &LinkBuilder{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		signer:   signer,
		loc:      loc,
		fallback: fallback,
	}
}

// Location is the zone deadlines are evaluated in.
func (b *LinkBuilder) Location() *time.Location { return b.loc }

// RSVPURL returns a signed /rsvp/{guestID} link for scope, valid until the end of the deadline day
// or for the fallback window.
func (b *LinkBuilder) RSVPURL(event *domain.Event, guestID string, scope domain.LinkScope, now time.Time) (string, error) {
	expiresAt := domain.RSVPLinkExpiry(event, now, b.loc, b.fallback)
	sig, err := b.signer.Sign(guestID, scope, expiresAt)
	if err != nil {
		return "", fmt.Errorf("sign rsvp link: %w", err)
	}
	return b.baseURL + "/rsvp/" + url.PathEscape(guestID) + "?sig=" + url.QueryEscape(sig), nil
}

// PreviewURL returns the personalised invitation link carrying the guest's secret token.
func (b *LinkBuilder) PreviewURL(slug, guestID, secret string) string {
	q := url.Values{}
	q.Set("g", guestID)
	q.Set("s", secret)
	return b.InvitationURL(slug) + "?" + q.Encode()
}

// InvitationURL returns the public invitation page of an event.
func (b *LinkBuilder) InvitationURL(slug string) string {
	return b.baseURL + "/i/" + url.PathEscape(slug)
}
