package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// RSVPInput is a raw guest submission. Which fields are read depends on the guest kind.
type RSVPInput struct {
	Attending      *bool
	PlusOne        *bool
	PlusOneName    string
	SeatsConfirmed *int
}

// RSVPResponse is a validated submission for one guest kind: IndividualResponse or GroupResponse.
type RSVPResponse interface {
	Kind() GuestKind
	isRSVPResponse()
}

// IndividualResponse answers for a single invitee and, if eligible, their companion.
type IndividualResponse struct {
	Attending   bool
	PlusOne     bool
	PlusOneName string
}

func (IndividualResponse) Kind() GuestKind { return GuestKindIndividual }
func (IndividualResponse) isRSVPResponse() {}

// GroupResponse answers for a group with the number of seats it will use.
type GroupResponse struct {
	SeatsConfirmed int
}

func (GroupResponse) Kind() GuestKind { return GuestKindGroup }
func (GroupResponse) isRSVPResponse() {}

// ResponseFor validates in against the fields required by kind.
func ResponseFor(kind GuestKind, in RSVPInput) (RSVPResponse, error) {
	switch kind {
	case GuestKindIndividual:
		if in.Attending == nil {
			return nil, NewValidationError("attending", "attending is required")
		}
		name := strings.TrimSpace(in.PlusOneName)
		if len(name) > maxTextLen {
			return nil, NewValidationError("plus_one_name", "must be at most 255 characters")
		}
		return IndividualResponse{
			Attending:   *in.Attending,
			PlusOne:     in.PlusOne != nil && *in.PlusOne,
			PlusOneName: name,
		}, nil
	case GuestKindGroup:
		switch {
		case in.SeatsConfirmed == nil:
			return nil, NewValidationError("seats_confirmed", "seats confirmed is required")
		case *in.SeatsConfirmed < 0:
			return nil, NewValidationError("seats_confirmed", "seats confirmed cannot be negative")
		}
		return GroupResponse{SeatsConfirmed: *in.SeatsConfirmed}, nil
	default:
		return nil, NewValidationError("type", "unknown guest type")
	}
}

// ApplyRSVP transitions the guest for a response. seats_reserved is never changed.
// On error the guest is left untouched.
func (g *Guest) ApplyRSVP(resp RSVPResponse, now time.Time) error {
	if resp == nil || resp.Kind() != g.Kind {
		return NewValidationError("type", "response does not match the guest type")
	}

	switch r := resp.(type) {
	case IndividualResponse:
		if !r.Attending {
			g.Status = GuestStatusDeclined
			g.SeatsConfirmed = 0
			g.MemberNames = []string{}
			break
		}
		plusOne := g.AllowPlusOne && r.PlusOne
		if plusOne && r.PlusOneName == "" {
			return NewValidationError("plus_one_name", "enter the name of your companion")
		}
		g.Status = GuestStatusConfirmed
		if plusOne {
			g.SeatsConfirmed = 2
			g.MemberNames = []string{r.PlusOneName}
		} else {
			g.SeatsConfirmed = 1
			g.MemberNames = []string{}
		}
		g.SeatsConfirmed = min(g.SeatsConfirmed, g.SeatsReserved)
	case GroupResponse:
		g.SeatsConfirmed = min(r.SeatsConfirmed, g.SeatsReserved)
		if g.SeatsConfirmed <= 0 {
			g.SeatsConfirmed = 0
			g.Status = GuestStatusDeclined
		} else {
			g.Status = GuestStatusConfirmed
		}
	}
	g.UpdatedAt = now
	return nil
}

// CheckRSVPOpen returns ErrRSVPPeriodClosed when now is strictly after the end of the deadline day.
func CheckRSVPOpen(event *Event, now time.Time, loc *time.Location) error {
	if event.IsRSVPClosed(now, loc) {
		return ErrRSVPPeriodClosed
	}
	return nil
}

// PublicEvent is the projection of an event shown to invitees. It carries no internal ids.
// swagger:model PublicEvent
type PublicEvent struct {
	Slug               string         `json:"slug"`
	TemplateKey        string         `json:"template_key"`
	EventName          string         `json:"event_name"`
	HostName           string         `json:"host_name"`
	HostColor          string         `json:"host_color,omitempty"`
	VenueName          string         `json:"venue_name"`
	VenueAddress       string         `json:"venue_address,omitempty"`
	EventDate          Date           `json:"event_date"`
	EventTime          string         `json:"event_time"`
	RSVPDeadline       *Date          `json:"rsvp_deadline_at"`
	GiftType           string         `json:"gift_type,omitempty"`
	DressCode          string         `json:"dress_code,omitempty"`
	ComplementaryText1 string         `json:"complementary_text_1,omitempty"`
	ComplementaryText2 string         `json:"complementary_text_2,omitempty"`
	ComplementaryText3 string         `json:"complementary_text_3,omitempty"`
	Settings           map[string]any `json:"settings,omitempty"`
	IsDraft            bool           `json:"is_draft,omitempty"`
}

// Public projects the event for invitees.
func (e *Event) Public() PublicEvent {
	return PublicEvent{
		Slug:               e.Slug,
		TemplateKey:        e.TemplateKey,
		EventName:          e.EventName,
		HostName:           e.HostName,
		HostColor:          e.HostColor,
		VenueName:          e.VenueName,
		VenueAddress:       e.VenueAddress,
		EventDate:          e.EventDate,
		EventTime:          e.EventTime,
		RSVPDeadline:       e.RSVPDeadline,
		GiftType:           e.GiftType,
		DressCode:          e.DressCode,
		ComplementaryText1: e.ComplementaryText1,
		ComplementaryText2: e.ComplementaryText2,
		ComplementaryText3: e.ComplementaryText3,
		Settings:           decodeSettings(e.Settings),
		IsDraft:            !e.IsPublished(),
	}
}

func decodeSettings(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// PublicInvitation is the invitation page payload. Guest and RSVPURL are set only when the
// guest's secret token matched.
// swagger:model PublicInvitation
type PublicInvitation struct {
	Invitation PublicEvent   `json:"invitation"`
	Guest      *GuestSummary `json:"guest"`
	RSVPURL    string        `json:"rsvp_url,omitempty"`
}

// RSVPView is the RSVP page payload. The page still renders after the deadline, read-only.
// swagger:model RSVPView
type RSVPView struct {
	Invitation PublicEvent  `json:"invitation"`
	Guest      GuestSummary `json:"guest"`
	IsClosed   bool         `json:"is_closed"`
	ClosesAt   *time.Time   `json:"closes_at"`
	SubmitURL  string       `json:"submit_url,omitempty"`
}

// RSVPResult is returned after a recorded response. InvitationURL is the event slug to return to.
// swagger:model RSVPResult
type RSVPResult struct {
	Guest         GuestSummary `json:"guest"`
	InvitationURL string       `json:"invitation_url"`
}

// RSVPService defines the guest-facing RSVP operations. Callers must have verified the signed link.
type RSVPService interface {
	GetRSVP(ctx context.Context, guestID string) (*RSVPView, error)
	// SubmitRSVP returns ErrRSVPPeriodClosed after the deadline and a ValidationError for bad input.
	// Resubmitting the same payload yields the same state.
	SubmitRSVP(ctx context.Context, guestID string, in RSVPInput) (*RSVPResult, error)
}
