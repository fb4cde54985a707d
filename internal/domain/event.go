package domain

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// EventStatus is the publication state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
)

// EventDetails holds the admin-editable fields of an event.
type EventDetails struct {
	TemplateID         string          `json:"template_id"`
	EventName          string          `json:"event_name"`
	HostName           string          `json:"host_name"`
	HostColor          string          `json:"host_color,omitempty"`
	VenueName          string          `json:"venue_name"`
	VenueAddress       string          `json:"venue_address,omitempty"`
	EventDate          Date            `json:"event_date"`
	EventTime          string          `json:"event_time"`
	Capacity           int             `json:"capacity"`
	RSVPDeadline       *Date           `json:"rsvp_deadline_at"`
	GiftType           string          `json:"gift_type,omitempty"`
	DressCode          string          `json:"dress_code,omitempty"`
	ComplementaryText1 string          `json:"complementary_text_1,omitempty"`
	ComplementaryText2 string          `json:"complementary_text_2,omitempty"`
	ComplementaryText3 string          `json:"complementary_text_3,omitempty"`
	Settings           json.RawMessage `json:"settings,omitempty"`
}

// Event is an invitation: one hosted occasion with a seat capacity and an optional RSVP deadline.
// It is the aggregate root for its guests.
// swagger:model Event
type Event struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	EventDetails
	TemplateKey string      `json:"template_key,omitempty"`
	Status      EventStatus `json:"status"`
	PublishedAt *time.Time  `json:"published_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsPublished reports whether unauthenticated viewers may see the event.
func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}

// VisibleTo reports whether the viewer may see the event. Drafts are admin-only.
func (e *Event) VisibleTo(v Viewer) bool {
	return e.IsPublished() || v.IsAdmin()
}

// RSVPClosesAt returns the end of the deadline day in loc. ok is false when the event has no deadline.
func (e *Event) RSVPClosesAt(loc *time.Location) (closesAt time.Time, ok bool) {
	if e.RSVPDeadline == nil {
		return time.Time{}, false
	}
	return e.RSVPDeadline.EndOfDay(loc), true
}

// IsRSVPClosed reports whether now is strictly after the end of the deadline day.
func (e *Event) IsRSVPClosed(now time.Time, loc *time.Location) bool {
	closesAt, ok := e.RSVPClosesAt(loc)
	return ok && now.After(closesAt)
}

// EventInput is the raw admin field set for creating or updating an event.
type EventInput struct {
	TemplateID         string
	EventName          string
	HostName           string
	HostColor          string
	VenueName          string
	VenueAddress       string
	EventDate          string
	EventTime          string
	Capacity           *int
	RSVPDeadline       string
	GiftType           string
	DressCode          string
	ComplementaryText1 string
	ComplementaryText2 string
	ComplementaryText3 string
	Settings           json.RawMessage
}

var eventTimeRegexp = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

const maxTextLen = 255

// Details validates the input and returns the normalised details.
func (in EventInput) Details() (EventDetails, error) {
	verr := &ValidationError{}
	d := EventDetails{
		TemplateID:         strings.TrimSpace(in.TemplateID),
		EventName:          strings.TrimSpace(in.EventName),
		HostName:           strings.TrimSpace(in.HostName),
		HostColor:          strings.TrimSpace(in.HostColor),
		VenueName:          strings.TrimSpace(in.VenueName),
		VenueAddress:       strings.TrimSpace(in.VenueAddress),
		GiftType:           strings.TrimSpace(in.GiftType),
		DressCode:          strings.TrimSpace(in.DressCode),
		ComplementaryText1: strings.TrimSpace(in.ComplementaryText1),
		ComplementaryText2: strings.TrimSpace(in.ComplementaryText2),
		ComplementaryText3: strings.TrimSpace(in.ComplementaryText3),
	}

	if d.TemplateID == "" {
		verr.Add("template_id", "template is required")
	}
	requireText(verr, "event_name", d.EventName)
	requireText(verr, "host_name", d.HostName)
	requireText(verr, "venue_name", d.VenueName)
	if len(d.HostColor) > 20 {
		verr.Add("host_color", "must be at most 20 characters")
	}
	for field, v := range map[string]string{
		"venue_address":        d.VenueAddress,
		"gift_type":            d.GiftType,
		"dress_code":           d.DressCode,
		"complementary_text_1": d.ComplementaryText1,
		"complementary_text_2": d.ComplementaryText2,
		"complementary_text_3": d.ComplementaryText3,
	} {
		if len(v) > maxTextLen {
			verr.Add(field, "must be at most 255 characters")
		}
	}

	if strings.TrimSpace(in.EventDate) == "" {
		verr.Add("event_date", "event date is required")
	} else if date, err := ParseDate(in.EventDate); err != nil {
		verr.Add("event_date", err.Error())
	} else {
		d.EventDate = date
	}

	eventTime := strings.TrimSpace(in.EventTime)
	switch {
	case eventTime == "":
		verr.Add("event_time", "event time is required")
	case !eventTimeRegexp.MatchString(eventTime):
		verr.Add("event_time", "must be HH:MM")
	default:
		d.EventTime = eventTime[:5]
	}

	switch {
	case in.Capacity == nil:
		verr.Add("capacity", "capacity is required")
	case *in.Capacity < 0:
		verr.Add("capacity", "capacity cannot be negative")
	default:
		d.Capacity = *in.Capacity
	}

	if strings.TrimSpace(in.RSVPDeadline) != "" {
		deadline, err := ParseDate(in.RSVPDeadline)
		if err != nil {
			verr.Add("rsvp_deadline_at", err.Error())
		} else {
			d.RSVPDeadline = &deadline
		}
	}

	if len(in.Settings) > 0 && string(in.Settings) != "null" {
		var obj map[string]any
		if err := json.Unmarshal(in.Settings, &obj); err != nil {
			verr.Add("settings", "must be a JSON object")
		} else {
			d.Settings = in.Settings
		}
	}

	if err := verr.Err(); err != nil {
		return EventDetails{}, err
	}
	return d, nil
}

func requireText(verr *ValidationError, field, v string) {
	switch {
	case v == "":
		verr.Add(field, strings.ReplaceAll(field, "_", " ")+" is required")
	case len(v) > maxTextLen:
		verr.Add(field, "must be at most 255 characters")
	}
}

// EventStats summarises the seat ledger and RSVP progress of an event.
// swagger:model EventStats
type EventStats struct {
	Capacity        int `json:"capacity"`
	ReservedSeats   int `json:"reserved_seats"`
	ConfirmedSeats  int `json:"confirmed_seats"`
	RemainingSeats  int `json:"remaining_seats"`
	PendingGuests   int `json:"pending_guests"`
	ConfirmedGuests int `json:"confirmed_guests"`
	DeclinedGuests  int `json:"declined_guests"`
}

// GuestEntry is a guest as listed on the admin dashboard, with its shareable links.
// swagger:model GuestEntry
type GuestEntry struct {
	*Guest
	RSVPURL      string `json:"rsvp_url"`
	PreviewURL   string `json:"preview_url"`
	ShareMessage string `json:"share_message"`
	WhatsAppURL  string `json:"whatsapp_url"`
}

// EventDashboard is the admin view of one event.
// swagger:model EventDashboard
type EventDashboard struct {
	Event  *Event        `json:"event"`
	Stats  EventStats    `json:"stats"`
	Guests []*GuestEntry `json:"guests"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	SetStatus(ctx context.Context, id string, status EventStatus, publishedAt *time.Time) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the admin and public operations on events.
type EventService interface {
	ListTemplates(ctx context.Context) ([]*Template, error)
	CreateEvent(ctx context.Context, in EventInput) (*Event, error)
	// UpdateEvent rejects a capacity below the seats already reserved with a CapacityError.
	UpdateEvent(ctx context.Context, eventID string, in EventInput) (*Event, error)
	PublishEvent(ctx context.Context, eventID string) (*Event, error)
	UnpublishEvent(ctx context.Context, eventID string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	GetDashboard(ctx context.Context, eventID string) (*EventDashboard, error)
	// GetPublicInvitation returns ErrNotFound for unknown slugs and for drafts the viewer may not see.
	// A guest context is attached only when guestID and secret match a guest of the event.
	GetPublicInvitation(ctx context.Context, viewer Viewer, slug, guestID, secret string) (*PublicInvitation, error)
}
