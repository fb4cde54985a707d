package domain

import (
	"context"
	"net/mail"
	"strings"
	"time"
)

// GuestKind is fixed when the guest is created.
type GuestKind string

const (
	GuestKindIndividual GuestKind = "individual"
	GuestKindGroup      GuestKind = "group"
)

// GuestStatus is the RSVP state of a guest.
type GuestStatus string

const (
	GuestStatusPending   GuestStatus = "pending"
	GuestStatusConfirmed GuestStatus = "confirmed"
	GuestStatusDeclined  GuestStatus = "declined"
)

// Contact holds descriptive contact metadata. No invariant applies to it.
type Contact struct {
	Name  string `json:"contact_name,omitempty"`
	Phone string `json:"contact_phone,omitempty"`
	Email string `json:"contact_email,omitempty"`
}

// Guest is one invitee unit of an event: an individual (optionally with a plus-one) or a named group.
// swagger:model Guest
type Guest struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Kind        GuestKind `json:"type"`
	DisplayName string    `json:"display_name"`
	Contact
	Note           string      `json:"note,omitempty"`
	AllowPlusOne   bool        `json:"allow_plus_one"`
	SeatsReserved  int         `json:"seats_reserved"`
	SeatsConfirmed int         `json:"seats_confirmed"`
	Status         GuestStatus `json:"status"`
	MemberNames    []string    `json:"member_names"`
	// SecretToken authorises the personalised preview link. It never leaves the server as a field.
	SecretToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Allocation is the kind-specific part of a guest: either Individual or Group.
type Allocation interface {
	Kind() GuestKind
	// Seats is the number of seats the allocation reserves against capacity.
	Seats() int
	isAllocation()
}

// Individual is a single invitee who may be allowed to bring one companion.
type Individual struct {
	AllowPlusOne bool
}

func (Individual) Kind() GuestKind { return GuestKindIndividual }

func (i Individual) Seats() int {
	if i.AllowPlusOne {
		return 2
	}
	return 1
}

func (Individual) isAllocation() {}

// Group is a named party holding an admin-chosen number of seats.
type Group struct {
	SeatsReserved int
	// MemberNames is informational and not bound by SeatsReserved.
	MemberNames []string
}

func (Group) Kind() GuestKind { return GuestKindGroup }

func (g Group) Seats() int { return g.SeatsReserved }

func (Group) isAllocation() {}

// Allocation returns the kind-specific view of the guest.
func (g *Guest) Allocation() Allocation {
	if g.Kind == GuestKindGroup {
		return Group{SeatsReserved: g.SeatsReserved, MemberNames: append([]string(nil), g.MemberNames...)}
	}
	return Individual{AllowPlusOne: g.AllowPlusOne}
}

// GuestInput is the admin field set for creating or updating a guest.
type GuestInput struct {
	DisplayName string
	Contact     Contact
	Note        string
	Allocation  Allocation
}

// Validate checks the common and kind-specific fields.
func (in GuestInput) Validate() error {
	verr := &ValidationError{}
	requireText(verr, "display_name", strings.TrimSpace(in.DisplayName))
	if len(strings.TrimSpace(in.Contact.Name)) > maxTextLen {
		verr.Add("contact_name", "must be at most 255 characters")
	}
	if len(strings.TrimSpace(in.Contact.Phone)) > 50 {
		verr.Add("contact_phone", "must be at most 50 characters")
	}
	if email := strings.TrimSpace(in.Contact.Email); email != "" {
		if len(email) > maxTextLen {
			verr.Add("contact_email", "must be at most 255 characters")
		} else if _, err := mail.ParseAddress(email); err != nil {
			verr.Add("contact_email", "must be a valid email address")
		}
	}

	switch a := in.Allocation.(type) {
	case nil:
		verr.Add("type", "type must be individual or group")
	case Individual:
	case Group:
		if a.SeatsReserved < 1 {
			verr.Add("seats_reserved", "a group needs at least 1 seat")
		}
		for _, name := range a.MemberNames {
			if len(strings.TrimSpace(name)) > maxTextLen {
				verr.Add("member_names", "each name must be at most 255 characters")
				break
			}
		}
	}
	return verr.Err()
}

// NewGuest builds a pending guest from validated input.
func NewGuest(eventID string, in GuestInput, secret string, now time.Time) *Guest {
	g := &Guest{
		EventID:     eventID,
		Kind:        in.Allocation.Kind(),
		Status:      GuestStatusPending,
		SecretToken: secret,
		MemberNames: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.applyCommon(in)
	switch a := in.Allocation.(type) {
	case Individual:
		g.AllowPlusOne = a.AllowPlusOne
	case Group:
		g.MemberNames = cleanNames(a.MemberNames)
	}
	g.SeatsReserved = in.Allocation.Seats()
	return g
}

// Reallocate applies an admin edit. The kind cannot change; seats_confirmed is clamped to the new reservation.
func (g *Guest) Reallocate(in GuestInput, now time.Time) error {
	if in.Allocation == nil || in.Allocation.Kind() != g.Kind {
		return NewValidationError("type", "guest type cannot be changed; delete and recreate the guest")
	}
	g.applyCommon(in)
	switch a := in.Allocation.(type) {
	case Individual:
		g.AllowPlusOne = a.AllowPlusOne
		if !a.AllowPlusOne || len(g.MemberNames) == 0 {
			g.MemberNames = []string{}
		} else {
			g.MemberNames = g.MemberNames[:1]
		}
	case Group:
		g.AllowPlusOne = false
		g.MemberNames = cleanNames(a.MemberNames)
	}
	g.SeatsReserved = in.Allocation.Seats()
	if g.SeatsConfirmed > g.SeatsReserved {
		g.SeatsConfirmed = g.SeatsReserved
	}
	g.UpdatedAt = now
	return nil
}

func (g *Guest) applyCommon(in GuestInput) {
	g.DisplayName = strings.TrimSpace(in.DisplayName)
	g.Contact = Contact{
		Name:  strings.TrimSpace(in.Contact.Name),
		Phone: strings.TrimSpace(in.Contact.Phone),
		Email: strings.TrimSpace(in.Contact.Email),
	}
	g.Note = strings.TrimSpace(in.Note)
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// GuestSummary is the guest-facing projection of a guest.
// swagger:model GuestSummary
type GuestSummary struct {
	ID             string      `json:"guest_id"`
	Kind           GuestKind   `json:"type"`
	DisplayName    string      `json:"display_name"`
	AllowPlusOne   bool        `json:"allow_plus_one"`
	SeatsReserved  int         `json:"seats_reserved"`
	SeatsConfirmed int         `json:"seats_confirmed"`
	Status         GuestStatus `json:"status"`
	MemberNames    []string    `json:"member_names"`
}

// Summary projects the guest for guest-facing pages.
func (g *Guest) Summary() GuestSummary {
	names := g.MemberNames
	if names == nil {
		names = []string{}
	}
	return GuestSummary{
		ID:             g.ID,
		Kind:           g.Kind,
		DisplayName:    g.DisplayName,
		AllowPlusOne:   g.AllowPlusOne,
		SeatsReserved:  g.SeatsReserved,
		SeatsConfirmed: g.SeatsConfirmed,
		Status:         g.Status,
		MemberNames:    names,
	}
}

// GuestRepository defines guest storage operations that need no cross-guest locking.
// Writes that touch seats go through SeatLocker instead.
type GuestRepository interface {
	GetByID(ctx context.Context, id string) (*Guest, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Guest, error)
	Delete(ctx context.Context, id string) error
}

// SeatTx is one event and its guest list held under an exclusive lock for a single transaction.
type SeatTx interface {
	Event() *Event
	// Guests lists the event's guests, newest first.
	Guests(ctx context.Context) ([]*Guest, error)
	CreateGuest(ctx context.Context, guest *Guest) error
	UpdateGuest(ctx context.Context, guest *Guest) error
	UpdateEvent(ctx context.Context, event *Event) error
}

// SeatLocker serialises seat-changing writes per event. fn runs inside one transaction that is
// committed when fn returns nil and rolled back otherwise.
type SeatLocker interface {
	WithEventLock(ctx context.Context, eventID string, fn func(ctx context.Context, tx SeatTx) error) error
}

// GuestService defines admin guest management.
type GuestService interface {
	AddGuest(ctx context.Context, eventID string, in GuestInput) (*Guest, error)
	UpdateGuest(ctx context.Context, guestID string, in GuestInput) (*Guest, error)
	DeleteGuest(ctx context.Context, guestID string) error
	ListGuests(ctx context.Context, eventID string) ([]*Guest, error)
	ExportGuests(ctx context.Context, eventID string, format ExportFormat) (*ExportFile, error)
}
