package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
	"guestrsvp/internal/domain"
)

const uniqueViolation = "23505"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const eventColumns = `e.id, e.slug, e.template_id, t.key, e.event_name, e.host_name, e.host_color,
		e.venue_name, e.venue_address, e.event_date, to_char(e.event_time, 'HH24:MI'), e.capacity,
		e.rsvp_deadline_at, e.gift_type, e.dress_code, e.complementary_text_1, e.complementary_text_2,
		e.complementary_text_3, e.settings, e.status, e.published_at, e.created_at, e.updated_at`

const eventFrom = `FROM events e JOIN templates t ON t.id = e.template_id`

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var (
		eventDate   sql.NullTime
		deadline    sql.NullTime
		settings    []byte
		status      string
		publishedAt sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.Slug, &e.TemplateID, &e.TemplateKey, &e.EventName, &e.HostName, &e.HostColor,
		&e.VenueName, &e.VenueAddress, &eventDate, &e.EventTime, &e.Capacity,
		&deadline, &e.GiftType, &e.DressCode, &e.ComplementaryText1, &e.ComplementaryText2,
		&e.ComplementaryText3, &settings, &status, &publishedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if eventDate.Valid {
		e.EventDate = domain.DateOf(eventDate.Time)
	}
	if deadline.Valid {
		d := domain.DateOf(deadline.Time)
		e.RSVPDeadline = &d
	}
	if len(settings) > 0 {
		e.Settings = json.RawMessage(append([]byte(nil), settings...))
	}
	e.Status = domain.EventStatus(status)
	if publishedAt.Valid {
		e.PublishedAt = &publishedAt.Time
	}
	return e, nil
}

const guestColumns = `id, event_id, kind, display_name, contact_name, contact_phone, contact_email, note,
		allow_plus_one, seats_reserved, seats_confirmed, status, member_names, secret_token, created_at, updated_at`

func scanGuest(row rowScanner) (*domain.Guest, error) {
	g := &domain.Guest{}
	var kind, status string
	var names pq.StringArray
	err := row.Scan(
		&g.ID, &g.EventID, &kind, &g.DisplayName, &g.Contact.Name, &g.Contact.Phone, &g.Contact.Email, &g.Note,
		&g.AllowPlusOne, &g.SeatsReserved, &g.SeatsConfirmed, &status, &names, &g.SecretToken, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	g.Kind = domain.GuestKind(kind)
	g.Status = domain.GuestStatus(status)
	g.MemberNames = []string(names)
	if g.MemberNames == nil {
		g.MemberNames = []string{}
	}
	return g, nil
}

func scanGuests(rows *sql.Rows) ([]*domain.Guest, error) {
	defer rows.Close()
	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

// nullableDate maps a missing deadline to NULL.
func nullableDate(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// nullableJSON sends JSON as text so lib/pq does not encode it as bytea.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
