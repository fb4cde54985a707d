package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"guestrsvp/internal/domain"
)

type seatLocker struct {
	DB *sql.DB
}

// NewSeatLocker returns a SeatLocker that holds a row lock on the event for the length of one transaction.
// Concurrent seat writes for the same event queue on that lock, so each sees the others' committed guests.
func NewSeatLocker(db *sql.DB) domain.SeatLocker {
	return &seatLocker{DB: db}
}

func (l *seatLocker) WithEventLock(ctx context.Context, eventID string, fn func(ctx context.Context, tx domain.SeatTx) error) (err error) {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT ` + eventColumns + ` ` + eventFrom + ` WHERE e.id = $1 FOR UPDATE OF e`
	event, err := scanEvent(tx.QueryRowContext(ctx, query, eventID))
	if err != nil {
		return err
	}

	if err = fn(ctx, &seatTx{tx: tx, event: event}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type seatTx struct {
	tx    *sql.Tx
	event *domain.Event
}

func (s *seatTx) Event() *domain.Event { return s.event }

func (s *seatTx) Guests(ctx context.Context) ([]*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := s.tx.QueryContext(ctx, query, s.event.ID)
	if err != nil {
		return nil, err
	}
	return scanGuests(rows)
}

func (s *seatTx) CreateGuest(ctx context.Context, g *domain.Guest) error {
	query := `
		INSERT INTO guests (event_id, kind, display_name, contact_name, contact_phone, contact_email, note,
			allow_plus_one, seats_reserved, seats_confirmed, status, member_names, secret_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return s.tx.QueryRowContext(ctx, query,
		s.event.ID, string(g.Kind), g.DisplayName, g.Contact.Name, g.Contact.Phone, g.Contact.Email, g.Note,
		g.AllowPlusOne, g.SeatsReserved, g.SeatsConfirmed, string(g.Status), pq.Array(g.MemberNames), g.SecretToken,
		g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
}

func (s *seatTx) UpdateGuest(ctx context.Context, g *domain.Guest) error {
	query := `
		UPDATE guests SET display_name = $2, contact_name = $3, contact_phone = $4, contact_email = $5, note = $6,
			allow_plus_one = $7, seats_reserved = $8, seats_confirmed = $9, status = $10, member_names = $11,
			updated_at = $12
		WHERE id = $1 AND event_id = $13
	`
	result, err := s.tx.ExecContext(ctx, query,
		g.ID, g.DisplayName, g.Contact.Name, g.Contact.Phone, g.Contact.Email, g.Note,
		g.AllowPlusOne, g.SeatsReserved, g.SeatsConfirmed, string(g.Status), pq.Array(g.MemberNames),
		g.UpdatedAt, s.event.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateEvent writes the admin-editable details. The slug is never changed here.
func (s *seatTx) UpdateEvent(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET template_id = $2, event_name = $3, host_name = $4, host_color = $5, venue_name = $6,
			venue_address = $7, event_date = $8, event_time = $9, capacity = $10, rsvp_deadline_at = $11,
			gift_type = $12, dress_code = $13, complementary_text_1 = $14, complementary_text_2 = $15,
			complementary_text_3 = $16, settings = $17, updated_at = $18
		WHERE id = $1
	`
	_, err := s.tx.ExecContext(ctx, query,
		e.ID, e.TemplateID, e.EventName, e.HostName, e.HostColor, e.VenueName,
		e.VenueAddress, e.EventDate.String(), e.EventTime, e.Capacity, nullableDate(e.RSVPDeadline),
		e.GiftType, e.DressCode, e.ComplementaryText1, e.ComplementaryText2,
		e.ComplementaryText3, nullableJSON(e.Settings), e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	s.event = e
	return nil
}
