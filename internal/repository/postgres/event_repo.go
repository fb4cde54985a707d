package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"guestrsvp/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// Create inserts the event. A slug collision returns domain.ErrSlugTaken.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (template_id, slug, event_name, host_name, host_color, venue_name, venue_address,
			event_date, event_time, capacity, rsvp_deadline_at, gift_type, dress_code,
			complementary_text_1, complementary_text_2, complementary_text_3, settings, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.TemplateID, e.Slug, e.EventName, e.HostName, e.HostColor, e.VenueName, e.VenueAddress,
		e.EventDate.String(), e.EventTime, e.Capacity, nullableDate(e.RSVPDeadline), e.GiftType, e.DressCode,
		e.ComplementaryText1, e.ComplementaryText2, e.ComplementaryText3, nullableJSON(e.Settings), string(e.Status),
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` ` + eventFrom + ` WHERE e.id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` ` + eventFrom + ` WHERE e.slug = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, slug))
}

func (r *eventRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// List returns one page of events, newest first, and the total count.
func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + eventColumns + ` ` + eventFrom + ` ORDER BY e.created_at DESC`
	args := []any{}
	if limit := params.Limit(); limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, params.Offset())
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus, publishedAt *time.Time) (*domain.Event, error) {
	query := `UPDATE events SET status = $2, published_at = $3, updated_at = NOW() WHERE id = $1`
	var published sql.NullTime
	if publishedAt != nil {
		published = sql.NullTime{Time: *publishedAt, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query, id, string(status), published)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the event; its guests go with it through ON DELETE CASCADE.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
