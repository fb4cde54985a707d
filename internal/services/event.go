package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guestrsvp/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	templateRepo   domain.TemplateRepository
	guestRepo      domain.GuestRepository
	locker         domain.SeatLocker
	links          *LinkBuilder
	share          domain.ShareMessageRenderer
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	templateRepo domain.TemplateRepository,
	guestRepo domain.GuestRepository,
	locker domain.SeatLocker,
	links *LinkBuilder,
	share domain.ShareMessageRenderer,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		templateRepo:   templateRepo,
		guestRepo:      guestRepo,
		locker:         locker,
		links:          links,
		share:          share,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	templates, err := s.templateRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// activeTemplate resolves the template of an event input, reporting an unknown or retired one on template_id.
func (s *eventService) activeTemplate(ctx context.Context, id string) (*domain.Template, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !tpl.IsActive) {
		return nil, domain.NewValidationError("template_id", "template does not exist or is not active")
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return tpl, nil
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details, err := in.Details()
	if err != nil {
		return nil, err
	}
	tpl, err := s.activeTemplate(ctx, details.TemplateID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := &domain.Event{
		EventDetails: details,
		TemplateKey:  tpl.Key,
		Status:       domain.EventStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := createWithUniqueSlug(ctx, s.eventRepo, event, Slugify(details.EventName+"-"+details.HostName)); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details, err := in.Details()
	if err != nil {
		return nil, err
	}
	tpl, err := s.activeTemplate(ctx, details.TemplateID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Event
	err = s.locker.WithEventLock(ctx, eventID, func(ctx context.Context, tx domain.SeatTx) error {
		guests, err := tx.Guests(ctx)
		if err != nil {
			return fmt.Errorf("list guests: %w", err)
		}
		current := tx.Event()
		ledger := domain.NewLedger(current.Capacity, guests)
		if details.Capacity < ledger.Reserved() {
			return &domain.CapacityError{Field: "capacity", Requested: details.Capacity, Remaining: ledger.Remaining()}
		}

		e := *current
		e.EventDetails = details
		e.TemplateKey = tpl.Key
		e.UpdatedAt = s.now()
		if err := tx.UpdateEvent(ctx, &e); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		updated = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PublishEvent is idempotent; an already published event keeps its original published_at.
func (s *eventService) PublishEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsPublished() {
		return event, nil
	}
	now := s.now()
	event, err = s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusPublished, &now)
	if err != nil {
		return nil, fmt.Errorf("publish event: %w", err)
	}
	return event, nil
}

func (s *eventService) UnpublishEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished() {
		return event, nil
	}
	event, err = s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusDraft, nil)
	if err != nil {
		return nil, fmt.Errorf("unpublish event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.Delete(ctx, eventID)
}

func (s *eventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) GetDashboard(ctx context.Context, eventID string) (*domain.EventDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	guests, err := s.guestRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}

	now := s.now()
	entries := make([]*domain.GuestEntry, 0, len(guests))
	for _, g := range guests {
		entry, err := s.guestEntry(event, g, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return &domain.EventDashboard{
		Event:  event,
		Stats:  domain.NewLedger(event.Capacity, guests).Stats(),
		Guests: entries,
	}, nil
}

func (s *eventService) guestEntry(event *domain.Event, g *domain.Guest, now time.Time) (*domain.GuestEntry, error) {
	rsvpURL, err := s.links.RSVPURL(event, g.ID, domain.LinkScopeView, now)
	if err != nil {
		return nil, err
	}
	previewURL := s.links.PreviewURL(event.Slug, g.ID, g.SecretToken)

	data := domain.ShareMessageData{
		GuestName:     g.DisplayName,
		Kind:          g.Kind,
		SeatsReserved: g.SeatsReserved,
		AllowPlusOne:  g.AllowPlusOne,
		EventName:     event.EventName,
		HostName:      event.HostName,
		EventDate:     event.EventDate.String(),
		EventTime:     event.EventTime,
		VenueName:     event.VenueName,
		InvitationURL: previewURL,
		RSVPURL:       rsvpURL,
	}
	if event.RSVPDeadline != nil {
		data.RSVPDeadline = event.RSVPDeadline.String()
	}
	message, err := s.share.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render share message: %w", err)
	}
	return &domain.GuestEntry{
		Guest:        g,
		RSVPURL:      rsvpURL,
		PreviewURL:   previewURL,
		ShareMessage: message,
		WhatsAppURL:  s.share.WhatsAppURL(g.Contact.Phone, message),
	}, nil
}

func (s *eventService) GetPublicInvitation(ctx context.Context, viewer domain.Viewer, slug, guestID, secret string) (*domain.PublicInvitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !event.VisibleTo(viewer) {
		return nil, domain.ErrNotFound
	}

	inv := &domain.PublicInvitation{Invitation: event.Public()}
	if guestID == "" || secret == "" {
		return inv, nil
	}
	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if errors.Is(err, domain.ErrNotFound) {
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if guest.EventID != event.ID || !domain.SecretMatches(guest.SecretToken, secret) {
		return inv, nil
	}

	rsvpURL, err := s.links.RSVPURL(event, guest.ID, domain.LinkScopeView, s.now())
	if err != nil {
		return nil, err
	}
	summary := guest.Summary()
	inv.Guest = &summary
	inv.RSVPURL = rsvpURL
	return inv, nil
}
