package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"guestrsvp/internal/domain"
)

type rsvpService struct {
	guestRepo      domain.GuestRepository
	eventRepo      domain.EventRepository
	locker         domain.SeatLocker
	links          *LinkBuilder
	notifier       domain.RSVPNotifier
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewRSVPService(guestRepo domain.GuestRepository,
	eventRepo domain.EventRepository,
	locker domain.SeatLocker,
	links *LinkBuilder,
	notifier domain.RSVPNotifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RSVPService {
	return &rsvpService{
		guestRepo:      guestRepo,
		eventRepo:      eventRepo,
		locker:         locker,
		links:          links,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *rsvpService) GetRSVP(ctx context.Context, guestID string) (*domain.RSVPView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, guest.EventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := &domain.RSVPView{
		Invitation: event.Public(),
		Guest:      guest.Summary(),
		IsClosed:   event.IsRSVPClosed(now, s.links.Location()),
	}
	if closesAt, ok := event.RSVPClosesAt(s.links.Location()); ok {
		view.ClosesAt = &closesAt
	}
	if !view.IsClosed {
		submitURL, err := s.links.RSVPURL(event, guest.ID, domain.LinkScopeSubmit, now)
		if err != nil {
			return nil, err
		}
		view.SubmitURL = submitURL
	}
	return view, nil
}

// SubmitRSVP records a response under the event lock so it cannot interleave with an admin
// shrinking the same guest's reservation.
func (s *rsvpService) SubmitRSVP(ctx context.Context, guestID string, in domain.RSVPInput) (*domain.RSVPResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}

	var (
		result *domain.RSVPResult
		saved  domain.Guest
	)
	err = s.locker.WithEventLock(ctx, existing.EventID, func(ctx context.Context, tx domain.SeatTx) error {
		event := tx.Event()
		now := s.now()
		if err := domain.CheckRSVPOpen(event, now, s.links.Location()); err != nil {
			return err
		}

		guests, err := tx.Guests(ctx)
		if err != nil {
			return fmt.Errorf("list guests: %w", err)
		}
		var guest *domain.Guest
		for _, g := range guests {
			if g.ID == guestID {
				guest = g
				break
			}
		}
		if guest == nil {
			return domain.ErrNotFound
		}

		resp, err := domain.ResponseFor(guest.Kind, in)
		if err != nil {
			return err
		}
		next := *guest
		if err := next.ApplyRSVP(resp, now); err != nil {
			return err
		}
		if err := tx.UpdateGuest(ctx, &next); err != nil {
			return fmt.Errorf("update guest: %w", err)
		}

		saved = next
		result = &domain.RSVPResult{Guest: next.Summary(), InvitationURL: event.Slug}
		return nil
	})
	if err != nil {
		return nil, err
	}

	activity := domain.RSVPActivity{
		EventID:        saved.EventID,
		GuestID:        saved.ID,
		Status:         saved.Status,
		SeatsConfirmed: saved.SeatsConfirmed,
		RecordedAt:     saved.UpdatedAt,
	}
	if err := s.notifier.Notify(ctx, activity); err != nil {
		s.logger.Warn("failed to publish rsvp activity", "guest_id", saved.ID, "error", err)
	}
	return result, nil
}
