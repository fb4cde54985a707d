package services

import (
	"context"
	"fmt"
	"time"

	"guestrsvp/internal/domain"
)

type guestService struct {
	guestRepo      domain.GuestRepository
	eventRepo      domain.EventRepository
	locker         domain.SeatLocker
	secrets        domain.SecretGenerator
	exporter       domain.GuestExporter
	contextTimeout time.Duration
	now            func() time.Time
}

func NewGuestService(guestRepo domain.GuestRepository,
	eventRepo domain.EventRepository,
	locker domain.SeatLocker,
	secrets domain.SecretGenerator,
	exporter domain.GuestExporter,
	timeout time.Duration,
) domain.GuestService {
	return &guestService{
		guestRepo:      guestRepo,
		eventRepo:      eventRepo,
		locker:         locker,
		secrets:        secrets,
		exporter:       exporter,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// AddGuest reserves the guest's seats and stores them in one locked transaction.
func (s *guestService) AddGuest(ctx context.Context, eventID string, in domain.GuestInput) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	secret, err := s.secrets.NewSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	guest := domain.NewGuest(eventID, in, secret, s.now())
	err = s.locker.WithEventLock(ctx, eventID, func(ctx context.Context, tx domain.SeatTx) error {
		guests, err := tx.Guests(ctx)
		if err != nil {
			return fmt.Errorf("list guests: %w", err)
		}
		ledger := domain.NewLedger(tx.Event().Capacity, guests)
		if err := ledger.Reserve("seats_reserved", guest.SeatsReserved, ""); err != nil {
			return err
		}
		if err := tx.CreateGuest(ctx, guest); err != nil {
			return fmt.Errorf("create guest: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guest, nil
}

// UpdateGuest applies an admin edit. Capacity is checked only when the reservation grows,
// counting every other guest's seats.
func (s *guestService) UpdateGuest(ctx context.Context, guestID string, in domain.GuestInput) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Guest
	err = s.locker.WithEventLock(ctx, existing.EventID, func(ctx context.Context, tx domain.SeatTx) error {
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

		next := *guest
		if err := next.Reallocate(in, s.now()); err != nil {
			return err
		}
		if next.SeatsReserved > guest.SeatsReserved {
			ledger := domain.NewLedger(tx.Event().Capacity, guests)
			if err := ledger.Reserve("seats_reserved", next.SeatsReserved, guestID); err != nil {
				return err
			}
		}
		if err := tx.UpdateGuest(ctx, &next); err != nil {
			return fmt.Errorf("update guest: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *guestService) DeleteGuest(ctx context.Context, guestID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.guestRepo.Delete(ctx, guestID)
}

func (s *guestService) ListGuests(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	guests, err := s.guestRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return guests, nil
}

func (s *guestService) ExportGuests(ctx context.Context, eventID string, format domain.ExportFormat) (*domain.ExportFile, error) {
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
	file, err := s.exporter.Export(event, guests, format)
	if err != nil {
		return nil, fmt.Errorf("export guests: %w", err)
	}
	return file, nil
}
