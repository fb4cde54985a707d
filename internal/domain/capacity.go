package domain

// Ledger is the seat accounting of one event, recomputed from its live guest list.
type Ledger struct {
	capacity int
	guests   []*Guest
}

// NewLedger builds a ledger for an event capacity and the guests currently stored for it.
func NewLedger(capacity int, guests []*Guest) *Ledger {
	return &Ledger{capacity: capacity, guests: guests}
}

// Capacity returns the event capacity the ledger was built with.
func (l *Ledger) Capacity() int { return l.capacity }

// Reserved is the sum of seats_reserved over all guests.
func (l *Ledger) Reserved() int {
	return l.reservedExcluding("")
}

// Confirmed is the sum of seats_confirmed over all guests.
func (l *Ledger) Confirmed() int {
	total := 0
	for _, g := range l.guests {
		total += g.SeatsConfirmed
	}
	return total
}

// Remaining is capacity minus reserved seats, never below zero.
func (l *Ledger) Remaining() int {
	return l.RemainingExcluding("")
}

// RemainingExcluding is the remaining capacity when the guest with excludingID holds no seats.
// An empty excludingID excludes nobody.
func (l *Ledger) RemainingExcluding(excludingID string) int {
	return max(0, l.capacity-l.reservedExcluding(excludingID))
}

// CanReserve reports whether seats fit in the capacity left by every guest except excludingID.
func (l *Ledger) CanReserve(seats int, excludingID string) bool {
	return seats <= l.RemainingExcluding(excludingID)
}

// Reserve checks a proposed allocation and returns a CapacityError naming field when it does not fit.
func (l *Ledger) Reserve(field string, seats int, excludingID string) error {
	if l.CanReserve(seats, excludingID) {
		return nil
	}
	return &CapacityError{Field: field, Requested: seats, Remaining: l.RemainingExcluding(excludingID)}
}

// Stats summarises seats and RSVP progress.
func (l *Ledger) Stats() EventStats {
	s := EventStats{
		Capacity:       l.capacity,
		ReservedSeats:  l.Reserved(),
		ConfirmedSeats: l.Confirmed(),
		RemainingSeats: l.Remaining(),
	}
	for _, g := range l.guests {
		switch g.Status {
		case GuestStatusConfirmed:
			s.ConfirmedGuests++
		case GuestStatusDeclined:
			s.DeclinedGuests++
		default:
			s.PendingGuests++
		}
	}
	return s
}

func (l *Ledger) reservedExcluding(excludingID string) int {
	total := 0
	for _, g := range l.guests {
		if excludingID != "" && g.ID == excludingID {
			continue
		}
		total += g.SeatsReserved
	}
	return total
}
