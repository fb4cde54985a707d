package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"guestrsvp/internal/domain"
)

// fakeStore is an in-memory event and guest store. It implements EventRepository,
// GuestRepository, TemplateRepository and SeatLocker over the same data.
type fakeStore struct {
	mu        sync.Mutex
	lock      sync.Mutex // held for the length of WithEventLock
	events    map[string]*domain.Event
	guests    map[string]*domain.Guest
	templates map[string]*domain.Template
	nextID    int
	createErr error // if set, Create returns this error once
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: make(map[string]*domain.Event),
		guests: make(map[string]*domain.Guest),
		templates: map[string]*domain.Template{
			"tpl-1": {ID: "tpl-1", Key: "grad_modern_01", Name: "Modern", IsActive: true},
			"tpl-2": {ID: "tpl-2", Key: "grad_retired", Name: "Retired", IsActive: false},
		},
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) addEvent(capacity int, deadline *domain.Date, status domain.EventStatus) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &domain.Event{
		ID:   f.id("ev"),
		Slug: fmt.Sprintf("event-%d", f.nextID),
		EventDetails: domain.EventDetails{
			TemplateID:   "tpl-1",
			EventName:    "Graduation",
			HostName:     "Ana",
			VenueName:    "Hall",
			EventDate:    domain.NewDate(2026, time.June, 20),
			EventTime:    "18:00",
			Capacity:     capacity,
			RSVPDeadline: deadline,
		},
		TemplateKey: "grad_modern_01",
		Status:      status,
	}
	if status == domain.EventStatusPublished {
		at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		e.PublishedAt = &at
	}
	f.events[e.ID] = e
	return e
}

func (f *fakeStore) addGuest(g *domain.Guest) *domain.Guest {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = f.id("g")
	if g.MemberNames == nil {
		g.MemberNames = []string{}
	}
	if g.Status == "" {
		g.Status = domain.GuestStatusPending
	}
	f.guests[g.ID] = g
	cp := *g
	return &cp
}

func (f *fakeStore) guest(id string) *domain.Guest {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *f.guests[id]
	return &cp
}

// EventRepository

func (f *fakeStore) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	for _, other := range f.events {
		if other.Slug == e.Slug {
			return domain.ErrSlugTaken
		}
	}
	e.ID = f.id("ev")
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.Slug == slug {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := f.GetBySlug(ctx, slug)
	return err == nil, nil
}

func (f *fakeStore) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*domain.Event, 0, len(f.events))
	for _, e := range f.events {
		cp := *e
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := min(params.Offset(), len(all))
	end := len(all)
	if params.Limit() > 0 {
		end = min(start+params.Limit(), len(all))
	}
	return all[start:end], len(all), nil
}

func (f *fakeStore) SetStatus(ctx context.Context, id string, status domain.EventStatus, publishedAt *time.Time) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	e.PublishedAt = publishedAt
	cp := *e
	return &cp, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	for gid, g := range f.guests {
		if g.EventID == id {
			delete(f.guests, gid)
		}
	}
	return nil
}

// GuestRepository, exposed through guestRepo so method names do not clash with EventRepository.

type fakeGuestRepo struct{ *fakeStore }

func (r fakeGuestRepo) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guests[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r fakeGuestRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guestsOf(eventID), nil
}

func (r fakeGuestRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.guests, id)
	return nil
}

func (f *fakeStore) guestRepo() domain.GuestRepository { return fakeGuestRepo{f} }

// guestsOf returns copies of an event's guests, newest first. Callers hold mu.
func (f *fakeStore) guestsOf(eventID string) []*domain.Guest {
	var out []*domain.Guest
	for _, g := range f.guests {
		if g.EventID == eventID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// TemplateRepository

type fakeTemplateRepo struct{ *fakeStore }

func (r fakeTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	if t, ok := r.templates[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (r fakeTemplateRepo) ListActive(ctx context.Context) ([]*domain.Template, error) {
	var out []*domain.Template
	for _, t := range r.templates {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) templateRepo() domain.TemplateRepository { return fakeTemplateRepo{f} }

// SeatLocker: writes are buffered and applied only when fn succeeds.

func (f *fakeStore) WithEventLock(ctx context.Context, eventID string, fn func(ctx context.Context, tx domain.SeatTx) error) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	event, err := f.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	tx := &fakeSeatTx{store: f, event: event}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range tx.created {
		g.ID = f.id("g")
		cp := *g
		f.guests[g.ID] = &cp
	}
	for _, g := range tx.updated {
		cp := *g
		f.guests[g.ID] = &cp
	}
	if tx.eventUpdate != nil {
		cp := *tx.eventUpdate
		f.events[eventID] = &cp
	}
	return nil
}

type fakeSeatTx struct {
	store       *fakeStore
	event       *domain.Event
	created     []*domain.Guest
	updated     []*domain.Guest
	eventUpdate *domain.Event
}

func (t *fakeSeatTx) Event() *domain.Event { return t.event }

func (t *fakeSeatTx) Guests(ctx context.Context) ([]*domain.Guest, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.store.guestsOf(t.event.ID), nil
}

func (t *fakeSeatTx) CreateGuest(ctx context.Context, g *domain.Guest) error {
	t.created = append(t.created, g)
	return nil
}

func (t *fakeSeatTx) UpdateGuest(ctx context.Context, g *domain.Guest) error {
	t.updated = append(t.updated, g)
	return nil
}

func (t *fakeSeatTx) UpdateEvent(ctx context.Context, e *domain.Event) error {
	t.eventUpdate = e
	return nil
}

// fakeSigner produces readable signatures; Verify is not used by the services.
type fakeSigner struct{}

func (fakeSigner) Sign(guestID string, scope domain.LinkScope, expiresAt time.Time) (string, error) {
	return fmt.Sprintf("%s.%s.%d", guestID, scope, expiresAt.Unix()), nil
}

func (fakeSigner) Verify(sig, guestID string, scope domain.LinkScope) error { return nil }

type fakeSecrets struct {
	mu sync.Mutex
	n  int
}

func (s *fakeSecrets) NewSecret() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("secret-%d", s.n), nil
}

type fakeShare struct{}

func (fakeShare) Render(d domain.ShareMessageData) (string, error) {
	return "Hi " + d.GuestName + ", RSVP at " + d.RSVPURL, nil
}

func (fakeShare) WhatsAppURL(phone, message string) string {
	return "https://wa.me/" + phone
}

type fakeExporter struct {
	guests []*domain.Guest
}

func (e *fakeExporter) Export(event *domain.Event, guests []*domain.Guest, format domain.ExportFormat) (*domain.ExportFile, error) {
	e.guests = guests
	return &domain.ExportFile{Filename: "guests_" + event.Slug + "." + string(format), Content: []byte("x")}, nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	activities []domain.RSVPActivity
	err        error
}

func (n *fakeNotifier) Notify(ctx context.Context, a domain.RSVPActivity) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activities = append(n.activities, a)
	return n.err
}

func (n *fakeNotifier) Close() error { return nil }

type fakeStorage struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (s *fakeStorage) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	if s.err != nil {
		return s.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.key, s.contentType, s.body = key, contentType, b
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

var testLoc = time.UTC

func testLinks() *LinkBuilder {
	return NewLinkBuilder("https://rsvp.example.com/", fakeSigner{}, testLoc, 30*24*time.Hour)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
