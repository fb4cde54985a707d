package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"guestrsvp/internal/delivery/http/helpers"
	"guestrsvp/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	eventID = "0b7e1c52-6f0a-4c55-9a57-3f1f2c4e8d10"
	guestID = "5d2b8f3e-1a4c-4e7b-8c9d-0e1f2a3b4c5d"
)

// decodeEnvelope decodes the API envelope, unmarshalling data into dest when dest is non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dest != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return raw.Error
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event      *domain.Event
	events     []*domain.Event
	total      int
	dashboard  *domain.EventDashboard
	invitation *domain.PublicInvitation
	err        error

	lastInput  domain.EventInput
	lastID     string
	lastParams domain.PaginationParams
	lastViewer domain.Viewer
	lastSlug   string
	lastGuest  string
	lastSecret string
}

func (f *fakeEventService) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	return []*domain.Template{{ID: "tpl-1", Key: "grad_modern_01", IsActive: true}}, f.err
}

func (f *fakeEventService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	f.lastInput = in
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	f.lastID, f.lastInput = id, in
	return f.event, f.err
}

func (f *fakeEventService) PublishEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) UnpublishEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeEventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastParams = params
	return f.events, f.total, f.err
}

func (f *fakeEventService) GetDashboard(ctx context.Context, id string) (*domain.EventDashboard, error) {
	f.lastID = id
	return f.dashboard, f.err
}

func (f *fakeEventService) GetPublicInvitation(ctx context.Context, viewer domain.Viewer, slug, guestID, secret string) (*domain.PublicInvitation, error) {
	f.lastViewer, f.lastSlug, f.lastGuest, f.lastSecret = viewer, slug, guestID, secret
	return f.invitation, f.err
}

// fakeGuestService implements domain.GuestService for handler tests.
type fakeGuestService struct {
	guest     *domain.Guest
	guests    []*domain.Guest
	file      *domain.ExportFile
	err       error
	lastID    string
	lastInput domain.GuestInput
	lastFmt   domain.ExportFormat
}

func (f *fakeGuestService) AddGuest(ctx context.Context, eventID string, in domain.GuestInput) (*domain.Guest, error) {
	f.lastID, f.lastInput = eventID, in
	return f.guest, f.err
}

func (f *fakeGuestService) UpdateGuest(ctx context.Context, guestID string, in domain.GuestInput) (*domain.Guest, error) {
	f.lastID, f.lastInput = guestID, in
	return f.guest, f.err
}

func (f *fakeGuestService) DeleteGuest(ctx context.Context, guestID string) error {
	f.lastID = guestID
	return f.err
}

func (f *fakeGuestService) ListGuests(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	f.lastID = eventID
	return f.guests, f.err
}

func (f *fakeGuestService) ExportGuests(ctx context.Context, eventID string, format domain.ExportFormat) (*domain.ExportFile, error) {
	f.lastID, f.lastFmt = eventID, format
	return f.file, f.err
}

// fakeRSVPService implements domain.RSVPService for handler tests.
type fakeRSVPService struct {
	view      *domain.RSVPView
	result    *domain.RSVPResult
	err       error
	lastID    string
	lastInput domain.RSVPInput
}

func (f *fakeRSVPService) GetRSVP(ctx context.Context, guestID string) (*domain.RSVPView, error) {
	f.lastID = guestID
	return f.view, f.err
}

func (f *fakeRSVPService) SubmitRSVP(ctx context.Context, guestID string, in domain.RSVPInput) (*domain.RSVPResult, error) {
	f.lastID, f.lastInput = guestID, in
	return f.result, f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	token string
	user  *domain.User
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return f.token, f.user, f.err
}

func (f *fakeAuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	return f.user, f.err
}

// fakeUploadService implements domain.UploadService for handler tests.
type fakeUploadService struct {
	err             error
	lastContentType string
	lastSize        int64
	lastBody        []byte
}

func (f *fakeUploadService) UploadImage(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*domain.UploadedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.lastContentType, f.lastSize, f.lastBody = contentType, size, b
	return &domain.UploadedFile{URL: "https://cdn.example.com/uploads/x.png", Path: "uploads/x.png"}, nil
}
