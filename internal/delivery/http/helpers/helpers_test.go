package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"guestrsvp/internal/domain"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantCode      string
		wantField     string
		wantRemaining *int
	}{
		{name: "validation", err: domain.NewValidationError("display_name", "required"), wantStatus: http.StatusUnprocessableEntity, wantCode: ErrCodeValidationFailed, wantField: "display_name"},
		{name: "wrapped capacity", err: fmt.Errorf("add guest: %w", &domain.CapacityError{Field: "seats_reserved", Requested: 3, Remaining: 1}), wantStatus: http.StatusUnprocessableEntity, wantCode: ErrCodeCapacityExceeded, wantField: "seats_reserved", wantRemaining: ptr(1)},
		{name: "capacity with nothing left", err: &domain.CapacityError{Field: "seats_reserved", Requested: 1, Remaining: 0}, wantStatus: http.StatusUnprocessableEntity, wantCode: ErrCodeCapacityExceeded, wantField: "seats_reserved", wantRemaining: ptr(0)},
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "bad link", err: fmt.Errorf("verify: %w", domain.ErrLinkUnauthorized), wantStatus: http.StatusForbidden, wantCode: ErrCodeLinkUnauthorized},
		{name: "closed", err: domain.ErrRSVPPeriodClosed, wantStatus: http.StatusForbidden, wantCode: ErrCodeRSVPClosed},
		{name: "credentials", err: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: ErrCodeUnauthorized},
		{name: "storage disabled", err: domain.ErrStorageDisabled, wantStatus: http.StatusServiceUnavailable, wantCode: ErrCodeServiceUnavailable},
		{name: "unexpected", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			WriteDomainError(rr, req, discard, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Nil(t, envelope.Data)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			if tt.wantField != "" {
				assert.Contains(t, envelope.Error.Fields, tt.wantField)
			}
			assert.Equal(t, tt.wantRemaining, envelope.Error.RemainingSeats)
			assert.NotContains(t, envelope.Error.Message, "db down")
		})
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func (n nameRequest) Validate() []string {
	if n.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{name: "valid", body: `{"name":"x"}`, wantOK: true},
		{name: "malformed", body: `{"name":`},
		{name: "unknown field", body: `{"name":"x","extra":1}`},
		{name: "fails validation", body: `{"name":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			var dest nameRequest
			ok := DecodeAndValidate(rr, req, &dest)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{query: "", want: domain.PaginationParams{Page: 1, PageSize: 20}},
		{query: "page=3&page_size=5", want: domain.PaginationParams{Page: 3, PageSize: 5}},
		{query: "page=0&page_size=500", want: domain.PaginationParams{Page: 1, PageSize: 100}},
		{query: "page=abc&page_size=-1", want: domain.PaginationParams{Page: 1, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/events?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage[string](nil, domain.PaginationParams{Page: 2, PageSize: 20}, 41)
	assert.Equal(t, []string{}, page.Items)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	require.True(t, ok)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", id)

	_, ok = ParseID("not-a-uuid")
	assert.False(t, ok)
}

func ptr(i int) *int { return &i }
