package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func TestLoggingMiddleware(t *testing.T) {
	var cap capturingHandler
	logger := slog.New(&cap)
	incoming := uuid.NewString()

	tests := []struct {
		name          string
		handlerStatus int
		path          string
		method        string
		requestID     string
		wantRequestID string
	}{
		{name: "ok status", handlerStatus: http.StatusOK, path: "/i/party", method: http.MethodGet},
		{name: "created", handlerStatus: http.StatusCreated, path: "/admin/events", method: http.MethodPost},
		{name: "keeps a well-formed incoming id", handlerStatus: http.StatusOK, path: "/rsvp/x", method: http.MethodGet, requestID: incoming, wantRequestID: incoming},
		{name: "replaces a malformed incoming id", handlerStatus: http.StatusForbidden, path: "/rsvp/x", method: http.MethodPost, requestID: "<script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
				w.WriteHeader(tt.handlerStatus)
			})
			handler := LoggingMiddleware(logger, next)
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, "request", cap.record.Message)
			attrs := make(map[string]slog.Value)
			cap.record.Attrs(func(a slog.Attr) bool {
				attrs[a.Key] = a.Value
				return true
			})
			require.Equal(t, tt.method, attrs["method"].String())
			require.Equal(t, tt.path, attrs["path"].String())
			require.Equal(t, int64(tt.handlerStatus), attrs["status"].Int64())
			require.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
			require.Equal(t, tt.handlerStatus, rr.Code)

			requestID := attrs["request_id"].String()
			_, err := uuid.Parse(requestID)
			require.NoError(t, err)
			require.Equal(t, requestID, seen)
			require.Equal(t, requestID, rr.Header().Get(RequestIDHeader))
			if tt.wantRequestID != "" {
				require.Equal(t, tt.wantRequestID, requestID)
			}
		})
	}
}
