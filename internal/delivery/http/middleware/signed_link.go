package middleware

import (
	"log/slog"
	"net/http"

	h "guestrsvp/internal/delivery/http/helpers"
	"guestrsvp/internal/domain"
)

// RequireSignedLink checks the sig query parameter against the guestID path value for scope.
// A missing, tampered or expired signature gets 403 link_unauthorized.
func RequireSignedLink(signer domain.LinkSigner, scope domain.LinkScope, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			guestID := r.PathValue("guestID")
			sig := r.URL.Query().Get("sig")
			if sig == "" {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeLinkUnauthorized, domain.ErrLinkUnauthorized.Error())
				return
			}
			if err := signer.Verify(sig, guestID, scope); err != nil {
				logger.WarnContext(r.Context(), "rejected rsvp link", "guest_id", guestID, "scope", string(scope), "err", err)
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeLinkUnauthorized, domain.ErrLinkUnauthorized.Error())
				return
			}
			next(w, r)
		}
	}
}
