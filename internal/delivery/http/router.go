package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"guestrsvp/internal/delivery/http/controllers"
	"guestrsvp/internal/delivery/http/middleware"
	"guestrsvp/internal/domain"
)

// RouterDeps holds everything NewRouter mounts.
type RouterDeps struct {
	Logger         *slog.Logger
	Auth           *controllers.AuthController
	Events         *controllers.EventController
	Guests         *controllers.GuestController
	Invitations    *controllers.InvitationController
	RSVP           *controllers.RSVPController
	Uploads        *controllers.UploadController
	TokenVerifier  domain.TokenVerifier
	LinkSigner     domain.LinkSigner
	PublicLimit    func(http.HandlerFunc) http.HandlerFunc
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes, wrapped in CORS and access logging.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.RequireAuth(d.TokenVerifier, d.Logger)
	public := d.PublicLimit
	if public == nil {
		public = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	viewLink := middleware.RequireSignedLink(d.LinkSigner, domain.LinkScopeView, d.Logger)
	submitLink := middleware.RequireSignedLink(d.LinkSigner, domain.LinkScopeSubmit, d.Logger)

	// Auth
	mux.HandleFunc("POST /auth/login", public(d.Auth.Login))

	// Admin: templates and events
	mux.HandleFunc("GET /admin/templates", admin(d.Events.ListTemplates))
	mux.HandleFunc("GET /admin/events", admin(d.Events.ListEvents))
	mux.HandleFunc("POST /admin/events", admin(d.Events.CreateEvent))
	mux.HandleFunc("GET /admin/events/{eventID}", admin(d.Events.GetDashboard))
	mux.HandleFunc("PUT /admin/events/{eventID}", admin(d.Events.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{eventID}", admin(d.Events.DeleteEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/publish", admin(d.Events.PublishEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/unpublish", admin(d.Events.UnpublishEvent))

	// Admin: guests
	mux.HandleFunc("GET /admin/events/{eventID}/guests", admin(d.Guests.ListGuests))
	mux.HandleFunc("POST /admin/events/{eventID}/guests", admin(d.Guests.AddGuest))
	mux.HandleFunc("GET /admin/events/{eventID}/guests/export", admin(d.Guests.ExportGuests))
	mux.HandleFunc("PUT /admin/guests/{guestID}", admin(d.Guests.UpdateGuest))
	mux.HandleFunc("DELETE /admin/guests/{guestID}", admin(d.Guests.DeleteGuest))

	// Admin: uploads
	mux.HandleFunc("POST /admin/uploads", admin(d.Uploads.UploadImage))

	// Public
	mux.HandleFunc("GET /i/{slug}", public(middleware.OptionalAuth(d.TokenVerifier)(d.Invitations.GetInvitation)))
	mux.HandleFunc("GET /rsvp/confirmation", public(d.RSVP.Confirmation))
	mux.HandleFunc("GET /rsvp/{guestID}", public(viewLink(d.RSVP.GetRSVP)))
	mux.HandleFunc("POST /rsvp/{guestID}", public(submitLink(d.RSVP.SubmitRSVP)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(d.Logger, middleware.CORS(d.AllowedOrigins, mux))
}
