package controllers

import (
	"log/slog"
	"net/http"

	h "guestrsvp/internal/delivery/http/helpers"
	"guestrsvp/internal/delivery/http/middleware"
	"guestrsvp/internal/domain"
)

// InvitationSuccessResponse is the success envelope for GET /i/{slug}.
type InvitationSuccessResponse struct {
	Data  *domain.PublicInvitation `json:"data"`
	Error *h.APIError              `json:"error"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewInvitationController(logger *slog.Logger, svc domain.EventService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// GetInvitation godoc
// @Summary Get a public invitation
// @Description Drafts are visible only with an admin bearer token. With g and s matching a guest of the
// @Description event, the response carries that guest's summary and a signed RSVP link.
// @Tags public
// @Produce json
// @Param slug path string true "Event slug"
// @Param g query string false "Guest ID"
// @Param s query string false "Guest secret token"
// @Success 200 {object} controllers.InvitationSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /i/{slug} [get]
func (c *InvitationController) GetInvitation(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	q := r.URL.Query()
	guestID, ok := h.ParseID(q.Get("g"))
	if !ok {
		guestID = ""
	}
	inv, err := c.Service.GetPublicInvitation(r.Context(), middleware.ViewerFromContext(r.Context()), slug, guestID, q.Get("s"))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}
