package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "guestrsvp/internal/delivery/http/helpers"
	"guestrsvp/internal/domain"
)

// RSVPRequest is the request body for POST /rsvp/{guestID}. Individuals send attending, plus_one
// and plus_one_name; groups send seats_confirmed.
type RSVPRequest struct {
	Attending      *bool  `json:"attending"`
	PlusOne        *bool  `json:"plus_one"`
	PlusOneName    string `json:"plus_one_name"`
	SeatsConfirmed *int   `json:"seats_confirmed"`
}

// RSVPViewSuccessResponse is the success envelope for GET /rsvp/{guestID}.
type RSVPViewSuccessResponse struct {
	Data  *domain.RSVPView `json:"data"`
	Error *h.APIError      `json:"error"`
}

// RSVPResultSuccessResponse is the success envelope for POST /rsvp/{guestID}.
type RSVPResultSuccessResponse struct {
	Data  *domain.RSVPResult `json:"data"`
	Error *h.APIError        `json:"error"`
}

// ConfirmationResponse is the data of GET /rsvp/confirmation.
type ConfirmationResponse struct {
	InvitationURL string `json:"invitation_url"`
	Message       string `json:"message"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// GetRSVP godoc
// @Summary Get a guest's RSVP page
// @Description Requires a signed view link. After the deadline the page still renders with is_closed=true.
// @Tags rsvp
// @Produce json
// @Param guestID path string true "Guest ID (UUID)"
// @Param sig query string true "Link signature"
// @Success 200 {object} controllers.RSVPViewSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: link_unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /rsvp/{guestID} [get]
func (c *RSVPController) GetRSVP(w http.ResponseWriter, r *http.Request) {
	guestID, ok := h.PathID(w, r, "guestID")
	if !ok {
		return
	}
	view, err := c.Service.GetRSVP(r.Context(), guestID)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, view)
}

// SubmitRSVP godoc
// @Summary Submit an RSVP
// @Description Requires a signed submit link. Resubmitting the same answer leaves the same state.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param guestID path string true "Guest ID (UUID)"
// @Param sig query string true "Link signature"
// @Param rsvp body RSVPRequest true "Response"
// @Success 200 {object} controllers.RSVPResultSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: link_unauthorized or rsvp_closed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /rsvp/{guestID} [post]
func (c *RSVPController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	guestID, ok := h.PathID(w, r, "guestID")
	if !ok {
		return
	}
	var req RSVPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.SubmitRSVP(r.Context(), guestID, domain.RSVPInput{
		Attending:      req.Attending,
		PlusOne:        req.PlusOne,
		PlusOneName:    req.PlusOneName,
		SeatsConfirmed: req.SeatsConfirmed,
	})
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "rsvp recorded", "guest_id", guestID, "status", string(result.Guest.Status), "seats_confirmed", result.Guest.SeatsConfirmed)
	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// Confirmation godoc
// @Summary RSVP confirmation
// @Tags rsvp
// @Produce json
// @Param invitation_url query string true "Slug of the invitation to return to"
// @Success 200 {object} helpers.APIResponse "data contains invitation_url and message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /rsvp/confirmation [get]
func (c *RSVPController) Confirmation(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("invitation_url"))
	if slug == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invitation_url is required")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ConfirmationResponse{
		InvitationURL: slug,
		Message:       "Thank you, your response has been recorded.",
	})
}
