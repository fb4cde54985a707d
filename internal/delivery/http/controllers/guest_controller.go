package controllers

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	h "guestrsvp/internal/delivery/http/helpers"
	"guestrsvp/internal/domain"
)

// GuestRequest is the request body for creating or updating a guest. allow_plus_one applies to
// individuals; seats_reserved and member_names apply to groups.
type GuestRequest struct {
	Type          string   `json:"type" enums:"individual,group"`
	DisplayName   string   `json:"display_name"`
	ContactName   string   `json:"contact_name"`
	ContactPhone  string   `json:"contact_phone"`
	ContactEmail  string   `json:"contact_email"`
	Note          string   `json:"note"`
	AllowPlusOne  bool     `json:"allow_plus_one"`
	SeatsReserved *int     `json:"seats_reserved"`
	MemberNames   []string `json:"member_names"`
}

func (req GuestRequest) input() domain.GuestInput {
	in := domain.GuestInput{
		DisplayName: req.DisplayName,
		Contact: domain.Contact{
			Name:  req.ContactName,
			Phone: req.ContactPhone,
			Email: req.ContactEmail,
		},
		Note: req.Note,
	}
	switch domain.GuestKind(req.Type) {
	case domain.GuestKindIndividual:
		in.Allocation = domain.Individual{AllowPlusOne: req.AllowPlusOne}
	case domain.GuestKindGroup:
		seats := 0
		if req.SeatsReserved != nil {
			seats = *req.SeatsReserved
		}
		in.Allocation = domain.Group{SeatsReserved: seats, MemberNames: req.MemberNames}
	}
	return in
}

// GuestSuccessResponse is the success envelope for endpoints returning one guest.
type GuestSuccessResponse struct {
	Data  *domain.Guest `json:"data"`
	Error *h.APIError   `json:"error"`
}

type GuestController struct {
	Logger  *slog.Logger
	Service domain.GuestService
}

func NewGuestController(logger *slog.Logger, svc domain.GuestService) *GuestController {
	return &GuestController{
		Logger:  logger,
		Service: svc,
	}
}

// AddGuest godoc
// @Summary Add a guest to an event
// @Description Reserves 1 seat for an individual (2 with a plus-one) or seats_reserved for a group.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param guest body GuestRequest true "Guest data"
// @Success 201 {object} controllers.GuestSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed or capacity_exceeded"
// @Router /admin/events/{eventID}/guests [post]
func (c *GuestController) AddGuest(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req GuestRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	guest, err := c.Service.AddGuest(r.Context(), eventID, req.input())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "guest added", "event_id", eventID, "guest_id", guest.ID, "seats_reserved", guest.SeatsReserved)
	h.WriteJSONSuccess(w, http.StatusCreated, guest)
}

// UpdateGuest godoc
// @Summary Update a guest
// @Description The guest type cannot change. seats_confirmed is clamped to the new reservation.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param guestID path string true "Guest ID (UUID)"
// @Param guest body GuestRequest true "Guest data"
// @Success 200 {object} controllers.GuestSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed or capacity_exceeded"
// @Router /admin/guests/{guestID} [put]
func (c *GuestController) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	guestID, ok := h.PathID(w, r, "guestID")
	if !ok {
		return
	}
	var req GuestRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	guest, err := c.Service.UpdateGuest(r.Context(), guestID, req.input())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, guest)
}

// DeleteGuest godoc
// @Summary Delete a guest
// @Description Frees the guest's reserved seats.
// @Tags guests
// @Security BearerAuth
// @Param guestID path string true "Guest ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/guests/{guestID} [delete]
func (c *GuestController) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	guestID, ok := h.PathID(w, r, "guestID")
	if !ok {
		return
	}
	if err := c.Service.DeleteGuest(r.Context(), guestID); err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGuests godoc
// @Summary List an event's guests
// @Description Newest first.
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is the list of guests"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID}/guests [get]
func (c *GuestController) ListGuests(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	guests, err := c.Service.ListGuests(r.Context(), eventID)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if guests == nil {
		guests = []*domain.Guest{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, guests)
}

// ExportGuests godoc
// @Summary Export an event's guest list
// @Tags guests
// @Produce text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param format query string false "csv (default), xlsx or pdf"
// @Success 200 {file} file
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /admin/events/{eventID}/guests/export [get]
func (c *GuestController) ExportGuests(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	format, err := domain.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	file, err := c.Service.ExportGuests(r.Context(), eventID, format)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
