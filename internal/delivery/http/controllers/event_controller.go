package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	h "guestrsvp/internal/delivery/http/helpers"
	"guestrsvp/internal/domain"
)

// EventRequest is the request body for POST /admin/events and PUT /admin/events/{eventID}.
// Field rules are enforced by the service and reported as validation_failed.
type EventRequest struct {
	TemplateID         string          `json:"template_id"`
	EventName          string          `json:"event_name"`
	HostName           string          `json:"host_name"`
	HostColor          string          `json:"host_color"`
	VenueName          string          `json:"venue_name"`
	VenueAddress       string          `json:"venue_address"`
	EventDate          string          `json:"event_date" example:"2026-06-20"`
	EventTime          string          `json:"event_time" example:"18:30"`
	Capacity           *int            `json:"capacity"`
	RSVPDeadline       string          `json:"rsvp_deadline_at" example:"2026-06-10"`
	GiftType           string          `json:"gift_type"`
	DressCode          string          `json:"dress_code"`
	ComplementaryText1 string          `json:"complementary_text_1"`
	ComplementaryText2 string          `json:"complementary_text_2"`
	ComplementaryText3 string          `json:"complementary_text_3"`
	Settings           json.RawMessage `json:"settings" swaggertype:"object"`
}

func (req EventRequest) input() domain.EventInput {
	return domain.EventInput{
		TemplateID:         req.TemplateID,
		EventName:          req.EventName,
		HostName:           req.HostName,
		HostColor:          req.HostColor,
		VenueName:          req.VenueName,
		VenueAddress:       req.VenueAddress,
		EventDate:          req.EventDate,
		EventTime:          req.EventTime,
		Capacity:           req.Capacity,
		RSVPDeadline:       req.RSVPDeadline,
		GiftType:           req.GiftType,
		DressCode:          req.DressCode,
		ComplementaryText1: req.ComplementaryText1,
		ComplementaryText2: req.ComplementaryText2,
		ComplementaryText3: req.ComplementaryText3,
		Settings:           req.Settings,
	}
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event `json:"data"`
	Error *h.APIError   `json:"error"`
}

// EventListSuccessResponse is the success envelope for GET /admin/events.
type EventListSuccessResponse struct {
	Data  h.Page[*domain.Event] `json:"data"`
	Error *h.APIError           `json:"error"`
}

// DashboardSuccessResponse is the success envelope for GET /admin/events/{eventID}.
type DashboardSuccessResponse struct {
	Data  *domain.EventDashboard `json:"data"`
	Error *h.APIError            `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListTemplates godoc
// @Summary List invitation templates
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is the list of active templates"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/templates [get]
func (c *EventController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := c.Service.ListTemplates(r.Context())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if templates == nil {
		templates = []*domain.Template{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, templates)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a draft event. The slug is derived from event and host name and made unique.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.input())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces the editable fields. A capacity below the seats already reserved is rejected.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed or capacity_exceeded"
// @Router /admin/events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.input())
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// PublishEvent godoc
// @Summary Publish an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID}/publish [post]
func (c *EventController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	c.setStatus(w, r, c.Service.PublishEvent)
}

// UnpublishEvent godoc
// @Summary Return an event to draft
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID}/unpublish [post]
func (c *EventController) UnpublishEvent(w http.ResponseWriter, r *http.Request) {
	c.setStatus(w, r, c.Service.UnpublishEvent)
}

func (c *EventController) setStatus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, eventID string) (*domain.Event, error)) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := op(r.Context(), eventID)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event and its guests
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEvents godoc
// @Summary List events
// @Description Newest first.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Router /admin/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, h.NewPage(events, params, total))
}

// GetDashboard godoc
// @Summary Get the event dashboard
// @Description Event, seat and RSVP stats, and every guest with its RSVP, preview and WhatsApp links.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.DashboardSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID} [get]
func (c *EventController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	dashboard, err := c.Service.GetDashboard(r.Context(), eventID)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, dashboard)
}
