package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"eventsapi/internal/delivery/http/helpers"
	"eventsapi/internal/domain"
)

// EventResponse is the data payload for create and update (201/200).
type EventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

// GetEventResponse is the data payload for GET /api/v3/app/events?id= (200).
type GetEventResponse struct {
	Event *domain.Event `json:"event"`
}

// DeleteEventResponse is the data payload for DELETE /api/v3/app/events/{id} (200).
type DeleteEventResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// EventSuccessResponse is the success envelope for create and update.
type EventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsSuccessResponse is the success envelope for the listing (200).
type ListEventsSuccessResponse struct {
	Data  domain.EventPage  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventSuccessResponse is the success envelope for the lookup by id (200).
type GetEventSuccessResponse struct {
	Data  GetEventResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteEventSuccessResponse is the success envelope for delete (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type EventController struct {
	Logger         *slog.Logger
	Service        domain.EventService
	Images         domain.ImageStore
	MaxUploadBytes int64
}

func NewEventController(logger *slog.Logger, svc domain.EventService, images domain.ImageStore, maxUploadBytes int64) *EventController {
	return &EventController{
		Logger:         logger,
		Service:        svc,
		Images:         images,
		MaxUploadBytes: maxUploadBytes,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event from form fields. schedule must be an ISO 8601 timestamp; attendees is a comma-separated list or repeated field of integer ids. An optional image file may be sent in the "image" field.
// @Tags events
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param type formData string false "Event type"
// @Param name formData string false "Event name"
// @Param tagline formData string false "Tagline"
// @Param schedule formData string true "Schedule (ISO 8601)"
// @Param description formData string false "Description"
// @Param moderator formData string false "Moderator"
// @Param category formData string false "Category"
// @Param sub_category formData string false "Sub category"
// @Param rigor_rank formData string false "Rigor rank"
// @Param attendees formData string false "Attendee ids, comma-separated"
// @Param image formData file false "Event image"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 413 {object} helpers.APIResponse "error.code: payload_too_large"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/v3/app/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	in, image, ok := c.readEvent(w, r)
	if !ok {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), in, image)
	if err != nil {
		c.discardImage(r, image)
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, EventResponse{Message: "Event created successfully", Event: event})
}

// ListEvents godoc
// @Summary List events
// @Description Returns events sorted by schedule, most recent first, with pagination metadata. When the id query parameter is present the single event with that id is returned instead.
// @Tags events
// @Produce json
// @Param type query string false "Listing type" default(latest)
// @Param limit query int false "Page size" default(5)
// @Param page query int false "Page number" default(1)
// @Param id query string false "Event id"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/v3/app/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("id") {
		c.GetEventByID(w, r)
		return
	}
	page, err := c.Service.ListEvents(r.Context(), domain.ListEventsQuery{
		Type:  q.Get("type"),
		Limit: q.Get("limit"),
		Page:  q.Get("page"),
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

// GetEventByID godoc
// @Summary Get an event by id
// @Tags events
// @Produce json
// @Param id query string true "Event id"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/v3/app/events [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEventByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GetEventResponse{Event: event})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Overwrites every event field with the submitted values. The image is replaced only when a new file is uploaded; otherwise the stored image is kept.
// @Tags events
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param schedule formData string true "Schedule (ISO 8601)"
// @Param attendees formData string false "Attendee ids, comma-separated"
// @Param image formData file false "Event image"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated fields"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/v3/app/events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	in, image, ok := c.readEvent(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, in, image)
	if err != nil {
		c.discardImage(r, image)
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventResponse{Message: "Event updated successfully", Event: event})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains the deleted id"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/v3/app/events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Message: "Event deleted successfully", ID: id})
}

// readEvent parses the request body and stores the uploaded image, if any.
// On failure it writes the error response and returns false.
func (c *EventController) readEvent(w http.ResponseWriter, r *http.Request) (domain.EventInput, *domain.StoredFile, bool) {
	in, upload, err := helpers.ParseEventRequest(w, r, c.MaxUploadBytes)
	if err != nil {
		c.writeError(w, r, err)
		return domain.EventInput{}, nil, false
	}
	if upload == nil {
		return in, nil, true
	}
	defer upload.File.Close()

	stored, err := c.Images.Save(r.Context(), upload.Filename, upload.File)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to store image")
		return domain.EventInput{}, nil, false
	}
	return in, stored, true
}

// discardImage removes an image stored for a request the service rejected.
func (c *EventController) discardImage(r *http.Request, image *domain.StoredFile) {
	if image == nil {
		return
	}
	if err := c.Images.Delete(context.WithoutCancel(r.Context()), image); err != nil {
		c.Logger.WarnContext(r.Context(), "failed to remove rejected image", "path", image.Path, "err", err)
	}
}

// writeError maps service errors to status codes. Store failures are logged
// with their cause and answered with the generic message only.
func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var serr *domain.StoreError
	switch {
	case errors.As(err, &verr):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, verr.Message)
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, helpers.ErrBodyTooLarge):
		helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodePayloadTooLarge, err.Error())
	case errors.As(err, &serr):
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", serr.Unwrap())
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, serr.Message)
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}
