package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/events"
)

// EventsHandler handles event ingest endpoints.
type EventsHandler struct {
	events *events.Service
	logger zerolog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(eventService *events.Service, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		events: eventService,
		logger: logger,
	}
}

// CreateBrakingEvent handles POST /v1/events/braking - record braking telemetry.
func (h *EventsHandler) CreateBrakingEvent(w http.ResponseWriter, r *http.Request) {
	var input models.BrakingEventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid braking event", errs)
		return
	}

	event, err := h.events.RecordBraking(r.Context(), *input.Latitude, *input.Longitude)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to record braking event")
		response.InternalError(w, r, "failed to record braking event")
		return
	}

	location := fmt.Sprintf("/v1/events/braking/%s", event.ID)
	response.Created(w, r, location, event)
}
