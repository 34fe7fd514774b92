// Package handler provides HTTP handlers for the Routecast API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/events"
	"github.com/routecast/routecast/internal/geo"
	"github.com/routecast/routecast/internal/journey"
	"github.com/routecast/routecast/internal/simulation"
)

// SimulationHandler handles simulation endpoints.
type SimulationHandler struct {
	simulations *simulation.Service
	events      *events.Service
	logger      zerolog.Logger
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(simulations *simulation.Service, eventService *events.Service, logger zerolog.Logger) *SimulationHandler {
	return &SimulationHandler{
		simulations: simulations,
		events:      eventService,
		logger:      logger,
	}
}

// CreateSimulation handles POST /v1/simulations - run a route weather report.
func (h *SimulationHandler) CreateSimulation(w http.ResponseWriter, r *http.Request) {
	var input models.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid simulation request", errs)
		return
	}

	start := time.Now().UTC()
	if input.StartTime != nil {
		start = input.StartTime.UTC()
	}

	ctx := r.Context()

	var report []simulation.AnnotatedSamplePoint
	if input.Timed() {
		route := make([]journey.TimedRoutePoint, 0, len(input.Points))
		for _, p := range input.Points {
			route = append(route, journey.TimedRoutePoint{Lat: p[0], Lon: p[1], ElapsedSeconds: p[2]})
		}
		report = h.simulations.SimulateTimed(ctx, route, start)
	} else {
		route := make([]journey.RoutePoint, 0, len(input.Points))
		for _, p := range input.Points {
			route = append(route, journey.RoutePoint{Lat: p[0], Lon: p[1]})
		}
		report = h.simulations.Simulate(ctx, route, input.AverageSpeedKMH, start)
	}

	routePoints := make([]geo.Point, 0, len(input.Points))
	for _, p := range input.Points {
		routePoints = append(routePoints, geo.Point{Lat: p[0], Lon: p[1]})
	}

	// Event store failures degrade to empty lists; the weather report is the
	// primary payload.
	accidents, err := h.events.AccidentsNearRoute(ctx, routePoints)
	if err != nil {
		h.logger.Warn().Err(err).Msg("accident lookup failed")
		accidents = nil
	}

	braking, err := h.events.NearestBrakingEvents(ctx, routePoints[0])
	if err != nil {
		h.logger.Warn().Err(err).Msg("braking event lookup failed")
		braking = nil
	}

	out := models.SimulationResponse{
		Report:              models.NewSimulationPoints(report),
		NearbyAccidents:     accidents,
		NearbyBrakingEvents: braking,
	}
	if out.NearbyAccidents == nil {
		out.NearbyAccidents = []events.AccidentCluster{}
	}
	if out.NearbyBrakingEvents == nil {
		out.NearbyBrakingEvents = []events.BrakingEvent{}
	}

	response.JSON(w, r, http.StatusOK, out)
}
