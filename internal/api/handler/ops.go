package handler

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	pool      *pgxpool.Pool
	providers *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. pool and providers may be nil; the
// readiness check skips what is absent.
func NewOpsHandler(version, buildTime string, pool *pgxpool.Pool, providers *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		pool:      pool,
		providers: providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The database
// must answer; open provider circuits degrade the status without failing it,
// since reports degrade per point rather than erroring.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, r, "database unavailable")
			return
		}
	}

	status := models.HealthStatusOK
	details := map[string]interface{}{}

	if h.providers != nil {
		var providers []models.ProviderStatus
		for _, p := range h.providers.Health() {
			providerStatus := models.HealthStatusOK
			if !p.Healthy() {
				providerStatus = models.HealthStatusDegraded
				status = models.HealthStatusDegraded
			}
			providers = append(providers, models.ProviderStatus{
				Provider: p.Name,
				Status:   providerStatus,
			})
		}
		details["providers"] = providers
	}

	health := models.Health{
		Status:  status,
		Time:    time.Now().UTC(),
		Details: details,
	}
	response.JSON(w, r, http.StatusOK, health)
}
