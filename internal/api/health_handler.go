package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
)

// timestampLayout renders UTC timestamps with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// HealthHandler reports process liveness. It touches no dependencies.
type HealthHandler struct {
	environment string
	now         func() time.Time
}

// NewHealthHandler creates a HealthHandler reporting the given environment.
func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment, now: time.Now}
}

// Health handles GET /ping and GET /health requests
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
//	@Router		/ping [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:      "OK",
		Timestamp:   h.now().UTC().Format(timestampLayout),
		Environment: h.environment,
	})
}
