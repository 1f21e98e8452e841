package handlers

import (
	"context"
	"net/http"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// SystemHandler serves the operational endpoints
type SystemHandler struct {
	store   StorePinger
	backend string
	build   BuildInfo
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(store StorePinger, backend string, build BuildInfo) *SystemHandler {
	return &SystemHandler{
		store:   store,
		backend: backend,
		build:   build,
	}
}

// Health pings the store. An unreachable store turns the answer into a 503.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DBHealthCheckTimeout)
	defer cancel()

	resp := models.HealthResponse{
		Status:  constants.HealthStatusHealthy,
		Store:   h.backend,
		Version: h.build.Version,
	}

	if err := h.store.Ping(ctx); err != nil {
		utils.LogError(err, map[string]interface{}{constants.LogFieldBackend: h.backend})
		resp.Status = constants.HealthStatusUnhealthy
		utils.ErrorWithData(w, constants.StatusServiceUnavailable, constants.CodeServiceUnavailable, constants.MsgStoreUnavailable, nil, resp)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Version reports build metadata
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, models.VersionResponse{
		Version:   h.build.Version,
		Commit:    h.build.Commit,
		BuildDate: h.build.BuildDate,
	})
}
