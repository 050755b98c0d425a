package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-queue-backend/internal/mw"
	"laundry-queue-backend/internal/status"
)

// GetMachineStatus handles GET /api/machines/:machine_id/status. Anonymous
// callers get the public snapshot.
func (h *Handler) GetMachineStatus(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}

	var viewer *status.Viewer
	if req, ok := mw.RequesterFrom(c); ok {
		viewer = &req
	}

	snap, err := h.projector.GetStatus(c.Request.Context(), machineID, viewer)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, snap)
}
