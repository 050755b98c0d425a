package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-queue-backend/internal/parse"
)

type createMachineRequest struct {
	Name            string          `json:"name" binding:"required"`
	Type            string          `json:"type" binding:"required"`
	DefaultDuration json.RawMessage `json:"defaultDuration" binding:"required"`
}

// durationMinutes accepts either a number of minutes or a string such as "1h 30m".
func durationMinutes(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return parse.Duration(s)
}

// CreateMachine handles POST /api/machines.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, type and defaultDuration are required")
		return
	}
	category, err := parse.Category(req.Type)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	minutes, err := durationMinutes(req.DefaultDuration)
	if err != nil {
		badRequest(c, "invalid defaultDuration")
		return
	}

	m, err := h.orch.RegisterMachine(c.Request.Context(), requester(c).ID, req.Name, category, minutes)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	machines, err := h.orch.ListMachines(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, machines)
}

// MachineHistory handles GET /api/machines/:machine_id/history.
func (h *Handler) MachineHistory(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	sessions, err := h.orch.MachineHistory(c.Request.Context(), machineID, requester(c), limit)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": sessions})
}

// FinishMachineUsage handles POST /api/machines/:machine_id/finish.
func (h *Handler) FinishMachineUsage(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	res, err := h.orch.FinishMachineUsage(c.Request.Context(), machineID, requester(c).ID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

type maintenanceRequest struct {
	Maintenance *bool `json:"maintenance" binding:"required"`
}

// SetMaintenance handles PUT /api/machines/:machine_id/maintenance.
func (h *Handler) SetMaintenance(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "maintenance is required")
		return
	}
	m, err := h.orch.SetMaintenance(c.Request.Context(), machineID, requester(c).ID, *req.Maintenance)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, m)
}
