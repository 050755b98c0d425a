package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JoinQueue handles POST /api/queue/:machine_id/join.
func (h *Handler) JoinQueue(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	res, err := h.orch.JoinQueue(c.Request.Context(), machineID, requester(c).ID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// LeaveQueue handles DELETE /api/queue/:machine_id.
func (h *Handler) LeaveQueue(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	if err := h.orch.LeaveQueue(c.Request.Context(), machineID, requester(c).ID); err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

type confirmRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// ConfirmUsage handles POST /api/queue/:machine_id/confirm.
func (h *Handler) ConfirmUsage(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "accept is required")
		return
	}
	res, err := h.orch.ConfirmUsage(c.Request.Context(), machineID, requester(c).ID, *req.Accept)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// MyPosition handles GET /api/queue/:machine_id/me.
func (h *Handler) MyPosition(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	pos, err := h.orch.MyPosition(c.Request.Context(), machineID, requester(c).ID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// QueueDetails handles GET /api/queue/:machine_id.
func (h *Handler) QueueDetails(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	details, err := h.orch.QueueDetails(c.Request.Context(), machineID, requester(c))
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": details, "total": len(details)})
}
