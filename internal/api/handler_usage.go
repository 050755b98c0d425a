package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-queue-backend/internal/reservation"
)

// StartUsage handles POST /api/usage/:machine_id/start.
func (h *Handler) StartUsage(c *gin.Context) {
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}
	res, err := h.orch.StartUsage(c.Request.Context(), machineID, requester(c).ID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// FinishUsage handles POST /api/usage/sessions/:session_id/finish. A second
// finish answers 409 and carries the terminal session.
func (h *Handler) FinishUsage(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	res, err := h.orch.FinishUsage(c.Request.Context(), sessionID, requester(c))
	if errors.Is(err, reservation.ErrAlreadyFinished) && res != nil {
		h.respondError(c, err, gin.H{"usage": res.Session})
		return
	}
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelUsage handles POST /api/usage/cancel.
func (h *Handler) CancelUsage(c *gin.Context) {
	res, err := h.orch.CancelUsage(c.Request.Context(), requester(c).ID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CurrentUsage handles GET /api/usage/current.
func (h *Handler) CurrentUsage(c *gin.Context) {
	usage, err := h.orch.CurrentUsage(c.Request.Context(), requester(c).ID)
	if errors.Is(err, reservation.ErrNoActiveUsage) {
		c.JSON(http.StatusOK, gin.H{"usage": nil})
		return
	}
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// UsageHistory handles GET /api/usage/history.
func (h *Handler) UsageHistory(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	sessions, err := h.orch.UsageHistory(c.Request.Context(), requester(c).ID, limit)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": sessions})
}
