package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-queue-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription registers a push endpoint for the caller. Re-registering
// an endpoint moves it to the caller.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		UserID:   requester(c).ID,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	if err := h.subs.Upsert(c.Request.Context(), &subscription); err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes one of the caller's push endpoints.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	deleted, err := h.subs.DeleteForUser(c.Request.Context(), requester(c).ID, req.Endpoint)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "subscription not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscriptions lists the caller's push endpoints.
func (h *Handler) GetSubscriptions(c *gin.Context) {
	subs, err := h.subs.ListByUser(c.Request.Context(), requester(c).ID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	endpoints := make([]string, len(subs))
	for i, s := range subs {
		endpoints[i] = s.Endpoint
	}
	c.JSON(http.StatusOK, gin.H{"endpoints": endpoints})
}
