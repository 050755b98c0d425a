package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/parse"
)

// Headers set by the upstream auth proxy.
const (
	HeaderUserID      = "X-User-ID"
	HeaderAccountType = "X-Account-Type"
)

const (
	requesterKey = "requester"
	userIDKey    = "userID"
)

// Identity reads the trusted identity headers. Requests without them pass
// through anonymously; malformed headers are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			c.Next()
			return
		}
		req, err := parse.Identity(raw, c.GetHeader(HeaderAccountType))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
			return
		}
		c.Set(requesterKey, req)
		c.Set(userIDKey, req.ID)
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequesterFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "missing " + HeaderUserID + " header"})
			return
		}
		c.Next()
	}
}

// RequesterFrom returns the identity stored by Identity.
func RequesterFrom(c *gin.Context) (model.Requester, bool) {
	v, ok := c.Get(requesterKey)
	if !ok {
		return model.Requester{}, false
	}
	req, ok := v.(model.Requester)
	return req, ok
}
