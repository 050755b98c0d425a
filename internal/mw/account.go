package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-queue-backend/internal/model"
)

// RequireAccount rejects callers whose account type differs from t. It
// expects RequireIdentity to have run.
func RequireAccount(t model.AccountType) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := RequesterFrom(c)
		if !ok || req.Type != t {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "this action requires a " + string(t) + " account"})
			return
		}
		c.Next()
	}
}
