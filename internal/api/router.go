package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"laundry-queue-backend/config"
	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheStore := cache.New(cfg.CacheTTL, 10*time.Minute)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	authed := mw.RequireIdentity()
	userOnly := mw.RequireAccount(model.AccountUser)
	operatorOnly := mw.RequireAccount(model.AccountOperator)

	api := r.Group("/api")
	api.Use(mw.Identity(), rateLimiter, mw.FlushOnWrite(cacheStore))
	{
		queue := api.Group("/queue/:machine_id", authed)
		queue.POST("/join", userOnly, h.JoinQueue)
		queue.DELETE("", userOnly, h.LeaveQueue)
		queue.POST("/confirm", userOnly, h.ConfirmUsage)
		queue.GET("/me", userOnly, h.MyPosition)
		queue.GET("", operatorOnly, h.QueueDetails)

		usage := api.Group("/usage", authed)
		usage.POST("/:machine_id/start", userOnly, h.StartUsage)
		usage.POST("/sessions/:session_id/finish", h.FinishUsage)
		usage.POST("/cancel", userOnly, h.CancelUsage)
		usage.GET("/current", userOnly, h.CurrentUsage)
		usage.GET("/history", userOnly, h.UsageHistory)

		api.GET("/machines", caching, h.ListMachines)
		api.GET("/machines/:machine_id/status", h.GetMachineStatus)
		machines := api.Group("/machines", authed, operatorOnly)
		machines.POST("", h.CreateMachine)
		machines.GET("/:machine_id/history", h.MachineHistory)
		machines.POST("/:machine_id/finish", h.FinishMachineUsage)
		machines.PUT("/:machine_id/maintenance", h.SetMaintenance)

		api.GET("/ws", h.hub.ServeWS)

		subs := api.Group("/subscriptions", authed)
		subs.GET("", h.GetSubscriptions)
		subs.PUT("", h.PutSubscription)
		subs.DELETE("", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
