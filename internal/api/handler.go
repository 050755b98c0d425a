package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/mw"
	"laundry-queue-backend/internal/parse"
	"laundry-queue-backend/internal/realtime"
	"laundry-queue-backend/internal/reservation"
	"laundry-queue-backend/internal/status"
	"laundry-queue-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	orch      *reservation.Orchestrator
	projector *status.Projector
	subs      *store.SubscriptionStore
	hub       *realtime.Hub
	webpush   *webpush.Options
	logger    zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(orch *reservation.Orchestrator, projector *status.Projector, subs *store.SubscriptionStore, hub *realtime.Hub, webpushOptions *webpush.Options, logger zerolog.Logger) *Handler {
	return &Handler{
		orch:      orch,
		projector: projector,
		subs:      subs,
		hub:       hub,
		webpush:   webpushOptions,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

func statusCode(err error) int {
	switch reservation.KindOf(err) {
	case reservation.KindNotFound:
		return http.StatusNotFound
	case reservation.KindConflict:
		return http.StatusConflict
	case reservation.KindInvalidState:
		if errors.Is(err, reservation.ErrNotificationExpired) {
			return http.StatusGone
		}
		return http.StatusConflict
	case reservation.KindForbidden:
		return http.StatusForbidden
	case reservation.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Unexpected errors are logged and
// hidden from the caller.
func (h *Handler) respondError(c *gin.Context, err error, extra gin.H) {
	code := statusCode(err)
	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}
	if code == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		body["error"] = "internal"
		body["message"] = "internal server error"
	} else {
		body["error"] = string(reservation.KindOf(err))
		body["message"] = err.Error()
	}
	c.AbortWithStatusJSON(code, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": string(reservation.KindValidation), "message": msg})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parse.ID(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 100 {
		badRequest(c, "limit must be between 1 and 100")
		return 0, false
	}
	return n, true
}

// requester is only called behind mw.RequireIdentity.
func requester(c *gin.Context) model.Requester {
	req, _ := mw.RequesterFrom(c)
	return req
}
