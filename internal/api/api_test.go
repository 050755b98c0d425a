package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-queue-backend/config"
	"laundry-queue-backend/internal/db/dbtest"
	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/mw"
	"laundry-queue-backend/internal/realtime"
	"laundry-queue-backend/internal/reservation"
	"laundry-queue-backend/internal/status"
	"laundry-queue-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const operatorID = 100

type caller struct {
	id  int64
	typ model.AccountType
}

var (
	anonymous = caller{}
	operator  = caller{id: operatorID, typ: model.AccountOperator}
)

func user(id int64) caller { return caller{id: id, typ: model.AccountUser} }

type testServer struct {
	router *gin.Engine
	subs   *store.SubscriptionStore
}

func newTestServer(t *testing.T, opts *webpush.Options) *testServer {
	gormDB := dbtest.New(t)
	machines := store.NewMachineStore(gormDB)
	sessions := store.NewSessionStore(gormDB)
	queue := store.NewQueueStore(gormDB)
	subs := store.NewSubscriptionStore(gormDB)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	orch := reservation.New(machines, sessions, queue, config.ReservationConfig{}, zerolog.Nop(),
		reservation.WithClock(func() time.Time { return now }))
	projector := status.NewProjector(machines, sessions, queue)
	hub := realtime.NewHub(nil, zerolog.Nop())

	h := NewHandler(orch, projector, subs, hub, opts, zerolog.Nop())
	router := NewRouter(h, config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTL:        time.Minute,
	})
	return &testServer{router: router, subs: subs}
}

func (s *testServer) do(t *testing.T, as caller, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if as.id != 0 {
		req.Header.Set(mw.HeaderUserID, strconv.FormatInt(as.id, 10))
		req.Header.Set(mw.HeaderAccountType, string(as.typ))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createMachine(t *testing.T, name string) model.Machine {
	t.Helper()
	w := s.do(t, operator, http.MethodPost, "/api/machines", gin.H{"name": name, "type": "washer", "defaultDuration": 30})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Machine](t, w)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{reservation.ErrMachineNotFound, http.StatusNotFound},
		{reservation.ErrNotQueued, http.StatusNotFound},
		{reservation.ErrAlreadyQueued, http.StatusConflict},
		{reservation.ErrAlreadyActive, http.StatusConflict},
		{reservation.ErrNotAvailable, http.StatusConflict},
		{reservation.ErrAlreadyFinished, http.StatusConflict},
		{reservation.ErrNotificationExpired, http.StatusGone},
		{fmt.Errorf("confirm: %w", reservation.ErrNotificationExpired), http.StatusGone},
		{reservation.ErrForbidden, http.StatusForbidden},
		{reservation.ErrInvalidMachine, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusCode(tt.err), tt.err.Error())
	}
}

func TestIdentityGuards(t *testing.T) {
	s := newTestServer(t, nil)
	m := s.createMachine(t, "Washer 1")
	path := fmt.Sprintf("/api/queue/%d/join", m.ID)

	t.Run("anonymous", func(t *testing.T) {
		w := s.do(t, anonymous, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("operator on a user route", func(t *testing.T) {
		w := s.do(t, operator, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("user on an operator route", func(t *testing.T) {
		w := s.do(t, user(1), http.MethodPost, "/api/machines", gin.H{"name": "x", "type": "washer", "defaultDuration": 30})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed identity", func(t *testing.T) {
		w := s.do(t, caller{id: 1, typ: "admin"}, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad path id", func(t *testing.T) {
		w := s.do(t, user(1), http.MethodPost, "/api/queue/abc/join", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"validation","message":"invalid machine_id"}`, w.Body.String())
	})
}

func TestCreateMachine(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, operator, http.MethodPost, "/api/machines", gin.H{"name": "  Dryer A ", "type": "Tumble-Dryer", "defaultDuration": "1h 15m"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[model.Machine](t, w)
	assert.Equal(t, "Dryer A", m.Name)
	assert.Equal(t, model.CategoryDryer, m.Category)
	assert.Equal(t, 75, m.DefaultDurationMinutes)
	assert.Equal(t, model.MachineAvailable, m.Status)
	assert.Equal(t, int64(operatorID), m.OwnerID)

	tests := []struct {
		name string
		body any
	}{
		{"missing fields", gin.H{"name": "x"}},
		{"unknown type", gin.H{"name": "x", "type": "oven", "defaultDuration": 30}},
		{"duration too short", gin.H{"name": "x", "type": "washer", "defaultDuration": 4}},
		{"duration too long", gin.H{"name": "x", "type": "washer", "defaultDuration": "4h"}},
		{"unparseable duration", gin.H{"name": "x", "type": "washer", "defaultDuration": "soon"}},
		{"blank name", gin.H{"name": "   ", "type": "washer", "defaultDuration": 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, operator, http.MethodPost, "/api/machines", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "validation", decode[gin.H](t, w)["error"])
		})
	}
}

func TestListMachines_FlushedAfterWrite(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, anonymous, http.MethodGet, "/api/machines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	s.createMachine(t, "Washer 1")

	w = s.do(t, anonymous, http.MethodGet, "/api/machines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Machine](t, w), 1)
}

func TestReservationFlow(t *testing.T) {
	s := newTestServer(t, nil)
	m := s.createMachine(t, "Washer 1")
	base := fmt.Sprintf("/api/queue/%d", m.ID)

	w := s.do(t, user(1), http.MethodPost, fmt.Sprintf("/api/usage/%d/start", m.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	started := decode[reservation.StartResult](t, w)
	assert.Equal(t, model.MachineOccupied, started.Machine.Status)

	w = s.do(t, user(1), http.MethodPost, fmt.Sprintf("/api/usage/%d/start", m.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, user(2), http.MethodPost, base+"/join", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	joined := decode[reservation.JoinResult](t, w)
	assert.Equal(t, 1, joined.Position)
	assert.Equal(t, 0, joined.PeopleAhead)
	assert.Equal(t, 30, joined.EstimatedWait)

	w = s.do(t, user(2), http.MethodPost, base+"/join", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode[gin.H](t, w)["error"])

	w = s.do(t, user(2), http.MethodPost, base+"/confirm", gin.H{"accept": true})
	assert.Equal(t, http.StatusConflict, w.Code, "confirming before notification")

	w = s.do(t, operator, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[gin.H](t, w)["total"])

	finishPath := fmt.Sprintf("/api/usage/sessions/%d/finish", started.Session.ID)
	w = s.do(t, user(2), http.MethodPost, finishPath, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, user(1), http.MethodPost, finishPath, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	finished := decode[reservation.FinishResult](t, w)
	assert.Equal(t, model.SessionCompleted, finished.Session.Status)
	assert.Equal(t, model.MachineAvailable, finished.Machine.Status)
	require.NotNil(t, finished.NextInQueue)
	assert.Equal(t, int64(2), finished.NextInQueue.UserID)

	w = s.do(t, user(1), http.MethodPost, finishPath, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	again := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, again, "usage")

	w = s.do(t, user(2), http.MethodGet, fmt.Sprintf("/api/machines/%d/status", m.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[status.Snapshot](t, w)
	require.NotNil(t, snap.MyStatus)
	assert.True(t, snap.MyStatus.IsNotified)
	assert.Nil(t, snap.CurrentUsage)

	w = s.do(t, user(2), http.MethodPost, base+"/confirm", gin.H{"accept": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"accepted":true}`, w.Body.String())

	w = s.do(t, user(2), http.MethodPost, fmt.Sprintf("/api/usage/%d/start", m.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, user(2), http.MethodGet, "/api/usage/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := decode[reservation.Usage](t, w)
	assert.Equal(t, m.ID, current.Machine.ID)
	assert.Equal(t, 30, current.MinutesRemaining)

	w = s.do(t, user(2), http.MethodPost, "/api/usage/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, user(2), http.MethodGet, "/api/usage/current", nil)
	assert.JSONEq(t, `{"usage":null}`, w.Body.String())

	w = s.do(t, user(1), http.MethodGet, "/api/usage/history?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[map[string][]model.UsageSession](t, w)
	assert.Len(t, history["history"], 1)

	w = s.do(t, operator, http.MethodGet, fmt.Sprintf("/api/machines/%d/history", m.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]model.UsageSession](t, w)["history"], 2)

	w = s.do(t, user(1), http.MethodGet, "/api/usage/history?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveQueue(t *testing.T) {
	s := newTestServer(t, nil)
	m := s.createMachine(t, "Washer 1")
	base := fmt.Sprintf("/api/queue/%d", m.ID)

	w := s.do(t, user(1), http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, s.do(t, user(1), http.MethodPost, base+"/join", nil).Code)
	require.Equal(t, http.StatusCreated, s.do(t, user(2), http.MethodPost, base+"/join", nil).Code)

	w = s.do(t, user(1), http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, user(2), http.MethodGet, base+"/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pos := decode[reservation.Position](t, w)
	assert.Equal(t, 1, pos.Position)
	assert.Equal(t, model.QueueWaiting, pos.Status)
}

func TestMachineAdministration(t *testing.T) {
	s := newTestServer(t, nil)
	m := s.createMachine(t, "Washer 1")

	w := s.do(t, operator, http.MethodPost, fmt.Sprintf("/api/machines/%d/finish", m.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, s.do(t, user(1), http.MethodPost, fmt.Sprintf("/api/usage/%d/start", m.ID), nil).Code)

	w = s.do(t, operator, http.MethodPut, fmt.Sprintf("/api/machines/%d/maintenance", m.ID), gin.H{"maintenance": true})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, caller{id: operatorID + 1, typ: model.AccountOperator}, http.MethodPost, fmt.Sprintf("/api/machines/%d/finish", m.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, operator, http.MethodPost, fmt.Sprintf("/api/machines/%d/finish", m.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, operator, http.MethodPut, fmt.Sprintf("/api/machines/%d/maintenance", m.ID), gin.H{"maintenance": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.MachineMaintenance, decode[model.Machine](t, w).Status)

	w = s.do(t, user(2), http.MethodPost, fmt.Sprintf("/api/usage/%d/start", m.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, operator, http.MethodPut, fmt.Sprintf("/api/machines/%d/maintenance", m.ID), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, anonymous, http.MethodGet, "/api/machines/999/status", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptions(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, user(1), http.MethodPut, "/api/subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation","message":"invalid request"}`, w.Body.String())

	w = s.do(t, anonymous, http.MethodPut, "/api/subscriptions", gin.H{"endpoint": "https://push.example/a", "p256dh": "k", "auth": "a"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, user(1), http.MethodPut, "/api/subscriptions", gin.H{"endpoint": "https://push.example/a", "p256dh": "k", "auth": "a"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, user(1), http.MethodGet, "/api/subscriptions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"endpoints":["https://push.example/a"]}`, w.Body.String())

	w = s.do(t, user(2), http.MethodDelete, "/api/subscriptions", gin.H{"endpoint": "https://push.example/a"})
	assert.Equal(t, http.StatusNotFound, w.Code, "another user's endpoint")

	w = s.do(t, user(1), http.MethodDelete, "/api/subscriptions", gin.H{"endpoint": "https://push.example/a"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, user(1), http.MethodGet, "/api/subscriptions", nil)
	assert.JSONEq(t, `{"endpoints":[]}`, w.Body.String())
}

func TestGetVAPIDPublicKey(t *testing.T) {
	w := newTestServer(t, nil).do(t, anonymous, http.MethodGet, "/api/vapid_public_key", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = newTestServer(t, &webpush.Options{VAPIDPublicKey: "BPub"}).do(t, anonymous, http.MethodGet, "/api/vapid_public_key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"BPub"}`, w.Body.String())
}
