package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"laundry-queue-backend/config"
	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/realtime"
	"laundry-queue-backend/internal/status"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// StatusSource builds machine snapshots.
type StatusSource interface {
	GetStatus(ctx context.Context, machineID int64, viewer *status.Viewer) (*status.Snapshot, error)
}

// QueueLister lists the live queue of a machine.
type QueueLister interface {
	FindWaitingNotified(ctx context.Context, machineID int64) ([]model.QueueEntry, error)
}

// Subscriptions is the push subscription registry.
type Subscriptions interface {
	ListByUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	Delete(ctx context.Context, endpoint string) error
}

// Broadcaster delivers messages to websocket observers.
type Broadcaster interface {
	PublishMachine(machineID int64, msg realtime.Message)
	PublishUser(userID int64, msg realtime.Message)
}

// Deps are the collaborators of a WorkerPool.
type Deps struct {
	Status        StatusSource
	Queue         QueueLister
	Subscriptions Subscriptions
	Hub           Broadcaster
}

// Message types sent over websockets.
const (
	TypeMachineStatus = "machine_status"
	TypeQueueStatus   = "queue_status"
)

// WorkerPool turns machine change events into status broadcasts. Jobs are
// machine ids; a machine already waiting in the queue is not queued twice.
type WorkerPool struct {
	size    int
	jobs    chan int64
	deps    Deps
	webpush *webpush.Options
	sender  NotificationSender
	pushed  *cache.Cache
	logger  zerolog.Logger

	mu      sync.Mutex
	pending map[int64]struct{}
}

// NewWorkerPool creates a new worker pool. A nil webpushOptions disables
// push delivery.
func NewWorkerPool(cfg config.WorkerPoolConfig, deps Deps, webpushOptions *webpush.Options, logger zerolog.Logger) *WorkerPool {
	size := cfg.Size
	if size <= 0 {
		size = 1
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, queueSize),
		deps:    deps,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		pushed:  cache.New(10*time.Minute, 10*time.Minute),
		logger:  logger.With().Str("component", "notification").Logger(),
		pending: make(map[int64]struct{}),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Debug().Int("worker", id).Msg("worker started")
	for {
		select {
		case machineID := <-wp.jobs:
			wp.mu.Lock()
			delete(wp.pending, machineID)
			wp.mu.Unlock()
			wp.broadcastMachine(ctx, machineID)
		case <-ctx.Done():
			wp.logger.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
	}
}

// Dispatch queues a broadcast for the machine without blocking. It returns
// false when the job was coalesced with a pending one or the queue is full.
func (wp *WorkerPool) Dispatch(machineID int64) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if _, ok := wp.pending[machineID]; ok {
		return false
	}
	select {
	case wp.jobs <- machineID:
		wp.pending[machineID] = struct{}{}
		return true
	default:
		wp.logger.Warn().Int64("machine_id", machineID).Msg("broadcast queue full, dropping update")
		return false
	}
}

// Publish implements reservation.Publisher.
func (wp *WorkerPool) Publish(machineID int64) {
	wp.Dispatch(machineID)
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// broadcastMachine sends the public snapshot to the machine's observers, a
// personal snapshot to every queued user and a push to the notified one.
func (wp *WorkerPool) broadcastMachine(ctx context.Context, machineID int64) {
	snap, err := wp.deps.Status.GetStatus(ctx, machineID, nil)
	if err != nil {
		wp.logger.Error().Err(err).Int64("machine_id", machineID).Msg("failed to build machine status")
		return
	}
	wp.deps.Hub.PublishMachine(machineID, realtime.Message{Type: TypeMachineStatus, MachineID: machineID, Data: snap})

	entries, err := wp.deps.Queue.FindWaitingNotified(ctx, machineID)
	if err != nil {
		wp.logger.Error().Err(err).Int64("machine_id", machineID).Msg("failed to load queue")
		return
	}
	for _, e := range entries {
		personal, err := wp.deps.Status.GetStatus(ctx, machineID, &status.Viewer{ID: e.UserID, Type: model.AccountUser})
		if err != nil {
			wp.logger.Error().Err(err).Int64("machine_id", machineID).Int64("user_id", e.UserID).Msg("failed to build personal status")
			continue
		}
		wp.deps.Hub.PublishUser(e.UserID, realtime.Message{Type: TypeQueueStatus, MachineID: machineID, Data: personal})

		if e.IsNotified() {
			wp.pushTurn(ctx, e, snap.Machine.Name)
		}
	}
}

type pushPayload struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	MachineID int64     `json:"machineId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// pushTurn tells a notified user that the machine is theirs. Each
// notification is pushed once however many broadcasts follow it.
func (wp *WorkerPool) pushTurn(ctx context.Context, entry model.QueueEntry, machineName string) {
	if wp.webpush == nil || entry.ExpiresAt == nil {
		return
	}
	key := fmt.Sprintf("%d:%d", entry.ID, entry.ExpiresAt.Unix())
	if err := wp.pushed.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
		return
	}

	subs, err := wp.deps.Subscriptions.ListByUser(ctx, entry.UserID)
	if err != nil {
		wp.logger.Error().Err(err).Int64("user_id", entry.UserID).Msg("failed to fetch push subscriptions")
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{
		Title:     "Your machine is ready",
		Body:      fmt.Sprintf("%s is available for you. Confirm before %s.", machineName, entry.ExpiresAt.UTC().Format("15:04 MST")),
		MachineID: entry.MachineID,
		ExpiresAt: *entry.ExpiresAt,
	})
	if err != nil {
		wp.logger.Error().Err(err).Msg("failed to encode push payload")
		return
	}

	wp.logger.Info().Int("subscriptions", len(subs)).Int64("user_id", entry.UserID).Int64("machine_id", entry.MachineID).Msg("sending turn notification")
	for _, sub := range subs {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to send push notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.logger.Info().Str("endpoint", sub.Endpoint).Msg("push subscription expired, deleting")
		if err := wp.deps.Subscriptions.Delete(ctx, sub.Endpoint); err != nil {
			wp.logger.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to delete expired subscription")
		}
	}
}
