package reservation

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_ports.go -package=mocks . MachineStore,SessionStore,QueueStore,Publisher

import (
	"context"
	"time"

	"laundry-queue-backend/internal/model"
)

// MachineStore is the machine state the orchestrator reads and writes.
type MachineStore interface {
	Create(ctx context.Context, m *model.Machine) error
	Get(ctx context.Context, machineID int64) (*model.Machine, error)
	List(ctx context.Context) ([]model.Machine, error)
	SetStatus(ctx context.Context, machineID int64, status model.MachineStatus, sessionID *int64) error
	CompareAndSetStatus(ctx context.Context, machineID int64, from, to model.MachineStatus, sessionID *int64) (bool, error)
}

// SessionStore is the usage session lifecycle store.
type SessionStore interface {
	Create(ctx context.Context, machineID, userID int64, start, estimatedEnd time.Time) (*model.UsageSession, error)
	Get(ctx context.Context, sessionID int64) (*model.UsageSession, error)
	Delete(ctx context.Context, sessionID int64) error
	Finish(ctx context.Context, sessionID int64, outcome model.SessionStatus, at time.Time) (*model.UsageSession, bool, error)
	FindActiveByUser(ctx context.Context, userID int64) (*model.UsageSession, error)
	FindActiveByMachine(ctx context.Context, machineID int64) (*model.UsageSession, error)
	FindOverdue(ctx context.Context, now time.Time, grace time.Duration) ([]model.UsageSession, error)
	HistoryByUser(ctx context.Context, userID int64, limit int) ([]model.UsageSession, error)
	HistoryByMachine(ctx context.Context, machineID int64, limit int) ([]model.UsageSession, error)
}

// QueueStore is the per-machine FIFO queue store.
type QueueStore interface {
	Add(ctx context.Context, machineID, userID int64, joinedAt time.Time) (*model.QueueEntry, error)
	Get(ctx context.Context, entryID int64) (*model.QueueEntry, error)
	FindWaitingNotified(ctx context.Context, machineID int64) ([]model.QueueEntry, error)
	FindHeadWaiting(ctx context.Context, machineID int64) (*model.QueueEntry, error)
	FindByUser(ctx context.Context, machineID, userID int64) (*model.QueueEntry, error)
	Remove(ctx context.Context, entryID int64) error
	ReorderAfterRemoval(ctx context.Context, machineID int64, removedPosition int) error
	Notify(ctx context.Context, entryID int64, now time.Time, window time.Duration) (*model.QueueEntry, error)
	FindExpired(ctx context.Context, now time.Time) ([]model.QueueEntry, error)
	MarkExpired(ctx context.Context, entryID int64) error
}

// Publisher is told which machine changed so the transport layer can push
// a fresh status snapshot. Implementations must not block.
type Publisher interface {
	Publish(machineID int64)
}

type nopPublisher struct{}

func (nopPublisher) Publish(int64) {}
