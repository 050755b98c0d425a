package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/reservation"
	"laundry-queue-backend/internal/store"
)

// MachineReader loads a machine by id.
type MachineReader interface {
	Get(ctx context.Context, machineID int64) (*model.Machine, error)
}

// SessionReader looks up active sessions.
type SessionReader interface {
	FindActiveByMachine(ctx context.Context, machineID int64) (*model.UsageSession, error)
	FindActiveByUser(ctx context.Context, userID int64) (*model.UsageSession, error)
}

// QueueReader looks up queue entries.
type QueueReader interface {
	FindWaitingNotified(ctx context.Context, machineID int64) ([]model.QueueEntry, error)
}

// Viewer is the identity a snapshot is personalised for.
type Viewer = model.Requester

// MachineView is the public part of a machine.
type MachineView struct {
	ID              int64                 `json:"id"`
	Name            string                `json:"name"`
	Type            model.MachineCategory `json:"type"`
	Status          model.MachineStatus   `json:"status"`
	DefaultDuration int                   `json:"defaultDuration"`
}

// CurrentUsage describes the session occupying the machine.
type CurrentUsage struct {
	EstimatedEndTime     time.Time `json:"estimatedEndTime"`
	TimeRemainingMinutes int       `json:"timeRemainingMinutes"`
}

// QueueSlot is an anonymised queue entry.
type QueueSlot struct {
	Position int               `json:"position"`
	Status   model.QueueStatus `json:"status"`
}

// MyStatus is the viewer's relation to the machine.
type MyStatus struct {
	HasActiveUsage bool              `json:"hasActiveUsage"`
	InQueue        bool              `json:"inQueue"`
	Position       *int              `json:"position,omitempty"`
	QueueStatus    model.QueueStatus `json:"queueStatus,omitempty"`
	IsNotified     bool              `json:"isNotified"`
	ExpiresAt      *time.Time        `json:"expiresAt,omitempty"`
}

// Snapshot is the status of one machine at a point in time.
type Snapshot struct {
	Machine      MachineView   `json:"machine"`
	CurrentUsage *CurrentUsage `json:"currentUsage"`
	Queue        []QueueSlot   `json:"queue"`
	MyStatus     *MyStatus     `json:"myStatus"`
}

// Projector assembles status snapshots. It never writes.
type Projector struct {
	machines MachineReader
	sessions SessionReader
	queue    QueueReader
	now      func() time.Time
}

// NewProjector creates a Projector.
func NewProjector(machines MachineReader, sessions SessionReader, queue QueueReader) *Projector {
	return &Projector{machines: machines, sessions: sessions, queue: queue, now: time.Now}
}

// GetStatus builds the snapshot of a machine. myStatus is only filled for
// viewers with a user account.
func (p *Projector) GetStatus(ctx context.Context, machineID int64, viewer *Viewer) (*Snapshot, error) {
	machine, err := p.machines.Get(ctx, machineID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, reservation.ErrMachineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load machine %d: %w", machineID, err)
	}

	snap := &Snapshot{
		Machine: MachineView{
			ID:              machine.ID,
			Name:            machine.Name,
			Type:            machine.Category,
			Status:          machine.Status,
			DefaultDuration: machine.DefaultDurationMinutes,
		},
		Queue: []QueueSlot{},
	}

	if machine.Status == model.MachineOccupied {
		usage, err := p.sessions.FindActiveByMachine(ctx, machineID)
		if err != nil {
			return nil, fmt.Errorf("failed to load active usage of machine %d: %w", machineID, err)
		}
		if usage != nil {
			snap.CurrentUsage = &CurrentUsage{
				EstimatedEndTime:     usage.EstimatedEndTime,
				TimeRemainingMinutes: usage.MinutesRemaining(p.now().UTC()),
			}
		}
	}

	entries, err := p.queue.FindWaitingNotified(ctx, machineID)
	if err != nil {
		return nil, err
	}
	var mine *model.QueueEntry
	for i, e := range entries {
		snap.Queue = append(snap.Queue, QueueSlot{Position: e.Position, Status: e.Status})
		if viewer != nil && e.UserID == viewer.ID {
			mine = &entries[i]
		}
	}

	if viewer != nil && viewer.Type == model.AccountUser {
		active, err := p.sessions.FindActiveByUser(ctx, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load active usage of user %d: %w", viewer.ID, err)
		}
		my := &MyStatus{HasActiveUsage: active != nil}
		if mine != nil {
			pos := mine.Position
			my.InQueue = true
			my.Position = &pos
			my.QueueStatus = mine.Status
			my.IsNotified = mine.IsNotified()
			my.ExpiresAt = mine.ExpiresAt
		}
		snap.MyStatus = my
	}

	return snap, nil
}
