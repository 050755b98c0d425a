package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/store"
)

// Position is a user's view of their own queue entry.
type Position struct {
	Entry         *model.QueueEntry `json:"queue"`
	Position      int               `json:"position"`
	Status        model.QueueStatus `json:"status"`
	PeopleAhead   int               `json:"peopleAhead"`
	EstimatedWait int               `json:"estimatedWait"`
	ExpiresAt     *time.Time        `json:"expiresAt,omitempty"`
}

// QueueDetail is one row of the operator's queue listing.
type QueueDetail struct {
	Entry         model.QueueEntry `json:"queue"`
	EstimatedWait int              `json:"estimatedWait"`
}

// Usage is the caller's active session with its machine.
type Usage struct {
	Session          *model.UsageSession `json:"usage"`
	Machine          *model.Machine      `json:"machine"`
	MinutesRemaining int                 `json:"timeRemainingMinutes"`
}

// MyPosition returns the user's place in the machine's queue.
func (o *Orchestrator) MyPosition(ctx context.Context, machineID, userID int64) (*Position, error) {
	machine, err := o.getMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	entry, err := o.queue.FindByUser(ctx, machineID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up queue membership: %w", err)
	}
	if entry == nil {
		return nil, ErrNotQueued
	}
	wait, err := o.estimatedWait(ctx, machine, entry.Position)
	if err != nil {
		return nil, err
	}
	return &Position{
		Entry:         entry,
		Position:      entry.Position,
		Status:        entry.Status,
		PeopleAhead:   entry.Position - 1,
		EstimatedWait: wait,
		ExpiresAt:     entry.ExpiresAt,
	}, nil
}

// QueueDetails lists the whole queue of a machine for its owner.
func (o *Orchestrator) QueueDetails(ctx context.Context, machineID int64, requester model.Requester) ([]QueueDetail, error) {
	machine, err := o.ownedMachine(ctx, machineID, requester)
	if err != nil {
		return nil, err
	}
	entries, err := o.queue.FindWaitingNotified(ctx, machineID)
	if err != nil {
		return nil, err
	}

	base, err := o.estimatedWait(ctx, machine, 1)
	if err != nil {
		return nil, err
	}
	details := make([]QueueDetail, 0, len(entries))
	for _, e := range entries {
		details = append(details, QueueDetail{
			Entry:         e,
			EstimatedWait: base + (e.Position-1)*machine.DefaultDurationMinutes,
		})
	}
	return details, nil
}

// CurrentUsage returns the user's active session.
func (o *Orchestrator) CurrentUsage(ctx context.Context, userID int64) (*Usage, error) {
	session, err := o.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active usage: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveUsage
	}
	machine, err := o.getMachine(ctx, session.MachineID)
	if err != nil {
		return nil, err
	}
	return &Usage{
		Session:          session,
		Machine:          machine,
		MinutesRemaining: session.MinutesRemaining(o.clock()),
	}, nil
}

// UsageHistory returns the user's most recent sessions, newest first.
func (o *Orchestrator) UsageHistory(ctx context.Context, userID int64, limit int) ([]model.UsageSession, error) {
	return o.sessions.HistoryByUser(ctx, userID, limit)
}

// MachineHistory returns the machine's most recent sessions for its owner.
func (o *Orchestrator) MachineHistory(ctx context.Context, machineID int64, requester model.Requester, limit int) ([]model.UsageSession, error) {
	if _, err := o.ownedMachine(ctx, machineID, requester); err != nil {
		return nil, err
	}
	return o.sessions.HistoryByMachine(ctx, machineID, limit)
}

// RegisterMachine adds a machine owned by the operator.
func (o *Orchestrator) RegisterMachine(ctx context.Context, operatorID int64, name string, category model.MachineCategory, durationMinutes int) (*model.Machine, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, invalidMachine("name is required")
	case category != model.CategoryWasher && category != model.CategoryDryer:
		return nil, invalidMachine(fmt.Sprintf("type must be %q or %q", model.CategoryWasher, model.CategoryDryer))
	case durationMinutes < model.MinDurationMinutes || durationMinutes > model.MaxDurationMinutes:
		return nil, invalidMachine(fmt.Sprintf("defaultDuration must be between %d and %d minutes", model.MinDurationMinutes, model.MaxDurationMinutes))
	}

	m := &model.Machine{
		OwnerID:                operatorID,
		Name:                   name,
		Category:               category,
		DefaultDurationMinutes: durationMinutes,
	}
	if err := o.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	o.logger.Info().Int64("machine_id", m.ID).Int64("owner_id", operatorID).Str("type", string(category)).Msg("machine registered")
	return m, nil
}

func invalidMachine(msg string) error {
	return &Error{Kind: ErrInvalidMachine.Kind, Code: ErrInvalidMachine.Code, Message: msg}
}

// ListMachines returns every machine.
func (o *Orchestrator) ListMachines(ctx context.Context) ([]model.Machine, error) {
	return o.machines.List(ctx)
}

// SetMaintenance takes a machine out of service or puts it back. A machine
// with an active session cannot enter maintenance. Returning to service
// offers the machine to its queue.
func (o *Orchestrator) SetMaintenance(ctx context.Context, machineID, operatorID int64, on bool) (*model.Machine, error) {
	unlock := o.lockMachine(machineID)
	defer unlock()

	machine, err := o.ownedMachine(ctx, machineID, model.Requester{ID: operatorID, Type: model.AccountOperator})
	if err != nil {
		return nil, err
	}

	from, to := model.MachineMaintenance, model.MachineAvailable
	if on {
		from, to = model.MachineAvailable, model.MachineMaintenance
	}
	if machine.Status == to {
		return machine, nil
	}
	if machine.Status == model.MachineOccupied {
		return nil, ErrMachineBusy
	}

	swapped, err := o.machines.CompareAndSetStatus(ctx, machineID, from, to, nil)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrMachineBusy
	}
	machine.Status = to
	machine.ActiveSessionID = nil

	if !on {
		if _, err := o.notifyNextLocked(ctx, machineID); err != nil {
			return nil, err
		}
	}

	o.logger.Info().Int64("machine_id", machineID).Bool("maintenance", on).Msg("maintenance toggled")
	o.publisher.Publish(machineID)
	return machine, nil
}

func (o *Orchestrator) ownedMachine(ctx context.Context, machineID int64, requester model.Requester) (*model.Machine, error) {
	machine, err := o.getMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if !requester.IsOperator() || machine.OwnerID != requester.ID {
		return nil, ErrForbidden
	}
	return machine, nil
}

// ExpiredNotifications lists notified entries whose window has closed.
func (o *Orchestrator) ExpiredNotifications(ctx context.Context) ([]model.QueueEntry, error) {
	return o.queue.FindExpired(ctx, o.clock())
}

// ExpireNotification evicts a notified entry whose window has closed and
// promotes the next waiting entry. Entries that were answered or removed in
// the meantime are left alone.
func (o *Orchestrator) ExpireNotification(ctx context.Context, entryID int64) (*Notification, error) {
	current, err := o.queue.Get(ctx, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	unlock := o.lockMachine(current.MachineID)
	defer unlock()

	entry, err := o.queue.Get(ctx, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !entry.IsNotified() || !entry.NotificationExpired(o.clock()) {
		return nil, nil
	}

	err = o.queue.MarkExpired(ctx, entry.ID)
	if errors.Is(err, store.ErrStale) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := o.removeEntry(ctx, entry); err != nil {
		return nil, err
	}

	next, err := o.notifyNextLocked(ctx, entry.MachineID)
	if err != nil {
		return nil, err
	}

	o.logger.Info().Int64("machine_id", entry.MachineID).Int64("user_id", entry.UserID).Msg("notification expired")
	o.publisher.Publish(entry.MachineID)
	return next, nil
}

// OverdueSessions lists active sessions past their estimated end by more
// than the auto-release grace.
func (o *Orchestrator) OverdueSessions(ctx context.Context) ([]model.UsageSession, error) {
	return o.sessions.FindOverdue(ctx, o.clock(), o.grace)
}

// AutoRelease completes an overdue session and releases its machine. A
// session that was finished in the meantime is left alone and nil is
// returned.
func (o *Orchestrator) AutoRelease(ctx context.Context, session model.UsageSession) (*FinishResult, error) {
	unlock := o.lockMachine(session.MachineID)
	defer unlock()

	finished, transitioned, err := o.sessions.Finish(ctx, session.ID, model.SessionCompleted, o.clock())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, nil
	}
	return o.afterFinish(ctx, finished, "usage auto-released")
}
