package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"laundry-queue-backend/config"
	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/store"
)

// Orchestrator composes the machine, session and queue stores into the
// reservation operations. Every mutation of a machine's state runs while
// holding that machine's lock.
type Orchestrator struct {
	machines  MachineStore
	sessions  SessionStore
	queue     QueueStore
	publisher Publisher
	locker    *Locker
	logger    zerolog.Logger
	now       func() time.Time

	window time.Duration
	grace  time.Duration
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithPublisher sets the sink for machine change events.
func WithPublisher(p Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

// New creates an Orchestrator.
func New(machines MachineStore, sessions SessionStore, queue QueueStore, cfg config.ReservationConfig, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		machines:  machines,
		sessions:  sessions,
		queue:     queue,
		publisher: nopPublisher{},
		locker:    NewLocker(),
		logger:    logger.With().Str("component", "reservation").Logger(),
		now:       time.Now,
		window:    cfg.NotificationWindow,
		grace:     cfg.AutoReleaseGrace,
	}
	if o.window <= 0 {
		o.window = 2 * time.Minute
	}
	if o.grace <= 0 {
		o.grace = 5 * time.Minute
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Notification describes a queue entry that was just given the machine.
type Notification struct {
	EntryID   int64     `json:"entryId"`
	MachineID int64     `json:"machineId"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JoinResult is returned by JoinQueue.
type JoinResult struct {
	Entry         *model.QueueEntry `json:"queue"`
	Position      int               `json:"position"`
	EstimatedWait int               `json:"estimatedWait"`
	PeopleAhead   int               `json:"peopleAhead"`
}

// ConfirmResult is returned by ConfirmUsage.
type ConfirmResult struct {
	Accepted bool `json:"accepted"`
}

// StartResult is returned by StartUsage.
type StartResult struct {
	Session *model.UsageSession `json:"usage"`
	Machine *model.Machine      `json:"machine"`
}

// FinishResult is returned by the operations that end a session.
type FinishResult struct {
	Session     *model.UsageSession `json:"usage"`
	Machine     *model.Machine      `json:"machine"`
	NextInQueue *Notification       `json:"nextInQueue"`
}

func (o *Orchestrator) clock() time.Time {
	return o.now().UTC()
}

func (o *Orchestrator) lockMachine(machineID int64) func() {
	return o.locker.Lock(machineKey(machineID))
}

func (o *Orchestrator) getMachine(ctx context.Context, machineID int64) (*model.Machine, error) {
	m, err := o.machines.Get(ctx, machineID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMachineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load machine %d: %w", machineID, err)
	}
	return m, nil
}

// JoinQueue appends the user to the machine's queue.
func (o *Orchestrator) JoinQueue(ctx context.Context, machineID, userID int64) (*JoinResult, error) {
	unlock := o.lockMachine(machineID)
	defer unlock()

	machine, err := o.getMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}

	existing, err := o.queue.FindByUser(ctx, machineID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up queue membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyQueued
	}

	entry, err := o.queue.Add(ctx, machineID, userID, o.clock())
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrAlreadyQueued
	}
	if err != nil {
		return nil, err
	}

	wait, err := o.estimatedWait(ctx, machine, entry.Position)
	if err != nil {
		return nil, err
	}

	o.logger.Info().Int64("machine_id", machineID).Int64("user_id", userID).Int("position", entry.Position).Msg("joined queue")
	o.publisher.Publish(machineID)

	return &JoinResult{
		Entry:         entry,
		Position:      entry.Position,
		EstimatedWait: wait,
		PeopleAhead:   entry.Position - 1,
	}, nil
}

// LeaveQueue removes the user from the machine's queue. If the user held the
// notification, the next waiting entry is promoted.
func (o *Orchestrator) LeaveQueue(ctx context.Context, machineID, userID int64) error {
	unlock := o.lockMachine(machineID)
	defer unlock()

	entry, err := o.queue.FindByUser(ctx, machineID, userID)
	if err != nil {
		return fmt.Errorf("failed to look up queue membership: %w", err)
	}
	if entry == nil {
		return ErrNotQueued
	}

	if err := o.removeEntry(ctx, entry); err != nil {
		return err
	}
	if entry.IsNotified() {
		if _, err := o.notifyNextLocked(ctx, machineID); err != nil {
			return err
		}
	}

	o.logger.Info().Int64("machine_id", machineID).Int64("user_id", userID).Msg("left queue")
	o.publisher.Publish(machineID)
	return nil
}

// NotifyNext gives the machine to the head of its queue. It returns nil when
// there is nobody to notify.
func (o *Orchestrator) NotifyNext(ctx context.Context, machineID int64) (*Notification, error) {
	unlock := o.lockMachine(machineID)
	defer unlock()

	n, err := o.notifyNextLocked(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if n != nil {
		o.publisher.Publish(machineID)
	}
	return n, nil
}

// notifyNextLocked must be called with the machine lock held. The head is
// only notified while the machine is available; otherwise it keeps waiting
// and is picked up when the machine is released.
func (o *Orchestrator) notifyNextLocked(ctx context.Context, machineID int64) (*Notification, error) {
	machine, err := o.getMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if machine.Status != model.MachineAvailable {
		return nil, nil
	}

	head, err := o.queue.FindHeadWaiting(ctx, machineID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue head of machine %d: %w", machineID, err)
	}
	if head == nil {
		return nil, nil
	}

	notified, err := o.queue.Notify(ctx, head.ID, o.clock(), o.window)
	if errors.Is(err, store.ErrStale) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.logger.Info().Int64("machine_id", machineID).Int64("user_id", notified.UserID).Time("expires_at", *notified.ExpiresAt).Msg("notified next in queue")
	return &Notification{
		EntryID:   notified.ID,
		MachineID: machineID,
		UserID:    notified.UserID,
		ExpiresAt: *notified.ExpiresAt,
	}, nil
}

func (o *Orchestrator) removeEntry(ctx context.Context, entry *model.QueueEntry) error {
	if err := o.queue.Remove(ctx, entry.ID); err != nil {
		return err
	}
	return o.queue.ReorderAfterRemoval(ctx, entry.MachineID, entry.Position)
}

// ConfirmUsage answers a notification. Declining promotes the next entry;
// accepting only leaves the queue, the caller then calls StartUsage.
func (o *Orchestrator) ConfirmUsage(ctx context.Context, machineID, userID int64, accept bool) (*ConfirmResult, error) {
	unlock := o.lockMachine(machineID)
	defer unlock()

	entry, err := o.queue.FindByUser(ctx, machineID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up queue membership: %w", err)
	}
	if entry == nil {
		return nil, ErrNotQueued
	}
	if !entry.IsNotified() {
		return nil, ErrNotNotified
	}
	if entry.NotificationExpired(o.clock()) {
		return nil, ErrNotificationExpired
	}

	if !accept {
		if err := o.removeEntry(ctx, entry); err != nil {
			return nil, err
		}
		if _, err := o.notifyNextLocked(ctx, machineID); err != nil {
			return nil, err
		}
		o.logger.Info().Int64("machine_id", machineID).Int64("user_id", userID).Msg("notification declined")
		o.publisher.Publish(machineID)
		return &ConfirmResult{Accepted: false}, nil
	}

	active, err := o.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active usage: %w", err)
	}
	if active != nil {
		return nil, ErrAlreadyActive
	}

	if err := o.removeEntry(ctx, entry); err != nil {
		return nil, err
	}
	o.logger.Info().Int64("machine_id", machineID).Int64("user_id", userID).Msg("notification accepted")
	o.publisher.Publish(machineID)
	return &ConfirmResult{Accepted: true}, nil
}

// StartUsage binds the user to the machine for its default duration.
// The machine lock is taken before the user lock.
func (o *Orchestrator) StartUsage(ctx context.Context, machineID, userID int64) (*StartResult, error) {
	unlockMachine := o.lockMachine(machineID)
	defer unlockMachine()
	unlockUser := o.locker.Lock(userKey(userID))
	defer unlockUser()

	machine, err := o.getMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if machine.Status != model.MachineAvailable {
		return nil, ErrNotAvailable
	}

	active, err := o.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active usage: %w", err)
	}
	if active != nil {
		return nil, ErrAlreadyActive
	}

	now := o.clock()
	session, err := o.sessions.Create(ctx, machineID, userID, now, now.Add(machine.DefaultDuration()))
	if errors.Is(err, store.ErrDuplicate) {
		if again, _ := o.sessions.FindActiveByUser(ctx, userID); again != nil {
			return nil, ErrAlreadyActive
		}
		return nil, ErrNotAvailable
	}
	if err != nil {
		return nil, err
	}

	swapped, err := o.machines.CompareAndSetStatus(ctx, machineID, model.MachineAvailable, model.MachineOccupied, &session.ID)
	if err != nil || !swapped {
		if delErr := o.sessions.Delete(ctx, session.ID); delErr != nil {
			o.logger.Error().Err(delErr).Int64("session_id", session.ID).Msg("failed to roll back unbound session")
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrNotAvailable
	}

	// Starting the machine settles the user's own place in its queue.
	if entry, err := o.queue.FindByUser(ctx, machineID, userID); err != nil {
		o.logger.Warn().Err(err).Int64("machine_id", machineID).Int64("user_id", userID).Msg("failed to look up queue entry after start")
	} else if entry != nil {
		if err := o.removeEntry(ctx, entry); err != nil {
			o.logger.Warn().Err(err).Int64("entry_id", entry.ID).Msg("failed to drop queue entry after start")
		}
	}

	machine.Status = model.MachineOccupied
	machine.ActiveSessionID = &session.ID

	o.logger.Info().Int64("machine_id", machineID).Int64("user_id", userID).Int64("session_id", session.ID).Msg("usage started")
	o.publisher.Publish(machineID)
	return &StartResult{Session: session, Machine: machine}, nil
}

// FinishUsage completes a session on behalf of its user or of the operator
// owning the machine. Finishing a terminal session returns the stored record
// together with ErrAlreadyFinished and changes nothing.
func (o *Orchestrator) FinishUsage(ctx context.Context, sessionID int64, requester model.Requester) (*FinishResult, error) {
	session, err := o.sessions.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %d: %w", sessionID, err)
	}

	unlock := o.lockMachine(session.MachineID)
	defer unlock()

	machine, err := o.getMachine(ctx, session.MachineID)
	if err != nil {
		return nil, err
	}
	if !canFinish(requester, session, machine) {
		return nil, ErrForbidden
	}

	finished, transitioned, err := o.sessions.Finish(ctx, sessionID, model.SessionCompleted, o.clock())
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return &FinishResult{Session: finished, Machine: machine}, ErrAlreadyFinished
	}

	return o.afterFinish(ctx, finished, "usage finished")
}

func canFinish(requester model.Requester, session *model.UsageSession, machine *model.Machine) bool {
	switch requester.Type {
	case model.AccountUser:
		return session.UserID == requester.ID
	case model.AccountOperator:
		return machine.OwnerID == requester.ID
	default:
		return false
	}
}

// FinishMachineUsage lets an operator finish whatever session occupies one
// of its machines.
func (o *Orchestrator) FinishMachineUsage(ctx context.Context, machineID, operatorID int64) (*FinishResult, error) {
	machine, err := o.getMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if machine.OwnerID != operatorID {
		return nil, ErrForbidden
	}
	session, err := o.sessions.FindActiveByMachine(ctx, machineID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active usage: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveUsage
	}
	return o.FinishUsage(ctx, session.ID, model.Requester{ID: operatorID, Type: model.AccountOperator})
}

// CancelUsage cancels the user's active session.
func (o *Orchestrator) CancelUsage(ctx context.Context, userID int64) (*FinishResult, error) {
	session, err := o.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active usage: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveUsage
	}

	unlock := o.lockMachine(session.MachineID)
	defer unlock()

	cancelled, transitioned, err := o.sessions.Finish(ctx, session.ID, model.SessionCancelled, o.clock())
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, ErrNoActiveUsage
	}

	return o.afterFinish(ctx, cancelled, "usage cancelled")
}

// afterFinish releases the machine of a session that just ended and offers
// it to the queue. The machine stays available while the notified user
// decides. Called with the machine lock held.
func (o *Orchestrator) afterFinish(ctx context.Context, session *model.UsageSession, msg string) (*FinishResult, error) {
	if err := o.machines.SetStatus(ctx, session.MachineID, model.MachineAvailable, nil); err != nil {
		return nil, err
	}

	next, err := o.notifyNextLocked(ctx, session.MachineID)
	if err != nil {
		return nil, err
	}

	machine, err := o.getMachine(ctx, session.MachineID)
	if err != nil {
		return nil, err
	}

	o.logger.Info().Int64("machine_id", session.MachineID).Int64("session_id", session.ID).Str("status", string(session.Status)).Msg(msg)
	o.publisher.Publish(session.MachineID)
	return &FinishResult{Session: session, Machine: machine, NextInQueue: next}, nil
}

// CalculateEstimatedWait projects the minutes until the given queue position
// reaches the machine, assuming every user takes the default duration.
func (o *Orchestrator) CalculateEstimatedWait(ctx context.Context, machineID int64, position int) (int, error) {
	machine, err := o.getMachine(ctx, machineID)
	if err != nil {
		return 0, err
	}
	return o.estimatedWait(ctx, machine, position)
}

func (o *Orchestrator) estimatedWait(ctx context.Context, machine *model.Machine, position int) (int, error) {
	remaining := 0
	active, err := o.sessions.FindActiveByMachine(ctx, machine.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up active usage: %w", err)
	}
	if active != nil {
		remaining = active.MinutesRemaining(o.clock())
	}

	ahead := position - 1
	if ahead < 0 {
		ahead = 0
	}
	return remaining + ahead*machine.DefaultDurationMinutes, nil
}
