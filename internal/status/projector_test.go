package status

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-queue-backend/internal/db/dbtest"
	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/reservation"
	"laundry-queue-backend/internal/store"
)

type fixture struct {
	machines *store.MachineStore
	sessions *store.SessionStore
	queue    *store.QueueStore
	p        *Projector
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	gormDB := dbtest.New(t)
	f := &fixture{
		machines: store.NewMachineStore(gormDB),
		sessions: store.NewSessionStore(gormDB),
		queue:    store.NewQueueStore(gormDB),
		now:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.p = NewProjector(f.machines, f.sessions, f.queue)
	f.p.now = func() time.Time { return f.now }
	return f
}

func TestGetStatus_UnknownMachine(t *testing.T) {
	f := newFixture(t)

	_, err := f.p.GetStatus(context.Background(), 404, nil)
	assert.ErrorIs(t, err, reservation.ErrMachineNotFound)
}

func TestGetStatus_IdleMachine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := &model.Machine{OwnerID: 9, Name: "Washer 1", Category: model.CategoryWasher, DefaultDurationMinutes: 40}
	require.NoError(t, f.machines.Create(ctx, m))

	snap, err := f.p.GetStatus(ctx, m.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentUsage)
	assert.Empty(t, snap.Queue)
	assert.Nil(t, snap.MyStatus)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"machine": {"id": 1, "name": "Washer 1", "type": "washer", "status": "available", "defaultDuration": 40},
		"currentUsage": null,
		"queue": [],
		"myStatus": null
	}`, string(raw))
}

func TestGetStatus_OccupiedWithQueue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := &model.Machine{OwnerID: 9, Name: "Dryer", Category: model.CategoryDryer, DefaultDurationMinutes: 30}
	require.NoError(t, f.machines.Create(ctx, m))

	session, err := f.sessions.Create(ctx, m.ID, 1, f.now.Add(-10*time.Minute), f.now.Add(20*time.Minute))
	require.NoError(t, err)
	require.NoError(t, f.machines.SetStatus(ctx, m.ID, model.MachineOccupied, &session.ID))

	_, err = f.queue.Add(ctx, m.ID, 2, f.now)
	require.NoError(t, err)
	mine, err := f.queue.Add(ctx, m.ID, 3, f.now.Add(time.Second))
	require.NoError(t, err)

	snap, err := f.p.GetStatus(ctx, m.ID, &Viewer{ID: 3, Type: model.AccountUser})
	require.NoError(t, err)

	require.NotNil(t, snap.CurrentUsage)
	assert.Equal(t, 20, snap.CurrentUsage.TimeRemainingMinutes)
	assert.Equal(t, []QueueSlot{{Position: 1, Status: model.QueueWaiting}, {Position: 2, Status: model.QueueWaiting}}, snap.Queue)

	require.NotNil(t, snap.MyStatus)
	assert.False(t, snap.MyStatus.HasActiveUsage)
	assert.True(t, snap.MyStatus.InQueue)
	require.NotNil(t, snap.MyStatus.Position)
	assert.Equal(t, mine.Position, *snap.MyStatus.Position)
	assert.False(t, snap.MyStatus.IsNotified)
	assert.Nil(t, snap.MyStatus.ExpiresAt)

	operator, err := f.p.GetStatus(ctx, m.ID, &Viewer{ID: 9, Type: model.AccountOperator})
	require.NoError(t, err)
	assert.Nil(t, operator.MyStatus, "operators get no personal status")

	user, err := f.p.GetStatus(ctx, m.ID, &Viewer{ID: 1, Type: model.AccountUser})
	require.NoError(t, err)
	assert.True(t, user.MyStatus.HasActiveUsage)
	assert.False(t, user.MyStatus.InQueue)
	assert.Nil(t, user.MyStatus.Position)
}

func TestGetStatus_NotifiedViewer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := &model.Machine{OwnerID: 9, Name: "Washer 2", Category: model.CategoryWasher, DefaultDurationMinutes: 30}
	require.NoError(t, f.machines.Create(ctx, m))

	entry, err := f.queue.Add(ctx, m.ID, 2, f.now)
	require.NoError(t, err)
	_, err = f.queue.Notify(ctx, entry.ID, f.now, 2*time.Minute)
	require.NoError(t, err)

	snap, err := f.p.GetStatus(ctx, m.ID, &Viewer{ID: 2, Type: model.AccountUser})
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentUsage)
	require.NotNil(t, snap.MyStatus)
	assert.True(t, snap.MyStatus.IsNotified)
	assert.Equal(t, model.QueueNotified, snap.MyStatus.QueueStatus)
	require.NotNil(t, snap.MyStatus.ExpiresAt)
	assert.True(t, f.now.Add(2*time.Minute).Equal(*snap.MyStatus.ExpiresAt))
}
