package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-queue-backend/internal/model"
)

// ErrStale is returned when a conditional update found the row in a
// different state than expected.
var ErrStale = errors.New("record changed concurrently")

// QueueStore persists the per-machine FIFO queues.
type QueueStore struct {
	db *gorm.DB
}

// NewQueueStore creates a GORM-backed queue store.
func NewQueueStore(db *gorm.DB) *QueueStore {
	return &QueueStore{db: db}
}

func (s *QueueStore) activeEntries(ctx context.Context, machineID int64) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.QueueEntry{}).
		Where("machine_id = ? AND status IN ?", machineID, model.ActiveQueueStatuses)
}

// Add appends a waiting entry at position count+1. A user already holding a
// waiting/notified entry for the machine is rejected with ErrDuplicate.
func (s *QueueStore) Add(ctx context.Context, machineID, userID int64, joinedAt time.Time) (*model.QueueEntry, error) {
	var entry model.QueueEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.QueueEntry{}).
			Where("machine_id = ? AND status IN ?", machineID, model.ActiveQueueStatuses).
			Count(&count).Error; err != nil {
			return err
		}

		entry = model.QueueEntry{
			MachineID: machineID,
			UserID:    userID,
			Position:  int(count) + 1,
			JoinedAt:  joinedAt,
			Status:    model.QueueWaiting,
		}
		return tx.Omit(clause.Associations).Create(&entry).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add user %d to queue of machine %d: %w", userID, machineID, translate(err))
	}
	return &entry, nil
}

// Count returns the number of waiting/notified entries for the machine.
func (s *QueueStore) Count(ctx context.Context, machineID int64) (int64, error) {
	var count int64
	if err := s.activeEntries(ctx, machineID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Get returns the entry or ErrNotFound.
func (s *QueueStore) Get(ctx context.Context, entryID int64) (*model.QueueEntry, error) {
	var entry model.QueueEntry
	if err := s.db.WithContext(ctx).First(&entry, entryID).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// FindWaitingNotified returns the machine's queue ordered by position.
func (s *QueueStore) FindWaitingNotified(ctx context.Context, machineID int64) ([]model.QueueEntry, error) {
	var entries []model.QueueEntry
	if err := s.activeEntries(ctx, machineID).Order("position").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load queue of machine %d: %w", machineID, err)
	}
	return entries, nil
}

// FindHeadWaiting returns the position-1 entry if it is still waiting, or nil.
func (s *QueueStore) FindHeadWaiting(ctx context.Context, machineID int64) (*model.QueueEntry, error) {
	return first[model.QueueEntry](s.db.WithContext(ctx).
		Where("machine_id = ? AND position = 1 AND status = ?", machineID, model.QueueWaiting))
}

// FindByUser returns the user's waiting/notified entry for the machine, or nil.
func (s *QueueStore) FindByUser(ctx context.Context, machineID, userID int64) (*model.QueueEntry, error) {
	return first[model.QueueEntry](s.activeEntries(ctx, machineID).Where("user_id = ?", userID))
}

// FindAllByUser returns every waiting/notified entry the user holds.
func (s *QueueStore) FindAllByUser(ctx context.Context, userID int64) ([]model.QueueEntry, error) {
	var entries []model.QueueEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, model.ActiveQueueStatuses).
		Order("joined_at").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load queue entries of user %d: %w", userID, err)
	}
	return entries, nil
}

// Remove physically deletes the entry.
func (s *QueueStore) Remove(ctx context.Context, entryID int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.QueueEntry{}, entryID).Error; err != nil {
		return fmt.Errorf("failed to remove queue entry %d: %w", entryID, err)
	}
	return nil
}

// ReorderAfterRemoval closes the gap left at removedPosition by moving every
// waiting entry behind it one place forward.
func (s *QueueStore) ReorderAfterRemoval(ctx context.Context, machineID int64, removedPosition int) error {
	err := s.db.WithContext(ctx).
		Model(&model.QueueEntry{}).
		Where("machine_id = ? AND position > ? AND status = ?", machineID, removedPosition, model.QueueWaiting).
		UpdateColumn("position", gorm.Expr("position - 1")).Error
	if err != nil {
		return fmt.Errorf("failed to reorder queue of machine %d: %w", machineID, err)
	}
	return nil
}

// Notify moves a waiting entry to notified and opens its confirmation window.
// ErrStale is returned when the entry is no longer waiting.
func (s *QueueStore) Notify(ctx context.Context, entryID int64, now time.Time, window time.Duration) (*model.QueueEntry, error) {
	res := s.db.WithContext(ctx).
		Model(&model.QueueEntry{}).
		Where("id = ? AND status = ?", entryID, model.QueueWaiting).
		Updates(map[string]any{
			"status":      model.QueueNotified,
			"notified_at": now,
			"expires_at":  now.Add(window),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to notify queue entry %d: %w", entryID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}
	return s.Get(ctx, entryID)
}

// FindExpired returns notified entries whose window closed before now.
func (s *QueueStore) FindExpired(ctx context.Context, now time.Time) ([]model.QueueEntry, error) {
	var entries []model.QueueEntry
	err := s.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", model.QueueNotified, now).
		Order("expires_at").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expired notifications: %w", err)
	}
	return entries, nil
}

// MarkExpired flags a notified entry as expired. The caller removes it afterwards.
func (s *QueueStore) MarkExpired(ctx context.Context, entryID int64) error {
	res := s.db.WithContext(ctx).
		Model(&model.QueueEntry{}).
		Where("id = ? AND status = ?", entryID, model.QueueNotified).
		Update("status", model.QueueExpired)
	if res.Error != nil {
		return fmt.Errorf("failed to expire queue entry %d: %w", entryID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}
