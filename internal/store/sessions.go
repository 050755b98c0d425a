package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-queue-backend/internal/model"
)

const defaultHistoryLimit = 10

// SessionStore persists usage sessions.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a GORM-backed session store.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts an active session. A second active session for the same
// user or machine is rejected with ErrDuplicate.
func (s *SessionStore) Create(ctx context.Context, machineID, userID int64, start, estimatedEnd time.Time) (*model.UsageSession, error) {
	session := model.UsageSession{
		MachineID:        machineID,
		UserID:           userID,
		StartTime:        start,
		EstimatedEndTime: estimatedEnd,
		Status:           model.SessionActive,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session on machine %d for user %d: %w", machineID, userID, translate(err))
	}
	return &session, nil
}

// Get returns the session or ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, sessionID int64) (*model.UsageSession, error) {
	var session model.UsageSession
	if err := s.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// Delete removes a session row. Used to roll back a session that never
// got bound to its machine.
func (s *SessionStore) Delete(ctx context.Context, sessionID int64) error {
	return s.db.WithContext(ctx).Delete(&model.UsageSession{}, sessionID).Error
}

// Finish moves an active session to outcome and stamps the actual end time.
// The update only applies while the row is active; the current row is always
// returned, and transitioned reports whether this call made the change.
func (s *SessionStore) Finish(ctx context.Context, sessionID int64, outcome model.SessionStatus, at time.Time) (session *model.UsageSession, transitioned bool, err error) {
	res := s.db.WithContext(ctx).
		Model(&model.UsageSession{}).
		Where("id = ? AND status = ?", sessionID, model.SessionActive).
		Updates(map[string]any{"status": outcome, "actual_end_time": at})
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to finish session %d: %w", sessionID, res.Error)
	}

	session, err = s.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return session, res.RowsAffected == 1, nil
}

// FindActiveByUser returns the user's active session, or nil.
func (s *SessionStore) FindActiveByUser(ctx context.Context, userID int64) (*model.UsageSession, error) {
	return first[model.UsageSession](s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SessionActive).
		Order("start_time DESC"))
}

// FindActiveByMachine returns the machine's active session, or nil.
func (s *SessionStore) FindActiveByMachine(ctx context.Context, machineID int64) (*model.UsageSession, error) {
	return first[model.UsageSession](s.db.WithContext(ctx).
		Where("machine_id = ? AND status = ?", machineID, model.SessionActive).
		Order("start_time DESC"))
}

// FindOverdue returns active sessions whose estimated end is more than
// grace before now.
func (s *SessionStore) FindOverdue(ctx context.Context, now time.Time, grace time.Duration) ([]model.UsageSession, error) {
	var sessions []model.UsageSession
	err := s.db.WithContext(ctx).
		Where("status = ? AND estimated_end_time < ?", model.SessionActive, now.Add(-grace)).
		Order("estimated_end_time").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue sessions: %w", err)
	}
	return sessions, nil
}

// HistoryByUser returns the user's most recent sessions, newest first.
func (s *SessionStore) HistoryByUser(ctx context.Context, userID int64, limit int) ([]model.UsageSession, error) {
	return s.history(ctx, "user_id = ?", userID, limit)
}

// HistoryByMachine returns the machine's most recent sessions, newest first.
func (s *SessionStore) HistoryByMachine(ctx context.Context, machineID int64, limit int) ([]model.UsageSession, error) {
	return s.history(ctx, "machine_id = ?", machineID, limit)
}

func (s *SessionStore) history(ctx context.Context, cond string, id int64, limit int) ([]model.UsageSession, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var sessions []model.UsageSession
	err := s.db.WithContext(ctx).
		Where(cond, id).
		Order("start_time DESC").Order("id DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query session history: %w", err)
	}
	return sessions, nil
}
