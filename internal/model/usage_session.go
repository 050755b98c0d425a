package model

import "time"

// SessionStatus is the lifecycle state of a UsageSession.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// UsageSession records one user's exclusive occupation of a machine.
// Rows are immutable once they leave the active state.
type UsageSession struct {
	ID               int64         `gorm:"primaryKey" json:"id"`
	MachineID        int64         `gorm:"index;not null" json:"machineId"`
	UserID           int64         `gorm:"index;not null" json:"userId"`
	StartTime        time.Time     `gorm:"not null" json:"startTime"`
	EstimatedEndTime time.Time     `gorm:"not null;index" json:"estimatedEndTime"`
	ActualEndTime    *time.Time    `json:"actualEndTime"`
	Status           SessionStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`

	// Associations
	Machine Machine `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsActive reports whether the session still holds its machine.
func (s *UsageSession) IsActive() bool {
	return s.Status == SessionActive
}

// MinutesRemaining is the whole number of minutes until the estimated end, floored at zero.
func (s *UsageSession) MinutesRemaining(now time.Time) int {
	remaining := s.EstimatedEndTime.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Minute)
}
