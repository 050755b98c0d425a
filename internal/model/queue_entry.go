package model

import "time"

// QueueStatus is the state of a QueueEntry.
type QueueStatus string

const (
	QueueWaiting   QueueStatus = "waiting"
	QueueNotified  QueueStatus = "notified"
	QueueExpired   QueueStatus = "expired"
	QueueCancelled QueueStatus = "cancelled"
)

// ActiveQueueStatuses are the states that occupy a position in a machine's queue.
var ActiveQueueStatuses = []QueueStatus{QueueWaiting, QueueNotified}

// QueueEntry is a user's place in the FIFO queue of one machine.
// Positions of waiting/notified entries are 1..N per machine.
type QueueEntry struct {
	ID         int64       `gorm:"primaryKey" json:"id"`
	MachineID  int64       `gorm:"index:idx_queue_machine_position,priority:1;not null" json:"machineId"`
	UserID     int64       `gorm:"index;not null" json:"userId"`
	Position   int         `gorm:"index:idx_queue_machine_position,priority:2;not null" json:"position"`
	JoinedAt   time.Time   `gorm:"not null" json:"joinedAt"`
	NotifiedAt *time.Time  `json:"notifiedAt"`
	ExpiresAt  *time.Time  `gorm:"index" json:"expiresAt"`
	Status     QueueStatus `gorm:"size:16;not null;index" json:"status"`

	// Associations
	Machine Machine `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsNotified reports whether the entry is holding the notification slot.
func (e *QueueEntry) IsNotified() bool {
	return e.Status == QueueNotified
}

// NotificationExpired reports whether a notified entry's window has passed.
func (e *QueueEntry) NotificationExpired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}
