package model

import "time"

// MachineCategory distinguishes washers from dryers.
type MachineCategory string

const (
	CategoryWasher MachineCategory = "washer"
	CategoryDryer  MachineCategory = "dryer"
)

// MachineStatus is the operational state of a machine.
type MachineStatus string

const (
	MachineAvailable   MachineStatus = "available"
	MachineOccupied    MachineStatus = "occupied"
	MachineMaintenance MachineStatus = "maintenance"
)

// Bounds for Machine.DefaultDurationMinutes.
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 180
)

// Machine represents a single-occupant washer or dryer owned by an operator.
// Status is occupied exactly when ActiveSessionID points at an active UsageSession.
type Machine struct {
	ID                     int64           `gorm:"primaryKey" json:"id"`
	OwnerID                int64           `gorm:"index;not null" json:"ownerId"`
	Name                   string          `gorm:"size:128;not null" json:"name"`
	Category               MachineCategory `gorm:"size:16;not null" json:"type"`
	DefaultDurationMinutes int             `gorm:"not null" json:"defaultDuration"`
	Status                 MachineStatus   `gorm:"size:16;not null;index" json:"status"`
	ActiveSessionID        *int64          `json:"activeSessionId"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// DefaultDuration returns the machine's cycle length.
func (m *Machine) DefaultDuration() time.Duration {
	return time.Duration(m.DefaultDurationMinutes) * time.Minute
}
