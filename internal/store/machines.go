package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-queue-backend/internal/model"
)

// MachineStore is the authoritative record of machine status and the
// active-session pointer. It performs plain writes; callers keep the
// status/pointer pair consistent.
type MachineStore struct {
	db *gorm.DB
}

// NewMachineStore creates a GORM-backed machine store.
func NewMachineStore(db *gorm.DB) *MachineStore {
	return &MachineStore{db: db}
}

// Create inserts a new machine in the available state.
func (s *MachineStore) Create(ctx context.Context, m *model.Machine) error {
	m.Status = model.MachineAvailable
	m.ActiveSessionID = nil
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create machine %q: %w", m.Name, translate(err))
	}
	return nil
}

// Get returns the machine or ErrNotFound.
func (s *MachineStore) Get(ctx context.Context, machineID int64) (*model.Machine, error) {
	var m model.Machine
	if err := s.db.WithContext(ctx).First(&m, machineID).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// List returns every machine ordered by id.
func (s *MachineStore) List(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Order("id").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

// ListByOwner returns the machines owned by one operator.
func (s *MachineStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

// SetStatus overwrites the status and session pointer.
func (s *MachineStore) SetStatus(ctx context.Context, machineID int64, status model.MachineStatus, sessionID *int64) error {
	res := s.db.WithContext(ctx).
		Model(&model.Machine{}).
		Where("id = ?", machineID).
		Updates(map[string]any{"status": status, "active_session_id": sessionID})
	if res.Error != nil {
		return fmt.Errorf("failed to set status of machine %d: %w", machineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CompareAndSetStatus moves the machine from one status to another in a
// single conditional UPDATE. It returns false when the machine was not in
// the expected status.
func (s *MachineStore) CompareAndSetStatus(ctx context.Context, machineID int64, from, to model.MachineStatus, sessionID *int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Machine{}).
		Where("id = ? AND status = ?", machineID, from).
		Updates(map[string]any{"status": to, "active_session_id": sessionID})
	if res.Error != nil {
		return false, fmt.Errorf("failed to swap status of machine %d: %w", machineID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
