package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-queue-backend/internal/model"
)

// SubscriptionStore persists web push subscriptions.
type SubscriptionStore struct {
	db *gorm.DB
}

// NewSubscriptionStore creates a GORM-backed subscription store.
func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Upsert creates the subscription or re-keys an existing endpoint.
func (s *SubscriptionStore) Upsert(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

// ListByUser returns the user's subscriptions.
func (s *SubscriptionStore) ListByUser(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Delete removes an endpoint. Deleting a missing endpoint is not an error.
func (s *SubscriptionStore) Delete(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

// DeleteForUser removes an endpoint only if it belongs to userID.
func (s *SubscriptionStore) DeleteForUser(ctx context.Context, userID int64, endpoint string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("endpoint = ? AND user_id = ?", endpoint, userID).
		Delete(&model.PushSubscription{})
	return res.RowsAffected > 0, res.Error
}
