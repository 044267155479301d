package store

import (
	"context"
	"errors"
	"time"

	"vritti/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps one models.ProfileEntry row per (device, key).
type GormBackend struct {
	DB *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{DB: db}
}

func (g *GormBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var entry models.ProfileEntry
	err := g.DB.WithContext(ctx).
		Where("device_id = ? AND key = ?", scope, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", key, err)
	}
	return entry.Value, true, nil
}

// Set upserts the value. Concurrent writers to the same key resolve
// last-write-wins.
func (g *GormBackend) Set(ctx context.Context, scope, key, value string) error {
	now := time.Now()
	entry := models.ProfileEntry{
		DeviceID:  scope,
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := g.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return unavailable("set", key, err)
	}
	return nil
}
