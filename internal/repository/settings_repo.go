package repository

import (
	"context"

	"gorm.io/gorm"

	"megapost/internal/model"
)

// SettingsRepository tenant settings repository interface
type SettingsRepository interface {
	// List all tenant configurations
	ListAll(ctx context.Context) ([]*model.UserSetting, error)
}

// settingsRepository tenant settings repository implementation
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// ListAll lists all tenant configurations
func (r *settingsRepository) ListAll(ctx context.Context) ([]*model.UserSetting, error) {
	var settings []*model.UserSetting
	err := r.db.WithContext(ctx).Find(&settings).Error
	return settings, err
}
