package repository

import (
	"context"

	"go-societe-admin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	WithTx(tx *gorm.DB) SettingRepository
	FindAll(ctx context.Context) ([]model.SystemSetting, error)
	Upsert(ctx context.Context, settings []model.SystemSetting) error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) WithTx(tx *gorm.DB) SettingRepository {
	return &settingRepo{tx}
}

func (r *settingRepo) FindAll(ctx context.Context) ([]model.SystemSetting, error) {
	var settings []model.SystemSetting
	err := r.db.WithContext(ctx).Order("key").Find(&settings).Error
	return settings, err
}

// Upsert inserts new keys and overwrites the value of existing ones
func (r *settingRepo) Upsert(ctx context.Context, settings []model.SystemSetting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&settings).Error
}
