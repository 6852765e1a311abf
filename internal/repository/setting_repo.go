package repository

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/editur/editur_server/internal/model"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(section string) (*model.AppSetting, error) {
	var setting model.AppSetting
	err := r.db.Where("section = ?", section).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *SettingRepository) List() ([]*model.AppSetting, error) {
	var settings []*model.AppSetting
	err := r.db.Order("section ASC").Find(&settings).Error
	return settings, err
}

func (r *SettingRepository) Upsert(section string, value []byte) error {
	return upsertSetting(r.db, section, value)
}

// SaveAll 在一个事务中写入全部配置分组和品牌配置行
func (r *SettingRepository) SaveAll(sections map[string][]byte, branding *model.BrandingSettings) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for section, value := range sections {
			if err := upsertSetting(tx, section, value); err != nil {
				return err
			}
		}
		if branding != nil {
			if err := tx.Save(branding).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertSetting(db *gorm.DB, section string, value []byte) error {
	setting := &model.AppSetting{
		Section: section,
		Value:   datatypes.JSON(value),
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}
