package repository

import (
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
)

type BrandingRepository struct {
	db *gorm.DB
}

func NewBrandingRepository(db *gorm.DB) *BrandingRepository {
	return &BrandingRepository{db: db}
}

// Get 返回唯一的品牌配置行，不存在时返回 gorm.ErrRecordNotFound
func (r *BrandingRepository) Get() (*model.BrandingSettings, error) {
	var branding model.BrandingSettings
	err := r.db.Order("id ASC").First(&branding).Error
	if err != nil {
		return nil, err
	}
	return &branding, nil
}

// Save 新建或更新品牌配置
func (r *BrandingRepository) Save(branding *model.BrandingSettings) error {
	return r.db.Save(branding).Error
}
