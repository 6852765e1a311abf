package repository

import (
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
)

type ClipRepository struct {
	db *gorm.DB
}

func NewClipRepository(db *gorm.DB) *ClipRepository {
	return &ClipRepository{db: db}
}

func (r *ClipRepository) Create(clip *model.Clip) error {
	return r.db.Create(clip).Error
}

func (r *ClipRepository) GetByID(id int64) (*model.Clip, error) {
	var clip model.Clip
	err := r.db.Where("id = ?", id).First(&clip).Error
	if err != nil {
		return nil, err
	}
	return &clip, nil
}

func (r *ClipRepository) ListByVideo(videoID int64) ([]*model.Clip, error) {
	var clips []*model.Clip
	err := r.db.Where("video_id = ?", videoID).Order("start_time ASC").Find(&clips).Error
	return clips, err
}

func (r *ClipRepository) Delete(id int64) error {
	return r.db.Delete(&model.Clip{}, id).Error
}

func (r *ClipRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Clip{}).Count(&count).Error
	return count, err
}
