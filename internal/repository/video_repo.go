package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) GetByIDWithClips(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Clips", func(db *gorm.DB) *gorm.DB {
		return db.Order("start_time ASC")
	}).Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// ListByUser 分页获取用户视频，status 为空时不过滤
func (r *VideoRepository) ListByUser(userID int64, status string, page, pageSize int) ([]*model.Video, int64, error) {
	var videos []*model.Video
	var total int64

	query := r.db.Model(&model.Video{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("uploaded_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// UpdateStatus 更新处理状态，进入 done/error 时记录处理完成时间
func (r *VideoRepository) UpdateStatus(id int64, status string, errorMessage *string) error {
	fields := map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
	}
	if status == model.VideoStatusDone || status == model.VideoStatusError {
		fields["processed_at"] = time.Now()
	}
	return r.db.Model(&model.Video{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteWithClips 在同一事务中删除视频及其全部片段
func (r *VideoRepository) DeleteWithClips(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.Clip{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Video{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *VideoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Video{}).Count(&count).Error
	return count, err
}

// CountByStatus 按状态分组统计视频数
func (r *VideoRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.Model(&model.Video{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

// SumFileSize 统计文件总大小，userID 为 0 时统计全部
func (r *VideoRepository) SumFileSize(userID int64) (int64, error) {
	var total int64
	query := r.db.Model(&model.Video{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Select("COALESCE(SUM(file_size), 0)").Scan(&total).Error
	return total, err
}
