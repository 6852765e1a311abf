package service

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/repository"
)

var ErrVideoNotFound = errors.New("Video not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type VideoService struct {
	videoRepo *repository.VideoRepository
	logger    zerolog.Logger
}

func NewVideoService(videoRepo *repository.VideoRepository, logger zerolog.Logger) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		logger:    logger.With().Str("service", "video").Logger(),
	}
}

// List 当前用户的视频列表
func (s *VideoService) List(userID int64, req *dto.ListVideosRequest) ([]*model.Video, int64, int, int, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	videos, total, err := s.videoRepo.ListByUser(userID, req.Status, page, pageSize)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return videos, total, page, pageSize, nil
}

// Get 视频详情（含片段），只能查看自己的视频
func (s *VideoService) Get(userID, videoID int64) (*model.Video, error) {
	video, err := s.videoRepo.GetByIDWithClips(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.UserID != userID {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

// Delete 删除视频和全部片段；非本人的视频按不存在处理
func (s *VideoService) Delete(userID, videoID int64) error {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	if video.UserID != userID {
		return ErrVideoNotFound
	}

	if err := s.videoRepo.DeleteWithClips(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	s.logger.Info().Int64("video_id", videoID).Int64("user_id", userID).Msg("video deleted")
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
