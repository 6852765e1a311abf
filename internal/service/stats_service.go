package service

import (
	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/repository"
)

type StatsService struct {
	userRepo  *repository.UserRepository
	videoRepo *repository.VideoRepository
	clipRepo  *repository.ClipRepository
	subRepo   *repository.SubscriptionRepository
}

func NewStatsService(
	userRepo *repository.UserRepository,
	videoRepo *repository.VideoRepository,
	clipRepo *repository.ClipRepository,
	subRepo *repository.SubscriptionRepository,
) *StatsService {
	return &StatsService{
		userRepo:  userRepo,
		videoRepo: videoRepo,
		clipRepo:  clipRepo,
		subRepo:   subRepo,
	}
}

// Overview 管理后台首页统计
func (s *StatsService) Overview() (*dto.VideoStats, error) {
	var (
		stats dto.VideoStats
		err   error
	)

	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalVideos, err = s.videoRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalClips, err = s.clipRepo.Count(); err != nil {
		return nil, err
	}
	if stats.StorageBytes, err = s.videoRepo.SumFileSize(0); err != nil {
		return nil, err
	}
	if stats.VideosByState, err = s.videoRepo.CountByStatus(); err != nil {
		return nil, err
	}
	if stats.ActiveSubs, err = s.subRepo.CountByStatus(model.SubscriptionStatusActive); err != nil {
		return nil, err
	}

	return &stats, nil
}
