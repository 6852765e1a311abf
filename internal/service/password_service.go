package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/repository"
)

var (
	ErrNewPasswordRequired      = errors.New("New password is required")
	ErrCurrentPasswordRequired  = errors.New("Current password is required")
	ErrPasswordTooShort         = errors.New("New password is too short")
	ErrPasswordTooLong          = errors.New("New password must be at most 72 bytes")
	ErrCurrentPasswordIncorrect = errors.New("Current password is incorrect")
)

// bcrypt 只使用前 72 字节
const maxPasswordBytes = 72

type PasswordService struct {
	userRepo *repository.UserRepository
	cfg      config.AuthConfig
	cost     int
}

func NewPasswordService(userRepo *repository.UserRepository, cfg config.AuthConfig) *PasswordService {
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 8
	}
	return &PasswordService{
		userRepo: userRepo,
		cfg:      cfg,
		cost:     bcrypt.DefaultCost,
	}
}

// WithCost 修改 bcrypt 成本，测试中使用 bcrypt.MinCost
func (s *PasswordService) WithCost(cost int) *PasswordService {
	s.cost = cost
	return s
}

// IsSocialAccount 账号标识带社交登录前缀
func (s *PasswordService) IsSocialAccount(account string) bool {
	return s.cfg.SocialAccountPrefix != "" && strings.HasPrefix(account, s.cfg.SocialAccountPrefix)
}

// ChangePassword 修改或首次设置密码
//
// 首次设置（没有密码，或社交账号）不校验当前密码；
// 其余情况必须提供并校验当前密码
func (s *PasswordService) ChangePassword(userID int64, account string, req *dto.ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return ErrNewPasswordRequired
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	// 当前密码是否必填取决于账号里是否已有密码
	social := s.IsSocialAccount(account)
	firstTimeSet := !user.HasPassword() || (social && !s.cfg.SocialRequiresCurrentPassword)

	if !firstTimeSet {
		if req.CurrentPassword == "" {
			return ErrCurrentPasswordRequired
		}
		err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrCurrentPasswordIncorrect
		}
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
	}

	if err := s.checkStrength(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(user.ID, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *PasswordService) checkStrength(password string) error {
	if len([]rune(password)) < s.cfg.MinPasswordLength {
		return fmt.Errorf("%w (minimum %d characters)", ErrPasswordTooShort, s.cfg.MinPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
