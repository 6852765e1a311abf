package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/jwt"
	"github.com/editur/editur_server/internal/pkg/oauth"
	"github.com/editur/editur_server/internal/repository"
)

// 本地注册账号的标识前缀
const localAccountPrefix = "local_"

var (
	ErrEmailExists          = errors.New("Email is already registered")
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrRegistrationDisabled = errors.New("Registration is currently disabled")
	ErrOAuthFailed          = errors.New("GitHub login failed")
	ErrInvalidOAuthState    = errors.New("Invalid or expired login state")
	ErrUserNotFound         = errors.New("User not found")
)

// GithubProvider GitHub OAuth 所需的操作
type GithubProvider interface {
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	GetUser(ctx context.Context, token *oauth2.Token) (*oauth.GithubUser, error)
}

// LocalAccount 本地账号标识
func LocalAccount(userID int64) string {
	return localAccountPrefix + strconv.FormatInt(userID, 10)
}

type AuthService struct {
	userRepo   *repository.UserRepository
	subRepo    *repository.SubscriptionRepository
	planRepo   *repository.PlanRepository
	settings   *SettingsService
	github     GithubProvider
	stateStore *oauth.StateStore
	cfg        *config.Config
	logger     zerolog.Logger
	bcryptCost int
}

func NewAuthService(
	userRepo *repository.UserRepository,
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	settings *SettingsService,
	github GithubProvider,
	stateStore *oauth.StateStore,
	cfg *config.Config,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		subRepo:    subRepo,
		planRepo:   planRepo,
		settings:   settings,
		github:     github,
		stateStore: stateStore,
		cfg:        cfg,
		logger:     logger.With().Str("service", "auth").Logger(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithCost 修改 bcrypt 成本，测试中使用 bcrypt.MinCost
func (s *AuthService) WithCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	settings, err := s.settings.GetSettings()
	if err != nil {
		return nil, err
	}
	if !settings.General.AllowRegistration {
		return nil, ErrRegistrationDisabled
	}

	email := normalizeEmail(req.Email)
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	user := &model.User{
		Email:        email,
		PasswordHash: &passwordStr,
		Role:         model.RoleUser,
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = &name
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.createDefaultSubscription(user.ID, &settings.Subscription)

	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 只通过 GitHub 登录过的账号没有密码
	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user, LocalAccount(user.ID))
}

// GithubAuthURL 生成 state 并返回 GitHub 授权地址
func (s *AuthService) GithubAuthURL(ctx context.Context, redirectURI string) (string, error) {
	state, err := s.stateStore.GenerateState(ctx, redirectURI)
	if err != nil {
		return "", err
	}
	return s.github.GetAuthURL(state), nil
}

// GithubCallback 处理 GitHub 回调，返回登录结果和登录前保存的跳转地址
func (s *AuthService) GithubCallback(ctx context.Context, code, state string) (*dto.LoginResponse, string, error) {
	stateData, err := s.stateStore.ValidateState(ctx, state)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidState) || errors.Is(err, oauth.ErrEmptyState) {
			return nil, "", ErrInvalidOAuthState
		}
		return nil, "", err
	}

	token, err := s.github.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("github code exchange failed")
		return nil, "", ErrOAuthFailed
	}

	githubUser, err := s.github.GetUser(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("github user lookup failed")
		return nil, "", ErrOAuthFailed
	}

	user, err := s.findOrCreateGithubUser(githubUser)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.issueToken(user, githubUser.Account(s.cfg.Auth.SocialAccountPrefix))
	if err != nil {
		return nil, "", err
	}
	return resp, stateData.RedirectURI, nil
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) findOrCreateGithubUser(gu *oauth.GithubUser) (*model.User, error) {
	githubID := strconv.FormatInt(gu.ID, 10)

	user, err := s.userRepo.GetByGithubID(githubID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if gu.Email == "" {
		return nil, fmt.Errorf("%w: no verified email on GitHub account", ErrOAuthFailed)
	}
	email := normalizeEmail(gu.Email)

	// 同邮箱的本地账号直接绑定 GitHub
	user, err = s.userRepo.GetByEmail(email)
	if err == nil {
		fields := map[string]interface{}{"github_id": githubID}
		if user.Image == nil && gu.AvatarURL != "" {
			fields["image"] = gu.AvatarURL
		}
		if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
			return nil, err
		}
		user.GithubID = &githubID
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings, err := s.settings.GetSettings()
	if err != nil {
		return nil, err
	}
	if !settings.General.AllowRegistration {
		return nil, ErrRegistrationDisabled
	}

	name := gu.DisplayName()
	user = &model.User{
		Email:    email,
		Name:     &name,
		Role:     model.RoleUser,
		GithubID: &githubID,
	}
	if gu.AvatarURL != "" {
		user.Image = &gu.AvatarURL
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.createDefaultSubscription(user.ID, &settings.Subscription)
	return user, nil
}

// createDefaultSubscription 为新用户开通默认套餐，失败只记录日志
func (s *AuthService) createDefaultSubscription(userID int64, cfg *dto.SubscriptionSection) {
	sub := &model.Subscription{
		UserID:         userID,
		Plan:           cfg.DefaultPlan,
		Status:         model.SubscriptionStatusActive,
		StartDate:      time.Now(),
		MinutesAllowed: cfg.FreeMinutes,
	}
	if sub.Plan == "" {
		sub.Plan = "free"
	}

	plan, err := s.planRepo.GetByName(sub.Plan)
	if err == nil {
		sub.PlanID = &plan.ID
		sub.MinutesAllowed = plan.MinutesAllowed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn().Err(err).Str("plan", sub.Plan).Msg("failed to look up default plan")
	}

	if err := s.subRepo.Create(sub); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create default subscription")
	}
}

func (s *AuthService) issueToken(user *model.User, account string) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, account, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  buildUserInfo(user, nil),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
