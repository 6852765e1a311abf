package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/pkg/email"
)

var (
	ErrEmailNotConfigured = errors.New("SMTP settings are incomplete")
	ErrEmailSendFailed    = errors.New("Failed to send test email")
)

type EmailService struct {
	settings *SettingsService
	sender   *email.Sender
	logger   zerolog.Logger
}

func NewEmailService(settings *SettingsService, sender *email.Sender, logger zerolog.Logger) *EmailService {
	return &EmailService{
		settings: settings,
		sender:   sender,
		logger:   logger.With().Str("service", "email").Logger(),
	}
}

// SendTest 用已保存的邮件配置发送测试邮件
func (s *EmailService) SendTest(to string) error {
	section, siteName, err := s.settings.GetEmailSection()
	if err != nil {
		return err
	}

	cfg := email.SMTPConfig{
		Host:      section.SMTPHost,
		Port:      section.SMTPPort,
		Username:  section.SMTPUser,
		Password:  section.SMTPPassword,
		FromEmail: section.FromEmail,
		FromName:  section.FromName,
	}

	if err := s.sender.SendTest(cfg, to, siteName); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return ErrEmailNotConfigured
		}
		s.logger.Warn().Err(err).Str("host", cfg.Host).Msg("test email failed")
		return fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}

	s.logger.Info().Str("to", to).Msg("test email sent")
	return nil
}
