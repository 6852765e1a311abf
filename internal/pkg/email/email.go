package email

import (
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("smtp is not configured")

// SMTPConfig 发信参数，来自后台邮件设置
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c SMTPConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SendFunc 与 smtp.SendMail 同签名，便于测试替换
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Sender struct {
	send SendFunc
}

func NewSender() *Sender {
	return &Sender{send: smtp.SendMail}
}

// NewSenderWithFunc 使用自定义发送函数
func NewSenderWithFunc(fn SendFunc) *Sender {
	return &Sender{send: fn}
}

// SendTest 发送测试邮件，验证后台填写的 SMTP 参数
func (s *Sender) SendTest(cfg SMTPConfig, to, siteName string) error {
	subject := fmt.Sprintf("%s - SMTP test", siteName)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #3B82F6;">Email settings are working</h2>
        <p>This message was sent from the %s admin panel at %s.</p>
        <p style="color: #6b7280; font-size: 12px;">You can ignore this email.</p>
    </div>
</body>
</html>
`, siteName, time.Now().UTC().Format(time.RFC1123))

	return s.sendHTML(cfg, to, subject, body)
}

func (s *Sender) sendHTML(cfg SMTPConfig, to, subject, body string) error {
	if cfg.Host == "" || cfg.Port == 0 || cfg.FromEmail == "" {
		return ErrNotConfigured
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	msg := BuildMessage(cfg, to, subject, "text/html; charset=UTF-8", body)
	if err := s.send(cfg.addr(), auth, cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// BuildMessage 拼装 RFC 5322 邮件，头部顺序固定
func BuildMessage(cfg SMTPConfig, to, subject, contentType, body string) []byte {
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", cfg.FromName), cfg.FromEmail)
	}

	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", contentType},
	}

	var msg strings.Builder
	for _, h := range headers {
		msg.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}
