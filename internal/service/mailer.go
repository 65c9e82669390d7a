package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/middleware"
)

// Mailer はパスワード再設定などの通知メールを送る
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer は送信せずにログへ出すだけ (開発用)
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	middleware.GetLogger(ctx).Info("Mail not sent (log mailer)", "to", to, "subject", subject, "body", body)
	return nil
}

// SmtpMailer は SMTP で送る。ユーザー名が空なら認証しない (MailHog など)。
type SmtpMailer struct {
	cfg *config.SMTPConfig
	now func() time.Time
}

func NewSmtpMailer(cfg *config.SMTPConfig) *SmtpMailer {
	return &SmtpMailer{cfg: cfg, now: time.Now}
}

func (m *SmtpMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	msg := buildMessage(m.cfg.From, to, subject, body, m.now())
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		logger.Error("Failed to send mail via SMTP", "error", err, "smtp_addr", addr, "to", to)
		return fmt.Errorf("SmtpMailer.Send: %w", err)
	}

	logger.Info("Mail sent via SMTP", "to", to, "subject", subject)
	return nil
}

// buildMessage はテキストメールを組み立てる。件名は RFC 2047 でエンコードする。
func buildMessage(from, to, subject, body string, at time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", at.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.Bytes()
}

// NewMailer は mailer.type に応じて送信方法を選ぶ。未知の種類はログ出力になる。
func NewMailer(ctx context.Context, cfg *config.Config) (Mailer, error) {
	var (
		mailer Mailer
		err    error
	)
	switch cfg.Mailer.Type {
	case "smtp":
		mailer = NewSmtpMailer(&cfg.SMTP)
	case "ses":
		mailer, err = NewSESMailer(ctx, &cfg.SES)
	case "sendgrid":
		mailer, err = NewSendGridMailer(&cfg.SendGrid)
	case "log", "":
		mailer = &LogMailer{}
	default:
		slog.Default().Warn("Unknown mailer type, falling back to log mailer", "type", cfg.Mailer.Type)
		mailer = &LogMailer{}
	}
	if err != nil {
		return nil, err
	}
	slog.Default().Info("Mailer initialized", "type", fmt.Sprintf("%T", mailer))
	return mailer, nil
}
