package service

import (
	"context"
	"errors"
	"fmt"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/middleware"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer は SendGrid の v3 API でメールを送る
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
	baseURL  string // 空なら SendGrid の本番エンドポイント
}

func NewSendGridMailer(cfg *config.SendGridConfig) (*SendGridMailer, error) {
	if cfg.APIKey == "" || cfg.From == "" {
		return nil, errors.New("sendgrid.api_key and sendgrid.from are required")
	}
	return &SendGridMailer{apiKey: cfg.APIKey, from: cfg.From, fromName: cfg.FromName}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)

	message := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.from),
		subject,
		mail.NewEmail("", to),
		body,
		"",
	)

	client := sendgrid.NewSendClient(m.apiKey)
	if m.baseURL != "" {
		client.BaseURL = m.baseURL
	}
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.Error("Failed to send email via SendGrid", "error", err, "to", to)
		return fmt.Errorf("sendgrid: %w", err)
	}
	if response.StatusCode >= 400 {
		logger.Error("SendGrid rejected email", "status", response.StatusCode, "body", response.Body, "to", to)
		return fmt.Errorf("sendgrid: status %d", response.StatusCode)
	}

	logger.Info("Email sent successfully via SendGrid", "to", to, "subject", subject)
	return nil
}
