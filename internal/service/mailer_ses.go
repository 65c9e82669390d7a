package service

import (
	"context"
	"errors"
	"log/slog"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI は SESMailer が使う sesv2.Client のメソッド
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer は AWS SES を使ってメールを送信する実装です
type SESMailer struct {
	client sesAPI
	from   string
}

// NewSESMailer は設定に応じて認証方法を切り替えてSESクライアントを生成します
func NewSESMailer(ctx context.Context, cfg *config.SESConfig) (*SESMailer, error) {
	if cfg.From == "" {
		return nil, errors.New("ses.from is required")
	}

	awsCfgOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	switch cfg.AuthType {
	case "static_credentials":
		slog.Info("Configuring SES with static credentials.")
		if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
			return nil, errors.New("ses auth_type is static_credentials but access_key_id or secret_access_key is missing")
		}
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))
	case "iam_role":
		// SDK のデフォルトの認証情報チェーンに任せる
		slog.Info("Configuring SES with IAM Role credentials.")
	default:
		slog.Warn("Unknown SES auth_type specified, defaulting to IAM Role.", "type", cfg.AuthType)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsCfgOpts...)
	if err != nil {
		return nil, err
	}
	return &SESMailer{client: sesv2.NewFromConfig(awsCfg), from: cfg.From}, nil
}

// Send は AWS SES を使用してメールを送信します
func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		logger.Error("Failed to send email via SES", "error", err, "to", to)
		return err
	}

	logger.Info("Email sent successfully via SES", "to", to, "subject", subject)
	return nil
}
