package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go_igreja_admin/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	testCases := []struct {
		name    string
		setup   func(cfg *config.Config)
		want    any
		wantErr bool
	}{
		{name: "正常系: log", setup: func(cfg *config.Config) { cfg.Mailer.Type = "log" }, want: &LogMailer{}},
		{name: "正常系: 未知の種類は log", setup: func(cfg *config.Config) { cfg.Mailer.Type = "fax" }, want: &LogMailer{}},
		{name: "正常系: smtp", setup: func(cfg *config.Config) { cfg.Mailer.Type = "smtp" }, want: &SmtpMailer{}},
		{
			name: "正常系: sendgrid",
			setup: func(cfg *config.Config) {
				cfg.Mailer.Type = "sendgrid"
				cfg.SendGrid = config.SendGridConfig{APIKey: "SG.key", From: "no-reply@example.com"}
			},
			want: &SendGridMailer{},
		},
		{name: "異常系: sendgrid の API キーなし", setup: func(cfg *config.Config) { cfg.Mailer.Type = "sendgrid" }, wantErr: true},
		{name: "異常系: ses の送信元なし", setup: func(cfg *config.Config) { cfg.Mailer.Type = "ses" }, wantErr: true},
		{
			name: "異常系: ses の静的認証情報なし",
			setup: func(cfg *config.Config) {
				cfg.Mailer.Type = "ses"
				cfg.SES = config.SESConfig{Region: "sa-east-1", AuthType: "static_credentials", From: "no-reply@example.com"}
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{}
			tc.setup(cfg)
			mailer, err := NewMailer(context.Background(), cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, mailer)
		})
	}
}

func TestSendGridMailer_Send(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		if gotBody["subject"] == "fail" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := &SendGridMailer{apiKey: "SG.key", from: "no-reply@example.com", fromName: "Igreja", baseURL: srv.URL + "/v3/mail/send"}

	t.Run("正常系: 送信", func(t *testing.T) {
		require.NoError(t, m.Send(context.Background(), "maria@example.com", "Redefinição de senha", "link"))
		assert.Equal(t, "Bearer SG.key", gotAuth)
		assert.Equal(t, "Redefinição de senha", gotBody["subject"])
	})

	t.Run("異常系: 4xx はエラー", func(t *testing.T) {
		assert.Error(t, m.Send(context.Background(), "maria@example.com", "fail", "link"))
	})
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func TestSESMailer_Send(t *testing.T) {
	t.Run("正常系: 件名と本文を UTF-8 で送る", func(t *testing.T) {
		fake := &fakeSES{}
		m := &SESMailer{client: fake, from: "no-reply@example.com"}

		require.NoError(t, m.Send(context.Background(), "maria@example.com", "Assunto", "Corpo"))
		require.NotNil(t, fake.input)
		assert.Equal(t, "no-reply@example.com", *fake.input.FromEmailAddress)
		assert.Equal(t, []string{"maria@example.com"}, fake.input.Destination.ToAddresses)
		assert.Equal(t, "Assunto", *fake.input.Content.Simple.Subject.Data)
		assert.Equal(t, "Corpo", *fake.input.Content.Simple.Body.Text.Data)
	})

	t.Run("異常系: API エラーを返す", func(t *testing.T) {
		m := &SESMailer{client: &fakeSES{err: errors.New("throttled")}, from: "no-reply@example.com"}
		assert.Error(t, m.Send(context.Background(), "maria@example.com", "Assunto", "Corpo"))
	})
}

func TestBuildMessage(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	msg := string(buildMessage("no-reply@example.com", "maria@example.com", "Redefinição de senha", "Acesse o link", at))

	header, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	assert.Contains(t, header, "From: no-reply@example.com\r\n")
	assert.Contains(t, header, "To: maria@example.com\r\n")
	assert.Contains(t, header, "Subject: =?UTF-8?q?")
	assert.NotContains(t, header, "Redefinição")
	assert.Contains(t, header, "Date: Sun, 10 Mar 2024 14:30:00 +0000")
	assert.Contains(t, header, "Content-Type: text/plain; charset=UTF-8")
	assert.Equal(t, "Acesse o link\r\n", body)
}

func TestSmtpMailer_Send(t *testing.T) {
	t.Run("異常系: 接続できなければエラー", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := ln.Addr().(*net.TCPAddr).Port
		require.NoError(t, ln.Close())

		m := NewSmtpMailer(&config.SMTPConfig{Host: "127.0.0.1", Port: port, From: "no-reply@example.com"})
		assert.Error(t, m.Send(context.Background(), "maria@example.com", "Assunto", "Corpo"))
	})
}
