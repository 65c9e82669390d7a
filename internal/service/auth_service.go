package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/repository"
	"go_igreja_admin/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService は認証まわりの協調処理。会員データの操作は Storage が担う。
type AuthService interface {
	RegisterIgreja(ctx context.Context, req *model.RegisterRequest) (*model.Igreja, *model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, username string) error
	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error
}

// IgrejaBootstrapper は教会と最初の管理者を作成できるもの (*Storage が実装する)
type IgrejaBootstrapper interface {
	BootstrapIgreja(ctx context.Context, igreja *model.IgrejaInput, admin *model.UserInput) (*model.Igreja, *model.User, error)
}

type authService struct {
	users     repository.UserRepository
	bootstrap IgrejaBootstrapper
	mailer    Mailer
	cfg       *config.Config
	now       func() time.Time
}

// NewAuthService は AuthService の新しいインスタンスを生成します
func NewAuthService(users repository.UserRepository, bootstrap IgrejaBootstrapper, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		users:     users,
		bootstrap: bootstrap,
		mailer:    mailer,
		cfg:       cfg,
		now:       time.Now,
	}
}

func authFailed() error {
	return model.NewAppError("AUTHENTICATION_FAILED", "Usuário ou senha inválidos.", "", model.ErrForbidden)
}

// RegisterIgreja は新しい教会と最初の管理者を登録します
func (s *authService) RegisterIgreja(ctx context.Context, req *model.RegisterRequest) (*model.Igreja, *model.User, error) {
	logger := middleware.GetLogger(ctx)

	igreja, admin, err := s.bootstrap.BootstrapIgreja(ctx, &req.Igreja, &req.Admin)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Username already exists", "username", req.Admin.Username)
			return nil, nil, model.NewAppError("DUPLICATE_USERNAME", "Este nome de usuário já está em uso.", "username", model.ErrConflict)
		}
		return nil, nil, err
	}

	logger.Info("Igreja registered", "igreja_id", igreja.ID, "admin_id", admin.ID)
	return igreja, admin, nil
}

// Login はユーザーを認証し、JWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	logger := middleware.GetLogger(ctx).With("username", req.Username)

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, authFailed()
		}
		logger.Error("Login failed: db error on GetByUsername", "error", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.ID)
		return nil, authFailed()
	}
	if user.IgrejaID == nil || *user.IgrejaID == 0 {
		logger.Error("Login failed: user without igreja", "user_id", user.ID)
		return nil, authFailed()
	}

	ttl := s.cfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = config.DefaultAccessTokenTTL
	}
	now := s.now()
	claims := &model.AuthClaims{
		IgrejaID: *user.IgrejaID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.App.Name,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.ID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Falha ao gerar o token.", "", err)
	}

	logger.Info("Login successful", "user_id", user.ID, "igreja_id", *user.IgrejaID)
	return &model.LoginResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		User:        user,
	}, nil
}

// RequestPasswordReset は再設定リンクをメールで送ります。
// 存在しないユーザーやメール未登録でも成功として扱う。
func (s *authService) RequestPasswordReset(ctx context.Context, username string) error {
	logger := middleware.GetLogger(ctx).With("username", username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Password reset requested for non-existent user")
			return nil
		}
		return err
	}
	if user.Email == nil || *user.Email == "" {
		logger.Warn("Password reset requested for user without email", "user_id", user.ID)
		return nil
	}

	ttl := s.cfg.Auth.ResetTokenTTL
	if ttl <= 0 {
		ttl = config.DefaultResetTokenTTL
	}
	token, err := s.users.CreateResetToken(ctx, username, ttl)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.App.FrontendURL, token)
	subject := "Redefinição de senha"
	body := fmt.Sprintf("Para redefinir sua senha, acesse o link abaixo:\n%s\n\nEste link expira em %s.", resetURL, ttl)

	if err := s.mailer.Send(ctx, *user.Email, subject, body); err != nil {
		return model.NewAppError("EMAIL_SEND_FAILED", "Falha ao enviar o e-mail.", "", fmt.Errorf("%w: %v", model.ErrInternalServer, err))
	}

	logger.Info("Password reset email sent", "user_id", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	if err := s.users.ResetPassword(ctx, req); err != nil {
		return err
	}
	middleware.GetLogger(ctx).Info("Password reset successfully")
	return nil
}
