package repository

import (
	"context"
	"fmt"
	"time"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/querybuilder"
	"go_igreja_admin/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, igrejaID uint, input *model.UserInput) (*model.User, error)
	GetAll(ctx context.Context, igrejaID uint) ([]model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, igrejaID, id uint, patch *model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, igrejaID, id uint) error
	CreateResetToken(ctx context.Context, username string, ttl time.Duration) (string, error)
	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error
}

type gormUserRepository struct {
	base *BaseRepository[model.User]
	now  func() time.Time
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{
		base: NewBaseRepository[model.User](db, "gormUserRepository"),
		now:  time.Now,
	}
}

// newUser は入力からパスワードをハッシュ化したユーザーを作る
func newUser(igrejaID uint, input *model.UserInput) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "falha ao processar a senha", "", err)
	}
	return &model.User{
		IgrejaID:     &igrejaID,
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         input.Role,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Avatar:       input.Avatar,
	}, nil
}

func (r *gormUserRepository) Create(ctx context.Context, igrejaID uint, input *model.UserInput) (*model.User, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	user, err := newUser(igrejaID, input)
	if err != nil {
		return nil, err
	}
	if err := r.base.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *gormUserRepository) GetAll(ctx context.Context, igrejaID uint) ([]model.User, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	return r.base.FindWhere(ctx, querybuilder.Filter{
		Conditions: []querybuilder.Condition{querybuilder.Eq("igreja_id", igrejaID)},
		Order:      []querybuilder.Order{{Field: "username"}},
	})
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := r.base.Find(ctx, FindOptions{Where: map[string]any{"username": username}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		middleware.GetLogger(ctx).Debug("User not found by username", "username", username)
		return nil, model.ErrNotFound
	}
	return &users[0], nil
}

func (r *gormUserRepository) Update(ctx context.Context, igrejaID, id uint, patch *model.UserPatch) (*model.User, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	var updated *model.User
	err := r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		var err error
		updated, err = r.base.update(ctx, tx, id, patch.ToUpdates())
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *gormUserRepository) Delete(ctx context.Context, igrejaID, id uint) error {
	return r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		_, err := r.base.delete(ctx, tx, id)
		return err
	})
}

// CreateResetToken はパスワード再設定用のトークンを発行して保存する
func (r *gormUserRepository) CreateResetToken(ctx context.Context, username string, ttl time.Duration) (string, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	expiresAt := r.now().Add(ttl).UTC()
	_, err = r.base.Update(ctx, user.ID, map[string]any{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword は有効なトークンでパスワードを更新し、トークンを無効化する
func (r *gormUserRepository) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	logger := middleware.GetLogger(ctx)
	if err := validation.Struct(req); err != nil {
		return err
	}

	return r.base.Transaction(ctx, func(tx *gorm.DB) error {
		var users []model.User
		if err := tx.WithContext(ctx).Where("reset_token = ?", req.Token).Limit(1).Find(&users).Error; err != nil {
			return fmt.Errorf("gormUserRepository.ResetPassword: %w", err)
		}
		if len(users) == 0 {
			logger.Warn("Password reset token not found")
			return model.NewAppError("INVALID_TOKEN", "token inválido ou já utilizado", "token", model.ErrInvalidInput)
		}
		user := users[0]
		if user.ResetTokenExpiresAt == nil || r.now().After(*user.ResetTokenExpiresAt) {
			logger.Warn("Password reset token expired", "user_id", user.ID)
			return model.NewAppError("INVALID_TOKEN", "token expirado", "token", model.ErrInvalidInput)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "falha ao processar a senha", "", err)
		}
		_, err = r.base.update(ctx, tx, user.ID, map[string]any{
			"password_hash":          string(hashed),
			"reset_token":            nil,
			"reset_token_expires_at": nil,
		})
		return err
	})
}
