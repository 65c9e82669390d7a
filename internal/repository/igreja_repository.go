package repository

import (
	"context"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/validation"

	"gorm.io/gorm"
)

type IgrejaRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Igreja, error)
	List(ctx context.Context, page, pageSize int) (*model.Page[model.Igreja], error)
	Update(ctx context.Context, igrejaID, id uint, patch *model.IgrejaPatch) (*model.Igreja, error)
	Bootstrap(ctx context.Context, igreja *model.IgrejaInput, admin *model.UserInput) (*model.Igreja, *model.User, error)
}

// gormIgrejaRepository の tenant カラムは id 自身
type gormIgrejaRepository struct {
	base  *BaseRepository[model.Igreja]
	users *BaseRepository[model.User]
}

func NewGormIgrejaRepository(db *gorm.DB) IgrejaRepository {
	return &gormIgrejaRepository{
		base:  NewBaseRepository[model.Igreja](db, "gormIgrejaRepository", WithTenantColumn("id"), WithDateColumns("founded_at")),
		users: NewBaseRepository[model.User](db, "gormIgrejaRepository.users"),
	}
}

func (r *gormIgrejaRepository) GetByID(ctx context.Context, id uint) (*model.Igreja, error) {
	igreja, err := r.base.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if igreja == nil {
		return nil, model.ErrNotFound
	}
	return igreja, nil
}

func (r *gormIgrejaRepository) List(ctx context.Context, page, pageSize int) (*model.Page[model.Igreja], error) {
	return r.base.Paginate(ctx, page, pageSize)
}

// Update は自身のテナントのみ更新できる
func (r *gormIgrejaRepository) Update(ctx context.Context, igrejaID, id uint, patch *model.IgrejaPatch) (*model.Igreja, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	var updated *model.Igreja
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

// Bootstrap は教会と最初の管理者を1トランザクションで作成する
func (r *gormIgrejaRepository) Bootstrap(ctx context.Context, igrejaInput *model.IgrejaInput, adminInput *model.UserInput) (*model.Igreja, *model.User, error) {
	if err := validation.Struct(igrejaInput); err != nil {
		return nil, nil, err
	}
	if adminInput == nil {
		return nil, nil, model.NewAppError("VALIDATION_ERROR", "administrador é obrigatório", "admin", model.ErrInvalidInput)
	}
	// 最初のユーザーは常に管理者
	admin := *adminInput
	admin.Role = model.RoleAdministrator
	if err := validation.Struct(&admin); err != nil {
		return nil, nil, err
	}

	igreja, err := igrejaInput.ToModel()
	if err != nil {
		return nil, nil, model.NewAppError("INVALID_DATE", err.Error(), "founded_at", model.ErrInvalidInput)
	}

	var user *model.User
	err = r.base.Transaction(ctx, func(tx *gorm.DB) error {
		if err := r.base.create(ctx, tx, igreja); err != nil {
			return err
		}
		u, err := newUser(igreja.ID, &admin)
		if err != nil {
			return err
		}
		if err := r.users.create(ctx, tx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	middleware.GetLogger(ctx).Info("Igreja bootstrapped", "igreja_id", igreja.ID, "admin_user_id", user.ID)
	return igreja, user, nil
}
