package repository

import (
	"context"
	"fmt"
	"time"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/querybuilder"
	"go_igreja_admin/internal/validation"

	"gorm.io/gorm"
)

type MemberRepository interface {
	GetAll(ctx context.Context, igrejaID uint) ([]model.Member, error)
	GetByID(ctx context.Context, igrejaID, id uint) (*model.Member, error)
	Paginate(ctx context.Context, igrejaID uint, page, pageSize int) (*model.Page[model.Member], error)
	Create(ctx context.Context, igrejaID uint, input *model.MemberInput) (*model.Member, error)
	Update(ctx context.Context, igrejaID, id uint, patch *model.MemberPatch) (*model.Member, error)
	Delete(ctx context.Context, igrejaID, id uint) error
}

type gormMemberRepository struct {
	base *BaseRepository[model.Member]
	now  func() time.Time
}

func NewGormMemberRepository(db *gorm.DB) MemberRepository {
	return &gormMemberRepository{
		base: NewBaseRepository[model.Member](db, "gormMemberRepository", WithDateColumns(model.MemberDateColumns...)),
		now:  time.Now,
	}
}

func (r *gormMemberRepository) GetAll(ctx context.Context, igrejaID uint) ([]model.Member, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	return r.base.FindWhere(ctx, querybuilder.Filter{
		Conditions: []querybuilder.Condition{querybuilder.Eq("igreja_id", igrejaID)},
		Order:      []querybuilder.Order{{Field: "name"}, {Field: "id"}},
	})
}

// GetByID は他テナントのレコードを見つからないものとして扱う
func (r *gormMemberRepository) GetByID(ctx context.Context, igrejaID, id uint) (*model.Member, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	member, err := r.base.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil || member.IgrejaID != igrejaID {
		return nil, model.ErrNotFound
	}
	return member, nil
}

func (r *gormMemberRepository) Paginate(ctx context.Context, igrejaID uint, page, pageSize int) (*model.Page[model.Member], error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	return r.base.Paginate(ctx, page, pageSize, querybuilder.Eq("igreja_id", igrejaID))
}

// Create は admission_date をサーバー時刻で付与する
func (r *gormMemberRepository) Create(ctx context.Context, igrejaID uint, input *model.MemberInput) (*model.Member, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	member, err := input.ToModel(igrejaID)
	if err != nil {
		return nil, model.NewAppError("INVALID_DATE", err.Error(), "", model.ErrInvalidInput)
	}
	member.AdmissionDate = r.now().UTC()

	if err := r.base.Create(ctx, member); err != nil {
		return nil, err
	}

	middleware.GetLogger(ctx).Debug("Member created", "member_id", member.ID, "igreja_id", igrejaID)
	return member, nil
}

func (r *gormMemberRepository) Update(ctx context.Context, igrejaID, id uint, patch *model.MemberPatch) (*model.Member, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	var updated *model.Member
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

// Delete は所属グループの行も同じトランザクションで削除する
func (r *gormMemberRepository) Delete(ctx context.Context, igrejaID, id uint) error {
	return r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&model.GroupMember{}).Error; err != nil {
			return fmt.Errorf("gormMemberRepository.Delete: %w", err)
		}
		if _, err := r.base.delete(ctx, tx, id); err != nil {
			return err
		}
		return nil
	})
}
