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

type LeadershipRepository interface {
	GetAll(ctx context.Context, igrejaID uint) ([]model.Leadership, error)
	Create(ctx context.Context, igrejaID uint, input *model.LeadershipInput) (*model.Leadership, error)
	Update(ctx context.Context, igrejaID, id uint, patch *model.LeadershipPatch) (*model.Leadership, error)
	Delete(ctx context.Context, igrejaID, id uint) error

	GetTerms(ctx context.Context, igrejaID uint) ([]model.Term, error)
	CreateTerm(ctx context.Context, igrejaID uint, input *model.TermInput) (*model.Term, error)
	UpdateTerm(ctx context.Context, igrejaID, id uint, patch *model.TermPatch) (*model.Term, error)
	DeleteTerm(ctx context.Context, igrejaID, id uint) error
}

type gormLeadershipRepository struct {
	base  *BaseRepository[model.Leadership]
	terms *BaseRepository[model.Term]
}

func NewGormLeadershipRepository(db *gorm.DB) LeadershipRepository {
	return &gormLeadershipRepository{
		base:  NewBaseRepository[model.Leadership](db, "gormLeadershipRepository"),
		terms: NewBaseRepository[model.Term](db, "gormLeadershipRepository.terms", WithDateColumns(model.TermDateColumns...)),
	}
}

func (r *gormLeadershipRepository) GetAll(ctx context.Context, igrejaID uint) ([]model.Leadership, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	leaderships := make([]model.Leadership, 0)
	err := r.base.DB().WithContext(ctx).
		Preload("Member").
		Preload("Terms", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC, id DESC") }).
		Where("igreja_id = ?", igrejaID).
		Order("id").
		Find(&leaderships).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing leaderships in DB", "error", err, "igreja_id", igrejaID)
		return nil, fmt.Errorf("gormLeadershipRepository.GetAll: %w", err)
	}
	return leaderships, nil
}

func (r *gormLeadershipRepository) Create(ctx context.Context, igrejaID uint, input *model.LeadershipInput) (*model.Leadership, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	leadership := &model.Leadership{
		IgrejaID: igrejaID,
		MemberID: input.MemberID,
		Position: input.Position,
		Notes:    input.Notes,
	}
	err := r.base.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureMembersOwned(ctx, tx, igrejaID, []uint{input.MemberID}); err != nil {
			return err
		}
		return r.base.create(ctx, tx, leadership)
	})
	if err != nil {
		return nil, err
	}
	return leadership, nil
}

func (r *gormLeadershipRepository) Update(ctx context.Context, igrejaID, id uint, patch *model.LeadershipPatch) (*model.Leadership, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	var updated *model.Leadership
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

// Delete は任期を削除してから任命を削除する
func (r *gormLeadershipRepository) Delete(ctx context.Context, igrejaID, id uint) error {
	return r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("leadership_id = ?", id).Delete(&model.Term{}).Error; err != nil {
			return fmt.Errorf("gormLeadershipRepository.Delete: %w", err)
		}
		_, err := r.base.delete(ctx, tx, id)
		return err
	})
}

func (r *gormLeadershipRepository) GetTerms(ctx context.Context, igrejaID uint) ([]model.Term, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	return r.terms.FindWhere(ctx, querybuilder.Filter{
		Conditions: []querybuilder.Condition{querybuilder.Eq("igreja_id", igrejaID)},
		Order:      []querybuilder.Order{{Field: "start_date", Direction: querybuilder.Desc}, {Field: "id", Direction: querybuilder.Desc}},
	})
}

// CreateTerm は文字列の日付を日付値に変換して任期を登録する。任命の所有者も確認する。
func (r *gormLeadershipRepository) CreateTerm(ctx context.Context, igrejaID uint, input *model.TermInput) (*model.Term, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	election, err := requiredDate(input.ElectionDate, "election_date")
	if err != nil {
		return nil, err
	}
	start, err := requiredDate(input.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := model.ParseDate(input.EndDate)
	if err != nil {
		return nil, model.NewAppError("INVALID_DATE", err.Error(), "end_date", model.ErrInvalidInput)
	}
	status := input.Status
	if status == "" {
		status = model.TermActive
	}

	term := &model.Term{
		IgrejaID:     igrejaID,
		LeadershipID: input.LeadershipID,
		ElectionDate: election,
		StartDate:    start,
		EndDate:      end,
		Status:       status,
	}
	err = r.base.scopedMutation(ctx, input.LeadershipID, igrejaID, func(tx *gorm.DB) error {
		return r.terms.create(ctx, tx, term)
	})
	if err != nil {
		return nil, err
	}
	return term, nil
}

// UpdateTerm は指定された日付フィールドだけを変換する
func (r *gormLeadershipRepository) UpdateTerm(ctx context.Context, igrejaID, id uint, patch *model.TermPatch) (*model.Term, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	var updated *model.Term
	err := r.terms.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		var err error
		updated, err = r.terms.update(ctx, tx, id, patch.ToUpdates())
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *gormLeadershipRepository) DeleteTerm(ctx context.Context, igrejaID, id uint) error {
	return r.terms.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		_, err := r.terms.delete(ctx, tx, id)
		return err
	})
}

// requiredDate は必須の日付文字列を日付値に変換する
func requiredDate(v, field string) (time.Time, error) {
	d, err := model.ParseDate(v)
	if err != nil {
		return time.Time{}, model.NewAppError("INVALID_DATE", err.Error(), field, model.ErrInvalidInput)
	}
	if d == nil {
		return time.Time{}, model.NewAppError("INVALID_DATE", field+" is required", field, model.ErrInvalidInput)
	}
	return *d, nil
}
