package repository

import (
	"context"
	"fmt"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/querybuilder"
	"go_igreja_admin/internal/validation"

	"gorm.io/gorm"
)

type PastorRepository interface {
	GetAll(ctx context.Context, igrejaID uint) ([]model.Pastor, error)
	GetByID(ctx context.Context, igrejaID, id uint) (*model.Pastor, error)
	Create(ctx context.Context, igrejaID uint, input *model.PastorInput) (*model.Pastor, error)
	Update(ctx context.Context, igrejaID, id uint, patch *model.PastorPatch) (*model.Pastor, error)
	Delete(ctx context.Context, igrejaID, id uint) error

	GetTerms(ctx context.Context, igrejaID uint) ([]model.PastorTerm, error)
	CreateTerm(ctx context.Context, igrejaID uint, input *model.PastorTermInput) (*model.PastorTerm, error)
	UpdateTerm(ctx context.Context, igrejaID, id uint, patch *model.PastorTermPatch) (*model.PastorTerm, error)
	DeleteTerm(ctx context.Context, igrejaID, id uint) error
}

type gormPastorRepository struct {
	base  *BaseRepository[model.Pastor]
	terms *BaseRepository[model.PastorTerm]
}

func NewGormPastorRepository(db *gorm.DB) PastorRepository {
	return &gormPastorRepository{
		base:  NewBaseRepository[model.Pastor](db, "gormPastorRepository"),
		terms: NewBaseRepository[model.PastorTerm](db, "gormPastorRepository.terms", WithDateColumns(model.PastorTermDateColumns...)),
	}
}

func (r *gormPastorRepository) GetAll(ctx context.Context, igrejaID uint) ([]model.Pastor, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	pastors := make([]model.Pastor, 0)
	err := r.base.DB().WithContext(ctx).
		Preload("Terms", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC, id DESC") }).
		Where("igreja_id = ?", igrejaID).
		Order("name, id").
		Find(&pastors).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing pastors in DB", "error", err, "igreja_id", igrejaID)
		return nil, fmt.Errorf("gormPastorRepository.GetAll: %w", err)
	}
	return pastors, nil
}

func (r *gormPastorRepository) GetByID(ctx context.Context, igrejaID, id uint) (*model.Pastor, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	var pastors []model.Pastor
	err := r.base.DB().WithContext(ctx).
		Preload("Terms", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC, id DESC") }).
		Where("id = ? AND igreja_id = ?", id, igrejaID).
		Limit(1).
		Find(&pastors).Error
	if err != nil {
		return nil, fmt.Errorf("gormPastorRepository.GetByID: %w", err)
	}
	if len(pastors) == 0 {
		return nil, model.ErrNotFound
	}
	return &pastors[0], nil
}

func (r *gormPastorRepository) Create(ctx context.Context, igrejaID uint, input *model.PastorInput) (*model.Pastor, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	pastor := &model.Pastor{
		IgrejaID:       igrejaID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Photo:          input.Photo,
		OrdinationYear: input.OrdinationYear,
		BondType:       input.BondType,
		Bio:            input.Bio,
	}
	if err := r.base.Create(ctx, pastor); err != nil {
		return nil, err
	}
	return pastor, nil
}

func (r *gormPastorRepository) Update(ctx context.Context, igrejaID, id uint, patch *model.PastorPatch) (*model.Pastor, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	var updated *model.Pastor
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

// Delete は任期を削除してから牧師を削除する
func (r *gormPastorRepository) Delete(ctx context.Context, igrejaID, id uint) error {
	return r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("pastor_id = ?", id).Delete(&model.PastorTerm{}).Error; err != nil {
			return fmt.Errorf("gormPastorRepository.Delete: %w", err)
		}
		_, err := r.base.delete(ctx, tx, id)
		return err
	})
}

func (r *gormPastorRepository) GetTerms(ctx context.Context, igrejaID uint) ([]model.PastorTerm, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	return r.terms.FindWhere(ctx, querybuilder.Filter{
		Conditions: []querybuilder.Condition{querybuilder.Eq("igreja_id", igrejaID)},
		Order:      []querybuilder.Order{{Field: "start_date", Direction: querybuilder.Desc}, {Field: "id", Direction: querybuilder.Desc}},
	})
}

func (r *gormPastorRepository) CreateTerm(ctx context.Context, igrejaID uint, input *model.PastorTermInput) (*model.PastorTerm, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
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

	term := &model.PastorTerm{
		IgrejaID:  igrejaID,
		PastorID:  input.PastorID,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
	err = r.base.scopedMutation(ctx, input.PastorID, igrejaID, func(tx *gorm.DB) error {
		return r.terms.create(ctx, tx, term)
	})
	if err != nil {
		return nil, err
	}
	return term, nil
}

func (r *gormPastorRepository) UpdateTerm(ctx context.Context, igrejaID, id uint, patch *model.PastorTermPatch) (*model.PastorTerm, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	var updated *model.PastorTerm
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

func (r *gormPastorRepository) DeleteTerm(ctx context.Context, igrejaID, id uint) error {
	return r.terms.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		_, err := r.terms.delete(ctx, tx, id)
		return err
	})
}
