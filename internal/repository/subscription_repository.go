package repository

import (
	"context"
	"fmt"
	"time"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/querybuilder"
	"go_igreja_admin/internal/validation"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	CreatePlan(ctx context.Context, input *model.PlanInput) (*model.Plan, error)
	GetPlan(ctx context.Context, id uint) (*model.Plan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]model.Plan, error)
	UpdatePlan(ctx context.Context, id uint, patch *model.PlanPatch) (*model.Plan, error)

	Create(ctx context.Context, igrejaID uint, input *model.SubscriptionInput) (*model.Subscription, error)
	GetByTenant(ctx context.Context, igrejaID uint) (*model.Subscription, error)
	Update(ctx context.Context, igrejaID, id uint, patch *model.SubscriptionPatch) (*model.Subscription, error)
	ApplyProviderUpdate(ctx context.Context, externalSubscriptionID string, patch *model.SubscriptionPatch) (*model.Subscription, error)
}

type gormSubscriptionRepository struct {
	base  *BaseRepository[model.Subscription]
	plans *BaseRepository[model.Plan]
}

func NewGormSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &gormSubscriptionRepository{
		base:  NewBaseRepository[model.Subscription](db, "gormSubscriptionRepository"),
		plans: NewBaseRepository[model.Plan](db, "gormSubscriptionRepository.plans"),
	}
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return model.NewAppError("VALIDATION_ERROR", "o preço não pode ser negativo", "price", model.ErrInvalidInput)
	}
	return nil
}

func (r *gormSubscriptionRepository) CreatePlan(ctx context.Context, input *model.PlanInput) (*model.Plan, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	plan := &model.Plan{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price.Round(2),
		Currency:        input.Currency,
		Interval:        input.Interval,
		ExternalPriceID: input.ExternalPriceID,
		IsActive:        true,
	}
	if plan.Currency == "" {
		plan.Currency = "BRL"
	}
	if plan.Interval == "" {
		plan.Interval = model.IntervalMonthly
	}
	if err := r.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *gormSubscriptionRepository) GetPlan(ctx context.Context, id uint) (*model.Plan, error) {
	plan, err := r.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, model.ErrNotFound
	}
	return plan, nil
}

func (r *gormSubscriptionRepository) ListPlans(ctx context.Context, activeOnly bool) ([]model.Plan, error) {
	where := map[string]any{}
	if activeOnly {
		where["is_active"] = true
	}
	return r.plans.Find(ctx, FindOptions{
		Where:   where,
		OrderBy: []querybuilder.Order{{Field: "price"}, {Field: "id"}},
	})
}

func (r *gormSubscriptionRepository) UpdatePlan(ctx context.Context, id uint, patch *model.PlanPatch) (*model.Plan, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	return r.plans.Update(ctx, id, patch.ToUpdates())
}

func (r *gormSubscriptionRepository) Create(ctx context.Context, igrejaID uint, input *model.SubscriptionInput) (*model.Subscription, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if _, err := r.GetPlan(ctx, input.PlanID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.SubscriptionIncomplete
	}
	sub := &model.Subscription{
		IgrejaID:               igrejaID,
		PlanID:                 input.PlanID,
		ExternalCustomerID:     input.ExternalCustomerID,
		ExternalSubscriptionID: input.ExternalSubscriptionID,
		Status:                 status,
		CurrentPeriodStart:     input.CurrentPeriodStart,
		CurrentPeriodEnd:       input.CurrentPeriodEnd,
	}
	if input.ProviderPayload != nil {
		sub.ProviderPayload = datatypes.JSONMap(input.ProviderPayload)
	}
	err := r.base.Transaction(ctx, func(tx *gorm.DB) error {
		if status.IsLive() {
			if err := r.ensureNoOtherLive(ctx, tx, igrejaID, 0); err != nil {
				return err
			}
		}
		return r.base.create(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ensureNoOtherLive は exceptID 以外に有効な契約があれば ErrConflict を返す
func (r *gormSubscriptionRepository) ensureNoOtherLive(ctx context.Context, tx *gorm.DB, igrejaID, exceptID uint) error {
	q := r.base.probe(ctx, tx).
		Where("igreja_id = ? AND status IN ?", igrejaID, model.LiveSubscriptionStatuses)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var ids []uint
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("gormSubscriptionRepository.ensureNoOtherLive: %w", err)
	}
	if len(ids) > 0 {
		middleware.GetLogger(ctx).Warn("Tenant already has a live subscription", "igreja_id", igrejaID, "subscription_id", ids[0])
		return model.NewAppError("ACTIVE_SUBSCRIPTION_EXISTS", "a igreja já possui uma assinatura ativa", "status", model.ErrConflict)
	}
	return nil
}

// GetByTenant は最も新しく作成された契約を返す
func (r *gormSubscriptionRepository) GetByTenant(ctx context.Context, igrejaID uint) (*model.Subscription, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	var subs []model.Subscription
	err := r.base.DB().WithContext(ctx).
		Preload("Plan").
		Where("igreja_id = ?", igrejaID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&subs).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error finding subscription by tenant", "error", err, "igreja_id", igrejaID)
		return nil, fmt.Errorf("gormSubscriptionRepository.GetByTenant: %w", err)
	}
	if len(subs) == 0 {
		return nil, model.ErrNotFound
	}
	return &subs[0], nil
}

func (r *gormSubscriptionRepository) Update(ctx context.Context, igrejaID, id uint, patch *model.SubscriptionPatch) (*model.Subscription, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	if patch.PlanID != nil {
		if _, err := r.GetPlan(ctx, *patch.PlanID); err != nil {
			return nil, err
		}
	}
	var updated *model.Subscription
	err := r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		if patch.Status != nil && patch.Status.IsLive() {
			if err := r.ensureNoOtherLive(ctx, tx, igrejaID, id); err != nil {
				return err
			}
		}
		var err error
		updated, err = r.base.update(ctx, tx, id, subscriptionUpdates(patch))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyProviderUpdate は課金プロバイダから通知された値をそのまま反映する
func (r *gormSubscriptionRepository) ApplyProviderUpdate(ctx context.Context, externalSubscriptionID string, patch *model.SubscriptionPatch) (*model.Subscription, error) {
	if externalSubscriptionID == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "external_subscription_id é obrigatório", "external_subscription_id", model.ErrInvalidInput)
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	subs, err := r.base.Find(ctx, FindOptions{
		Where: map[string]any{"external_subscription_id": externalSubscriptionID},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		middleware.GetLogger(ctx).Warn("Provider update for unknown subscription", "external_subscription_id", externalSubscriptionID)
		return nil, model.ErrNotFound
	}

	// 通知元はテナントを持たないため、保存済みの igreja_id でスコープする
	sub := subs[0]
	return r.Update(ctx, sub.IgrejaID, sub.ID, patch)
}

func subscriptionUpdates(patch *model.SubscriptionPatch) map[string]any {
	updates := patch.ToUpdates()
	for _, k := range []string{"current_period_start", "current_period_end"} {
		if t, ok := updates[k].(time.Time); ok {
			updates[k] = t.UTC()
		}
	}
	return updates
}
