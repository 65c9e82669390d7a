package repository

import (
	"context"
	"testing"
	"time"

	"go_igreja_admin/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository_Plans(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormSubscriptionRepository(db)

	basic, err := repo.CreatePlan(ctx, &model.PlanInput{Name: "Básico", Price: decimal.RequireFromString("49.90")})
	require.NoError(t, err)
	assert.Equal(t, "BRL", basic.Currency)
	assert.Equal(t, model.IntervalMonthly, basic.Interval)
	assert.True(t, basic.IsActive)

	premium, err := repo.CreatePlan(ctx, &model.PlanInput{Name: "Premium", Price: decimal.RequireFromString("19.90"), Interval: model.IntervalYearly})
	require.NoError(t, err)

	t.Run("異常系: 負の価格", func(t *testing.T) {
		_, err := repo.CreatePlan(ctx, &model.PlanInput{Name: "Grátis", Price: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		negative := decimal.NewFromInt(-5)
		_, err = repo.UpdatePlan(ctx, basic.ID, &model.PlanPatch{Price: &negative})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("正常系: 価格順に並び、無効なプランは除外できる", func(t *testing.T) {
		_, err := repo.UpdatePlan(ctx, premium.ID, &model.PlanPatch{IsActive: ptr(false)})
		require.NoError(t, err)

		all, err := repo.ListPlans(ctx, false)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, premium.ID, all[0].ID)

		active, err := repo.ListPlans(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, basic.ID, active[0].ID)
		assert.True(t, active[0].Price.Equal(decimal.RequireFromString("49.90")))
	})
}

func TestSubscriptionRepository_Subscriptions(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	first := createIgreja(t, db, "First Church")
	second := createIgreja(t, db, "Second Church")
	repo := NewGormSubscriptionRepository(db)
	plan, err := repo.CreatePlan(ctx, &model.PlanInput{Name: "Básico", Price: decimal.RequireFromString("49.90")})
	require.NoError(t, err)

	_, err = repo.GetByTenant(ctx, first.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	old, err := repo.Create(ctx, first.ID, &model.SubscriptionInput{PlanID: plan.ID, ExternalSubscriptionID: ptr("sub_old")})
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionIncomplete, old.Status)

	latest, err := repo.Create(ctx, first.ID, &model.SubscriptionInput{
		PlanID:                 plan.ID,
		ExternalSubscriptionID: ptr("sub_new"),
		Status:                 model.SubscriptionTrialing,
		ProviderPayload:        map[string]any{"source": "checkout"},
	})
	require.NoError(t, err)

	t.Run("正常系: GetByTenant は最新の契約をプラン付きで返す", func(t *testing.T) {
		got, err := repo.GetByTenant(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, latest.ID, got.ID)
		require.NotNil(t, got.Plan)
		assert.Equal(t, "Básico", got.Plan.Name)
		assert.Equal(t, "checkout", got.ProviderPayload["source"])
	})

	t.Run("異常系: 存在しないプラン", func(t *testing.T) {
		_, err := repo.Create(ctx, first.ID, &model.SubscriptionInput{PlanID: 9999})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: ApplyProviderUpdate は保存済みのテナントで更新する", func(t *testing.T) {
		end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
		got, err := repo.ApplyProviderUpdate(ctx, "sub_new", &model.SubscriptionPatch{
			Status:           ptr(model.SubscriptionActive),
			CurrentPeriodEnd: &end,
		})
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionActive, got.Status)
		assert.Equal(t, first.ID, got.IgrejaID)
		require.NotNil(t, got.CurrentPeriodEnd)
		assert.True(t, got.CurrentPeriodEnd.Equal(end))
	})

	t.Run("異常系: 未知の外部ID", func(t *testing.T) {
		_, err := repo.ApplyProviderUpdate(ctx, "sub_unknown", &model.SubscriptionPatch{Status: ptr(model.SubscriptionCanceled)})
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = repo.ApplyProviderUpdate(ctx, "", &model.SubscriptionPatch{})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 他テナントの契約は更新できない", func(t *testing.T) {
		_, err := repo.Update(ctx, second.ID, old.ID, &model.SubscriptionPatch{CancelAtPeriodEnd: ptr(true)})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("異常系: 外部IDの重複は Conflict", func(t *testing.T) {
		_, err := repo.Create(ctx, second.ID, &model.SubscriptionInput{PlanID: plan.ID, ExternalSubscriptionID: ptr("sub_old")})
		assert.ErrorIs(t, err, model.ErrConflict)
	})
}

func TestSubscriptionRepository_SingleLiveSubscription(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	first := createIgreja(t, db, "First Church")
	second := createIgreja(t, db, "Second Church")
	repo := NewGormSubscriptionRepository(db)
	plan, err := repo.CreatePlan(ctx, &model.PlanInput{Name: "Básico", Price: decimal.RequireFromString("49.90")})
	require.NoError(t, err)

	live, err := repo.Create(ctx, first.ID, &model.SubscriptionInput{PlanID: plan.ID, ExternalSubscriptionID: ptr("sub_1"), Status: model.SubscriptionActive})
	require.NoError(t, err)

	countLive := func(igrejaID uint) int64 {
		var n int64
		require.NoError(t, db.Model(&model.Subscription{}).
			Where("igreja_id = ? AND status IN ?", igrejaID, model.LiveSubscriptionStatuses).
			Count(&n).Error)
		return n
	}

	t.Run("異常系: 有効な契約がある教会に2件目の有効な契約は作れない", func(t *testing.T) {
		for _, status := range []model.SubscriptionStatus{model.SubscriptionActive, model.SubscriptionTrialing} {
			_, err := repo.Create(ctx, first.ID, &model.SubscriptionInput{PlanID: plan.ID, ExternalSubscriptionID: ptr("sub_2_" + string(status)), Status: status})
			assert.ErrorIs(t, err, model.ErrConflict, status)
		}
		assert.Equal(t, int64(1), countLive(first.ID))
	})

	t.Run("正常系: 無効な状態の契約や他の教会の契約は作れる", func(t *testing.T) {
		_, err := repo.Create(ctx, first.ID, &model.SubscriptionInput{PlanID: plan.ID, ExternalSubscriptionID: ptr("sub_canceled"), Status: model.SubscriptionCanceled})
		require.NoError(t, err)

		_, err = repo.Create(ctx, second.ID, &model.SubscriptionInput{PlanID: plan.ID, ExternalSubscriptionID: ptr("sub_other"), Status: model.SubscriptionActive})
		require.NoError(t, err)
		assert.Equal(t, int64(1), countLive(second.ID))
	})

	t.Run("異常系: 更新や通知で2件目を有効にはできない", func(t *testing.T) {
		pending, err := repo.Create(ctx, first.ID, &model.SubscriptionInput{PlanID: plan.ID, ExternalSubscriptionID: ptr("sub_pending")})
		require.NoError(t, err)

		_, err = repo.Update(ctx, first.ID, pending.ID, &model.SubscriptionPatch{Status: ptr(model.SubscriptionActive)})
		assert.ErrorIs(t, err, model.ErrConflict)

		_, err = repo.ApplyProviderUpdate(ctx, "sub_pending", &model.SubscriptionPatch{Status: ptr(model.SubscriptionTrialing)})
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Equal(t, int64(1), countLive(first.ID))
	})

	t.Run("正常系: 有効な契約自身の更新と、解約後の切り替えはできる", func(t *testing.T) {
		_, err := repo.Update(ctx, first.ID, live.ID, &model.SubscriptionPatch{Status: ptr(model.SubscriptionTrialing)})
		require.NoError(t, err)

		_, err = repo.ApplyProviderUpdate(ctx, "sub_1", &model.SubscriptionPatch{Status: ptr(model.SubscriptionCanceled)})
		require.NoError(t, err)

		got, err := repo.ApplyProviderUpdate(ctx, "sub_pending", &model.SubscriptionPatch{Status: ptr(model.SubscriptionActive)})
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionActive, got.Status)
		assert.Equal(t, int64(1), countLive(first.ID))
	})

	t.Run("異常系: DB の部分インデックスでも重複を拒否する", func(t *testing.T) {
		err := db.Create(&model.Subscription{IgrejaID: second.ID, PlanID: plan.ID, Status: model.SubscriptionTrialing}).Error
		assert.Error(t, err)
	})
}
