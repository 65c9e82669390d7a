package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PlanInterval string

const (
	IntervalMonthly PlanInterval = "monthly"
	IntervalYearly  PlanInterval = "yearly"
)

// Plan は課金プラン (テナントに属さない)
type Plan struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null;uniqueIndex" json:"name"`
	Description     *string         `json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency        string          `gorm:"type:varchar(3);not null;default:BRL" json:"currency"`
	Interval        PlanInterval    `gorm:"type:varchar(10);not null;default:monthly" json:"interval"`
	ExternalPriceID *string         `json:"external_price_id"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

type PlanInput struct {
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Interval        PlanInterval    `json:"interval,omitempty" validate:"omitempty,oneof=monthly yearly"`
	ExternalPriceID *string         `json:"external_price_id,omitempty" validate:"omitempty,max=255"`
}

type PlanPatch struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Currency        *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Interval        *PlanInterval    `json:"interval,omitempty" validate:"omitempty,oneof=monthly yearly"`
	ExternalPriceID *string          `json:"external_price_id,omitempty" validate:"omitempty,max=255"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func (p *PlanPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "name", p.Name)
	setIfPresent(u, "description", p.Description)
	setIfPresent(u, "price", p.Price)
	setIfPresent(u, "currency", p.Currency)
	setIfPresent(u, "interval", p.Interval)
	setIfPresent(u, "external_price_id", p.ExternalPriceID)
	setIfPresent(u, "is_active", p.IsActive)
	return u
}

// SubscriptionStatus は課金プロバイダが報告する状態をそのまま保持する
type SubscriptionStatus string

const (
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionUnpaid     SubscriptionStatus = "unpaid"
)

// LiveSubscriptionStatuses は教会ごとに1件までしか存在できない状態
var LiveSubscriptionStatuses = []SubscriptionStatus{SubscriptionActive, SubscriptionTrialing}

// IsLive は有効な契約として扱われる状態かどうか
func (s SubscriptionStatus) IsLive() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// Subscription は教会の契約。課金状態は外部プロバイダの値を写すだけ。
type Subscription struct {
	ID                     uint               `gorm:"primaryKey" json:"id"`
	IgrejaID               uint               `gorm:"not null;index" json:"igreja_id"`
	PlanID                 uint               `gorm:"not null;index" json:"plan_id"`
	ExternalCustomerID     *string            `gorm:"index" json:"external_customer_id"`
	ExternalSubscriptionID *string            `gorm:"uniqueIndex" json:"external_subscription_id"`
	Status                 SubscriptionStatus `gorm:"type:varchar(20);not null;default:incomplete" json:"status"`
	CurrentPeriodStart     *time.Time         `json:"current_period_start"`
	CurrentPeriodEnd       *time.Time         `json:"current_period_end"`
	CancelAtPeriodEnd      bool               `gorm:"not null;default:false" json:"cancel_at_period_end"`
	ProviderPayload        datatypes.JSONMap  `json:"provider_payload,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) NormalizeDates() {
	if s.CurrentPeriodStart != nil {
		t := s.CurrentPeriodStart.UTC()
		s.CurrentPeriodStart = &t
	}
	if s.CurrentPeriodEnd != nil {
		t := s.CurrentPeriodEnd.UTC()
		s.CurrentPeriodEnd = &t
	}
}

type SubscriptionInput struct {
	PlanID                 uint               `json:"plan_id" validate:"required,gt=0"`
	ExternalCustomerID     *string            `json:"external_customer_id,omitempty" validate:"omitempty,max=255"`
	ExternalSubscriptionID *string            `json:"external_subscription_id,omitempty" validate:"omitempty,max=255"`
	Status                 SubscriptionStatus `json:"status,omitempty" validate:"omitempty,oneof=trialing active past_due canceled incomplete unpaid"`
	CurrentPeriodStart     *time.Time         `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time         `json:"current_period_end,omitempty" validate:"omitempty,gtfield=CurrentPeriodStart"`
	ProviderPayload        map[string]any     `json:"provider_payload,omitempty"`
}

// SubscriptionPatch はプロバイダの Webhook 等で報告された値を反映する
type SubscriptionPatch struct {
	PlanID             *uint               `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
	ExternalCustomerID *string             `json:"external_customer_id,omitempty" validate:"omitempty,max=255"`
	Status             *SubscriptionStatus `json:"status,omitempty" validate:"omitempty,oneof=trialing active past_due canceled incomplete unpaid"`
	CurrentPeriodStart *time.Time          `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time          `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  *bool               `json:"cancel_at_period_end,omitempty"`
	ProviderPayload    map[string]any      `json:"provider_payload,omitempty"`
}

func (p *SubscriptionPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "plan_id", p.PlanID)
	setIfPresent(u, "external_customer_id", p.ExternalCustomerID)
	setIfPresent(u, "status", p.Status)
	setIfPresent(u, "current_period_start", p.CurrentPeriodStart)
	setIfPresent(u, "current_period_end", p.CurrentPeriodEnd)
	setIfPresent(u, "cancel_at_period_end", p.CancelAtPeriodEnd)
	if p.ProviderPayload != nil {
		u["provider_payload"] = datatypes.JSONMap(p.ProviderPayload)
	}
	return u
}

// SubscriptionWebhook は課金プロバイダからの通知本文
type SubscriptionWebhook struct {
	ExternalSubscriptionID string `json:"external_subscription_id" validate:"required"`
	SubscriptionPatch
}
