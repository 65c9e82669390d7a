package model

import (
	"time"

	"gorm.io/gorm"
)

// Igreja はテナント (教会) を表す。
// テナントIDは自身の ID であり、カラムとしては保存しない。
type Igreja struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	IgrejaID  uint       `gorm:"-" json:"igreja_id"`
	Name      string     `gorm:"not null" json:"name"`
	CNPJ      *string    `gorm:"column:cnpj" json:"cnpj"`
	Street    *string    `json:"street"`
	Number    *string    `json:"number"`
	District  *string    `json:"district"`
	City      *string    `json:"city"`
	State     *string    `json:"state"`
	ZipCode   *string    `json:"zip_code"`
	Phone     *string    `json:"phone"`
	Email     *string    `json:"email"`
	Website   *string    `json:"website"`
	Logo      *string    `json:"logo"`
	FoundedAt *time.Time `gorm:"type:date" json:"founded_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Igreja) TableName() string {
	return "igrejas"
}

// TenantID はこのレコードが属するテナントを返す (= 自身の ID)
func (i Igreja) TenantID() uint {
	return i.ID
}

func (i *Igreja) AfterFind(tx *gorm.DB) error {
	i.IgrejaID = i.ID
	return nil
}

func (i *Igreja) AfterCreate(tx *gorm.DB) error {
	i.IgrejaID = i.ID
	return nil
}

func (i *Igreja) NormalizeDates() {
	i.FoundedAt = TruncateDatePtr(i.FoundedAt)
}

// IgrejaInput は教会作成リクエストのDTO
type IgrejaInput struct {
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	CNPJ      *string `json:"cnpj,omitempty" validate:"omitempty,max=18"`
	Street    *string `json:"street,omitempty" validate:"omitempty,max=200"`
	Number    *string `json:"number,omitempty" validate:"omitempty,max=20"`
	District  *string `json:"district,omitempty" validate:"omitempty,max=100"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State     *string `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode   *string `json:"zip_code,omitempty" validate:"omitempty,max=10"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Website   *string `json:"website,omitempty" validate:"omitempty,url"`
	Logo      *string `json:"logo,omitempty" validate:"omitempty,max=255"`
	FoundedAt *string `json:"founded_at,omitempty" validate:"omitempty,date"`
}

// ToModel は入力を Igreja に変換する (日付は検証済みの前提)
func (in *IgrejaInput) ToModel() (*Igreja, error) {
	founded, err := ParseDate(in.FoundedAt)
	if err != nil {
		return nil, err
	}
	return &Igreja{
		Name:      in.Name,
		CNPJ:      in.CNPJ,
		Street:    in.Street,
		Number:    in.Number,
		District:  in.District,
		City:      in.City,
		State:     in.State,
		ZipCode:   in.ZipCode,
		Phone:     in.Phone,
		Email:     in.Email,
		Website:   in.Website,
		Logo:      in.Logo,
		FoundedAt: founded,
	}, nil
}

// IgrejaPatch は教会の部分更新DTO
type IgrejaPatch struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	CNPJ      *string `json:"cnpj,omitempty" validate:"omitempty,max=18"`
	Street    *string `json:"street,omitempty" validate:"omitempty,max=200"`
	Number    *string `json:"number,omitempty" validate:"omitempty,max=20"`
	District  *string `json:"district,omitempty" validate:"omitempty,max=100"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State     *string `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode   *string `json:"zip_code,omitempty" validate:"omitempty,max=10"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Website   *string `json:"website,omitempty" validate:"omitempty,url"`
	Logo      *string `json:"logo,omitempty" validate:"omitempty,max=255"`
	FoundedAt *string `json:"founded_at,omitempty" validate:"omitempty,date"`
}

// ToUpdates は指定されたフィールドだけを更新用マップにする
func (p *IgrejaPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "name", p.Name)
	setIfPresent(u, "cnpj", p.CNPJ)
	setIfPresent(u, "street", p.Street)
	setIfPresent(u, "number", p.Number)
	setIfPresent(u, "district", p.District)
	setIfPresent(u, "city", p.City)
	setIfPresent(u, "state", p.State)
	setIfPresent(u, "zip_code", p.ZipCode)
	setIfPresent(u, "phone", p.Phone)
	setIfPresent(u, "email", p.Email)
	setIfPresent(u, "website", p.Website)
	setIfPresent(u, "logo", p.Logo)
	setIfPresent(u, "founded_at", p.FoundedAt)
	return u
}

func setIfPresent[V any](u map[string]any, column string, v *V) {
	if v != nil {
		u[column] = *v
	}
}

type ContextKey string

const (
	IgrejaIDKey ContextKey = "igrejaID"
	UserRoleKey ContextKey = "userRole"
	UserIDKey   ContextKey = "userID"
)
