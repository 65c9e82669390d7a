package model

import (
	"time"

	"gorm.io/gorm"
)

type BondType string

const (
	BondElected    BondType = "elected"
	BondAuxiliary  BondType = "auxiliary"
	BondEvangelist BondType = "evangelist"
)

// Pastor は教会の牧師
type Pastor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	IgrejaID       uint      `gorm:"not null;index" json:"igreja_id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Photo          *string   `json:"photo"`
	OrdinationYear *int      `json:"ordination_year"`
	BondType       BondType  `gorm:"type:varchar(20);not null" json:"bond_type"`
	Bio            *string   `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Terms []PastorTerm `gorm:"foreignKey:PastorID" json:"terms,omitempty"`
}

func (Pastor) TableName() string {
	return "pastors"
}

// PastorTerm は牧師の任期
type PastorTerm struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	IgrejaID  uint       `gorm:"not null;index" json:"igreja_id"`
	PastorID  uint       `gorm:"not null;index" json:"pastor_id"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`
	Status    TermStatus `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	EffectiveStatus TermStatus `gorm:"-" json:"effective_status"`
}

func (PastorTerm) TableName() string {
	return "pastor_terms"
}

func (t *PastorTerm) NormalizeDates() {
	t.StartDate = TruncateDate(t.StartDate)
	t.EndDate = TruncateDatePtr(t.EndDate)
}

func (t PastorTerm) StatusAt(now time.Time) TermStatus {
	return effectiveStatus(t.Status, t.EndDate, now)
}

func (t *PastorTerm) AfterFind(tx *gorm.DB) error {
	t.EffectiveStatus = t.StatusAt(time.Now())
	return nil
}

func (t *PastorTerm) AfterSave(tx *gorm.DB) error {
	t.EffectiveStatus = t.StatusAt(time.Now())
	return nil
}

var PastorTermDateColumns = []string{"start_date", "end_date"}

type PastorInput struct {
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Photo          *string  `json:"photo,omitempty" validate:"omitempty,max=255"`
	OrdinationYear *int     `json:"ordination_year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	BondType       BondType `json:"bond_type" validate:"required,oneof=elected auxiliary evangelist"`
	Bio            *string  `json:"bio,omitempty" validate:"omitempty,max=5000"`
}

type PastorPatch struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string   `json:"phone,omitempty" validate:"omitempty,max=30"`
	Photo          *string   `json:"photo,omitempty" validate:"omitempty,max=255"`
	OrdinationYear *int      `json:"ordination_year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	BondType       *BondType `json:"bond_type,omitempty" validate:"omitempty,oneof=elected auxiliary evangelist"`
	Bio            *string   `json:"bio,omitempty" validate:"omitempty,max=5000"`
}

func (p *PastorPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "name", p.Name)
	setIfPresent(u, "email", p.Email)
	setIfPresent(u, "phone", p.Phone)
	setIfPresent(u, "photo", p.Photo)
	setIfPresent(u, "ordination_year", p.OrdinationYear)
	setIfPresent(u, "bond_type", p.BondType)
	setIfPresent(u, "bio", p.Bio)
	return u
}

type PastorTermInput struct {
	PastorID  uint       `json:"pastor_id" validate:"required,gt=0"`
	StartDate string     `json:"start_date" validate:"required,date"`
	EndDate   *string    `json:"end_date,omitempty" validate:"omitempty,date"`
	Status    TermStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave emeritus"`
}

type PastorTermPatch struct {
	StartDate *string     `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate   *string     `json:"end_date,omitempty" validate:"omitempty,date"`
	Status    *TermStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave emeritus"`
}

func (p *PastorTermPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "start_date", p.StartDate)
	setIfPresent(u, "end_date", p.EndDate)
	setIfPresent(u, "status", p.Status)
	return u
}
