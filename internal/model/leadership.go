package model

import (
	"time"

	"gorm.io/gorm"
)

type Position string

const (
	PositionElder  Position = "elder"
	PositionDeacon Position = "deacon"
)

// TermStatus は任期の状態。遷移の妥当性は検証しない。
type TermStatus string

const (
	TermActive   TermStatus = "active"
	TermInactive TermStatus = "inactive"
	TermOnLeave  TermStatus = "on_leave"
	TermEmeritus TermStatus = "emeritus"
)

// effectiveStatus は終了日を過ぎた active の任期を inactive とみなす (保存値は変更しない)
func effectiveStatus(status TermStatus, end *time.Time, now time.Time) TermStatus {
	if status == TermActive && end != nil && end.Before(TruncateDate(now)) {
		return TermInactive
	}
	return status
}

// Leadership は長老・執事の任命
type Leadership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IgrejaID  uint      `gorm:"not null;index" json:"igreja_id"`
	MemberID  uint      `gorm:"not null;index" json:"member_id"`
	Position  Position  `gorm:"type:varchar(20);not null" json:"position"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Terms  []Term  `gorm:"foreignKey:LeadershipID" json:"terms,omitempty"`
}

func (Leadership) TableName() string {
	return "leaderships"
}

// Term はリーダーシップの任期
type Term struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	IgrejaID     uint       `gorm:"not null;index" json:"igreja_id"`
	LeadershipID uint       `gorm:"not null;index" json:"leadership_id"`
	ElectionDate time.Time  `gorm:"type:date;not null" json:"election_date"`
	StartDate    time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date"`
	Status       TermStatus `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// EffectiveStatus は読み込み時に計算され、保存されない
	EffectiveStatus TermStatus `gorm:"-" json:"effective_status"`
}

func (Term) TableName() string {
	return "leadership_terms"
}

func (t *Term) NormalizeDates() {
	t.ElectionDate = TruncateDate(t.ElectionDate)
	t.StartDate = TruncateDate(t.StartDate)
	t.EndDate = TruncateDatePtr(t.EndDate)
}

// StatusAt は now 時点での実質的な状態を返す
func (t Term) StatusAt(now time.Time) TermStatus {
	return effectiveStatus(t.Status, t.EndDate, now)
}

func (t *Term) AfterFind(tx *gorm.DB) error {
	t.EffectiveStatus = t.StatusAt(time.Now())
	return nil
}

func (t *Term) AfterSave(tx *gorm.DB) error {
	t.EffectiveStatus = t.StatusAt(time.Now())
	return nil
}

// TermDateColumns は任期テーブルの日付カラム
var TermDateColumns = []string{"election_date", "start_date", "end_date"}

type LeadershipInput struct {
	MemberID uint     `json:"member_id" validate:"required,gt=0"`
	Position Position `json:"position" validate:"required,oneof=elder deacon"`
	Notes    *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type LeadershipPatch struct {
	Position *Position `json:"position,omitempty" validate:"omitempty,oneof=elder deacon"`
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (p *LeadershipPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "position", p.Position)
	setIfPresent(u, "notes", p.Notes)
	return u
}

// TermInput は任期作成リクエストのDTO。日付は文字列で受け取る。
type TermInput struct {
	LeadershipID uint       `json:"leadership_id" validate:"required,gt=0"`
	ElectionDate string     `json:"election_date" validate:"required,date"`
	StartDate    string     `json:"start_date" validate:"required,date"`
	EndDate      *string    `json:"end_date,omitempty" validate:"omitempty,date"`
	Status       TermStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave emeritus"`
}

// TermPatch は任期の部分更新DTO。指定された日付だけが変換される。
type TermPatch struct {
	ElectionDate *string     `json:"election_date,omitempty" validate:"omitempty,date"`
	StartDate    *string     `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate      *string     `json:"end_date,omitempty" validate:"omitempty,date"`
	Status       *TermStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave emeritus"`
}

func (p *TermPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "election_date", p.ElectionDate)
	setIfPresent(u, "start_date", p.StartDate)
	setIfPresent(u, "end_date", p.EndDate)
	setIfPresent(u, "status", p.Status)
	return u
}
