package model

import "time"

type MemberType string

const (
	MemberCommunicant    MemberType = "communicant"
	MemberNonCommunicant MemberType = "non_communicant"
)

type MemberStatus string

const (
	MemberActive          MemberStatus = "active"
	MemberInactive        MemberStatus = "inactive"
	MemberUnderDiscipline MemberStatus = "under_discipline"
)

type AdmissionMode string

const (
	AdmissionBaptism           AdmissionMode = "baptism"
	AdmissionProfessionOfFaith AdmissionMode = "profession_of_faith"
	AdmissionTransfer          AdmissionMode = "transfer"
)

// Member は教会員
type Member struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	IgrejaID       uint          `gorm:"not null;index" json:"igreja_id"`
	Name           string        `gorm:"not null" json:"name"`
	Email          *string       `json:"email"`
	Phone          *string       `json:"phone"`
	Street         *string       `json:"street"`
	Number         *string       `json:"number"`
	District       *string       `json:"district"`
	City           *string       `json:"city"`
	State          *string       `json:"state"`
	ZipCode        *string       `json:"zip_code"`
	Sex            *string       `gorm:"type:varchar(1)" json:"sex"`
	BirthDate      *time.Time    `gorm:"type:date" json:"birth_date"`
	BaptismDate    *time.Time    `gorm:"type:date" json:"baptism_date"`
	ProfessionDate *time.Time    `gorm:"type:date" json:"profession_date"`
	CivilStatus    *string       `gorm:"type:varchar(20)" json:"civil_status"`
	RollNumber     *string       `json:"roll_number"`
	Photo          *string       `json:"photo"`
	Type           MemberType    `gorm:"column:member_type;type:varchar(20);not null" json:"type"`
	Status         MemberStatus  `gorm:"type:varchar(20);not null;default:active" json:"status"`
	AdmissionMode  AdmissionMode `gorm:"type:varchar(30);not null" json:"admission_mode"`
	AdmissionDate  time.Time     `gorm:"not null;index" json:"admission_date"`
	RemovalDate    *time.Time    `gorm:"type:date" json:"removal_date"`
	RemovalReason  *string       `json:"removal_reason"`
	Notes          *string       `json:"notes"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) NormalizeDates() {
	m.AdmissionDate = m.AdmissionDate.UTC()
	m.BirthDate = TruncateDatePtr(m.BirthDate)
	m.BaptismDate = TruncateDatePtr(m.BaptismDate)
	m.ProfessionDate = TruncateDatePtr(m.ProfessionDate)
	m.RemovalDate = TruncateDatePtr(m.RemovalDate)
}

// MemberDateColumns は日付として正規化するカラム
var MemberDateColumns = []string{"birth_date", "baptism_date", "profession_date", "removal_date"}

// MemberInput は教会員作成リクエストのDTO。
type MemberInput struct {
	Name           string        `json:"name" validate:"required,min=1,max=200"`
	Email          *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string       `json:"phone,omitempty" validate:"omitempty,max=30"`
	Street         *string       `json:"street,omitempty" validate:"omitempty,max=200"`
	Number         *string       `json:"number,omitempty" validate:"omitempty,max=20"`
	District       *string       `json:"district,omitempty" validate:"omitempty,max=100"`
	City           *string       `json:"city,omitempty" validate:"omitempty,max=100"`
	State          *string       `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode        *string       `json:"zip_code,omitempty" validate:"omitempty,max=10"`
	Sex            *string       `json:"sex,omitempty" validate:"omitempty,oneof=M F"`
	BirthDate      *string       `json:"birth_date,omitempty" validate:"omitempty,date"`
	BaptismDate    *string       `json:"baptism_date,omitempty" validate:"omitempty,date"`
	ProfessionDate *string       `json:"profession_date,omitempty" validate:"omitempty,date"`
	CivilStatus    *string       `json:"civil_status,omitempty" validate:"omitempty,oneof=single married divorced widowed"`
	RollNumber     *string       `json:"roll_number,omitempty" validate:"omitempty,max=20"`
	Photo          *string       `json:"photo,omitempty" validate:"omitempty,max=255"`
	Type           MemberType    `json:"type" validate:"required,oneof=communicant non_communicant"`
	Status         MemberStatus  `json:"status,omitempty" validate:"omitempty,oneof=active inactive under_discipline"`
	AdmissionMode  AdmissionMode `json:"admission_mode" validate:"required,oneof=baptism profession_of_faith transfer"`
	Notes          *string       `json:"notes,omitempty"`

	// AdmissionDate は受け取るだけで使わない。入会日は常にサーバー時刻。
	AdmissionDate *string `json:"admission_date,omitempty" validate:"-"`
}

// ToModel は入力を Member に変換する。AdmissionDate は呼び出し側で設定する。
func (in *MemberInput) ToModel(igrejaID uint) (*Member, error) {
	birth, err := ParseDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	baptism, err := ParseDate(in.BaptismDate)
	if err != nil {
		return nil, err
	}
	profession, err := ParseDate(in.ProfessionDate)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = MemberActive
	}
	return &Member{
		IgrejaID:       igrejaID,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Street:         in.Street,
		Number:         in.Number,
		District:       in.District,
		City:           in.City,
		State:          in.State,
		ZipCode:        in.ZipCode,
		Sex:            in.Sex,
		BirthDate:      birth,
		BaptismDate:    baptism,
		ProfessionDate: profession,
		CivilStatus:    in.CivilStatus,
		RollNumber:     in.RollNumber,
		Photo:          in.Photo,
		Type:           in.Type,
		Status:         status,
		AdmissionMode:  in.AdmissionMode,
		Notes:          in.Notes,
	}, nil
}

// MemberPatch は教会員の部分更新DTO
type MemberPatch struct {
	Name           *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string        `json:"phone,omitempty" validate:"omitempty,max=30"`
	Street         *string        `json:"street,omitempty" validate:"omitempty,max=200"`
	Number         *string        `json:"number,omitempty" validate:"omitempty,max=20"`
	District       *string        `json:"district,omitempty" validate:"omitempty,max=100"`
	City           *string        `json:"city,omitempty" validate:"omitempty,max=100"`
	State          *string        `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode        *string        `json:"zip_code,omitempty" validate:"omitempty,max=10"`
	Sex            *string        `json:"sex,omitempty" validate:"omitempty,oneof=M F"`
	BirthDate      *string        `json:"birth_date,omitempty" validate:"omitempty,date"`
	BaptismDate    *string        `json:"baptism_date,omitempty" validate:"omitempty,date"`
	ProfessionDate *string        `json:"profession_date,omitempty" validate:"omitempty,date"`
	CivilStatus    *string        `json:"civil_status,omitempty" validate:"omitempty,oneof=single married divorced widowed"`
	RollNumber     *string        `json:"roll_number,omitempty" validate:"omitempty,max=20"`
	Photo          *string        `json:"photo,omitempty" validate:"omitempty,max=255"`
	Type           *MemberType    `json:"type,omitempty" validate:"omitempty,oneof=communicant non_communicant"`
	Status         *MemberStatus  `json:"status,omitempty" validate:"omitempty,oneof=active inactive under_discipline"`
	AdmissionMode  *AdmissionMode `json:"admission_mode,omitempty" validate:"omitempty,oneof=baptism profession_of_faith transfer"`
	RemovalDate    *string        `json:"removal_date,omitempty" validate:"omitempty,date"`
	RemovalReason  *string        `json:"removal_reason,omitempty" validate:"omitempty,max=500"`
	Notes          *string        `json:"notes,omitempty"`
}

// ToUpdates は指定されたフィールドだけを更新用マップにする。
// admission_date は更新不可。
func (p *MemberPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "name", p.Name)
	setIfPresent(u, "email", p.Email)
	setIfPresent(u, "phone", p.Phone)
	setIfPresent(u, "street", p.Street)
	setIfPresent(u, "number", p.Number)
	setIfPresent(u, "district", p.District)
	setIfPresent(u, "city", p.City)
	setIfPresent(u, "state", p.State)
	setIfPresent(u, "zip_code", p.ZipCode)
	setIfPresent(u, "sex", p.Sex)
	setIfPresent(u, "birth_date", p.BirthDate)
	setIfPresent(u, "baptism_date", p.BaptismDate)
	setIfPresent(u, "profession_date", p.ProfessionDate)
	setIfPresent(u, "civil_status", p.CivilStatus)
	setIfPresent(u, "roll_number", p.RollNumber)
	setIfPresent(u, "photo", p.Photo)
	setIfPresent(u, "member_type", p.Type)
	setIfPresent(u, "status", p.Status)
	setIfPresent(u, "admission_mode", p.AdmissionMode)
	setIfPresent(u, "removal_date", p.RemovalDate)
	setIfPresent(u, "removal_reason", p.RemovalReason)
	setIfPresent(u, "notes", p.Notes)
	return u
}

// MemberFilter はレポート用の教会員検索条件。各条件は任意で AND 結合される。
type MemberFilter struct {
	Type          *MemberType   `json:"type,omitempty" validate:"omitempty,oneof=communicant non_communicant"`
	Sex           *string       `json:"sex,omitempty" validate:"omitempty,oneof=M F"`
	Status        *MemberStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive under_discipline"`
	AdmittedFrom  *time.Time    `json:"admitted_from,omitempty"`
	AdmittedUntil *time.Time    `json:"admitted_until,omitempty"`
}
