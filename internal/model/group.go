package model

import "time"

type GroupKind string

const (
	GroupSAF        GroupKind = "saf" // Sociedade Auxiliadora Feminina
	GroupUMP        GroupKind = "ump"
	GroupUPA        GroupKind = "upa"
	GroupUCP        GroupKind = "ucp"
	GroupUPH        GroupKind = "uph"
	GroupDepartment GroupKind = "department"
	GroupMinistry   GroupKind = "ministry"
	GroupOther      GroupKind = "other"
)

type GroupStatus string

const (
	GroupActive   GroupStatus = "active"
	GroupInactive GroupStatus = "inactive"
)

type GroupRole string

const (
	RolePresident     GroupRole = "president"
	RoleVicePresident GroupRole = "vice_president"
	RoleSecretary     GroupRole = "secretary"
	RoleTreasurer     GroupRole = "treasurer"
	RoleCounselor     GroupRole = "counselor"
	RoleMember        GroupRole = "member"
	RoleOther         GroupRole = "other"
)

// Group はソシエダーデ / 部門
type Group struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	IgrejaID    uint        `gorm:"not null;index" json:"igreja_id"`
	Name        string      `gorm:"not null" json:"name"`
	Kind        GroupKind   `gorm:"type:varchar(20);not null" json:"kind"`
	Status      GroupStatus `gorm:"type:varchar(20);not null;default:active" json:"status"`
	Description *string     `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// 一覧取得時のみ集計される読み取り専用カラム
	MemberCount int64 `gorm:"->;-:migration" json:"member_count"`
}

func (Group) TableName() string {
	return "church_groups"
}

// GroupMember はグループと教会員の中間テーブル (役職付き)
type GroupMember struct {
	GroupID   uint      `gorm:"primaryKey" json:"group_id"`
	MemberID  uint      `gorm:"primaryKey" json:"member_id"`
	Role      GroupRole `gorm:"type:varchar(20);not null;default:member" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (GroupMember) TableName() string {
	return "church_group_members"
}

// GroupMemberDetail はグループ所属者一覧の1行
type GroupMemberDetail struct {
	MemberID uint         `json:"member_id"`
	Name     string       `json:"name"`
	Email    *string      `json:"email"`
	Phone    *string      `json:"phone"`
	Status   MemberStatus `json:"status"`
	Role     GroupRole    `json:"role"`
}

type GroupMemberInput struct {
	MemberID uint      `json:"member_id" validate:"required,gt=0"`
	Role     GroupRole `json:"role" validate:"required,oneof=president vice_president secretary treasurer counselor member other"`
}

// GroupInput はグループ作成リクエストのDTO
type GroupInput struct {
	Name        string             `json:"name" validate:"required,min=1,max=200"`
	Kind        GroupKind          `json:"kind" validate:"required,oneof=saf ump upa ucp uph department ministry other"`
	Status      GroupStatus        `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Members     []GroupMemberInput `json:"members,omitempty" validate:"omitempty,unique=MemberID,dive"`
}

// GroupPatch はグループの部分更新DTO。
// Members が nil でなければ所属者を全置換する (空スライスは全削除)。
type GroupPatch struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Kind        *GroupKind          `json:"kind,omitempty" validate:"omitempty,oneof=saf ump upa ucp uph department ministry other"`
	Status      *GroupStatus        `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=2000"`
	Members     *[]GroupMemberInput `json:"members,omitempty" validate:"omitempty,unique=MemberID,dive"`
}

func (p *GroupPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "name", p.Name)
	setIfPresent(u, "kind", p.Kind)
	setIfPresent(u, "status", p.Status)
	setIfPresent(u, "description", p.Description)
	return u
}
