package model

import "time"

type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleCommon        Role = "common"
)

// User はログインユーザー。パスワードはハッシュのみ保持する。
type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	IgrejaID            *uint      `gorm:"index" json:"igreja_id"` // ブートストラップ中のみ nil
	Username            string     `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	Role                Role       `gorm:"type:varchar(20);not null;default:common" json:"role"`
	Name                *string    `json:"name"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	Avatar              *string    `json:"avatar"`
	ResetToken          *string    `gorm:"index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserInput はユーザー作成リクエストのDTO
type UserInput struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     Role    `json:"role" validate:"required,oneof=administrator common"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
}

// UserPatch はユーザーの部分更新DTO (パスワード変更は別経路)
type UserPatch struct {
	Role   *Role   `json:"role,omitempty" validate:"omitempty,oneof=administrator common"`
	Name   *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
}

func (p *UserPatch) ToUpdates() map[string]any {
	u := make(map[string]any)
	setIfPresent(u, "role", p.Role)
	setIfPresent(u, "name", p.Name)
	setIfPresent(u, "email", p.Email)
	setIfPresent(u, "phone", p.Phone)
	setIfPresent(u, "avatar", p.Avatar)
	return u
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
