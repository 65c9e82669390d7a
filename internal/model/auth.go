package model

import "github.com/golang-jwt/jwt/v5"

// AuthClaims はアクセストークンのペイロード。sub にはユーザーIDを入れる。
type AuthClaims struct {
	IgrejaID uint `json:"igreja_id"`
	Role     Role `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

type PasswordResetRequest struct {
	Username string `json:"username" validate:"required"`
}

// RegisterRequest は教会と最初の管理者をまとめて登録するリクエスト
type RegisterRequest struct {
	Igreja IgrejaInput `json:"igreja" validate:"required"`
	Admin  UserInput   `json:"admin" validate:"required"`
}
