package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証するミドルウェア
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHENTICATED", "Cabeçalho Authorization é obrigatório.", "", model.ErrForbidden))
				return
			}

			// "Bearer {token}" の形式を検証
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHENTICATED", "Formato do cabeçalho Authorization inválido.", "", model.ErrForbidden))
				return
			}

			claims := &model.AuthClaims{}
			token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWT.SecretKey), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token inválido.", "", model.ErrForbidden))
				return
			}

			if claims.IgrejaID == 0 {
				logger.Warn("JWT auth failed: igreja_id claim missing")
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token sem igreja.", "", model.ErrForbidden))
				return
			}
			userID, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject (sub) format", "subject", claims.Subject, "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token com usuário inválido.", "", model.ErrForbidden))
				return
			}

			ctx := withIdentity(r.Context(), claims.IgrejaID, claims.Role, uint(userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withIdentity(ctx context.Context, igrejaID uint, role model.Role, userID uint) context.Context {
	ctx = context.WithValue(ctx, model.IgrejaIDKey, igrejaID)
	ctx = context.WithValue(ctx, model.UserRoleKey, role)
	if userID != 0 {
		ctx = context.WithValue(ctx, model.UserIDKey, userID)
	}
	return ctx
}

// GetIgrejaIDFromContext は認証ミドルウェアがセットしたテナントIDを取得します
func GetIgrejaIDFromContext(ctx context.Context) (uint, error) {
	value, ok := ctx.Value(model.IgrejaIDKey).(uint)
	if !ok || value == 0 {
		return 0, model.NewAppError("INTERNAL_SERVER_ERROR", "Não foi possível obter a igreja do contexto.", "", model.ErrInternalServer)
	}
	return value, nil
}

// GetUserRoleFromContext は未設定なら common を返す
func GetUserRoleFromContext(ctx context.Context) model.Role {
	if role, ok := ctx.Value(model.UserRoleKey).(model.Role); ok && role != "" {
		return role
	}
	return model.RoleCommon
}

// RequireAdmin は管理者ロール以外のリクエストを拒否する
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserRoleFromContext(r.Context()) != model.RoleAdministrator {
			logger := GetLogger(r.Context())
			logger.Warn("Admin role required", "path", r.URL.Path)
			webutil.HandleError(w, logger, model.NewAppError("ADMIN_REQUIRED", "Acesso restrito a administradores.", "", model.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}
