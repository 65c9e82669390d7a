// internal/middleware/dev_auth.go
package middleware

import (
	"net/http"
	"strconv"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/webutil"
)

// DevIgrejaContextMiddleware は開発時用ミドルウェアです。
// X-Igreja-ID / X-User-Role ヘッダーからテナントとロールを取り出し、コンテキストに設定します。
// DBでのテナント存在チェックは行いません。
func DevIgrejaContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		raw := r.Header.Get("X-Igreja-ID")
		if raw == "" {
			logger.Warn("[DEV AUTH] Failed: X-Igreja-ID header missing")
			webutil.RespondWithError(w, http.StatusUnauthorized, "[DEV] Unauthorized: Missing X-Igreja-ID header")
			return
		}
		igrejaID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || igrejaID == 0 {
			logger.Warn("[DEV AUTH] Failed: Invalid X-Igreja-ID format", "value", raw)
			webutil.RespondWithError(w, http.StatusUnauthorized, "[DEV] Unauthorized: Invalid X-Igreja-ID format")
			return
		}

		role := model.Role(r.Header.Get("X-User-Role"))
		if role == "" {
			role = model.RoleAdministrator
		}
		if role != model.RoleAdministrator && role != model.RoleCommon {
			webutil.RespondWithError(w, http.StatusUnauthorized, "[DEV] Unauthorized: Invalid X-User-Role")
			return
		}

		logger.Debug("[DEV AUTH] igreja set to context (no validation)", "igreja_id", igrejaID, "role", role)
		ctx := withIdentity(r.Context(), uint(igrejaID), role, 0)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
