package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims model.AuthClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() model.AuthClaims {
	return model.AuthClaims{
		IgrejaID: 7,
		Role:     model.RoleAdministrator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// identityHandler はコンテキストの内容をヘッダーに書き出す
func identityHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		igrejaID, err := GetIgrejaIDFromContext(r.Context())
		require.NoError(t, err)
		w.Header().Set("X-Got-Igreja", strconv.FormatUint(uint64(igrejaID), 10))
		w.Header().Set("X-Got-Role", string(GetUserRoleFromContext(r.Context())))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = testSecret
	handler := JWTAuthMiddleware(cfg)(identityHandler(t))

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noIgreja := validClaims()
	noIgreja.IgrejaID = 0
	badSubject := validClaims()
	badSubject.Subject = "abc"

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"正常系: 有効なトークン", "Bearer " + signToken(t, testSecret, validClaims()), http.StatusNoContent},
		{"異常系: ヘッダーなし", "", http.StatusUnauthorized},
		{"異常系: Bearerでない", "Basic abc", http.StatusUnauthorized},
		{"異常系: 署名キー違い", "Bearer " + signToken(t, "other", validClaims()), http.StatusUnauthorized},
		{"異常系: 期限切れ", "Bearer " + signToken(t, testSecret, expired), http.StatusUnauthorized},
		{"異常系: igreja_idなし", "Bearer " + signToken(t, testSecret, noIgreja), http.StatusUnauthorized},
		{"異常系: subが数値でない", "Bearer " + signToken(t, testSecret, badSubject), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, "7", rr.Header().Get("X-Got-Igreja"))
				assert.Equal(t, "administrator", rr.Header().Get("X-Got-Role"))
			}
		})
	}
}

func TestDevIgrejaContextMiddleware(t *testing.T) {
	handler := DevIgrejaContextMiddleware(identityHandler(t))

	tests := []struct {
		name       string
		igreja     string
		role       string
		wantStatus int
		wantRole   string
	}{
		{"正常系: ロール省略時は管理者", "7", "", http.StatusNoContent, "administrator"},
		{"正常系: 一般ユーザー", "7", "common", http.StatusNoContent, "common"},
		{"異常系: ヘッダーなし", "", "", http.StatusUnauthorized, ""},
		{"異常系: 数値でない", "abc", "", http.StatusUnauthorized, ""},
		{"異常系: 0", "0", "", http.StatusUnauthorized, ""},
		{"異常系: 不明なロール", "7", "root", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.igreja != "" {
				req.Header.Set("X-Igreja-ID", tt.igreja)
			}
			if tt.role != "" {
				req.Header.Set("X-User-Role", tt.role)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantRole != "" {
				assert.Equal(t, tt.wantRole, rr.Header().Get("X-Got-Role"))
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := DevIgrejaContextMiddleware(RequireAdmin(ok))

	for role, want := range map[string]int{
		"administrator": http.StatusNoContent,
		"common":        http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set("X-Igreja-ID", "1")
		req.Header.Set("X-User-Role", role)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, role)
	}
}

func TestGetIgrejaIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetIgrejaIDFromContext(req.Context())
	assert.ErrorIs(t, err, model.ErrInternalServer)
	assert.Equal(t, model.RoleCommon, GetUserRoleFromContext(req.Context()))
}
