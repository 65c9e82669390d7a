package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go_igreja_admin/internal/model"
)

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func login(t *testing.T, env *testEnv, username, password string, expectedCode int) *model.LoginResponse {
	t.Helper()
	body := sendRequest(t, env, httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]any{"username": username, "password": password},
	}, expectedCode)
	if expectedCode != http.StatusOK {
		return nil
	}
	resp := decodeBody[model.LoginResponse](t, body)
	return &resp
}

func TestAuthHandler_LoginAndRoles(t *testing.T) {
	env := setupTestEnv(t, true)
	igrejaID := registerIgreja(t, env, "IP Central", "admin")

	t.Run("異常系: パスワード誤り", func(t *testing.T) {
		body := sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/login",
			Body:   map[string]any{"username": "admin", "password": "errada123"},
		}, http.StatusUnauthorized)
		verifyErrorCode(t, body, "AUTHENTICATION_FAILED")
	})

	t.Run("異常系: 存在しないユーザー", func(t *testing.T) {
		login(t, env, "ninguem", "senha-forte", http.StatusUnauthorized)
	})

	t.Run("異常系: トークンなし", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{Method: http.MethodGet, Path: "/members"}, http.StatusUnauthorized)
	})

	t.Run("異常系: 不正なトークン", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{Method: http.MethodGet, Path: "/members", Headers: bearer("not-a-jwt")}, http.StatusUnauthorized)
	})

	admin := login(t, env, "admin", "senha-forte", http.StatusOK)
	require.NotNil(t, admin)
	assert.Equal(t, "Bearer", admin.TokenType)
	assert.Equal(t, int64(3600), admin.ExpiresIn)
	require.NotNil(t, admin.User)
	require.NotNil(t, admin.User.IgrejaID)
	assert.Equal(t, igrejaID, *admin.User.IgrejaID)

	t.Run("正常系: トークンのテナントで操作できる", func(t *testing.T) {
		body := sendRequest(t, env, httpRequestDetails{Method: http.MethodGet, Path: "/igreja", Headers: bearer(admin.AccessToken)}, http.StatusOK)
		igreja := decodeBody[model.Igreja](t, body)
		assert.Equal(t, igrejaID, igreja.ID)
		assert.Equal(t, "IP Central", igreja.Name)
	})

	// 一般ユーザーを作成
	sendRequest(t, env, httpRequestDetails{
		Method:  http.MethodPost,
		Path:    "/users",
		Body:    map[string]any{"username": "secretaria", "password": "outra-senha", "role": "common"},
		Headers: bearer(admin.AccessToken),
	}, http.StatusCreated)
	common := login(t, env, "secretaria", "outra-senha", http.StatusOK)
	require.NotNil(t, common)

	t.Run("正常系: 一般ユーザーも教会員を扱える", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/members",
			Body:    map[string]any{"name": "Novo", "type": "communicant", "admission_mode": "profession_of_faith"},
			Headers: bearer(common.AccessToken),
		}, http.StatusCreated)
	})

	t.Run("異常系: 一般ユーザーはユーザー管理できない", func(t *testing.T) {
		body := sendRequest(t, env, httpRequestDetails{Method: http.MethodGet, Path: "/users", Headers: bearer(common.AccessToken)}, http.StatusForbidden)
		verifyErrorCode(t, body, "ADMIN_REQUIRED")
	})

	t.Run("異常系: 一般ユーザーは教会情報を変更できない", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method:  http.MethodPatch,
			Path:    "/igreja",
			Body:    map[string]any{"name": "Outro"},
			Headers: bearer(common.AccessToken),
		}, http.StatusForbidden)
	})

	t.Run("正常系: 管理者は教会情報を変更できる", func(t *testing.T) {
		body := sendRequest(t, env, httpRequestDetails{
			Method:  http.MethodPatch,
			Path:    "/igreja",
			Body:    map[string]any{"name": "IP Central de Campinas", "state": "SP"},
			Headers: bearer(admin.AccessToken),
		}, http.StatusOK)
		igreja := decodeBody[model.Igreja](t, body)
		assert.Equal(t, "IP Central de Campinas", igreja.Name)
		assert.Equal(t, igrejaID, igreja.IgrejaID)
	})

	t.Run("正常系: 管理者はユーザー一覧を取得できる", func(t *testing.T) {
		body := sendRequest(t, env, httpRequestDetails{Method: http.MethodGet, Path: "/users", Headers: bearer(admin.AccessToken)}, http.StatusOK)
		users := decodeBody[[]model.User](t, body)
		assert.Len(t, users, 2)
		assert.NotContains(t, string(body), "password")
	})
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t, true)
	registerIgreja(t, env, "IP Central", "admin")

	t.Run("異常系: ユーザー名の重複", func(t *testing.T) {
		body := sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/register",
			Body: map[string]any{
				"igreja": map[string]any{"name": "IP Outra"},
				"admin":  map[string]any{"username": "admin", "password": "senha-forte", "role": "administrator"},
			},
		}, http.StatusConflict)
		verifyErrorCode(t, body, "DUPLICATE_USERNAME")
	})

	t.Run("異常系: 教会名なし", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/register",
			Body: map[string]any{
				"igreja": map[string]any{},
				"admin":  map[string]any{"username": "novo", "password": "senha-forte", "role": "administrator"},
			},
		}, http.StatusBadRequest)
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	env := setupTestEnv(t, true)
	registerIgreja(t, env, "IP Central", "admin")

	t.Run("正常系: 存在しないユーザーでも200", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/password-reset",
			Body:   map[string]any{"username": "ninguem"},
		}, http.StatusOK)
	})

	t.Run("異常系: ユーザー名なし", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/password-reset",
			Body:   map[string]any{"username": ""},
		}, http.StatusBadRequest)
	})

	sendRequest(t, env, httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/auth/password-reset",
		Body:   map[string]any{"username": "admin"},
	}, http.StatusOK)

	var user model.User
	require.NoError(t, env.db.Where("username = ?", "admin").First(&user).Error)
	require.NotNil(t, user.ResetToken)

	t.Run("異常系: 不正なトークン", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/password-reset/confirm",
			Body:   map[string]any{"token": "invalido", "password": "nova-senha-123"},
		}, http.StatusBadRequest)
	})

	t.Run("正常系: 新しいパスワードでログインできる", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/password-reset/confirm",
			Body:   map[string]any{"token": *user.ResetToken, "password": "nova-senha-123"},
		}, http.StatusOK)

		login(t, env, "admin", "senha-forte", http.StatusUnauthorized)
		login(t, env, "admin", "nova-senha-123", http.StatusOK)
	})

	t.Run("異常系: トークンは再利用できない", func(t *testing.T) {
		sendRequest(t, env, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/auth/password-reset/confirm",
			Body:   map[string]any{"token": *user.ResetToken, "password": "mais-uma-senha"},
		}, http.StatusBadRequest)
	})
}
