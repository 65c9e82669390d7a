package webutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_igreja_admin/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"入力エラー", model.ErrInvalidInput, http.StatusBadRequest},
		{"テナント未指定", model.ErrTenantRequired, http.StatusBadRequest},
		{"認証失敗", model.ErrForbidden, http.StatusUnauthorized},
		{"テナント不一致", fmt.Errorf("wrap: %w", model.ErrUnauthorized), http.StatusForbidden},
		{"未検出", model.NewAppError("NOT_FOUND", "x", "", model.ErrNotFound), http.StatusNotFound},
		{"重複", model.ErrConflict, http.StatusConflict},
		{"その他", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Run("AppErrorの詳細を返す", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, nil, model.NewAppError("VALIDATION_ERROR", "nome é obrigatório.", "name", model.ErrInvalidInput))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp model.APIErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "name", resp.Error.Field)
	})

	t.Run("センチネルエラーにはコードを補う", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, nil, model.ErrUnauthorized)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		var resp model.APIErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	})

	t.Run("予期せぬエラーは詳細を隠す", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, nil, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "connection refused")
		assert.Contains(t, rr.Body.String(), "INTERNAL_SERVER_ERROR")
	})
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("正常系", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana"}`))
		var p payload
		require.NoError(t, DecodeJSONBody(req, &p))
		assert.Equal(t, "Ana", p.Name)
	})

	for name, body := range map[string]string{
		"異常系: 未知のフィールド": `{"name":"Ana","x":1}`,
		"異常系: 不正なJSON":  `{"name":`,
		"異常系: 空のボディ":    ``,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			var p payload
			err := DecodeJSONBody(req, &p)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestURLParamUint(t *testing.T) {
	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := URLParamUint(withParam("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := URLParamUint(withParam(bad), "id")
		assert.ErrorIs(t, err, model.ErrInvalidInput, bad)
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&size=x", nil)

	v, err := QueryInt(req, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = QueryInt(req, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = QueryInt(req, "size", 10)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
