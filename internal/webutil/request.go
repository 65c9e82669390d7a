package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go_igreja_admin/internal/model"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドは拒否します。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.NewAppError("INVALID_BODY", "Corpo da requisição vazio.", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewAppError("INVALID_BODY", "Corpo da requisição vazio.", "", model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_BODY", "JSON inválido: "+err.Error(), "", model.ErrInvalidInput)
	}
	return nil
}

// URLParamUint はパスパラメータを正の整数として取り出します
func URLParamUint(r *http.Request, key string) (uint, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, model.NewAppError("INVALID_ID", "Identificador inválido.", key, model.ErrInvalidInput)
	}
	return uint(id), nil
}

// QueryInt はクエリパラメータを整数で取り出し、未指定なら def を返します
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewAppError("INVALID_QUERY", "Parâmetro inválido.", key, model.ErrInvalidInput)
	}
	return v, nil
}
