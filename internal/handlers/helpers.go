package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/webutil"
)

// requestLogger はリクエストスコープのロガーにハンドラ名を付けて返す
func requestLogger(r *http.Request, fallback *slog.Logger, handler string) *slog.Logger {
	return middleware.LoggerOr(r.Context(), fallback).With(slog.String("handler", handler))
}

// igrejaFromRequest は認証済みテナントIDを取り出し、失敗時はレスポンスを書いて false を返す
func igrejaFromRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uint, bool) {
	igrejaID, err := middleware.GetIgrejaIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, model.NewAppError("UNAUTHENTICATED", "Credenciais não encontradas.", "", model.ErrForbidden))
		return 0, false
	}
	return igrejaID, true
}

func decodeOrFail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := webutil.DecodeJSONBody(r, dst); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return false
	}
	return true
}

func idOrFail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) (uint, bool) {
	id, err := webutil.URLParamUint(r, key)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return 0, false
	}
	return id, true
}

// emptyIfNil は JSON で null ではなく [] を返すため
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// 以下は単純な CRUD 用の共通処理

func serveList[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger,
	list func(ctx context.Context, igrejaID uint) ([]T, error)) {
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	items, err := list(r.Context(), igrejaID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, emptyIfNil(items))
}

func serveCreate[In any, Out any](w http.ResponseWriter, r *http.Request, logger *slog.Logger,
	create func(ctx context.Context, igrejaID uint, in *In) (*Out, error)) {
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	var req In
	if !decodeOrFail(w, r, logger, &req) {
		return
	}
	created, err := create(r.Context(), igrejaID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, created)
}

func serveUpdate[In any, Out any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, idKey string,
	update func(ctx context.Context, igrejaID, id uint, patch *In) (*Out, error)) {
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, idKey)
	if !ok {
		return
	}
	var req In
	if !decodeOrFail(w, r, logger, &req) {
		return
	}
	updated, err := update(r.Context(), igrejaID, id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, updated)
}

func serveDelete(w http.ResponseWriter, r *http.Request, logger *slog.Logger, idKey string,
	del func(ctx context.Context, igrejaID, id uint) error) {
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, idKey)
	if !ok {
		return
	}
	if err := del(r.Context(), igrejaID, id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
