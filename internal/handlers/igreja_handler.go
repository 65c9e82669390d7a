package handlers

import (
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/webutil"
)

// IgrejaHandler は認証済みテナント自身の教会情報を扱う
type IgrejaHandler struct {
	store  IgrejaStore
	logger *slog.Logger
}

func NewIgrejaHandler(s IgrejaStore, logger *slog.Logger) *IgrejaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IgrejaHandler{store: s, logger: logger}
}

func (h *IgrejaHandler) GetCurrentIgreja(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetCurrentIgreja")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	igreja, err := h.store.GetIgreja(r.Context(), igrejaID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, igreja)
}

func (h *IgrejaHandler) PatchCurrentIgreja(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "PatchCurrentIgreja")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	var req model.IgrejaPatch
	if !decodeOrFail(w, r, logger, &req) {
		return
	}
	igreja, err := h.store.UpdateIgreja(r.Context(), igrejaID, igrejaID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, igreja)
}
