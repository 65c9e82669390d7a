package handlers

import (
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/webutil"
)

type PastorHandler struct {
	store  PastorStore
	logger *slog.Logger
}

func NewPastorHandler(s PastorStore, logger *slog.Logger) *PastorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PastorHandler{store: s, logger: logger}
}

func (h *PastorHandler) ListPastors(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, requestLogger(r, h.logger, "ListPastors"), h.store.GetPastors)
}

// GetPastor は任期を含めて返す
func (h *PastorHandler) GetPastor(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetPastor")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "pastor_id")
	if !ok {
		return
	}
	pastor, err := h.store.GetPastor(r.Context(), igrejaID, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, pastor)
}

func (h *PastorHandler) PostPastor(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, requestLogger(r, h.logger, "PostPastor"), h.store.CreatePastor)
}

func (h *PastorHandler) PatchPastor(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, requestLogger(r, h.logger, "PatchPastor"), "pastor_id", h.store.UpdatePastor)
}

func (h *PastorHandler) DeletePastor(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, requestLogger(r, h.logger, "DeletePastor"), "pastor_id", h.store.DeletePastor)
}

func (h *PastorHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, requestLogger(r, h.logger, "ListPastorTerms"), h.store.GetPastorTerms)
}

func (h *PastorHandler) PostTerm(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, requestLogger(r, h.logger, "PostPastorTerm"), h.store.CreatePastorTerm)
}

func (h *PastorHandler) PatchTerm(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, requestLogger(r, h.logger, "PatchPastorTerm"), "term_id", h.store.UpdatePastorTerm)
}

func (h *PastorHandler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, requestLogger(r, h.logger, "DeletePastorTerm"), "term_id", h.store.DeletePastorTerm)
}
