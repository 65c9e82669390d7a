package handlers

import (
	"log/slog"
	"net/http"
)

// LeadershipHandler は presbíteros / diáconos とその任期を扱う
type LeadershipHandler struct {
	store  LeadershipStore
	logger *slog.Logger
}

func NewLeadershipHandler(s LeadershipStore, logger *slog.Logger) *LeadershipHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadershipHandler{store: s, logger: logger}
}

func (h *LeadershipHandler) ListLeaderships(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, requestLogger(r, h.logger, "ListLeaderships"), h.store.GetLeaderships)
}

func (h *LeadershipHandler) PostLeadership(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, requestLogger(r, h.logger, "PostLeadership"), h.store.CreateLeadership)
}

func (h *LeadershipHandler) PatchLeadership(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, requestLogger(r, h.logger, "PatchLeadership"), "leadership_id", h.store.UpdateLeadership)
}

func (h *LeadershipHandler) DeleteLeadership(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, requestLogger(r, h.logger, "DeleteLeadership"), "leadership_id", h.store.DeleteLeadership)
}

func (h *LeadershipHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, requestLogger(r, h.logger, "ListTerms"), h.store.GetTerms)
}

func (h *LeadershipHandler) PostTerm(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, requestLogger(r, h.logger, "PostTerm"), h.store.CreateTerm)
}

func (h *LeadershipHandler) PatchTerm(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, requestLogger(r, h.logger, "PatchTerm"), "term_id", h.store.UpdateTerm)
}

func (h *LeadershipHandler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, requestLogger(r, h.logger, "DeleteTerm"), "term_id", h.store.DeleteTerm)
}
