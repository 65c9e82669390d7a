package handlers

import (
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/webutil"
)

type GroupHandler struct {
	store  GroupStore
	logger *slog.Logger
}

func NewGroupHandler(s GroupStore, logger *slog.Logger) *GroupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupHandler{store: s, logger: logger}
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "ListGroups")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	groups, err := h.store.GetGroups(r.Context(), igrejaID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, emptyIfNil(groups))
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetGroup")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "group_id")
	if !ok {
		return
	}
	group, err := h.store.GetGroup(r.Context(), igrejaID, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "ListGroupMembers")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "group_id")
	if !ok {
		return
	}
	members, err := h.store.GetGroupMembers(r.Context(), igrejaID, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, emptyIfNil(members))
}

func (h *GroupHandler) PostGroup(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "PostGroup")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	var req model.GroupInput
	if !decodeOrFail(w, r, logger, &req) {
		return
	}
	group, err := h.store.CreateGroup(r.Context(), igrejaID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Group created", slog.Uint64("group_id", uint64(group.ID)), slog.Int("members", len(req.Members)))
	webutil.RespondWithJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) PatchGroup(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "PatchGroup")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "group_id")
	if !ok {
		return
	}
	var req model.GroupPatch
	if !decodeOrFail(w, r, logger, &req) {
		return
	}
	group, err := h.store.UpdateGroup(r.Context(), igrejaID, id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "DeleteGroup")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "group_id")
	if !ok {
		return
	}
	if err := h.store.DeleteGroup(r.Context(), igrejaID, id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
