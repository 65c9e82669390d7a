// internal/handlers/member_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/webutil"
)

const defaultPageSize = 20

type MemberHandler struct {
	store  MemberStore
	logger *slog.Logger
}

func NewMemberHandler(s MemberStore, logger *slog.Logger) *MemberHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemberHandler{store: s, logger: logger}
}

// ListMembers は教会員一覧を返す。page が指定されたときはページングする。
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "ListMembers")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}

	if r.URL.Query().Has("page") {
		page, err := webutil.QueryInt(r, "page", 1)
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		size, err := webutil.QueryInt(r, "size", defaultPageSize)
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		result, err := h.store.PaginateMembers(r.Context(), igrejaID, page, size)
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		result.Data = emptyIfNil(result.Data)
		webutil.RespondWithJSON(w, http.StatusOK, result)
		return
	}

	members, err := h.store.GetMembers(r.Context(), igrejaID)
	if err != nil {
		logger.Error("Error listing members", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, emptyIfNil(members))
}

func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetMember")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "member_id")
	if !ok {
		return
	}

	member, err := h.store.GetMember(r.Context(), igrejaID, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) PostMember(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "PostMember")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}

	var req model.MemberInput
	if !decodeOrFail(w, r, logger, &req) {
		return
	}

	member, err := h.store.CreateMember(r.Context(), igrejaID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Member created", slog.Uint64("member_id", uint64(member.ID)))
	webutil.RespondWithJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) PatchMember(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "PatchMember")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "member_id")
	if !ok {
		return
	}

	var req model.MemberPatch
	if !decodeOrFail(w, r, logger, &req) {
		return
	}

	member, err := h.store.UpdateMember(r.Context(), igrejaID, id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "DeleteMember")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := idOrFail(w, r, logger, "member_id")
	if !ok {
		return
	}

	if err := h.store.DeleteMember(r.Context(), igrejaID, id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Member deleted", slog.Uint64("member_id", uint64(id)))
	w.WriteHeader(http.StatusNoContent)
}
