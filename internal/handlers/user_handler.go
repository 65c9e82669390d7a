package handlers

import (
	"log/slog"
	"net/http"
)

// UserHandler は同じ教会のログインユーザーを管理する (管理者のみ)
type UserHandler struct {
	store  UserStore
	logger *slog.Logger
}

func NewUserHandler(s UserStore, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{store: s, logger: logger}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, requestLogger(r, h.logger, "ListUsers"), h.store.GetUsers)
}

func (h *UserHandler) PostUser(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, requestLogger(r, h.logger, "PostUser"), h.store.CreateUser)
}

func (h *UserHandler) PatchUser(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, requestLogger(r, h.logger, "PatchUser"), "user_id", h.store.UpdateUser)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, requestLogger(r, h.logger, "DeleteUser"), "user_id", h.store.DeleteUser)
}
