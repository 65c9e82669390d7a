package handlers

import (
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/service"
	"go_igreja_admin/internal/validation"
	"go_igreja_admin/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{service: s, logger: logger}
}

type registerResponse struct {
	Igreja *model.Igreja `json:"igreja"`
	Admin  *model.User   `json:"admin"`
}

// Register は新しい教会と最初の管理者を登録します
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "Register")

	var req model.RegisterRequest
	if !decodeOrFail(w, r, logger, &req) {
		return
	}

	igreja, admin, err := h.service.RegisterIgreja(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Igreja registered", slog.Uint64("igreja_id", uint64(igreja.ID)))
	webutil.RespondWithJSON(w, http.StatusCreated, registerResponse{Igreja: igreja, Admin: admin})
}

// Login はユーザーを認証し、JWTを返します
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "Login")

	var req model.LoginRequest
	if !decodeOrFail(w, r, logger, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		// サービス層でログ出力済み
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// RequestPasswordReset はユーザーの有無に関わらず同じ応答を返す
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "RequestPasswordReset")

	var req model.PasswordResetRequest
	if !decodeOrFail(w, r, logger, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Username); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Se o usuário existir, enviaremos as instruções de redefinição de senha.",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "ResetPassword")

	var req model.ResetPasswordRequest
	if !decodeOrFail(w, r, logger, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Senha redefinida com sucesso.",
	})
}
