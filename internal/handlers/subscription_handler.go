package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/validation"
	"go_igreja_admin/internal/webutil"
)

const webhookSecretHeader = "X-Webhook-Secret"

type SubscriptionHandler struct {
	store         SubscriptionStore
	webhookSecret string
	logger        *slog.Logger
}

func NewSubscriptionHandler(s SubscriptionStore, webhookSecret string, logger *slog.Logger) *SubscriptionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionHandler{store: s, webhookSecret: webhookSecret, logger: logger}
}

func (h *SubscriptionHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "ListPlans")
	activeOnly := r.URL.Query().Get("all") != "true"
	plans, err := h.store.ListPlans(r.Context(), activeOnly)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, emptyIfNil(plans))
}

func (h *SubscriptionHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetPlan")
	id, ok := idOrFail(w, r, logger, "plan_id")
	if !ok {
		return
	}
	plan, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, plan)
}

// GetSubscription は教会の最新の契約を返す
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetSubscription")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	sub, err := h.store.GetSubscription(r.Context(), igrejaID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) PostSubscription(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, requestLogger(r, h.logger, "PostSubscription"), h.store.CreateSubscription)
}

func (h *SubscriptionHandler) PatchSubscription(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, requestLogger(r, h.logger, "PatchSubscription"), "subscription_id", h.store.UpdateSubscription)
}

// ProviderWebhook は課金プロバイダの状態通知をそのまま反映する。
// テナントは保存済みの契約から決まり、リクエストからは受け取らない。
func (h *SubscriptionHandler) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "ProviderWebhook")

	got := r.Header.Get(webhookSecretHeader)
	if h.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
		logger.Warn("Webhook rejected: invalid secret")
		webutil.HandleError(w, logger, model.NewAppError("INVALID_WEBHOOK_SECRET", "Assinatura do webhook inválida.", "", model.ErrForbidden))
		return
	}

	var req model.SubscriptionWebhook
	if !decodeOrFail(w, r, logger, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	sub, err := h.store.ApplyProviderUpdate(r.Context(), req.ExternalSubscriptionID, &req.SubscriptionPatch)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Subscription updated by provider", slog.Uint64("subscription_id", uint64(sub.ID)), slog.String("status", string(sub.Status)))
	webutil.RespondWithJSON(w, http.StatusOK, sub)
}
