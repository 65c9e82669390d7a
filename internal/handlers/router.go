package handlers

import (
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/service"

	"github.com/go-chi/chi/v5"
)

// API は /api/v1 配下のハンドラ一式
type API struct {
	Auth          *AuthHandler
	Members       *MemberHandler
	Groups        *GroupHandler
	Leaderships   *LeadershipHandler
	Pastors       *PastorHandler
	Igreja        *IgrejaHandler
	Users         *UserHandler
	Subscriptions *SubscriptionHandler
	Reports       *ReportHandler
}

// NewAPI は Storage と AuthService からハンドラを組み立てる
func NewAPI(storage *service.Storage, auth service.AuthService, webhookSecret string, logger *slog.Logger) *API {
	return &API{
		Auth:          NewAuthHandler(auth, logger),
		Members:       NewMemberHandler(storage, logger),
		Groups:        NewGroupHandler(storage, logger),
		Leaderships:   NewLeadershipHandler(storage, logger),
		Pastors:       NewPastorHandler(storage, logger),
		Igreja:        NewIgrejaHandler(storage, logger),
		Users:         NewUserHandler(storage, logger),
		Subscriptions: NewSubscriptionHandler(storage, webhookSecret, logger),
		Reports:       NewReportHandler(storage, logger),
	}
}

// Routes は API のルートを r に登録する。
// authn は認証済みグループに適用するミドルウェア (JWT または開発用ヘッダ)。
func (a *API) Routes(r chi.Router, authn func(http.Handler) http.Handler) {
	// --- 公開 ---
	r.Post("/auth/register", a.Auth.Register)
	r.Post("/auth/login", a.Auth.Login)
	r.Post("/auth/password-reset", a.Auth.RequestPasswordReset)
	r.Post("/auth/password-reset/confirm", a.Auth.ResetPassword)
	r.Post("/billing/webhook", a.Subscriptions.ProviderWebhook)
	r.Get("/plans", a.Subscriptions.ListPlans)
	r.Get("/plans/{plan_id}", a.Subscriptions.GetPlan)

	// --- 要認証 ---
	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", a.Members.ListMembers)
			r.Post("/", a.Members.PostMember)
			r.Get("/{member_id}", a.Members.GetMember)
			r.Patch("/{member_id}", a.Members.PatchMember)
			r.Delete("/{member_id}", a.Members.DeleteMember)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", a.Groups.ListGroups)
			r.Post("/", a.Groups.PostGroup)
			r.Get("/{group_id}", a.Groups.GetGroup)
			r.Get("/{group_id}/members", a.Groups.ListGroupMembers)
			r.Patch("/{group_id}", a.Groups.PatchGroup)
			r.Delete("/{group_id}", a.Groups.DeleteGroup)
		})

		r.Route("/leaderships", func(r chi.Router) {
			r.Get("/", a.Leaderships.ListLeaderships)
			r.Post("/", a.Leaderships.PostLeadership)
			r.Route("/terms", func(r chi.Router) {
				r.Get("/", a.Leaderships.ListTerms)
				r.Post("/", a.Leaderships.PostTerm)
				r.Patch("/{term_id}", a.Leaderships.PatchTerm)
				r.Delete("/{term_id}", a.Leaderships.DeleteTerm)
			})
			r.Patch("/{leadership_id}", a.Leaderships.PatchLeadership)
			r.Delete("/{leadership_id}", a.Leaderships.DeleteLeadership)
		})

		r.Route("/pastors", func(r chi.Router) {
			r.Get("/", a.Pastors.ListPastors)
			r.Post("/", a.Pastors.PostPastor)
			r.Route("/terms", func(r chi.Router) {
				r.Get("/", a.Pastors.ListTerms)
				r.Post("/", a.Pastors.PostTerm)
				r.Patch("/{term_id}", a.Pastors.PatchTerm)
				r.Delete("/{term_id}", a.Pastors.DeleteTerm)
			})
			r.Get("/{pastor_id}", a.Pastors.GetPastor)
			r.Patch("/{pastor_id}", a.Pastors.PatchPastor)
			r.Delete("/{pastor_id}", a.Pastors.DeletePastor)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/members", a.Reports.ListMembers)
			r.Get("/statistics", a.Reports.GetStatistics)
			r.Get("/occurrences", a.Reports.GetOccurrences)
			r.Get("/charts", a.Reports.GetChartData)
		})

		r.Get("/igreja", a.Igreja.GetCurrentIgreja)
		r.Get("/subscription", a.Subscriptions.GetSubscription)

		// 管理者のみ
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Patch("/igreja", a.Igreja.PatchCurrentIgreja)
			r.Post("/subscription", a.Subscriptions.PostSubscription)
			r.Patch("/subscription/{subscription_id}", a.Subscriptions.PatchSubscription)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", a.Users.ListUsers)
				r.Post("/", a.Users.PostUser)
				r.Patch("/{user_id}", a.Users.PatchUser)
				r.Delete("/{user_id}", a.Users.DeleteUser)
			})
		})
	})
}
