package handlers

import (
	"context"

	"go_igreja_admin/internal/model"
)

// 各ハンドラが必要とする操作。*service.Storage がすべてを実装する。

type MemberStore interface {
	GetMembers(ctx context.Context, igrejaID uint) ([]model.Member, error)
	GetMember(ctx context.Context, igrejaID, id uint) (*model.Member, error)
	PaginateMembers(ctx context.Context, igrejaID uint, page, pageSize int) (*model.Page[model.Member], error)
	CreateMember(ctx context.Context, igrejaID uint, input *model.MemberInput) (*model.Member, error)
	UpdateMember(ctx context.Context, igrejaID, id uint, patch *model.MemberPatch) (*model.Member, error)
	DeleteMember(ctx context.Context, igrejaID, id uint) error
}

type GroupStore interface {
	GetGroups(ctx context.Context, igrejaID uint) ([]model.Group, error)
	GetGroup(ctx context.Context, igrejaID, id uint) (*model.Group, error)
	GetGroupMembers(ctx context.Context, igrejaID, groupID uint) ([]model.GroupMemberDetail, error)
	CreateGroup(ctx context.Context, igrejaID uint, input *model.GroupInput) (*model.Group, error)
	UpdateGroup(ctx context.Context, igrejaID, id uint, patch *model.GroupPatch) (*model.Group, error)
	DeleteGroup(ctx context.Context, igrejaID, id uint) error
}

type LeadershipStore interface {
	GetLeaderships(ctx context.Context, igrejaID uint) ([]model.Leadership, error)
	CreateLeadership(ctx context.Context, igrejaID uint, input *model.LeadershipInput) (*model.Leadership, error)
	UpdateLeadership(ctx context.Context, igrejaID, id uint, patch *model.LeadershipPatch) (*model.Leadership, error)
	DeleteLeadership(ctx context.Context, igrejaID, id uint) error
	GetTerms(ctx context.Context, igrejaID uint) ([]model.Term, error)
	CreateTerm(ctx context.Context, igrejaID uint, input *model.TermInput) (*model.Term, error)
	UpdateTerm(ctx context.Context, igrejaID, id uint, patch *model.TermPatch) (*model.Term, error)
	DeleteTerm(ctx context.Context, igrejaID, id uint) error
}

type PastorStore interface {
	GetPastors(ctx context.Context, igrejaID uint) ([]model.Pastor, error)
	GetPastor(ctx context.Context, igrejaID, id uint) (*model.Pastor, error)
	CreatePastor(ctx context.Context, igrejaID uint, input *model.PastorInput) (*model.Pastor, error)
	UpdatePastor(ctx context.Context, igrejaID, id uint, patch *model.PastorPatch) (*model.Pastor, error)
	DeletePastor(ctx context.Context, igrejaID, id uint) error
	GetPastorTerms(ctx context.Context, igrejaID uint) ([]model.PastorTerm, error)
	CreatePastorTerm(ctx context.Context, igrejaID uint, input *model.PastorTermInput) (*model.PastorTerm, error)
	UpdatePastorTerm(ctx context.Context, igrejaID, id uint, patch *model.PastorTermPatch) (*model.PastorTerm, error)
	DeletePastorTerm(ctx context.Context, igrejaID, id uint) error
}

type IgrejaStore interface {
	GetIgreja(ctx context.Context, id uint) (*model.Igreja, error)
	UpdateIgreja(ctx context.Context, igrejaID, id uint, patch *model.IgrejaPatch) (*model.Igreja, error)
}

type UserStore interface {
	GetUsers(ctx context.Context, igrejaID uint) ([]model.User, error)
	CreateUser(ctx context.Context, igrejaID uint, input *model.UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, igrejaID, id uint, patch *model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, igrejaID, id uint) error
}

type SubscriptionStore interface {
	ListPlans(ctx context.Context, activeOnly bool) ([]model.Plan, error)
	GetPlan(ctx context.Context, id uint) (*model.Plan, error)
	GetSubscription(ctx context.Context, igrejaID uint) (*model.Subscription, error)
	CreateSubscription(ctx context.Context, igrejaID uint, input *model.SubscriptionInput) (*model.Subscription, error)
	UpdateSubscription(ctx context.Context, igrejaID, id uint, patch *model.SubscriptionPatch) (*model.Subscription, error)
	ApplyProviderUpdate(ctx context.Context, externalSubscriptionID string, patch *model.SubscriptionPatch) (*model.Subscription, error)
}

type ReportStore interface {
	GetMembersFiltered(ctx context.Context, igrejaID uint, filter *model.MemberFilter) ([]model.Member, error)
	GetStatistics(ctx context.Context, igrejaID uint, period *model.Period) (*model.Statistics, error)
	GetOccurrences(ctx context.Context, igrejaID uint, period *model.Period) ([]model.Occurrence, error)
	GetChartData(ctx context.Context, igrejaID uint) (*model.ChartData, error)
}
