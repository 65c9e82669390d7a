// internal/service/storage.go
package service

import (
	"context"
	"time"

	"go_igreja_admin/internal/audit"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/report"
	"go_igreja_admin/internal/repository"

	"gorm.io/gorm"
)

// 監査イベントのエンティティ名
const (
	EntityMember       = "member"
	EntityGroup        = "group"
	EntityLeadership   = "leadership"
	EntityTerm         = "term"
	EntityPastor       = "pastor"
	EntityPastorTerm   = "pastor_term"
	EntityIgreja       = "igreja"
	EntityUser         = "user"
	EntityPlan         = "plan"
	EntitySubscription = "subscription"
)

// Repositories はストレージが委譲するリポジトリ一式
type Repositories struct {
	Members       repository.MemberRepository
	Groups        repository.GroupRepository
	Leaderships   repository.LeadershipRepository
	Pastors       repository.PastorRepository
	Igrejas       repository.IgrejaRepository
	Users         repository.UserRepository
	Subscriptions repository.SubscriptionRepository
	Reports       repository.ReportRepository
}

// NewRepositories は同じ DB を共有する GORM 実装を組み立てる
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Members:       repository.NewGormMemberRepository(db),
		Groups:        repository.NewGormGroupRepository(db),
		Leaderships:   repository.NewGormLeadershipRepository(db),
		Pastors:       repository.NewGormPastorRepository(db),
		Igrejas:       repository.NewGormIgrejaRepository(db),
		Users:         repository.NewGormUserRepository(db),
		Subscriptions: repository.NewGormSubscriptionRepository(db),
		Reports:       repository.NewGormReportRepository(db),
	}
}

// Storage はすべての操作をフラットに公開する窓口。
// 更新が成功したときだけ監査イベントを記録する。
type Storage struct {
	repos   Repositories
	reports *report.Aggregator
	sink    audit.Sink
	now     func() time.Time
}

func NewStorage(repos Repositories, aggregator *report.Aggregator, sink audit.Sink) *Storage {
	if sink == nil {
		sink = audit.Nop
	}
	if aggregator == nil {
		aggregator = report.NewAggregator(repos.Reports)
	}
	return &Storage{repos: repos, reports: aggregator, sink: sink, now: time.Now}
}

func (s *Storage) record(ctx context.Context, action audit.Action, entity string, id, igrejaID uint) {
	s.sink.Record(ctx, audit.Event{
		Action:   action,
		Entity:   entity,
		EntityID: id,
		IgrejaID: igrejaID,
		At:       s.now().UTC(),
	})
}

// --- Members ---

func (s *Storage) GetMembers(ctx context.Context, igrejaID uint) ([]model.Member, error) {
	return s.repos.Members.GetAll(ctx, igrejaID)
}

func (s *Storage) GetMember(ctx context.Context, igrejaID, id uint) (*model.Member, error) {
	return s.repos.Members.GetByID(ctx, igrejaID, id)
}

func (s *Storage) PaginateMembers(ctx context.Context, igrejaID uint, page, pageSize int) (*model.Page[model.Member], error) {
	return s.repos.Members.Paginate(ctx, igrejaID, page, pageSize)
}

func (s *Storage) CreateMember(ctx context.Context, igrejaID uint, input *model.MemberInput) (*model.Member, error) {
	m, err := s.repos.Members.Create(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityMember, m.ID, igrejaID)
	return m, nil
}

func (s *Storage) UpdateMember(ctx context.Context, igrejaID, id uint, patch *model.MemberPatch) (*model.Member, error) {
	m, err := s.repos.Members.Update(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityMember, id, igrejaID)
	return m, nil
}

func (s *Storage) DeleteMember(ctx context.Context, igrejaID, id uint) error {
	if err := s.repos.Members.Delete(ctx, igrejaID, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, EntityMember, id, igrejaID)
	return nil
}

// --- Groups ---

func (s *Storage) GetGroups(ctx context.Context, igrejaID uint) ([]model.Group, error) {
	return s.repos.Groups.GetAll(ctx, igrejaID)
}

func (s *Storage) GetGroup(ctx context.Context, igrejaID, id uint) (*model.Group, error) {
	return s.repos.Groups.GetByID(ctx, igrejaID, id)
}

func (s *Storage) GetGroupMembers(ctx context.Context, igrejaID, groupID uint) ([]model.GroupMemberDetail, error) {
	return s.repos.Groups.GetMembers(ctx, igrejaID, groupID)
}

func (s *Storage) CreateGroup(ctx context.Context, igrejaID uint, input *model.GroupInput) (*model.Group, error) {
	g, err := s.repos.Groups.Create(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityGroup, g.ID, igrejaID)
	return g, nil
}

func (s *Storage) UpdateGroup(ctx context.Context, igrejaID, id uint, patch *model.GroupPatch) (*model.Group, error) {
	g, err := s.repos.Groups.Update(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityGroup, id, igrejaID)
	return g, nil
}

func (s *Storage) DeleteGroup(ctx context.Context, igrejaID, id uint) error {
	if err := s.repos.Groups.Delete(ctx, igrejaID, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, EntityGroup, id, igrejaID)
	return nil
}

// --- Leadership (presbíteros / diáconos) ---

func (s *Storage) GetLeaderships(ctx context.Context, igrejaID uint) ([]model.Leadership, error) {
	return s.repos.Leaderships.GetAll(ctx, igrejaID)
}

func (s *Storage) CreateLeadership(ctx context.Context, igrejaID uint, input *model.LeadershipInput) (*model.Leadership, error) {
	l, err := s.repos.Leaderships.Create(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityLeadership, l.ID, igrejaID)
	return l, nil
}

func (s *Storage) UpdateLeadership(ctx context.Context, igrejaID, id uint, patch *model.LeadershipPatch) (*model.Leadership, error) {
	l, err := s.repos.Leaderships.Update(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityLeadership, id, igrejaID)
	return l, nil
}

func (s *Storage) DeleteLeadership(ctx context.Context, igrejaID, id uint) error {
	if err := s.repos.Leaderships.Delete(ctx, igrejaID, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, EntityLeadership, id, igrejaID)
	return nil
}

func (s *Storage) GetTerms(ctx context.Context, igrejaID uint) ([]model.Term, error) {
	return s.repos.Leaderships.GetTerms(ctx, igrejaID)
}

func (s *Storage) CreateTerm(ctx context.Context, igrejaID uint, input *model.TermInput) (*model.Term, error) {
	t, err := s.repos.Leaderships.CreateTerm(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityTerm, t.ID, igrejaID)
	return t, nil
}

func (s *Storage) UpdateTerm(ctx context.Context, igrejaID, id uint, patch *model.TermPatch) (*model.Term, error) {
	t, err := s.repos.Leaderships.UpdateTerm(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityTerm, id, igrejaID)
	return t, nil
}

func (s *Storage) DeleteTerm(ctx context.Context, igrejaID, id uint) error {
	if err := s.repos.Leaderships.DeleteTerm(ctx, igrejaID, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, EntityTerm, id, igrejaID)
	return nil
}

// --- Pastors ---

func (s *Storage) GetPastors(ctx context.Context, igrejaID uint) ([]model.Pastor, error) {
	return s.repos.Pastors.GetAll(ctx, igrejaID)
}

func (s *Storage) GetPastor(ctx context.Context, igrejaID, id uint) (*model.Pastor, error) {
	return s.repos.Pastors.GetByID(ctx, igrejaID, id)
}

func (s *Storage) CreatePastor(ctx context.Context, igrejaID uint, input *model.PastorInput) (*model.Pastor, error) {
	p, err := s.repos.Pastors.Create(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityPastor, p.ID, igrejaID)
	return p, nil
}

func (s *Storage) UpdatePastor(ctx context.Context, igrejaID, id uint, patch *model.PastorPatch) (*model.Pastor, error) {
	p, err := s.repos.Pastors.Update(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityPastor, id, igrejaID)
	return p, nil
}

func (s *Storage) DeletePastor(ctx context.Context, igrejaID, id uint) error {
	if err := s.repos.Pastors.Delete(ctx, igrejaID, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, EntityPastor, id, igrejaID)
	return nil
}

func (s *Storage) GetPastorTerms(ctx context.Context, igrejaID uint) ([]model.PastorTerm, error) {
	return s.repos.Pastors.GetTerms(ctx, igrejaID)
}

func (s *Storage) CreatePastorTerm(ctx context.Context, igrejaID uint, input *model.PastorTermInput) (*model.PastorTerm, error) {
	t, err := s.repos.Pastors.CreateTerm(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityPastorTerm, t.ID, igrejaID)
	return t, nil
}

func (s *Storage) UpdatePastorTerm(ctx context.Context, igrejaID, id uint, patch *model.PastorTermPatch) (*model.PastorTerm, error) {
	t, err := s.repos.Pastors.UpdateTerm(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityPastorTerm, id, igrejaID)
	return t, nil
}

func (s *Storage) DeletePastorTerm(ctx context.Context, igrejaID, id uint) error {
	if err := s.repos.Pastors.DeleteTerm(ctx, igrejaID, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, EntityPastorTerm, id, igrejaID)
	return nil
}

// --- Igreja ---

func (s *Storage) GetIgreja(ctx context.Context, id uint) (*model.Igreja, error) {
	return s.repos.Igrejas.GetByID(ctx, id)
}

func (s *Storage) ListIgrejas(ctx context.Context, page, pageSize int) (*model.Page[model.Igreja], error) {
	return s.repos.Igrejas.List(ctx, page, pageSize)
}

func (s *Storage) UpdateIgreja(ctx context.Context, igrejaID, id uint, patch *model.IgrejaPatch) (*model.Igreja, error) {
	i, err := s.repos.Igrejas.Update(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityIgreja, id, igrejaID)
	return i, nil
}

// BootstrapIgreja は教会と最初の管理者を1トランザクションで作成する
func (s *Storage) BootstrapIgreja(ctx context.Context, igreja *model.IgrejaInput, admin *model.UserInput) (*model.Igreja, *model.User, error) {
	i, u, err := s.repos.Igrejas.Bootstrap(ctx, igreja, admin)
	if err != nil {
		return nil, nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityIgreja, i.ID, i.ID)
	s.record(ctx, audit.ActionCreate, EntityUser, u.ID, i.ID)
	return i, u, nil
}

// --- Users ---

func (s *Storage) GetUsers(ctx context.Context, igrejaID uint) ([]model.User, error) {
	return s.repos.Users.GetAll(ctx, igrejaID)
}

func (s *Storage) CreateUser(ctx context.Context, igrejaID uint, input *model.UserInput) (*model.User, error) {
	u, err := s.repos.Users.Create(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityUser, u.ID, igrejaID)
	return u, nil
}

func (s *Storage) UpdateUser(ctx context.Context, igrejaID, id uint, patch *model.UserPatch) (*model.User, error) {
	u, err := s.repos.Users.Update(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityUser, id, igrejaID)
	return u, nil
}

func (s *Storage) DeleteUser(ctx context.Context, igrejaID, id uint) error {
	if err := s.repos.Users.Delete(ctx, igrejaID, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, EntityUser, id, igrejaID)
	return nil
}

// --- Plans / Subscriptions ---

func (s *Storage) ListPlans(ctx context.Context, activeOnly bool) ([]model.Plan, error) {
	return s.repos.Subscriptions.ListPlans(ctx, activeOnly)
}

func (s *Storage) GetPlan(ctx context.Context, id uint) (*model.Plan, error) {
	return s.repos.Subscriptions.GetPlan(ctx, id)
}

func (s *Storage) CreatePlan(ctx context.Context, input *model.PlanInput) (*model.Plan, error) {
	p, err := s.repos.Subscriptions.CreatePlan(ctx, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntityPlan, p.ID, 0)
	return p, nil
}

func (s *Storage) UpdatePlan(ctx context.Context, id uint, patch *model.PlanPatch) (*model.Plan, error) {
	p, err := s.repos.Subscriptions.UpdatePlan(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntityPlan, id, 0)
	return p, nil
}

func (s *Storage) GetSubscription(ctx context.Context, igrejaID uint) (*model.Subscription, error) {
	return s.repos.Subscriptions.GetByTenant(ctx, igrejaID)
}

func (s *Storage) CreateSubscription(ctx context.Context, igrejaID uint, input *model.SubscriptionInput) (*model.Subscription, error) {
	sub, err := s.repos.Subscriptions.Create(ctx, igrejaID, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionCreate, EntitySubscription, sub.ID, igrejaID)
	return sub, nil
}

func (s *Storage) UpdateSubscription(ctx context.Context, igrejaID, id uint, patch *model.SubscriptionPatch) (*model.Subscription, error) {
	sub, err := s.repos.Subscriptions.Update(ctx, igrejaID, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntitySubscription, id, igrejaID)
	return sub, nil
}

// ApplyProviderUpdate は課金プロバイダの通知をそのまま反映する
func (s *Storage) ApplyProviderUpdate(ctx context.Context, externalSubscriptionID string, patch *model.SubscriptionPatch) (*model.Subscription, error) {
	sub, err := s.repos.Subscriptions.ApplyProviderUpdate(ctx, externalSubscriptionID, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUpdate, EntitySubscription, sub.ID, sub.IgrejaID)
	return sub, nil
}

// --- Reports ---

func (s *Storage) GetMembersFiltered(ctx context.Context, igrejaID uint, filter *model.MemberFilter) ([]model.Member, error) {
	return s.repos.Reports.GetMembersFiltered(ctx, igrejaID, filter)
}

func (s *Storage) GetStatistics(ctx context.Context, igrejaID uint, period *model.Period) (*model.Statistics, error) {
	return s.reports.GetStatistics(ctx, igrejaID, period)
}

func (s *Storage) GetOccurrences(ctx context.Context, igrejaID uint, period *model.Period) ([]model.Occurrence, error) {
	return s.reports.GetOccurrences(ctx, igrejaID, period)
}

func (s *Storage) GetChartData(ctx context.Context, igrejaID uint) (*model.ChartData, error) {
	return s.reports.GetChartData(ctx, igrejaID)
}
