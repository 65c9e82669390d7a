package repository

import (
	"context"
	"fmt"
	"time"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/querybuilder"
	"go_igreja_admin/internal/validation"

	"gorm.io/gorm"
)

// ReportRepository は読み取り専用の集計クエリ。
// すべてのメソッドは igrejaID を必須とし、0 の場合はクエリを実行しない。
type ReportRepository interface {
	GetMembersFiltered(ctx context.Context, igrejaID uint, filter *model.MemberFilter) ([]model.Member, error)

	CountAdmissionsByMode(ctx context.Context, igrejaID uint, period *model.Period) ([]model.CountByKey, error)
	CountMembersByType(ctx context.Context, igrejaID uint) ([]model.CountByKey, error)
	CountMembersBySex(ctx context.Context, igrejaID uint) ([]model.CountByKey, error)
	CountGroupMembers(ctx context.Context, igrejaID uint) ([]model.GroupCount, error)
	CountLeadershipByPosition(ctx context.Context, igrejaID uint, asOf time.Time) ([]model.CountByKey, error)

	MemberEvents(ctx context.Context, igrejaID uint) ([]model.MemberEvent, error)
	LeadershipTermEvents(ctx context.Context, igrejaID uint) ([]model.TermEvent, error)
	PastorTermEvents(ctx context.Context, igrejaID uint) ([]model.TermEvent, error)

	AdmissionDatesSince(ctx context.Context, igrejaID uint, since time.Time) ([]time.Time, error)
	ActiveBirthDates(ctx context.Context, igrejaID uint) ([]*time.Time, error)
}

type gormReportRepository struct {
	db      *gorm.DB
	members *BaseRepository[model.Member]
}

func NewGormReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{
		db:      db,
		members: NewBaseRepository[model.Member](db, "gormReportRepository"),
	}
}

// GetMembersFiltered は指定された条件だけを AND で結合して検索する
func (r *gormReportRepository) GetMembersFiltered(ctx context.Context, igrejaID uint, filter *model.MemberFilter) ([]model.Member, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &model.MemberFilter{}
	}
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}

	conds := []querybuilder.Condition{querybuilder.Eq("igreja_id", igrejaID)}
	if filter.Type != nil {
		conds = append(conds, querybuilder.Eq("member_type", string(*filter.Type)))
	}
	if filter.Sex != nil {
		conds = append(conds, querybuilder.Eq("sex", *filter.Sex))
	}
	if filter.Status != nil {
		conds = append(conds, querybuilder.Eq("status", string(*filter.Status)))
	}
	if filter.AdmittedFrom != nil {
		conds = append(conds, querybuilder.Gte("admission_date", model.TruncateDate(*filter.AdmittedFrom)))
	}
	if filter.AdmittedUntil != nil {
		// 終了日はその日の終わりまで含む
		conds = append(conds, querybuilder.Lt("admission_date", model.TruncateDate(*filter.AdmittedUntil).AddDate(0, 0, 1)))
	}

	return r.members.FindWhere(ctx, querybuilder.Filter{
		Conditions: conds,
		Order:      []querybuilder.Order{{Field: "name"}, {Field: "id"}},
	})
}

func (r *gormReportRepository) countBy(ctx context.Context, op string, q *gorm.DB) ([]model.CountByKey, error) {
	counts := make([]model.CountByKey, 0)
	if err := q.WithContext(ctx).Scan(&counts).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error running report query", "error", err, "query", op)
		return nil, fmt.Errorf("gormReportRepository.%s: %w", op, err)
	}
	return counts, nil
}

// CountAdmissionsByMode だけは期間で絞り込む
func (r *gormReportRepository) CountAdmissionsByMode(ctx context.Context, igrejaID uint, period *model.Period) ([]model.CountByKey, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	q := r.db.Model(&model.Member{}).
		Select("admission_mode AS key, COUNT(*) AS count").
		Where("igreja_id = ?", igrejaID)
	if p := period.Inclusive(); p != nil {
		q = q.Where("admission_date >= ? AND admission_date <= ?", p.From, p.To)
	}
	return r.countBy(ctx, "CountAdmissionsByMode", q.Group("admission_mode").Order("admission_mode"))
}

func (r *gormReportRepository) CountMembersByType(ctx context.Context, igrejaID uint) ([]model.CountByKey, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	q := r.db.Model(&model.Member{}).
		Select("member_type AS key, COUNT(*) AS count").
		Where("igreja_id = ? AND status = ?", igrejaID, model.MemberActive).
		Group("member_type").
		Order("member_type")
	return r.countBy(ctx, "CountMembersByType", q)
}

func (r *gormReportRepository) CountMembersBySex(ctx context.Context, igrejaID uint) ([]model.CountByKey, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	q := r.db.Model(&model.Member{}).
		Select("COALESCE(sex, 'unknown') AS key, COUNT(*) AS count").
		Where("igreja_id = ? AND status = ?", igrejaID, model.MemberActive).
		Group("COALESCE(sex, 'unknown')").
		Order("key")
	return r.countBy(ctx, "CountMembersBySex", q)
}

// CountGroupMembers は所属者のいないグループも 0 件として返す
func (r *gormReportRepository) CountGroupMembers(ctx context.Context, igrejaID uint) ([]model.GroupCount, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	counts := make([]model.GroupCount, 0)
	err := r.db.WithContext(ctx).Model(&model.Group{}).
		Select("church_groups.id AS group_id, church_groups.name AS name, COUNT(church_group_members.member_id) AS count").
		Joins("LEFT JOIN church_group_members ON church_group_members.group_id = church_groups.id").
		Where("church_groups.igreja_id = ?", igrejaID).
		Group("church_groups.id, church_groups.name").
		Order("church_groups.name, church_groups.id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("gormReportRepository.CountGroupMembers: %w", err)
	}
	return counts, nil
}

// CountLeadershipByPosition は asOf 時点で実質的に active な任期を持つ任命だけを数える。
// 終了日を過ぎた active の任期は数えない。
func (r *gormReportRepository) CountLeadershipByPosition(ctx context.Context, igrejaID uint, asOf time.Time) ([]model.CountByKey, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	active := r.db.Model(&model.Term{}).
		Select("1").
		Where("leadership_terms.leadership_id = leaderships.id AND leadership_terms.status = ?", model.TermActive).
		Where("(leadership_terms.end_date IS NULL OR leadership_terms.end_date >= ?)", model.TruncateDate(asOf))
	q := r.db.Model(&model.Leadership{}).
		Select("position AS key, COUNT(*) AS count").
		Where("igreja_id = ?", igrejaID).
		Where("EXISTS (?)", active).
		Group("position").
		Order("position")
	return r.countBy(ctx, "CountLeadershipByPosition", q)
}

func (r *gormReportRepository) MemberEvents(ctx context.Context, igrejaID uint) ([]model.MemberEvent, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	events := make([]model.MemberEvent, 0)
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Select("name, admission_date, admission_mode, removal_date").
		Where("igreja_id = ?", igrejaID).
		Order("id").
		Scan(&events).Error
	if err != nil {
		return nil, fmt.Errorf("gormReportRepository.MemberEvents: %w", err)
	}
	return events, nil
}

func (r *gormReportRepository) LeadershipTermEvents(ctx context.Context, igrejaID uint) ([]model.TermEvent, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	events := make([]model.TermEvent, 0)
	err := r.db.WithContext(ctx).Table("leadership_terms").
		Select("members.name AS name, leaderships.position AS position, leadership_terms.start_date AS start_date, leadership_terms.end_date AS end_date").
		Joins("JOIN leaderships ON leaderships.id = leadership_terms.leadership_id").
		Joins("JOIN members ON members.id = leaderships.member_id").
		Where("leadership_terms.igreja_id = ?", igrejaID).
		Order("leadership_terms.id").
		Scan(&events).Error
	if err != nil {
		return nil, fmt.Errorf("gormReportRepository.LeadershipTermEvents: %w", err)
	}
	return events, nil
}

func (r *gormReportRepository) PastorTermEvents(ctx context.Context, igrejaID uint) ([]model.TermEvent, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	events := make([]model.TermEvent, 0)
	err := r.db.WithContext(ctx).Table("pastor_terms").
		Select("pastors.name AS name, pastors.bond_type AS position, pastor_terms.start_date AS start_date, pastor_terms.end_date AS end_date").
		Joins("JOIN pastors ON pastors.id = pastor_terms.pastor_id").
		Where("pastor_terms.igreja_id = ?", igrejaID).
		Order("pastor_terms.id").
		Scan(&events).Error
	if err != nil {
		return nil, fmt.Errorf("gormReportRepository.PastorTermEvents: %w", err)
	}
	return events, nil
}

func (r *gormReportRepository) AdmissionDatesSince(ctx context.Context, igrejaID uint, since time.Time) ([]time.Time, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0)
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("igreja_id = ? AND admission_date >= ?", igrejaID, since.UTC()).
		Order("admission_date").
		Pluck("admission_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("gormReportRepository.AdmissionDatesSince: %w", err)
	}
	return dates, nil
}

// ActiveBirthDates は active な教会員の生年月日を返す (未登録は nil)
func (r *gormReportRepository) ActiveBirthDates(ctx context.Context, igrejaID uint) ([]*time.Time, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	dates := make([]*time.Time, 0)
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("igreja_id = ? AND status = ?", igrejaID, model.MemberActive).
		Order("id").
		Pluck("birth_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("gormReportRepository.ActiveBirthDates: %w", err)
	}
	return dates, nil
}
