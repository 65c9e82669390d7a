// Package report は教会ごとの統計・タイムライン・グラフ用データを
// ReportRepository の集計結果から組み立てる。キャッシュは持たない。
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/repository"
)

const DefaultChartMonths = 12

// 年齢区分 (上限を含む)。どれにも当てはまらない場合は 60+。
var ageBrackets = []struct {
	label string
	max   int
}{
	{"0-12", 12},
	{"13-17", 17},
	{"18-29", 29},
	{"30-44", 44},
	{"45-59", 59},
}

const (
	bracketSenior  = "60+"
	bracketUnknown = "unknown"
)

type Aggregator struct {
	repo        repository.ReportRepository
	now         func() time.Time
	chartMonths int
}

type Option func(*Aggregator)

// WithClock は現在時刻の取得方法を差し替える
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func WithChartMonths(months int) Option {
	return func(a *Aggregator) {
		if months > 0 {
			a.chartMonths = months
		}
	}
}

func NewAggregator(repo repository.ReportRepository, opts ...Option) *Aggregator {
	a := &Aggregator{repo: repo, now: time.Now, chartMonths: DefaultChartMonths}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetStatistics は教会の統計を返す。
// period は入会方法別の件数にだけ適用され、他の件数は全期間の active なレコードで集計される。
// 任期は現在時刻で終了日を判定する。
func (a *Aggregator) GetStatistics(ctx context.Context, igrejaID uint, period *model.Period) (*model.Statistics, error) {
	if igrejaID == 0 {
		return nil, model.ErrTenantRequired
	}

	byMode, err := a.repo.CountAdmissionsByMode(ctx, igrejaID, period)
	if err != nil {
		return nil, err
	}
	byType, err := a.repo.CountMembersByType(ctx, igrejaID)
	if err != nil {
		return nil, err
	}
	bySex, err := a.repo.CountMembersBySex(ctx, igrejaID)
	if err != nil {
		return nil, err
	}
	groups, err := a.repo.CountGroupMembers(ctx, igrejaID)
	if err != nil {
		return nil, err
	}
	byPosition, err := a.repo.CountLeadershipByPosition(ctx, igrejaID, a.now())
	if err != nil {
		return nil, err
	}

	return &model.Statistics{
		AdmissionsByMode:     toMap(byMode),
		MembersByType:        toMap(byType),
		MembersBySex:         toMap(bySex),
		Groups:               groups,
		LeadershipByPosition: toMap(byPosition),
	}, nil
}

// GetOccurrences は3種類のイベントを日付の新しい順に並べたタイムラインを返す
func (a *Aggregator) GetOccurrences(ctx context.Context, igrejaID uint, period *model.Period) ([]model.Occurrence, error) {
	if igrejaID == 0 {
		return nil, model.ErrTenantRequired
	}

	members, err := a.repo.MemberEvents(ctx, igrejaID)
	if err != nil {
		return nil, err
	}
	leaderships, err := a.repo.LeadershipTermEvents(ctx, igrejaID)
	if err != nil {
		return nil, err
	}
	pastors, err := a.repo.PastorTermEvents(ctx, igrejaID)
	if err != nil {
		return nil, err
	}

	occurrences := make([]model.Occurrence, 0, len(members)+len(leaderships)+len(pastors))
	occurrences = append(occurrences, memberOccurrences(members)...)
	occurrences = append(occurrences, termOccurrences(model.OccurrenceLeadership, leaderships)...)
	occurrences = append(occurrences, termOccurrences(model.OccurrencePastor, pastors)...)

	return filterAndSort(occurrences, period), nil
}

// GetChartData は直近の月別入会数・年齢分布・入会方法・グループ別の分布を返す
func (a *Aggregator) GetChartData(ctx context.Context, igrejaID uint) (*model.ChartData, error) {
	if igrejaID == 0 {
		return nil, model.ErrTenantRequired
	}
	now := a.now().UTC()
	first := monthStart(now).AddDate(0, -(a.chartMonths - 1), 0)

	admissions, err := a.repo.AdmissionDatesSince(ctx, igrejaID, first)
	if err != nil {
		return nil, err
	}
	births, err := a.repo.ActiveBirthDates(ctx, igrejaID)
	if err != nil {
		return nil, err
	}
	modes, err := a.repo.CountAdmissionsByMode(ctx, igrejaID, nil)
	if err != nil {
		return nil, err
	}
	groups, err := a.repo.CountGroupMembers(ctx, igrejaID)
	if err != nil {
		return nil, err
	}

	return &model.ChartData{
		MonthlyAdmissions: monthlyCounts(admissions, now, a.chartMonths),
		AgeBrackets:       ageDistribution(births, now),
		AdmissionModes:    modes,
		Groups:            groups,
	}, nil
}

func toMap(counts []model.CountByKey) map[string]int64 {
	m := make(map[string]int64, len(counts))
	for _, c := range counts {
		m[c.Key] += c.Count
	}
	return m
}

func memberOccurrences(events []model.MemberEvent) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(events))
	for _, e := range events {
		out = append(out, model.Occurrence{
			Type:        model.OccurrenceMember,
			Action:      model.ActionAdmission,
			Date:        e.AdmissionDate.UTC(),
			Description: fmt.Sprintf("Admissão de %s (%s)", e.Name, e.AdmissionMode),
		})
		if e.RemovalDate != nil {
			out = append(out, model.Occurrence{
				Type:        model.OccurrenceMember,
				Action:      model.ActionRemoval,
				Date:        e.RemovalDate.UTC(),
				Description: fmt.Sprintf("Desligamento de %s", e.Name),
			})
		}
	}
	return out
}

func termOccurrences(kind model.OccurrenceType, events []model.TermEvent) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(events))
	for _, e := range events {
		out = append(out, model.Occurrence{
			Type:        kind,
			Action:      model.ActionTermStart,
			Date:        e.StartDate.UTC(),
			Description: fmt.Sprintf("Início do mandato de %s (%s)", e.Name, e.Position),
		})
		if e.EndDate != nil {
			out = append(out, model.Occurrence{
				Type:        kind,
				Action:      model.ActionTermEnd,
				Date:        e.EndDate.UTC(),
				Description: fmt.Sprintf("Término do mandato de %s (%s)", e.Name, e.Position),
			})
		}
	}
	return out
}

// filterAndSort は期間外のイベントを除き、日付の降順に安定ソートする
func filterAndSort(occurrences []model.Occurrence, period *model.Period) []model.Occurrence {
	p := period.Inclusive()
	out := make([]model.Occurrence, 0, len(occurrences))
	for _, o := range occurrences {
		if p.Contains(o.Date) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthlyCounts は now を含む直近 months か月を古い順に返す。入会のない月は 0。
func monthlyCounts(dates []time.Time, now time.Time, months int) []model.MonthlyCount {
	first := monthStart(now.UTC()).AddDate(0, -(months - 1), 0)
	out := make([]model.MonthlyCount, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = model.MonthlyCount{Month: key}
		index[key] = i
	}
	for _, d := range dates {
		if i, ok := index[d.UTC().Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}

// ageAt は誕生日を過ぎたかどうかを考慮した満年齢を返す
func ageAt(birth, now time.Time) int {
	birth = birth.UTC()
	now = now.UTC()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

func bracketFor(birth *time.Time, now time.Time) string {
	if birth == nil {
		return bracketUnknown
	}
	age := ageAt(*birth, now)
	if age < 0 {
		return bracketUnknown
	}
	for _, b := range ageBrackets {
		if age <= b.max {
			return b.label
		}
	}
	return bracketSenior
}

// ageDistribution はすべての区分を固定順で返す (0 件の区分も含む)
func ageDistribution(births []*time.Time, now time.Time) []model.CountByKey {
	counts := make(map[string]int64)
	for _, b := range births {
		counts[bracketFor(b, now)]++
	}

	out := make([]model.CountByKey, 0, len(ageBrackets)+2)
	for _, b := range ageBrackets {
		out = append(out, model.CountByKey{Key: b.label, Count: counts[b.label]})
	}
	out = append(out,
		model.CountByKey{Key: bracketSenior, Count: counts[bracketSenior]},
		model.CountByKey{Key: bracketUnknown, Count: counts[bracketUnknown]},
	)
	return out
}
