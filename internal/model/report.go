package model

import "time"

// CountByKey は GROUP BY の集計結果1行
type CountByKey struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// GroupCount はグループ別の所属者数
type GroupCount struct {
	GroupID uint   `json:"group_id"`
	Name    string `json:"name"`
	Count   int64  `json:"count"`
}

// Statistics は教会の統計。
// AdmissionsByMode だけが期間で絞り込まれ、他は常に全期間の有効レコードで集計される。
type Statistics struct {
	AdmissionsByMode     map[string]int64 `json:"admissions_by_mode"`
	MembersByType        map[string]int64 `json:"members_by_type"`
	MembersBySex         map[string]int64 `json:"members_by_sex"`
	Groups               []GroupCount     `json:"groups"`
	LeadershipByPosition map[string]int64 `json:"leadership_by_position"`
}

type OccurrenceType string

const (
	OccurrenceMember     OccurrenceType = "member"
	OccurrenceLeadership OccurrenceType = "leadership"
	OccurrencePastor     OccurrenceType = "pastor"
)

type OccurrenceAction string

const (
	ActionAdmission OccurrenceAction = "admission"
	ActionRemoval   OccurrenceAction = "removal"
	ActionTermStart OccurrenceAction = "term_start"
	ActionTermEnd   OccurrenceAction = "term_end"
)

// Occurrence はタイムライン上の1イベント (保存されず都度合成される)
type Occurrence struct {
	Type        OccurrenceType   `json:"type"`
	Action      OccurrenceAction `json:"action"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
}

// MonthlyCount は月別件数 (Month は YYYY-MM)
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type ChartData struct {
	MonthlyAdmissions []MonthlyCount `json:"monthly_admissions"`
	AgeBrackets       []CountByKey   `json:"age_brackets"`
	AdmissionModes    []CountByKey   `json:"admission_modes"`
	Groups            []GroupCount   `json:"groups"`
}

// Page はページング結果
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
}

// MemberEvent はタイムライン用の教会員の入会・除籍情報
type MemberEvent struct {
	Name          string        `json:"name"`
	AdmissionDate time.Time     `json:"admission_date"`
	AdmissionMode AdmissionMode `json:"admission_mode"`
	RemovalDate   *time.Time    `json:"removal_date"`
}

// TermEvent はタイムライン用の任期の開始・終了情報
type TermEvent struct {
	Name      string     `json:"name"`
	Position  string     `json:"position"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}
