// Package querybuilder は構造化された検索条件 (フィルタ・並び順・ページング) を
// gorm のクエリ条件に変換する。カラム名は識別子として検証し、値は常にバインドする。
package querybuilder

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"go_igreja_admin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Operator string

const (
	OpEq     Operator = "eq"
	OpNe     Operator = "ne"
	OpGt     Operator = "gt"
	OpGte    Operator = "gte"
	OpLt     Operator = "lt"
	OpLte    Operator = "lte"
	OpLike   Operator = "like"
	OpIn     Operator = "in"
	OpIsNull Operator = "is_null"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Condition は1つの絞り込み条件
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Order は並び順。複数指定時はスライスの順に適用される。
type Order struct {
	Field     string
	Direction Direction
}

// Filter は検索条件一式。Limit/Offset は 0 以下なら無指定。
type Filter struct {
	Conditions []Condition
	Order      []Order
	Limit      int
	Offset     int
}

func Eq(field string, v any) Condition  { return Condition{Field: field, Op: OpEq, Value: v} }
func Ne(field string, v any) Condition  { return Condition{Field: field, Op: OpNe, Value: v} }
func Gt(field string, v any) Condition  { return Condition{Field: field, Op: OpGt, Value: v} }
func Gte(field string, v any) Condition { return Condition{Field: field, Op: OpGte, Value: v} }
func Lt(field string, v any) Condition  { return Condition{Field: field, Op: OpLt, Value: v} }
func Lte(field string, v any) Condition { return Condition{Field: field, Op: OpLte, Value: v} }
func Like(field string, v string) Condition {
	return Condition{Field: field, Op: OpLike, Value: v}
}
func In(field string, values any) Condition { return Condition{Field: field, Op: OpIn, Value: values} }
func IsNull(field string) Condition         { return Condition{Field: field, Op: OpIsNull} }

// Between は両端を含む範囲条件を返す。nil の端は無視される。
func Between(field string, from, to any) []Condition {
	var conds []Condition
	if !isNil(from) {
		conds = append(conds, Gte(field, from))
	}
	if !isNil(to) {
		conds = append(conds, Lte(field, to))
	}
	return conds
}

// FromEquality は等価条件のマップを条件スライスに変換する (キー順で決定的)
func FromEquality(where map[string]any) []Condition {
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, k := range keys {
		conds = append(conds, Eq(k, where[k]))
	}
	return conds
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

// ValidField はカラム名 (table.column 形式を含む) として安全かどうかを返す
func ValidField(name string) bool {
	return identifierPattern.MatchString(name)
}

func column(name string) (clause.Column, error) {
	if !ValidField(name) {
		return clause.Column{}, fmt.Errorf("%w: invalid field %q", model.ErrInvalidInput, name)
	}
	if table, col, ok := strings.Cut(name, "."); ok {
		return clause.Column{Table: table, Name: col}, nil
	}
	return clause.Column{Name: name}, nil
}

// Expression は条件を gorm の clause.Expression に変換する
func (c Condition) Expression() (clause.Expression, error) {
	col, err := column(c.Field)
	if err != nil {
		return nil, err
	}

	switch c.Op {
	case OpEq, "":
		return clause.Eq{Column: col, Value: c.Value}, nil
	case OpNe:
		return clause.Neq{Column: col, Value: c.Value}, nil
	case OpGt:
		return clause.Gt{Column: col, Value: c.Value}, nil
	case OpGte:
		return clause.Gte{Column: col, Value: c.Value}, nil
	case OpLt:
		return clause.Lt{Column: col, Value: c.Value}, nil
	case OpLte:
		return clause.Lte{Column: col, Value: c.Value}, nil
	case OpLike:
		return clause.Like{Column: col, Value: c.Value}, nil
	case OpIn:
		values, err := toSlice(c.Value)
		if err != nil {
			return nil, err
		}
		return clause.IN{Column: col, Values: values}, nil
	case OpIsNull:
		return clause.Eq{Column: col, Value: nil}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator %q", model.ErrInvalidInput, c.Op)
	}
}

// Apply はフィルタを db に適用したクエリを返す
func Apply(db *gorm.DB, f Filter) (*gorm.DB, error) {
	q := db
	for _, c := range f.Conditions {
		expr, err := c.Expression()
		if err != nil {
			return nil, err
		}
		q = q.Where(expr)
	}
	for _, o := range f.Order {
		col, err := column(o.Field)
		if err != nil {
			return nil, err
		}
		switch o.Direction {
		case Asc, "":
			q = q.Order(clause.OrderByColumn{Column: col})
		case Desc:
			q = q.Order(clause.OrderByColumn{Column: col, Desc: true})
		default:
			return nil, fmt.Errorf("%w: invalid order direction %q", model.ErrInvalidInput, o.Direction)
		}
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return q, nil
}

// Scope は Apply を gorm の Scopes で使える形にする。変換エラーは db.AddError で伝搬する。
func Scope(f Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		q, err := Apply(db, f)
		if err != nil {
			db.AddError(err)
			return db
		}
		return q
	}
}

func toSlice(v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: IN requires a slice, got %T", model.ErrInvalidInput, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
