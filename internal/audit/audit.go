// Package audit は更新操作の監査イベントを記録する。
// 記録先は Sink として注入され、記録の失敗は呼び出し元の処理に影響しない。
package audit

import (
	"context"
	"log/slog"
	"time"

	"go_igreja_admin/internal/metrics"
	"go_igreja_admin/internal/middleware"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event は1件の更新操作
type Event struct {
	Action   Action
	Entity   string
	EntityID uint
	IgrejaID uint
	At       time.Time
}

type Sink interface {
	Record(ctx context.Context, e Event)
}

// SinkFunc は関数を Sink として使うためのアダプタ
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Record(ctx context.Context, e Event) {
	f(ctx, e)
}

// Nop は何もしない Sink
var Nop Sink = SinkFunc(func(context.Context, Event) {})

type logSink struct {
	fallback *slog.Logger
}

// NewLogSink はリクエストスコープのロガー (なければ fallback) に出力する Sink を返す
func NewLogSink(fallback *slog.Logger) Sink {
	return &logSink{fallback: fallback}
}

func (s *logSink) Record(ctx context.Context, e Event) {
	middleware.LoggerOr(ctx, s.fallback).Info("Audit",
		"action", string(e.Action),
		"entity", e.Entity,
		"entity_id", e.EntityID,
		"igreja_id", e.IgrejaID,
		"at", e.At,
	)
}

type metricsSink struct {
	rec metrics.Recorder
}

// NewMetricsSink はエンティティ別・操作別のカウンタを増やす Sink を返す
func NewMetricsSink(rec metrics.Recorder) Sink {
	return &metricsSink{rec: rec}
}

func (s *metricsSink) Record(_ context.Context, e Event) {
	s.rec.RecordMutation(e.Entity, string(e.Action))
}

type multiSink []Sink

// Multi は複数の Sink に順に記録する
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) Record(ctx context.Context, e Event) {
	for _, s := range m {
		s.Record(ctx, e)
	}
}
