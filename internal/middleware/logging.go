package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type logCtxKey struct{}

// maskedHeaders の値はログに出さない (正規化済みのヘッダー名)
var maskedHeaders = []string{
	"Authorization",
	"Cookie",
	"X-Api-Key",
	"X-Webhook-Secret",
}

// statusCapture はステータスコードと書き込みバイト数だけを記録する。
// 応答ボディは教会員の個人情報を含むため保持しない。
type statusCapture struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func newStatusCapture(w http.ResponseWriter) *statusCapture {
	return &statusCapture{ResponseWriter: w, statusCode: http.StatusOK}
}

func (sc *statusCapture) WriteHeader(code int) {
	sc.statusCode = code
	sc.ResponseWriter.WriteHeader(code)
}

func (sc *statusCapture) Write(b []byte) (int, error) {
	n, err := sc.ResponseWriter.Write(b)
	sc.bytes += n
	return n, err
}

// levelForStatus は 5xx を Error、4xx を Warn、それ以外を base で出す
func levelForStatus(status int, base slog.Level) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return base
	}
}

// LoggingMiddleware はリクエストIDつきのロガーをコンテキストに入れ、アクセスログを出す
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With("req_id", chimiddleware.GetReqID(r.Context()))
			r = r.WithContext(context.WithValue(r.Context(), logCtxKey{}, reqLogger))

			sc := newStatusCapture(w)
			next.ServeHTTP(sc, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sc.statusCode),
				slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1e3),
				slog.Int("bytes_out", sc.bytes),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				attrs = append(attrs, slog.String("route", rctx.RoutePattern()))
			}
			reqLogger.LogAttrs(r.Context(), levelForStatus(sc.statusCode, slog.LevelInfo), "Request completed", attrs...)
		})
	}
}

// GetLogger はコンテキストのロガー、なければ slog.Default を返す
func GetLogger(ctx context.Context) *slog.Logger {
	return LoggerOr(ctx, nil)
}

// LoggerOr はコンテキストのロガーを返し、なければ fallback (nil なら slog.Default) を返す。
func LoggerOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if isMaskedHeader(key) {
			result[key] = "[SENSITIVE]"
			continue
		}
		result[key] = strings.Join(values, ", ")
	}
	return result
}

func isMaskedHeader(key string) bool {
	for _, h := range maskedHeaders {
		if strings.EqualFold(h, key) {
			return true
		}
	}
	return false
}
