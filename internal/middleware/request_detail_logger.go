package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxLoggedBodyBytes = 4096

// sensitiveBodyFields はボディ中でマスキングするキー (小文字)
var sensitiveBodyFields = map[string]bool{
	"password":     true,
	"token":        true,
	"access_token": true,
	"cpf":          true,
}

// RequestDetailLoggingMiddleware はエラー応答 (4xx/5xx) またはDebugレベル時に
// リクエストヘッダーとマスキング済みボディを出力します。
func RequestDetailLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil && r.ContentLength != 0 {
				var err error
				body, err = io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
				if err != nil {
					logger.ErrorContext(r.Context(), "Failed to read request body in middleware", slog.Any("error", err))
				}
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			}

			sc := newStatusCapture(w)
			next.ServeHTTP(sc, r)

			logLevel := levelForStatus(sc.statusCode, slog.LevelDebug)
			if !logger.Enabled(r.Context(), logLevel) {
				return
			}

			attrs := []slog.Attr{
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("uri", r.RequestURI),
				slog.Int("status_code", sc.statusCode),
				slog.Any("request_headers", formatHeaders(r.Header)),
			}
			if len(body) > 0 {
				attrs = append(attrs, slog.Any("request_body", bodyForLog(body, r.Header.Get("Content-Type"))))
			}
			logger.LogAttrs(r.Context(), logLevel, "HTTP request detail", attrs...)
		})
	}
}

func bodyForLog(body []byte, contentType string) any {
	if len(body) > maxLoggedBodyBytes {
		return fmt.Sprintf("[body too large: >%d bytes]", maxLoggedBodyBytes)
	}
	if !strings.HasPrefix(contentType, "application/json") {
		return fmt.Sprintf("[non-JSON body: %d bytes, Content-Type: %s]", len(body), contentType)
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Sprintf("[unparseable JSON body: %d bytes]", len(body))
	}
	return maskSensitive(data)
}

// maskSensitive はネストしたオブジェクトも含めて機密キーの値を置き換える
func maskSensitive(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if sensitiveBodyFields[strings.ToLower(k)] {
				t[k] = "[MASKED]"
				continue
			}
			t[k] = maskSensitive(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = maskSensitive(t[i])
		}
		return t
	default:
		return v
	}
}
