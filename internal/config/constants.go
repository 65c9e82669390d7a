// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "igreja-admin"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultFrontendURL    = "http://localhost:5173"
	DefaultLogLevel       = "info"
	DefaultAutoMigrate    = true
	DefaultAuthEnabled    = true
	DefaultResetTokenTTL  = time.Hour
	DefaultAccessTokenTTL = 24 * time.Hour
	DefaultChartMonths    = 12
	DefaultMailerType     = "log"
	DefaultSESRegion      = "sa-east-1"
	DefaultSMTPPort       = 1025
)
