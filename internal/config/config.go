// internal/config/config.go
package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SESConfig は AWS SES の設定。auth_type は static_credentials か iam_role。
type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
}

type SendGridConfig struct {
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	From     string `mapstructure:"from"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type Config struct {
	Database struct {
		URL         string `mapstructure:"url"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	App struct {
		Name        string `mapstructure:"name"`
		FrontendURL string `mapstructure:"frontend_url"`
	} `mapstructure:"app"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	Auth struct {
		Enabled       bool          `mapstructure:"enabled"`
		ResetTokenTTL time.Duration `mapstructure:"reset_token_ttl"`
	} `mapstructure:"auth"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	Billing struct {
		WebhookSecret string `mapstructure:"webhook_secret"`
	} `mapstructure:"billing"`
	Report struct {
		ChartMonths int `mapstructure:"chart_months"`
	} `mapstructure:"report"`
	Mailer struct {
		Type string `mapstructure:"type"`
	} `mapstructure:"mailer"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SES      SESConfig      `mapstructure:"ses"`
	SendGrid SendGridConfig `mapstructure:"sendgrid"`
}

var Cfg Config

// LoadConfig は path 配下の config.yaml と APP_ で始まる環境変数から設定を読み込む。
// 例: APP_DATABASE_URL は database.url に対応する。
func LoadConfig(path string) error {
	// .env があれば環境変数に読み込む (既存の環境変数は上書きしない)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("database.url", "APP_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("jwt.secret_key", "APP_JWT_SECRET_KEY", "JWT_SECRET_KEY")
	v.BindEnv("smtp.username", "APP_SMTP_USERNAME", "SMTP_USERNAME")
	v.BindEnv("smtp.password", "APP_SMTP_PASSWORD", "SMTP_PASSWORD")
	v.BindEnv("sendgrid.api_key", "APP_SENDGRID_API_KEY", "SENDGRID_API_KEY")
	v.BindEnv("ses.access_key_id", "APP_SES_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	v.BindEnv("ses.secret_access_key", "APP_SES_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("billing.webhook_secret", "APP_BILLING_WEBHOOK_SECRET", "BILLING_WEBHOOK_SECRET")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}
	if cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if cfg.Auth.Enabled && cfg.JWT.SecretKey == "" {
		log.Println("Warning: auth is enabled but jwt.secret_key is empty.")
	}
	if cfg.Report.ChartMonths <= 0 {
		cfg.Report.ChartMonths = DefaultChartMonths
	}

	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("app.name", AppName)
	v.SetDefault("app.frontend_url", DefaultFrontendURL)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("database.auto_migrate", DefaultAutoMigrate)
	v.SetDefault("cors.allowed_origins", []string{DefaultFrontendURL})
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("auth.reset_token_ttl", DefaultResetTokenTTL)
	v.SetDefault("jwt.access_token_ttl", DefaultAccessTokenTTL)
	v.SetDefault("report.chart_months", DefaultChartMonths)
	v.SetDefault("mailer.type", DefaultMailerType)
	v.SetDefault("smtp.port", DefaultSMTPPort)
	v.SetDefault("ses.region", DefaultSESRegion)
	v.SetDefault("ses.auth_type", "iam_role")
	v.SetDefault("sendgrid.from_name", AppName)
}
