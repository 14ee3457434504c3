// internal/config/config.go
package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL         string `mapstructure:"url"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	Auth struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"auth"`
	JWT struct {
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"jwt"`
	App struct {
		// ストリークの日付境界に使うタイムゾーン (IANA名)
		Timezone     string `mapstructure:"timezone"`
		HistoryLimit int    `mapstructure:"history_limit"`
		FeedLimit    int    `mapstructure:"feed_limit"`
	} `mapstructure:"app"`
	Reconcile struct {
		Enabled  bool          `mapstructure:"enabled"`
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"reconcile"`
	Mail struct {
		Driver string `mapstructure:"driver"` // log | ses
		From   string `mapstructure:"from"`
	} `mapstructure:"mail"`
	SES struct {
		Region          string `mapstructure:"region"`
		AuthType        string `mapstructure:"auth_type"` // iam_role | static_credentials
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	} `mapstructure:"ses"`
	Realtime struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"realtime"`
}

var Cfg Config

// LoadConfig は paths から config.yaml を探して Cfg に読み込みます。
// ファイルが無くても環境変数 (APP_ 接頭辞) とデフォルト値で起動できます。
func LoadConfig(paths ...string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	// 例: APP_DATABASE_URL -> database.url
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Warn("Config file not found. Using defaults and environment variables.")
		} else {
			slog.Error("Error reading config file", slog.Any("error", err))
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("Error unmarshalling config", slog.Any("error", err))
		return err
	}

	applyDefaults(&cfg, v)
	Cfg = cfg

	slog.Info("Config loaded successfully",
		slog.String("port", Cfg.Server.Port),
		slog.Bool("auth_enabled", Cfg.Auth.Enabled),
		slog.String("timezone", Cfg.App.Timezone),
		slog.String("mail_driver", Cfg.Mail.Driver),
		slog.Bool("reconcile_enabled", Cfg.Reconcile.Enabled),
	)
	return nil
}

// AutomaticEnv は Unmarshal 時に未知のキーを拾わないため、全キーを明示的に紐付ける
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"database.url", "database.auto_migrate",
		"server.port", "log.level",
		"cors.allowed_origins", "cors.allowed_methods", "cors.allowed_headers",
		"cors.exposed_headers", "cors.allow_credentials", "cors.max_age",
		"auth.enabled", "jwt.secret_key",
		"app.timezone", "app.history_limit", "app.feed_limit",
		"reconcile.enabled", "reconcile.interval",
		"mail.driver", "mail.from",
		"ses.region", "ses.auth_type", "ses.access_key_id", "ses.secret_access_key",
		"realtime.enabled",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func applyDefaults(cfg *Config, v *viper.Viper) {
	if cfg.Server.Port == "" {
		slog.Info("Server port not set, using default", slog.String("port", DefaultServerPort))
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Database.URL == "" {
		slog.Warn("Database URL is not set in config.")
	}
	if !v.IsSet("auth.enabled") {
		slog.Info("Auth enabled flag not set, defaulting to true (enabled)")
		cfg.Auth.Enabled = DefaultAuthEnabled
	}
	if cfg.Auth.Enabled && cfg.JWT.SecretKey == "" {
		slog.Warn("Auth is enabled but jwt.secret_key is empty; every request will be rejected")
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = DefaultTimezone
	}
	if cfg.App.HistoryLimit <= 0 {
		slog.Info("App history limit not set or invalid, using default", slog.Int("limit", DefaultHistoryLimit))
		cfg.App.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.App.FeedLimit <= 0 {
		slog.Info("App feed limit not set or invalid, using default", slog.Int("limit", DefaultFeedLimit))
		cfg.App.FeedLimit = DefaultFeedLimit
	}
	if cfg.Reconcile.Interval <= 0 {
		cfg.Reconcile.Interval = DefaultReconcileInterval
	}
	if cfg.Mail.Driver == "" {
		cfg.Mail.Driver = DefaultMailDriver
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = DefaultMailFrom
	}
	if cfg.SES.AuthType == "" {
		cfg.SES.AuthType = "iam_role"
	}
	if !v.IsSet("realtime.enabled") {
		cfg.Realtime.Enabled = true
	}
}

// Location は app.timezone を time.Location に変換します。不正な値はUTC
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		slog.Warn("Invalid app.timezone, falling back to UTC", slog.String("timezone", c.App.Timezone), slog.Any("error", err))
		return time.UTC
	}
	return loc
}
