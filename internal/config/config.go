package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	apperrors "github.com/mrlokans/highlights-notion-sync/internal/errors"
)

type (
	// Config is built once at startup and treated as read-only afterwards.
	Config struct {
		Readwise
		Notion
		Sync
		History
		Schedule
		HTTP
		Log
	}

	Readwise struct {
		Token   string `env:"READWISE_TOKEN" validate:"required"`
		BaseURL string `env:"READWISE_BASE_URL"`
	}
	Notion struct {
		Token      string `env:"NOTION_TOKEN" validate:"required"`
		DatabaseID string `env:"NOTION_DATABASE_ID" validate:"required"`
		BaseURL    string `env:"NOTION_BASE_URL"`
		Version    string `env:"NOTION_VERSION"`
	}
	Sync struct {
		Delay         time.Duration // Pause after every highlight (fixed strategy)
		RateStrategy  string        `env:"SYNC_RATE_STRATEGY" validate:"oneof=fixed token_bucket"`
		RatePerSecond float64       `env:"SYNC_RATE_PER_SECOND"` // Token bucket refill rate
		HTTPTimeout   time.Duration

		// Durations as given, kept so a typo fails validation instead of reading as zero.
		DelayRaw       string `env:"SYNC_DELAY" validate:"omitempty,duration"`
		HTTPTimeoutRaw string `env:"SYNC_HTTP_TIMEOUT" validate:"omitempty,duration"`
	}
	History struct {
		Path     string `env:"SYNC_HISTORY_PATH"` // Empty disables run history
		AuditDir string `env:"SYNC_AUDIT_DIR"`    // Raw export pages are saved here when set
	}
	Schedule struct {
		Cron string `env:"SYNC_SCHEDULE"` // Cron format: "0 */6 * * *" = every 6 hours
	}
	HTTP struct {
		Port int32  `env:"PORT"`
		Host string `env:"HOST"`
	}
	Log struct {
		Level string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	}
)

const (
	DefaultReadwiseBaseURL = "https://readwise.io/api/v2"
	DefaultNotionBaseURL   = "https://api.notion.com/v1"
	DefaultNotionVersion   = "2022-06-28"
	DefaultSyncDelay       = 150 * time.Millisecond
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultSchedule        = "0 */6 * * *"
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("readwise_base_url", DefaultReadwiseBaseURL)
	v.SetDefault("notion_base_url", DefaultNotionBaseURL)
	v.SetDefault("notion_version", DefaultNotionVersion)
	v.SetDefault("sync_delay", DefaultSyncDelay.String())
	v.SetDefault("sync_rate_strategy", "fixed")
	v.SetDefault("sync_rate_per_second", 6)
	v.SetDefault("sync_http_timeout", DefaultHTTPTimeout.String())
	v.SetDefault("sync_history_path", "")
	v.SetDefault("sync_audit_dir", "")
	v.SetDefault("sync_schedule", DefaultSchedule)
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("log_level", "info")

	return &Config{
		Readwise: Readwise{
			Token:   v.GetString("READWISE_TOKEN"),
			BaseURL: v.GetString("READWISE_BASE_URL"),
		},
		Notion: Notion{
			Token:      v.GetString("NOTION_TOKEN"),
			DatabaseID: v.GetString("NOTION_DATABASE_ID"),
			BaseURL:    v.GetString("NOTION_BASE_URL"),
			Version:    v.GetString("NOTION_VERSION"),
		},
		Sync: Sync{
			Delay:         v.GetDuration("SYNC_DELAY"),
			RateStrategy:  strings.ToLower(v.GetString("SYNC_RATE_STRATEGY")),
			RatePerSecond: v.GetFloat64("SYNC_RATE_PER_SECOND"),
			HTTPTimeout:   v.GetDuration("SYNC_HTTP_TIMEOUT"),

			DelayRaw:       v.GetString("SYNC_DELAY"),
			HTTPTimeoutRaw: v.GetString("SYNC_HTTP_TIMEOUT"),
		},
		History: History{
			Path:     v.GetString("SYNC_HISTORY_PATH"),
			AuditDir: v.GetString("SYNC_AUDIT_DIR"),
		},
		Schedule: Schedule{
			Cron: v.GetString("SYNC_SCHEDULE"),
		},
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Log: Log{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
	}
}

// Validate checks required and enumerated settings. Failures are reported
// as a single *errors.ConfigError naming the environment variables involved.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	cfgErr := &apperrors.ConfigError{}
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			cfgErr.Missing = append(cfgErr.Missing, e.Field())
		case "oneof":
			cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("%s must be one of %s", e.Field(), e.Param()))
		case "duration":
			cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("%s must be a duration (e.g. 150ms)", e.Field()))
		default:
			cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
		}
	}
	return cfgErr
}

// SlogLevel maps the configured level name to a slog level.
func (l Log) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
