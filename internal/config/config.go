// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"commit-scorer/internal/model"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	DBURL          string `mapstructure:"DB_URL"`
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	SferaBaseURL            string        `mapstructure:"SFERA_BASE_URL"`
	SferaUsername           string        `mapstructure:"SFERA_USERNAME"`
	SferaPassword           string        `mapstructure:"SFERA_PASSWORD"`
	SferaPageSize           int           `mapstructure:"SFERA_PAGE_SIZE"`
	SferaPageDelay          time.Duration `mapstructure:"SFERA_PAGE_DELAY"`
	SferaInsecureSkipVerify bool          `mapstructure:"SFERA_INSECURE_SKIP_VERIFY"`

	LLMBaseURL            string        `mapstructure:"LLM_BASE_URL"`
	LLMTokenURL           string        `mapstructure:"LLM_TOKEN_URL"`
	LLMClientID           string        `mapstructure:"LLM_CLIENT_ID"`
	LLMClientSecret       string        `mapstructure:"LLM_CLIENT_SECRET"`
	LLMScope              string        `mapstructure:"LLM_SCOPE"`
	LLMAPIKey             string        `mapstructure:"LLM_API_KEY"`
	LLMModel              string        `mapstructure:"LLM_MODEL"`
	LLMTimeout            time.Duration `mapstructure:"LLM_TIMEOUT"`
	LLMInsecureSkipVerify bool          `mapstructure:"LLM_INSECURE_SKIP_VERIFY"`

	CollectTargets       []string      `mapstructure:"COLLECT_TARGETS"`
	SyncInterval         time.Duration `mapstructure:"SYNC_INTERVAL"`
	DefaultSyncSinceDate string        `mapstructure:"DEFAULT_SYNC_SINCE_DATE"`
	DefaultSyncSinceTime time.Time     `mapstructure:"-"`
}

// defaults doubles as the list of known keys; every key needs an entry so that
// AutomaticEnv picks it up during Unmarshal.
var defaults = map[string]any{
	"LOG_LEVEL":       "info",
	"DB_URL":          "",
	"HTTP_ADDR":       ":8080",
	"MIGRATIONS_PATH": "file://migrations",

	"SFERA_BASE_URL":             "",
	"SFERA_USERNAME":             "",
	"SFERA_PASSWORD":             "",
	"SFERA_PAGE_SIZE":            100,
	"SFERA_PAGE_DELAY":           "100ms",
	"SFERA_INSECURE_SKIP_VERIFY": false,

	"LLM_BASE_URL":             "",
	"LLM_TOKEN_URL":            "",
	"LLM_CLIENT_ID":            "",
	"LLM_CLIENT_SECRET":        "",
	"LLM_SCOPE":                "",
	"LLM_API_KEY":              "",
	"LLM_MODEL":                "GigaChat-Max",
	"LLM_TIMEOUT":              "60s",
	"LLM_INSECURE_SKIP_VERIFY": false,

	"COLLECT_TARGETS":         []string{},
	"SYNC_INTERVAL":           "1h",
	"DEFAULT_SYNC_SINCE_DATE": "2023-01-01T00:00:00Z",
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	return load(".")
}

func load(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(configPath)
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CollectTargets = splitTargets(cfg.CollectTargets)

	parsedTime, err := time.Parse(time.RFC3339, cfg.DefaultSyncSinceDate)
	if err != nil {
		return nil, errors.New("DEFAULT_SYNC_SINCE_DATE must be in RFC3339 format (e.g. 2023-01-01T00:00:00Z)")
	}
	cfg.DefaultSyncSinceTime = parsedTime

	// Validate required fields
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.SferaPageSize <= 0 {
		return nil, errors.New("SFERA_PAGE_SIZE must be a positive integer")
	}
	if len(cfg.CollectTargets) > 0 && cfg.SyncInterval <= 0 {
		return nil, errors.New("SYNC_INTERVAL must be positive when COLLECT_TARGETS is set")
	}

	return &cfg, nil
}

// SferaCredentials returns the default remote API credentials.
func (c *Config) SferaCredentials() model.Credentials {
	return model.Credentials{Username: c.SferaUsername, Password: c.SferaPassword}
}

// splitTargets accepts both comma and whitespace separated target lists.
func splitTargets(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, f := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' }) {
			out = append(out, f)
		}
	}
	return out
}
