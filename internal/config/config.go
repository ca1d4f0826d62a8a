package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	DeepSeek DeepSeekConfig `yaml:"deepseek" mapstructure:"deepseek"`
	Claude   ClaudeConfig   `yaml:"claude" mapstructure:"claude"`
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Finance  FinanceConfig  `yaml:"finance" mapstructure:"finance"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Outreach OutreachConfig `yaml:"outreach" mapstructure:"outreach"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the lead persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres | none
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	XLSXPath    string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// DeepSeekConfig holds the financial reasoning service settings.
type DeepSeekConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ClaudeConfig holds Anthropic API settings for outreach generation.
type ClaudeConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// NotionConfig holds the optional Notion lead-database sink settings.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// SourcesConfig configures lead sourcing.
type SourcesConfig struct {
	URLs        []string `yaml:"urls" mapstructure:"urls"`
	Files       []string `yaml:"files" mapstructure:"files"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxPerScan  int      `yaml:"max_per_scan" mapstructure:"max_per_scan"`
}

// FinanceConfig configures the analysis engine.
type FinanceConfig struct {
	BaseValue float64 `yaml:"base_value" mapstructure:"base_value"`
	Augment   bool    `yaml:"augment" mapstructure:"augment"`
}

// PipelineConfig configures the orchestrator.
type PipelineConfig struct {
	BatchSize int           `yaml:"batch_size" mapstructure:"batch_size"`
	RateDelay time.Duration `yaml:"rate_delay" mapstructure:"rate_delay"`
}

// OutreachConfig configures outreach message generation.
type OutreachConfig struct {
	TemplatePath string `yaml:"template_path" mapstructure:"template_path"`
	SignName     string `yaml:"sign_name" mapstructure:"sign_name"`
	SignTitle    string `yaml:"sign_title" mapstructure:"sign_title"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadscout.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("deepseek.model", "deepseek-chat")
	v.SetDefault("deepseek.timeout_secs", 30)
	v.SetDefault("claude.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("claude.max_tokens", 1024)
	v.SetDefault("claude.temperature", 0.7)
	v.SetDefault("sources.timeout_secs", 10)
	v.SetDefault("sources.max_per_scan", 10)
	v.SetDefault("finance.base_value", 300000)
	v.SetDefault("finance.augment", true)
	v.SetDefault("pipeline.batch_size", 10)
	v.SetDefault("pipeline.rate_delay", "1s")
	v.SetDefault("outreach.sign_name", "Alex Rodriguez")
	v.SetDefault("outreach.sign_title", "Real Estate Investment Specialist")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
