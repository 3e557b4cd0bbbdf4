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
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Apify      ApifyConfig      `yaml:"apify" mapstructure:"apify"`
	Prospeo    ProspeoConfig    `yaml:"prospeo" mapstructure:"prospeo"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	HeyReach   HeyReachConfig   `yaml:"heyreach" mapstructure:"heyreach"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ApifyConfig holds the posting-source actor settings.
type ApifyConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	ActorID string `yaml:"actor_id" mapstructure:"actor_id"`
}

// ProspeoConfig holds the email-finder API settings.
type ProspeoConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds text-generation settings for compliments.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// NotionConfig holds the persisted lead database settings.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// HeyReachConfig holds the campaign sink settings.
type HeyReachConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	CampaignID string `yaml:"campaign_id" mapstructure:"campaign_id"`
}

// SalesforceConfig holds optional CRM export credentials.
type SalesforceConfig struct {
	Domain         string `yaml:"domain" mapstructure:"domain"`
	ConsumerKey    string `yaml:"consumer_key" mapstructure:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret" mapstructure:"consumer_secret"`
}

// SearchConfig configures what the posting source searches for.
type SearchConfig struct {
	Keywords  []string `yaml:"keywords" mapstructure:"keywords"`
	TimeRange string   `yaml:"time_range" mapstructure:"time_range"`
	GeoID     string   `yaml:"geo_id" mapstructure:"geo_id"`
	MaxLeads  int      `yaml:"max_leads" mapstructure:"max_leads"`
}

// CleanKeywords returns the configured keywords with surrounding
// whitespace trimmed and empty entries dropped.
func (s SearchConfig) CleanKeywords() []string {
	out := make([]string, 0, len(s.Keywords))
	for _, kw := range s.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// PipelineConfig configures filtering, pacing and fallback behavior.
type PipelineConfig struct {
	MinEmployeeCount int           `yaml:"min_employee_count" mapstructure:"min_employee_count"`
	CallSpacing      time.Duration `yaml:"call_spacing" mapstructure:"call_spacing"`
	FallbackFile     string        `yaml:"fallback_file" mapstructure:"fallback_file"`
}

// ServerConfig configures the webhook server.
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
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "outreach.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("apify.base_url", "https://api.apify.com/v2/acts")
	v.SetDefault("apify.actor_id", "hKByXkMQaC5Qt9UMN")
	v.SetDefault("prospeo.base_url", "https://api.prospeo.io")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 150)
	v.SetDefault("anthropic.temperature", 0.7)
	v.SetDefault("heyreach.base_url", "https://api.heyreach.com")
	v.SetDefault("search.keywords", []string{"SDR", "Sales Development Representative"})
	v.SetDefault("search.time_range", "r604800")
	v.SetDefault("search.geo_id", "103644278")
	v.SetDefault("search.max_leads", 100)
	v.SetDefault("pipeline.min_employee_count", 200)
	v.SetDefault("pipeline.call_spacing", "1s")

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
