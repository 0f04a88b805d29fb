// Package config loads application configuration from an optional
// config.yaml plus TOPIC_-prefixed environment overrides, and initializes
// the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ProvidersConfig selects the default LLM provider and holds per-provider
// credentials used when a request does not carry its own.
type ProvidersConfig struct {
	Default    string         `yaml:"default" mapstructure:"default"`
	Anthropic  ProviderConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI     ProviderConfig `yaml:"openai" mapstructure:"openai"`
	Perplexity ProviderConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Chutes     ProviderConfig `yaml:"chutes" mapstructure:"chutes"`
}

// ProviderConfig holds one provider's credentials and model override.
type ProviderConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// KeyFor returns the configured API key for a provider name, or "".
func (p ProvidersConfig) KeyFor(provider string) string {
	return p.forName(provider).Key
}

// ModelFor returns the configured model override for a provider name, or "".
func (p ProvidersConfig) ModelFor(provider string) string {
	return p.forName(provider).Model
}

func (p ProvidersConfig) forName(provider string) ProviderConfig {
	switch provider {
	case "anthropic":
		return p.Anthropic
	case "openai":
		return p.OpenAI
	case "perplexity":
		return p.Perplexity
	case "chutes":
		return p.Chutes
	}
	return ProviderConfig{}
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// SearchConfig configures the search provider.
type SearchConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PipelineConfig configures evidence collection.
type PipelineConfig struct {
	FetchDelayMillis int `yaml:"fetch_delay_ms" mapstructure:"fetch_delay_ms"`
}

// ServerConfig configures the HTTP serve mode.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
	// AuthToken, when set, requires a matching bearer token on agent requests.
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

var knownProviders = map[string]bool{
	"anthropic":  true,
	"openai":     true,
	"perplexity": true,
	"chutes":     true,
}

// Validate checks the configuration for the given run mode ("run" or
// "serve") and reports every problem at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	if !knownProviders[c.Providers.Default] {
		problems = append(problems, "providers.default must be one of anthropic, openai, perplexity, chutes")
	}
	if c.Fetch.TimeoutSecs <= 0 {
		problems = append(problems, "fetch.timeout_secs must be > 0")
	}
	if c.Fetch.RatePerSec <= 0 {
		problems = append(problems, "fetch.rate_per_sec must be > 0")
	}
	if c.Pipeline.FetchDelayMillis < 0 {
		problems = append(problems, "pipeline.fetch_delay_ms must be >= 0")
	}

	switch mode {
	case "run":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TOPIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("providers.default", "openai")
	// Key defaults are empty but registered so env overrides bind.
	v.SetDefault("providers.openai.key", "")
	v.SetDefault("providers.anthropic.key", "")
	v.SetDefault("providers.perplexity.key", "")
	v.SetDefault("providers.chutes.key", "")
	v.SetDefault("providers.openai.model", "gpt-3.5-turbo")
	v.SetDefault("providers.anthropic.model", "claude-3-7-sonnet-latest")
	v.SetDefault("providers.perplexity.model", "pplx-7b-online")
	v.SetDefault("providers.chutes.model", "deepseek-ai/DeepSeek-R1")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.rate_per_sec", 2.0)
	v.SetDefault("search.base_url", "https://www.google.com/search")
	v.SetDefault("pipeline.fetch_delay_ms", 500)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.auth_token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
