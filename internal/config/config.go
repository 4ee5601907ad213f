package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/surveylens/brandcheck/internal/decision"
	"github.com/surveylens/brandcheck/internal/evidence"
	"github.com/surveylens/brandcheck/internal/resilience"
	"github.com/surveylens/brandcheck/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Directory  DirectoryConfig  `yaml:"directory" mapstructure:"directory"`
	Evidence   evidence.Config  `yaml:"evidence" mapstructure:"evidence"`
	Fusion     FusionConfig     `yaml:"fusion" mapstructure:"fusion"`
	Decision   decision.Config  `yaml:"decision" mapstructure:"decision"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the decision and DLQ store backend.
type StoreConfig struct {
	// Driver selects the backend: sqlite or postgres.
	Driver string `yaml:"driver" mapstructure:"driver"`
	// Path is the sqlite database file.
	Path string `yaml:"path" mapstructure:"path"`
	// DatabaseURL is the postgres connection string.
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// CacheConfig configures the decision cache backend.
type CacheConfig struct {
	// Backend selects the cache: memory or redis.
	Backend  string      `yaml:"backend" mapstructure:"backend"`
	TTLHours int         `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	Redis    RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// AnthropicConfig holds vision model API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// OpenAIConfig holds embedding API settings.
type OpenAIConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SearchConfig configures local search-result analysis.
type SearchConfig struct {
	// TrustedDomains are authoritative hosts that earn the domain-trust
	// bonus. Subdomains match.
	TrustedDomains []string `yaml:"trusted_domains" mapstructure:"trusted_domains"`
}

// DirectoryConfig locates the known-brand directory file.
type DirectoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// FusionConfig locates an optional fusion-weights override file.
type FusionConfig struct {
	WeightsPath string `yaml:"weights_path" mapstructure:"weights_path"`
}

// ResilienceConfig configures provider retry and circuit breaking.
type ResilienceConfig struct {
	Retry   resilience.RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Breaker resilience.BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("BRANDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "brandcheck.db")
	v.SetDefault("store.pool.max_conns", 10)
	v.SetDefault("store.pool.min_conns", 2)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl_hours", 720)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("openai.model", "text-embedding-3-small")
	v.SetDefault("search.trusted_domains", []string{"wikipedia.org", "crunchbase.com", "bloomberg.com", "reuters.com", "sec.gov"})
	v.SetDefault("evidence.vision_timeout", "60s")
	v.SetDefault("evidence.search_timeout", "10s")
	v.SetDefault("evidence.known_entity_timeout", "5s")
	v.SetDefault("evidence.embedding_timeout", "15s")
	v.SetDefault("evidence.provider_rps", 10)
	v.SetDefault("decision.approve_min", 70)
	v.SetDefault("decision.reject_below", 40)
	v.SetDefault("decision.review_flag_min", 50)
	v.SetDefault("decision.max_risk_factors", 3)
	v.SetDefault("resilience.retry.max_attempts", 3)
	v.SetDefault("resilience.retry.initial_backoff", "500ms")
	v.SetDefault("resilience.retry.max_backoff", "10s")
	v.SetDefault("resilience.breaker.failure_threshold", 5)
	v.SetDefault("resilience.breaker.cooldown", "30s")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.max_retries", 3)
	v.SetDefault("server.port", 8080)
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

// Validate checks the configuration for the given run mode: classify,
// batch or serve. Errors accumulate so operators see every problem at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			problems = append(problems, "cache.redis.addr is required for the redis backend")
		}
	default:
		problems = append(problems, "cache.backend must be memory or redis")
	}

	switch mode {
	case "classify":
	case "batch":
		if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 64 {
			problems = append(problems, "batch.concurrency must be between 1 and 64")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
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
