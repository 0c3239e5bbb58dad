package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Retention RetentionConfig `mapstructure:"retention"`

	// Strategies overrides the built-in strategy bank when non-empty.
	Strategies []StrategyConfig `mapstructure:"strategies" validate:"dive"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// PipelineConfig sizes the worker pool. Workers bound concurrency regardless
// of burst rate; bursts queue up to queue_size before intake blocks.
type PipelineConfig struct {
	Workers       int           `mapstructure:"workers" validate:"min=1"`
	QueueSize     int           `mapstructure:"queue_size" validate:"min=1"`
	DrainTimeout  time.Duration `mapstructure:"drain_timeout"`
	EnrichTimeout time.Duration `mapstructure:"enrich_timeout"`
}

type ProvidersConfig struct {
	DexScreener ProviderConfig `mapstructure:"dexscreener"`
	Jupiter     ProviderConfig `mapstructure:"jupiter"`
	Solscan     ProviderConfig `mapstructure:"solscan"`
	Retry       RetryConfig    `mapstructure:"retry"`
	CacheTTL    time.Duration  `mapstructure:"cache_ttl"`
}

type ProviderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts" validate:"min=1"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

type ScoringConfig struct {
	// MatchThreshold is the weighted-score floor above which a strategy
	// counts as matched. Tunable; 0.7 by default.
	MatchThreshold float64 `mapstructure:"match_threshold" validate:"gte=0,lte=1"`
}

type RankingConfig struct {
	TopN          int     `mapstructure:"top_n" validate:"min=1"`
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gte=0,lte=100"`
	// Cron ranks the previous day shortly after midnight UTC; Refresh keeps
	// the current day's board live as signals complete.
	Cron    string `mapstructure:"cron"`
	Refresh string `mapstructure:"refresh"`
}

type RetentionConfig struct {
	MaxAge time.Duration `mapstructure:"max_age"`
	Cron   string        `mapstructure:"cron"`
}

type StrategyConfig struct {
	Name        string         `mapstructure:"name" validate:"required"`
	Description string         `mapstructure:"description"`
	Weight      float64        `mapstructure:"weight" validate:"gte=0,lte=1"`
	SuccessRate float64        `mapstructure:"success_rate" validate:"gte=0,lte=1"`
	Criteria    CriteriaConfig `mapstructure:"criteria"`
}

// CriteriaConfig uses pointers so an omitted criterion stays unset instead of
// becoming a zero-valued floor.
type CriteriaConfig struct {
	MinVolume24h   *float64 `mapstructure:"min_volume_24h"`
	MaxMarketCap   *float64 `mapstructure:"max_market_cap"`
	MinLiquidity   *float64 `mapstructure:"min_liquidity"`
	MinHolderCount *int64   `mapstructure:"min_holder_count"`
	MinMomentum    *float64 `mapstructure:"min_momentum"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")

	v.SetDefault("pipeline.workers", 8)
	v.SetDefault("pipeline.queue_size", 256)
	v.SetDefault("pipeline.drain_timeout", "30s")
	v.SetDefault("pipeline.enrich_timeout", "10s")

	v.SetDefault("providers.dexscreener.base_url", "https://api.dexscreener.com")
	v.SetDefault("providers.dexscreener.timeout", "10s")
	v.SetDefault("providers.jupiter.base_url", "https://api.jup.ag")
	v.SetDefault("providers.jupiter.timeout", "10s")
	v.SetDefault("providers.solscan.base_url", "https://public-api.solscan.io")
	v.SetDefault("providers.solscan.timeout", "10s")
	v.SetDefault("providers.retry.max_attempts", 3)
	v.SetDefault("providers.retry.initial_backoff", "500ms")
	v.SetDefault("providers.retry.max_backoff", "8s")
	v.SetDefault("providers.cache_ttl", "30s")

	v.SetDefault("scoring.match_threshold", 0.7)

	v.SetDefault("ranking.top_n", 5)
	v.SetDefault("ranking.min_confidence", 50)
	v.SetDefault("ranking.cron", "0 10 0 * * *")
	v.SetDefault("ranking.refresh", "@every 15m")

	v.SetDefault("retention.max_age", "720h")
	v.SetDefault("retention.cron", "@every 6h")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
