package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Graph    GraphConfig    `yaml:"graph"`
	Content  ContentConfig  `yaml:"content"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Selector SelectorConfig `yaml:"selector"`
	Guard    GuardConfig    `yaml:"guard"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds Redis settings for the graph/item caches and the event
// channel.
type RedisConfig struct {
	Addr         string        `yaml:"addr"          env:"REDIS_ADDR"          env-default:"localhost:6379"`
	Password     string        `yaml:"password"      env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db"            env:"REDIS_DB"            env-default:"0"`
	BlockTTL     time.Duration `yaml:"block_ttl"     env:"REDIS_BLOCK_TTL"     env-default:"1h"`
	ItemPoolTTL  time.Duration `yaml:"item_pool_ttl" env:"REDIS_ITEM_POOL_TTL" env-default:"24h"`
	EventChannel string        `yaml:"event_channel" env:"REDIS_EVENT_CHANNEL" env-default:"engine.events"`
}

// AuthConfig holds JWT verification settings. Token issuance belongs to the
// external account service; this engine only verifies learner identity.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"lexigraph"`
}

// GraphConfig holds Knowledge Graph client settings.
type GraphConfig struct {
	BaseURL string        `yaml:"base_url" env:"GRAPH_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout"  env:"GRAPH_TIMEOUT"  env-default:"2s"`
	Retries int           `yaml:"retries"  env:"GRAPH_RETRIES"  env-default:"2"`
}

// ContentConfig holds settings for the external content-generation provider
// used to render item prompts and distractor texts.
type ContentConfig struct {
	BaseURL string        `yaml:"base_url" env:"CONTENT_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"CONTENT_TIMEOUT"  env-default:"2s"`
	Retries int           `yaml:"retries"  env:"CONTENT_RETRIES"  env-default:"1"`
	Backoff time.Duration `yaml:"backoff"  env:"CONTENT_BACKOFF"  env-default:"200ms"`
}

// ScheduleConfig holds scheduling-core parameters.
type ScheduleConfig struct {
	PassThreshold      float64 `yaml:"pass_threshold"       env:"SCHEDULE_PASS_THRESHOLD"       env-default:"0.6"`
	EaseBonusThreshold float64 `yaml:"ease_bonus_threshold" env:"SCHEDULE_EASE_BONUS_THRESHOLD" env-default:"0.8"`
	ProgressionRaw     string  `yaml:"progression"          env:"SCHEDULE_PROGRESSION"          env-default:"1,3,7"`
	ImmediateCheckSize int     `yaml:"immediate_check_size" env:"SCHEDULE_IMMEDIATE_CHECK_SIZE" env-default:"3"`
	ImmediateCheckMean float64 `yaml:"immediate_check_mean" env:"SCHEDULE_IMMEDIATE_CHECK_MEAN" env-default:"0.66"`
	FatigueLapseLimit  int     `yaml:"fatigue_lapse_limit"  env:"SCHEDULE_FATIGUE_LAPSE_LIMIT"  env-default:"3"`
	FatigueWindowDays  int     `yaml:"fatigue_window_days"  env:"SCHEDULE_FATIGUE_WINDOW_DAYS"  env-default:"30"`
	RetentionProbeDays int     `yaml:"retention_probe_days" env:"SCHEDULE_RETENTION_PROBE_DAYS" env-default:"30"`
	Strategy           string  `yaml:"strategy"             env:"SCHEDULE_STRATEGY"             env-default:"sm2"`

	// Progression is parsed from ProgressionRaw during validation.
	Progression []int `yaml:"-" env:"-"`
}

// SelectorConfig holds candidate-selection parameters.
type SelectorConfig struct {
	DayCap         int     `yaml:"day_cap"          env:"SELECTOR_DAY_CAP"          env-default:"20"`
	ConnectedRatio float64 `yaml:"connected_ratio"  env:"SELECTOR_CONNECTED_RATIO"  env-default:"0.6"`
	MaxHops        int     `yaml:"max_hops"         env:"SELECTOR_MAX_HOPS"         env-default:"2"`
}

// GuardConfig holds anti-gaming policy thresholds.
type GuardConfig struct {
	SpeedTrapMs      int `yaml:"speed_trap_ms"       env:"GUARD_SPEED_TRAP_MS"       env-default:"1500"`
	FastAnswerMs     int `yaml:"fast_answer_ms"      env:"GUARD_FAST_ANSWER_MS"      env-default:"3000"`
	PerfectRunLength int `yaml:"perfect_run_length"  env:"GUARD_PERFECT_RUN_LENGTH"  env-default:"10"`
	NewBlockWindowH  int `yaml:"new_block_window_h"  env:"GUARD_NEW_BLOCK_WINDOW_H"  env-default:"24"`
}

// WorkerConfig holds background-job settings.
type WorkerConfig struct {
	RecomputeCron    string        `yaml:"recompute_cron"    env:"WORKER_RECOMPUTE_CRON"    env-default:"0 3 * * *"`
	DispatchInterval time.Duration `yaml:"dispatch_interval" env:"WORKER_DISPATCH_INTERVAL" env-default:"5s"`
	DispatchBatch    int           `yaml:"dispatch_batch"    env:"WORKER_DISPATCH_BATCH"    env-default:"100"`
	PoolSize         int           `yaml:"pool_size"         env:"WORKER_POOL_SIZE"         env-default:"8"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
