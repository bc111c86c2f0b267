package env

import (
	"os"
	"time"
)

var E *ENV

type ENV struct {
	Environment            string `yaml:"environment"`
	DatabaseConfigFilePath string `yaml:"database_config_file_path"`

	ServerName string `yaml:"server_name"`

	Backend *BackendHost `yaml:"backend"`
	Redis   *RedisHost   `yaml:"redis"`
	Log     *Log         `yaml:"log"`

	JWTSigningKey    string `yaml:"jwt_signing_key"`
	JWTTokenDuration string `yaml:"jwt_token_duration"`

	Optimizer *Optimizer `yaml:"optimizer"`
	RateLimit *RateLimit `yaml:"rate_limit"`
}

type BackendHost struct {
	Port string `yaml:"port"`
}

// RedisHost is optional; without an address results are not cached and
// requests are not rate limited.
type RedisHost struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty *bool  `yaml:"pretty"`
}

type Optimizer struct {
	MaxNodes     int    `yaml:"max_nodes"`
	MaxBatchSize int    `yaml:"max_batch_size"`
	BatchWorkers int    `yaml:"batch_workers"`
	CacheTTL     string `yaml:"cache_ttl"`

	// HistoryNodeBudget caps the per-node totals kept by the in-memory run
	// history
	HistoryNodeBudget int `yaml:"history_node_budget"`
}

type RateLimit struct {
	Requests int64  `yaml:"requests"`
	Window   string `yaml:"window"`
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func (env *ENV) GetJWTDuration() time.Duration {
	if env == nil {
		return 24 * time.Hour
	}
	return parseDuration(env.JWTTokenDuration, 24*time.Hour)
}

func (env *ENV) GetCacheTTL() time.Duration {
	if env == nil || env.Optimizer == nil {
		return 30 * time.Minute
	}
	return parseDuration(env.Optimizer.CacheTTL, 30*time.Minute)
}

func (env *ENV) GetRateLimitWindow() time.Duration {
	if env == nil || env.RateLimit == nil {
		return time.Minute
	}
	return parseDuration(env.RateLimit.Window, time.Minute)
}

func (env *ENV) GetServerPort() string {
	if env == nil || env.Backend == nil || env.Backend.Port == "" {
		return "5000"
	}
	return env.Backend.Port
}

func (env *ENV) HasRedis() bool {
	return env != nil && env.Redis != nil && env.Redis.Addr != ""
}

func (env *ENV) HasDatabase() bool {
	return env != nil && env.DatabaseConfigFilePath != ""
}

func (env *ENV) IsDevelopment() bool {
	return env != nil && env.Environment == "development"
}

func (env *ENV) SetDefaults() {
	if env.Environment == "" {
		env.Environment = "development"
	}
	if env.ServerName == "" {
		env.ServerName = "latency-optimizer"
	}
	if env.Backend == nil {
		env.Backend = &BackendHost{}
	}
	if env.Backend.Port == "" {
		env.Backend.Port = "5000"
	}
	if env.Log == nil {
		env.Log = &Log{}
	}
	if env.Log.Level == "" {
		if env.IsDevelopment() {
			env.Log.Level = "debug"
		} else {
			env.Log.Level = "info"
		}
	}
	if env.Log.Pretty == nil {
		pretty := env.IsDevelopment()
		env.Log.Pretty = &pretty
	}

	// JWT key: environment variable > config file (required, no default)
	if key := os.Getenv("JWT_SIGNING_KEY"); key != "" {
		env.JWTSigningKey = key
	}
	if env.JWTSigningKey == "" {
		panic("JWT_SIGNING_KEY is required. Set it via environment variable or config file.")
	}
	if env.JWTTokenDuration == "" {
		env.JWTTokenDuration = "24h"
	}

	if env.Optimizer == nil {
		env.Optimizer = &Optimizer{}
	}
	if env.Optimizer.MaxNodes <= 0 {
		env.Optimizer.MaxNodes = 1000000
	}
	if env.Optimizer.MaxBatchSize <= 0 {
		env.Optimizer.MaxBatchSize = 64
	}
	if env.Optimizer.BatchWorkers <= 0 {
		env.Optimizer.BatchWorkers = 4
	}
	if env.Optimizer.CacheTTL == "" {
		env.Optimizer.CacheTTL = "30m"
	}
	if env.Optimizer.HistoryNodeBudget <= 0 {
		env.Optimizer.HistoryNodeBudget = 2000000
	}

	if env.RateLimit == nil {
		env.RateLimit = &RateLimit{}
	}
	if env.RateLimit.Requests <= 0 {
		env.RateLimit.Requests = 60
	}
	if env.RateLimit.Window == "" {
		env.RateLimit.Window = "1m"
	}
}
