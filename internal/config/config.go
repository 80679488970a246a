package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	DBDSN         string           `json:"db_dsn"`
	MigrationsDir string           `json:"migrations_dir"`
	JWTSecret     string           `json:"jwt_secret"`
	Port          int              `json:"port"`
	JWTTTLHours   int              `json:"jwt_ttl_hours"`
	AllowOrigins  []string         `json:"allow_origins"`
	LogConfig     logger.LogConfig `json:"log_config"`
	AI            AIConfig         `json:"ai"`
	Rank          RankConfig       `json:"rank"`
	Notify        NotifyConfig     `json:"notify"`
	Jobs          JobsConfig       `json:"jobs"`
}

type AIConfig struct {
	Provider        string      `json:"provider"`
	Data            interface{} `json:"data"`
	GenModel        string      `json:"gen_model"`
	EmbedModel      string      `json:"embed_model"`
	TimeoutSeconds  int         `json:"timeout_seconds"`
	CacheSize       int         `json:"cache_size"`
	CacheTTLMinutes int         `json:"cache_ttl_minutes"`
}

type RankConfig struct {
	TopK             int `json:"top_k"`
	RateLimitSeconds int `json:"rate_limit_seconds"`
}

type NotifyConfig struct {
	Type          string `json:"type"`
	NatsURL       string `json:"nats_url"`
	SubjectPrefix string `json:"subject_prefix"`
}

type JobsConfig struct {
	Enable             bool   `json:"enable"`
	EmbedBackfillCron  string `json:"embed_backfill_cron"`
	CacheCleanupCron   string `json:"cache_cleanup_cron"`
	BatchSize          int    `json:"batch_size"`
	CacheRetentionDays int    `json:"cache_retention_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("db_dsn is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.GenModel == "" {
		cfg.AI.GenModel = "gemini-2.0-flash"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "text-embedding-004"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 1024
	}
	if cfg.AI.CacheTTLMinutes == 0 {
		cfg.AI.CacheTTLMinutes = 60
	}
	if cfg.Rank.TopK == 0 {
		cfg.Rank.TopK = 10
	}
	if cfg.Rank.RateLimitSeconds == 0 {
		cfg.Rank.RateLimitSeconds = 3
	}
	switch cfg.Notify.Type {
	case "":
		cfg.Notify.Type = "log"
	case "log":
	case "nats":
		if cfg.Notify.NatsURL == "" {
			return nil, fmt.Errorf("notify.nats_url is required for nats notifier")
		}
	default:
		return nil, fmt.Errorf("notify.type must be log or nats")
	}
	if cfg.Jobs.EmbedBackfillCron == "" {
		cfg.Jobs.EmbedBackfillCron = "*/10 * * * *"
	}
	if cfg.Jobs.CacheCleanupCron == "" {
		cfg.Jobs.CacheCleanupCron = "30 3 * * *"
	}
	if cfg.Jobs.BatchSize == 0 {
		cfg.Jobs.BatchSize = 50
	}
	if cfg.Jobs.CacheRetentionDays == 0 {
		cfg.Jobs.CacheRetentionDays = 30
	}
	return &cfg, nil
}
