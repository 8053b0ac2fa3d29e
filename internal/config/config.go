package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Document data
	DataDir string

	// Chunking defaults
	DefaultChunkSize  int
	MaxPageChunks     int
	StreamChunkTokens int

	// Plan cache
	CacheCapacity int
	CacheTTL      time.Duration

	// Startup section warm-up
	WarmWorkers int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "10000"),

		APIKey: os.Getenv("API_KEY"),

		DataDir: envOr("DATA_DIR", "./data"),

		DefaultChunkSize:  envInt("DEFAULT_CHUNK_SIZE", 1000),
		MaxPageChunks:     envInt("MAX_PAGE_CHUNKS", 3),
		StreamChunkTokens: envInt("STREAM_CHUNK_TOKENS", 500),

		CacheCapacity: envInt("CACHE_CAPACITY", 256),
		CacheTTL:      envDuration("CACHE_TTL", 15*time.Minute),

		WarmWorkers: envInt("WARM_WORKERS", 4),
	}

	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 1000
	}
	if cfg.MaxPageChunks <= 0 {
		cfg.MaxPageChunks = 3
	}
	if cfg.StreamChunkTokens <= 0 {
		cfg.StreamChunkTokens = 500
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = 256
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.WarmWorkers <= 0 {
		cfg.WarmWorkers = 4
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
