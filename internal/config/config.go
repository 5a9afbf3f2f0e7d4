package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Document source
	FigmaAPIToken string
	FigmaFileURL  string
	FigmaAPIBase  string

	// Outbound fetches. The upstream API imposes no timeout of its own,
	// so these defaults are this service's decision.
	FetchTimeout   time.Duration
	BindingTimeout time.Duration

	// Binding refresh
	BindingPollInterval time.Duration

	// Graphics prefetch
	GraphicsConcurrency int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		FigmaAPIToken: os.Getenv("FIGMA_API_TOKEN"),
		FigmaFileURL:  os.Getenv("FIGMA_FILE_URL"),
		FigmaAPIBase:  envOr("FIGMA_API_BASE", "https://api.figma.com"),

		FetchTimeout:   envDuration("FETCH_TIMEOUT", 15*time.Second),
		BindingTimeout: envDuration("BINDING_TIMEOUT", 10*time.Second),

		BindingPollInterval: envDuration("BINDING_POLL_INTERVAL", 5*time.Second),

		GraphicsConcurrency: envInt("GRAPHICS_CONCURRENCY", 4),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.BindingTimeout <= 0 {
		cfg.BindingTimeout = 10 * time.Second
	}
	if cfg.BindingPollInterval <= 0 {
		cfg.BindingPollInterval = 5 * time.Second
	}
	if cfg.GraphicsConcurrency <= 0 {
		cfg.GraphicsConcurrency = 4
	}

	return cfg
}

func (c Config) Validate() error {
	if c.FigmaAPIToken == "" {
		return fmt.Errorf("FIGMA_API_TOKEN is required")
	}
	if c.FigmaFileURL == "" {
		return fmt.Errorf("FIGMA_FILE_URL is required")
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
