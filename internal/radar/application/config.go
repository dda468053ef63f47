package application

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines the engine tuning knobs. Values come from defaults, an
// optional YAML file pointed at by RADAR_CONFIG, then env overrides.
type Config struct {
	RegionToken         string `yaml:"region_token"`
	TickSeconds         int    `yaml:"tick_seconds"`
	DefaultPollMinutes  int    `yaml:"default_poll_minutes"`
	LedgerCapacity      int    `yaml:"ledger_capacity"`
	EnrichmentItems     int    `yaml:"enrichment_items"`
	FetchTimeoutSecs    int    `yaml:"fetch_timeout_seconds"`
	DeliveryTimeoutSecs int    `yaml:"delivery_timeout_seconds"`
	WebhookURL          string `yaml:"webhook_url"`
}

// LoadConfig loads engine configuration.
func LoadConfig() (Config, error) {
	cfg := Config{
		RegionToken:         getenvDefault("RADAR_REGION_TOKEN", "chile"),
		TickSeconds:         getenvIntDefault("RADAR_TICK_SECONDS", 60),
		DefaultPollMinutes:  getenvIntDefault("RADAR_DEFAULT_POLL_MINUTES", 15),
		LedgerCapacity:      getenvIntDefault("RADAR_LEDGER_CAPACITY", 512),
		EnrichmentItems:     getenvIntDefault("RADAR_ENRICHMENT_ITEMS", 5),
		FetchTimeoutSecs:    getenvIntDefault("RADAR_FETCH_TIMEOUT_SECONDS", 10),
		DeliveryTimeoutSecs: getenvIntDefault("RADAR_DELIVERY_TIMEOUT_SECONDS", 10),
		WebhookURL:          os.Getenv("RADAR_WEBHOOK_URL"),
	}

	if path := os.Getenv("RADAR_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.TickSeconds <= 0 {
		return cfg, errors.New("radar: tick seconds must be positive")
	}
	if cfg.DefaultPollMinutes <= 0 {
		return cfg, errors.New("radar: default poll interval must be positive")
	}
	if cfg.LedgerCapacity <= 0 {
		cfg.LedgerCapacity = 512
	}
	if cfg.EnrichmentItems <= 0 {
		cfg.EnrichmentItems = 5
	}
	return cfg, nil
}

// TickInterval returns the master tick cadence.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

// FetchTimeout returns the per-fetch upper bound.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// DeliveryTimeout bounds a detached notification delivery.
func (c Config) DeliveryTimeout() time.Duration {
	if c.DeliveryTimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.DeliveryTimeoutSecs) * time.Second
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
