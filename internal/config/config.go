// Package config loads service configuration from a TOML file with
// environment-variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath          = "config.toml"
	DefaultHTTPAddr            = ":3000"
	DefaultAPIBaseURL          = "https://api.line.me"
	DefaultDataBaseURL         = "https://api-data.line.me"
	DefaultImagesDir           = "images"
	DefaultFetchTimeoutSeconds = 5
	DefaultDedupCapacity       = 1000
	DefaultPromoLinkURL        = "https://note.com/enkyorikun/n/n38aad7b8a548"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Line     LineConfig     `toml:"line"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Comments CommentsConfig `toml:"comments"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// BaseURL is the public origin used to build absolute links to static
	// assets referenced from flex messages.
	BaseURL      string `toml:"base_url" validate:"omitempty,url"`
	ImagesDir    string `toml:"images_dir"`
	PromoLinkURL string `toml:"promo_link_url" validate:"omitempty,url"`
}

type LineConfig struct {
	ChannelSecret      string `toml:"channel_secret"`
	ChannelAccessToken string `toml:"channel_access_token" validate:"required"`
	APIBaseURL         string `toml:"api_base_url" validate:"omitempty,url"`
	DataBaseURL        string `toml:"data_base_url" validate:"omitempty,url"`
}

type PipelineConfig struct {
	FetchTimeoutSeconds  int  `toml:"fetch_timeout_seconds" validate:"gte=0"`
	ConcurrentEvents     bool `toml:"concurrent_events"`
	SendProcessingNotice bool `toml:"send_processing_notice"`
	DedupCapacity        int  `toml:"dedup_capacity" validate:"gte=0"`
}

type CommentsConfig struct {
	// Path overrides the embedded comment bank when set.
	Path string `toml:"path"`
}

// FetchTimeout returns the content-fetch deadline as a duration.
func (c PipelineConfig) FetchTimeout() time.Duration {
	seconds := c.FetchTimeoutSeconds
	if seconds <= 0 {
		seconds = DefaultFetchTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Load reads the config file at path (DefaultConfigPath when empty), applies
// environment overrides, and validates the result. A missing file is not an
// error; defaults plus environment must then carry the credentials.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:         DefaultHTTPAddr,
			ImagesDir:    DefaultImagesDir,
			PromoLinkURL: DefaultPromoLinkURL,
		},
		Line: LineConfig{
			APIBaseURL:  DefaultAPIBaseURL,
			DataBaseURL: DefaultDataBaseURL,
		},
		Pipeline: PipelineConfig{
			FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
			ConcurrentEvents:    true,
			DedupCapacity:       DefaultDedupCapacity,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LINE_CHANNEL_SECRET"); v != "" {
		cfg.Line.ChannelSecret = v
	}
	if v := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); v != "" {
		cfg.Line.ChannelAccessToken = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
}
