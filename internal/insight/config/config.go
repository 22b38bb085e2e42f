package config

import (
	"golang-stock-insight/pkg/config"
)

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	VisionModel         string `mapstructure:"vision_model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Tushare holds the configuration for the Tushare market-data API.
type Tushare struct {
	BaseURL             string `mapstructure:"base_url"`
	Token               string `mapstructure:"token"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	DirectoryCacheTTL   string `mapstructure:"directory_cache_ttl"`
}

// Search holds the configuration for the web-search API.
type Search struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	DomainFilter        string `mapstructure:"domain_filter"`
	RecencyFilter       string `mapstructure:"recency_filter"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Report holds report assembly and retention configuration.
type Report struct {
	Dir              string  `mapstructure:"dir"`
	RetentionMinutes int     `mapstructure:"retention_minutes"`
	SweepCron        string  `mapstructure:"sweep_cron"`
	WrapWidth        int     `mapstructure:"wrap_width"`
	LineHeight       float64 `mapstructure:"line_height"`
	TopMargin        float64 `mapstructure:"top_margin"`
	BottomMargin     float64 `mapstructure:"bottom_margin"`
	FontPath         string  `mapstructure:"font_path"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the insight service.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	API      config.API    `mapstructure:"api"`
	Gemini   Gemini        `mapstructure:"gemini"`
	Tushare  Tushare       `mapstructure:"tushare"`
	Search   Search        `mapstructure:"search"`
	Report   Report        `mapstructure:"report"`
	Telegram Telegram      `mapstructure:"telegram"`
}

// Load loads the insight configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Report.Dir == "" {
		cfg.Report.Dir = "tmp_reports"
	}
	if cfg.Report.RetentionMinutes <= 0 {
		cfg.Report.RetentionMinutes = 60
	}
	if cfg.Report.SweepCron == "" {
		cfg.Report.SweepCron = "*/10 * * * *"
	}
	if cfg.Report.WrapWidth <= 0 {
		cfg.Report.WrapWidth = 38
	}
	if cfg.Report.LineHeight <= 0 {
		cfg.Report.LineHeight = 18
	}
	if cfg.Report.TopMargin <= 0 {
		cfg.Report.TopMargin = 60
	}
	if cfg.Report.BottomMargin <= 0 {
		cfg.Report.BottomMargin = 100
	}
	if cfg.Gemini.MaxRequestPerMinute <= 0 {
		cfg.Gemini.MaxRequestPerMinute = 60
	}
	if cfg.Tushare.MaxRequestPerMinute <= 0 {
		cfg.Tushare.MaxRequestPerMinute = 60
	}
	if cfg.Search.MaxRequestPerMinute <= 0 {
		cfg.Search.MaxRequestPerMinute = 30
	}
}
