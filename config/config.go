package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds scraper configuration.
type Config struct {
	ChannelURL           string        `yaml:"channel_url"`
	MaxItems             int           `yaml:"max_items"`
	AssumeStreamsAllLive bool          `yaml:"assume_streams_all_live"`
	DetailDelay          time.Duration `yaml:"detail_delay"`
	RandomDelay          time.Duration `yaml:"random_delay"`
	Timeout              time.Duration `yaml:"timeout"`
	MaxRetries           int           `yaml:"max_retries"`
	RetryBackoff         time.Duration `yaml:"retry_backoff"`
	RetryBackoffMax      time.Duration `yaml:"retry_backoff_max"`
	MaxBodySize          int           `yaml:"max_body_size"`
	OutputFile           string        `yaml:"output_file"`
	OutputFormat         string        `yaml:"output_format"` // csv, json, dual, or xlsx
	UserAgent            string        `yaml:"user_agent"`
	AcceptLanguage       string        `yaml:"accept_language"`
	RulesFile            string        `yaml:"rules_file"`
	RenderFallback       bool          `yaml:"render_fallback"`
	RenderTimeout        time.Duration `yaml:"render_timeout"`
	Verbose              bool          `yaml:"verbose"`
	RespectRobotsTxt     bool          `yaml:"respect_robots_txt"`
	MetricsAddr          string        `yaml:"metrics_addr"`
	PipelineBufferSize   int           `yaml:"pipeline_buffer_size"`
	BatchSize            int           `yaml:"batch_size"`
	DedupeMaxSize        int           `yaml:"dedupe_max_size"`
}

// DefaultConfig returns conservative defaults for a single channel run.
func DefaultConfig() *Config {
	return &Config{
		ChannelURL:           "https://www.youtube.com/@teachingpariksha",
		MaxItems:             20,
		AssumeStreamsAllLive: true,
		DetailDelay:          300 * time.Millisecond,
		RandomDelay:          0,
		Timeout:              20 * time.Second,
		MaxRetries:           2,
		RetryBackoff:         500 * time.Millisecond,
		RetryBackoffMax:      5 * time.Second,
		MaxBodySize:          0,
		OutputFile:           "data/latest_livestreams.csv",
		OutputFormat:         "csv",
		UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		AcceptLanguage:       "en-US,en;q=0.9",
		RenderFallback:       false,
		RenderTimeout:        30 * time.Second,
		Verbose:              false,
		RespectRobotsTxt:     false,
		PipelineBufferSize:   100,
		BatchSize:            10,
		DedupeMaxSize:        10000,
	}
}

// LoadFile applies the YAML file at path on top of cfg. Keys missing from
// the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.ChannelURL == "" {
		return fmt.Errorf("channel URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.ChannelURL)
	if err != nil {
		return fmt.Errorf("invalid channel URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("channel URL must include a host")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("channel URL scheme must be http or https")
	}

	if c.MaxItems <= 0 {
		return fmt.Errorf("max items must be positive")
	}
	if c.DetailDelay < 0 {
		return fmt.Errorf("detail delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("max body size cannot be negative")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	switch c.OutputFormat {
	case "csv", "json", "dual", "xlsx":
	default:
		return fmt.Errorf("output format must be csv, json, dual, or xlsx")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.RenderFallback && c.RenderTimeout <= 0 {
		return fmt.Errorf("render timeout must be positive when render fallback is enabled")
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}

	return nil
}
