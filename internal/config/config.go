// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Form    FormConfig    `mapstructure:"form" yaml:"form"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch"`
}

// LoggerConfig controls the construction of the zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal colors for the console encoder.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig controls the Chrome instances and their interaction timing.
type BrowserConfig struct {
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	Args     []string `mapstructure:"args" yaml:"args"`

	// NavigationTimeout bounds the wait for the form container after
	// navigation. Every other wait below is a fixed settle interval.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	SettleScroll      time.Duration `mapstructure:"settle_scroll" yaml:"settle_scroll"`
	SettleAdvance     time.Duration `mapstructure:"settle_advance" yaml:"settle_advance"`
	SettleSubmit      time.Duration `mapstructure:"settle_submit" yaml:"settle_submit"`
}

// FormConfig identifies the target form and its interaction policy.
type FormConfig struct {
	URL string `mapstructure:"url" yaml:"url"`

	// HonorOptionHint switches SelectRadio from its historical
	// uniform-random behavior to honoring the caller's option text.
	HonorOptionHint bool `mapstructure:"honor_option_hint" yaml:"honor_option_hint"`
}

// BatchConfig controls the submission batch.
type BatchConfig struct {
	Count   int `mapstructure:"count" yaml:"count"`
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Seed makes answer generation reproducible. Zero derives a seed
	// from the wall clock at batch start.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// LaunchInterval staggers Chrome process launches so concurrent
	// workers do not start instances at the same instant.
	LaunchInterval time.Duration `mapstructure:"launch_interval" yaml:"launch_interval"`

	ScreenshotDir string `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
}

// DefaultFormURL is the survey targeted when --url is not given.
const DefaultFormURL = "https://docs.google.com/forms/d/e/1FAIpQLSeO-BzNBv0a5xWziT3il9v2i0MSOip9MKLxrtki-JEsvyrvSA/viewform"

// Batch defaults, shared with the CLI flag definitions so flag and
// viper defaults cannot drift apart.
const (
	DefaultCount         = 125
	DefaultWorkers       = 4
	DefaultScreenshotDir = "."
)

// SetDefaults registers the default value for every key so viper can
// resolve a complete Config even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "formswarm")
	v.SetDefault("logger.log_file", "formswarm.log")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "red")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigation_timeout", 10*time.Second)
	v.SetDefault("browser.settle_scroll", 500*time.Millisecond)
	v.SetDefault("browser.settle_advance", 2*time.Second)
	v.SetDefault("browser.settle_submit", 3*time.Second)

	v.SetDefault("form.url", DefaultFormURL)
	v.SetDefault("form.honor_option_hint", false)

	v.SetDefault("batch.count", DefaultCount)
	v.SetDefault("batch.workers", DefaultWorkers)
	v.SetDefault("batch.seed", 0)
	v.SetDefault("batch.launch_interval", 500*time.Millisecond)
	v.SetDefault("batch.screenshot_dir", DefaultScreenshotDir)
}

// Validate rejects configurations the batch runner cannot honor.
func (c *Config) Validate() error {
	if c.Form.URL == "" {
		return fmt.Errorf("form.url must not be empty")
	}
	if c.Batch.Count <= 0 {
		return fmt.Errorf("batch.count must be positive, got %d", c.Batch.Count)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be positive, got %s", c.Browser.NavigationTimeout)
	}
	return nil
}
