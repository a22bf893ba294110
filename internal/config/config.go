// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/disease-harvester/internal/schemas"
	schemafiles "github.com/jonathan/disease-harvester/schemas"
)

// Environment variables consulted for the relational sink connection, in order.
const (
	EnvDatabaseURL       = "HARVEST_DATABASE_URL"
	EnvDatabaseURLLegacy = "DATABASE_URL"
)

// Config represents the harvest configuration that can be loaded from a JSON file.
// All fields are optional in the file; missing values use Defaults or CLI flags.
type Config struct {
	Source   string `json:"source,omitempty" validate:"required,oneof=amc snuh"`
	Sink     string `json:"sink,omitempty" validate:"required,oneof=csv postgres sqlite"`
	Renderer string `json:"renderer,omitempty" validate:"required,oneof=browser http"`
	BaseURL  string `json:"base_url,omitempty" validate:"omitempty,url"` // Overrides the source's site origin

	// Sinks
	DatabaseURL  string `json:"database_url,omitempty" validate:"required_if=Sink postgres"`
	SQLitePath   string `json:"sqlite_path,omitempty" validate:"required_if=Sink sqlite"`
	Table        string `json:"table,omitempty" validate:"required_unless=Sink csv"`
	OutputDir    string `json:"output_dir,omitempty"`
	OutputPrefix string `json:"output_prefix,omitempty" validate:"required_if=Sink csv"`
	ProgressFile string `json:"progress_file,omitempty"`

	// Crawl limits
	MaxPages       int `json:"max_pages,omitempty" validate:"min=1"`
	EmptyPageLimit int `json:"empty_page_limit,omitempty" validate:"min=1"`
	BatchSize      int `json:"batch_size,omitempty" validate:"min=1"` // Checkpoint cadence and upsert batch size

	// Timing, in milliseconds
	SettleDelayMS   int `json:"settle_delay_ms,omitempty" validate:"min=0"`
	PageDelayMS     int `json:"page_delay_ms,omitempty" validate:"min=0"`
	DetailDelayMS   int `json:"detail_delay_ms,omitempty" validate:"min=0"`
	RenderTimeoutMS int `json:"render_timeout_ms,omitempty" validate:"min=1"`

	// Renderer
	MaxRPS    float64 `json:"max_rps,omitempty" validate:"min=0"` // 0 disables the request ceiling
	UserAgent string  `json:"user_agent,omitempty"`
	Headless  *bool   `json:"headless,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration. Source and sink settings are
// left empty; ApplySource fills them.
func Defaults() Config {
	headless := true
	return Config{
		Renderer:        "browser",
		OutputDir:       ".",
		MaxPages:        200,
		EmptyPageLimit:  3,
		BatchSize:       20,
		SettleDelayMS:   2000,
		PageDelayMS:     1000,
		DetailDelayMS:   1500,
		RenderTimeoutMS: 30000,
		Headless:        &headless,
	}
}

// LoadConfig loads configuration from a JSON file after validating it against
// the harvest config schema.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := schemas.ValidateDocument(path, schemafiles.HarvestConfigName, schemafiles.HarvestConfig, data); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&result.Source, defaults.Source},
		{&result.Sink, defaults.Sink},
		{&result.Renderer, defaults.Renderer},
		{&result.BaseURL, defaults.BaseURL},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.SQLitePath, defaults.SQLitePath},
		{&result.Table, defaults.Table},
		{&result.OutputDir, defaults.OutputDir},
		{&result.OutputPrefix, defaults.OutputPrefix},
		{&result.ProgressFile, defaults.ProgressFile},
		{&result.UserAgent, defaults.UserAgent},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}

	// Int fields: use default if zero
	for _, f := range []struct {
		dst *int
		def int
	}{
		{&result.MaxPages, defaults.MaxPages},
		{&result.EmptyPageLimit, defaults.EmptyPageLimit},
		{&result.BatchSize, defaults.BatchSize},
		{&result.SettleDelayMS, defaults.SettleDelayMS},
		{&result.PageDelayMS, defaults.PageDelayMS},
		{&result.DetailDelayMS, defaults.DetailDelayMS},
		{&result.RenderTimeoutMS, defaults.RenderTimeoutMS},
	} {
		if *f.dst == 0 {
			*f.dst = f.def
		}
	}

	if result.MaxRPS == 0 {
		result.MaxRPS = defaults.MaxRPS
	}
	if result.Headless == nil {
		result.Headless = defaults.Headless
	}
	// Verbose cannot distinguish unset from false; the CLI flag decides.

	return result
}

// ApplyEnv overrides the database URL from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, key := range []string{EnvDatabaseURL, EnvDatabaseURLLegacy} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			c.DatabaseURL = strings.TrimSpace(v)
			return
		}
	}
}

// ApplySource fills sink settings left empty with the source's defaults.
func (c *Config) ApplySource(sink, table, prefix string) {
	if c.Sink == "" {
		c.Sink = sink
	}
	if c.Table == "" {
		c.Table = table
	}
	if c.OutputPrefix == "" {
		c.OutputPrefix = prefix
	}
	if c.ProgressFile == "" {
		c.ProgressFile = filepath.Join(c.OutputDir, prefix+"_progress.csv")
	}
}

// Validate checks that the merged configuration is complete and in range.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", fe.Field())
	case "required_if", "required_unless":
		return fmt.Sprintf("'%s' is required for this sink", fe.Field())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("'%s' must be an absolute URL", fe.Field())
	default:
		return fmt.Sprintf("'%s' failed %s", fe.Field(), fe.Tag())
	}
}

// IsHeadless reports whether the browser should run without a window.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// SettleDelay is the wait after a rendered page loads.
func (c *Config) SettleDelay() time.Duration { return ms(c.SettleDelayMS) }

// PageDelay is the politeness pause after each listing fetch.
func (c *Config) PageDelay() time.Duration { return ms(c.PageDelayMS) }

// DetailDelay is the politeness pause after each detail fetch.
func (c *Config) DetailDelay() time.Duration { return ms(c.DetailDelayMS) }

// RenderTimeout bounds a single page render.
func (c *Config) RenderTimeout() time.Duration { return ms(c.RenderTimeoutMS) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
