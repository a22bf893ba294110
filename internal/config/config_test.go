package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/disease-harvester/internal/schemas"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func validConfig() Config {
	cfg := Config{Source: "snuh", Sink: "sqlite", SQLitePath: "harvest.db"}
	merged := cfg.MergeWithDefaults(Defaults())
	merged.ApplySource("postgres", "snuh_diseases", "snuh")
	return merged
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"source": "snuh",
		"sink": "postgres",
		"database_url": "postgres://localhost/harvest",
		"max_pages": 50,
		"headless": false,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "snuh", cfg.Source)
	assert.Equal(t, "postgres", cfg.Sink)
	assert.Equal(t, 50, cfg.MaxPages)
	assert.False(t, cfg.IsHeadless())
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	path := writeConfig(t, `{"source": "amc", "batch_size": 0, "job_url": "x"}`)
	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), path+": validation failed against harvest_config.schema.json:")

	var verr *schemas.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, path, verr.Document)
	assert.Contains(t, verr.Fields(), "batch_size")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 200, d.MaxPages)
	assert.Equal(t, 3, d.EmptyPageLimit)
	assert.Equal(t, 20, d.BatchSize)
	assert.Equal(t, 2*time.Second, d.SettleDelay())
	assert.Equal(t, time.Second, d.PageDelay())
	assert.Equal(t, 1500*time.Millisecond, d.DetailDelay())
	assert.Equal(t, 30*time.Second, d.RenderTimeout())
	assert.True(t, d.IsHeadless())
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{Source: "amc", MaxPages: 5, BatchSize: 7}

	merged := partial.MergeWithDefaults(Defaults())

	// Custom values should be preserved
	assert.Equal(t, "amc", merged.Source)
	assert.Equal(t, 5, merged.MaxPages)
	assert.Equal(t, 7, merged.BatchSize)

	// Default values should fill in empty fields
	assert.Equal(t, "browser", merged.Renderer)
	assert.Equal(t, 3, merged.EmptyPageLimit)
	assert.Equal(t, 1500, merged.DetailDelayMS)
	require.NotNil(t, merged.Headless)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Source: "amc"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "amc", merged.Source)
	assert.Zero(t, merged.MaxPages)
	assert.Nil(t, merged.Headless)
	assert.True(t, merged.IsHeadless())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDatabaseURLLegacy: "postgres://legacy/db",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Config{DatabaseURL: "postgres://file/db"}
	cfg.ApplyEnv(lookup)
	assert.Equal(t, "postgres://legacy/db", cfg.DatabaseURL)

	env[EnvDatabaseURL] = " postgres://harvest/db "
	cfg.ApplyEnv(lookup)
	assert.Equal(t, "postgres://harvest/db", cfg.DatabaseURL)

	cfg = Config{DatabaseURL: "postgres://file/db"}
	cfg.ApplyEnv(func(string) (string, bool) { return "", false })
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
}

func TestApplySource(t *testing.T) {
	cfg := Defaults()
	cfg.OutputDir = "out"
	cfg.ApplySource("csv", "amc_diseases", "amc")

	assert.Equal(t, "csv", cfg.Sink)
	assert.Equal(t, "amc_diseases", cfg.Table)
	assert.Equal(t, "amc", cfg.OutputPrefix)
	assert.Equal(t, filepath.Join("out", "amc_progress.csv"), cfg.ProgressFile)

	explicit := Config{Sink: "sqlite", Table: "custom", ProgressFile: "p.csv"}
	explicit.ApplySource("csv", "amc_diseases", "amc")
	assert.Equal(t, "sqlite", explicit.Sink)
	assert.Equal(t, "custom", explicit.Table)
	assert.Equal(t, "p.csv", explicit.ProgressFile)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"missing source", func(c *Config) { c.Source = "" }, "'source' is required"},
		{"unknown source", func(c *Config) { c.Source = "mayo" }, "'source' must be one of"},
		{"unknown sink", func(c *Config) { c.Sink = "s3" }, "'sink' must be one of"},
		{"postgres without url", func(c *Config) { c.Sink = "postgres"; c.DatabaseURL = "" }, "'database_url' is required"},
		{"sqlite without path", func(c *Config) { c.SQLitePath = "" }, "'sqlite_path' is required"},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "'batch_size' must be at least 1"},
		{"negative delay", func(c *Config) { c.DetailDelayMS = -1 }, "'detail_delay_ms' must be at least 0"},
		{"relative base url", func(c *Config) { c.BaseURL = "snuh.org" }, "'base_url' must be an absolute URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
