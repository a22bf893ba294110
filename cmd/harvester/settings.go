package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/disease-harvester/internal/config"
	"github.com/jonathan/disease-harvester/internal/db"
	"github.com/jonathan/disease-harvester/internal/fetch"
	"github.com/jonathan/disease-harvester/internal/pipeline"
	"github.com/jonathan/disease-harvester/internal/sink"
	"github.com/jonathan/disease-harvester/internal/sources"
)

// addSinkFlags registers the flags shared by commands that open a sink.
func addSinkFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringP("source", "s", "", "Source to harvest: "+fmt.Sprint(sources.Names()))
	cmd.Flags().String("sink", "", "Sink: csv, postgres or sqlite (defaults to the source's sink)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (defaults to HARVEST_DATABASE_URL or DATABASE_URL)")
	cmd.Flags().String("sqlite-path", "", "SQLite database file")
	cmd.Flags().String("table", "", "Table name (defaults to the source's table)")
	cmd.Flags().BoolP("verbose", "v", false, "Print debug logs")
}

// resolveConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order of increasing priority.
func resolveConfig(cmd *cobra.Command) (*config.Config, *sources.Source, error) {
	flags := cmd.Flags()

	var cfg config.Config
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg.ApplyEnv(os.LookupEnv)

	// Only override if the flag was explicitly set
	for name, dst := range map[string]*string{
		"source":       &cfg.Source,
		"sink":         &cfg.Sink,
		"renderer":     &cfg.Renderer,
		"base-url":     &cfg.BaseURL,
		"database-url": &cfg.DatabaseURL,
		"sqlite-path":  &cfg.SQLitePath,
		"table":        &cfg.Table,
		"out":          &cfg.OutputDir,
		"progress":     &cfg.ProgressFile,
	} {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	for name, dst := range map[string]*int{
		"max-pages":  &cfg.MaxPages,
		"batch-size": &cfg.BatchSize,
	} {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.Source == "" {
		return nil, nil, fmt.Errorf("--source must be provided (via flag or config)")
	}

	source, err := sources.Lookup(cfg.Source, cfg.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	cfg.Source = source.Name
	cfg.ApplySource(source.DefaultSink, source.Table, source.FilePrefix)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, source, nil
}

func csvLayout(source *sources.Source) sink.Layout {
	return sink.Layout{Fields: source.Fields(), NoDataText: source.NoDataText}
}

// openStore connects to the configured relational sink and ensures its table.
func openStore(ctx context.Context, cfg *config.Config, source *sources.Source) (db.Store, db.Table, error) {
	table, err := db.NewTable(cfg.Table, source.Fields())
	if err != nil {
		return nil, db.Table{}, err
	}

	var store db.Store
	switch cfg.Sink {
	case sources.SinkPostgres:
		store, err = db.Connect(ctx, cfg.DatabaseURL)
	case sources.SinkSQLite:
		store, err = db.OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, db.Table{}, fmt.Errorf("sink %q is not relational", cfg.Sink)
	}
	if err != nil {
		return nil, db.Table{}, err
	}

	if err := store.EnsureTable(ctx, table); err != nil {
		_ = store.Close()
		return nil, db.Table{}, err
	}
	return store, table, nil
}

// openSink opens the run's sink. Failure here is fatal to the run.
func openSink(ctx context.Context, cfg *config.Config, source *sources.Source) (pipeline.Sink, error) {
	if cfg.Sink == sources.SinkCSV {
		return sink.NewFileSink(cfg.OutputDir, cfg.OutputPrefix, csvLayout(source)), nil
	}
	store, table, err := openStore(ctx, cfg, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s sink: %w", cfg.Sink, err)
	}
	return sink.NewTableSink(cfg.Sink, store, table, cfg.BatchSize), nil
}

func newRenderer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (fetch.Renderer, error) {
	opts := &fetch.Options{
		Timeout:     cfg.RenderTimeout(),
		SettleDelay: cfg.SettleDelay(),
		UserAgent:   cfg.UserAgent,
		Headless:    cfg.IsHeadless(),
		MaxRPS:      cfg.MaxRPS,
	}
	if cfg.Renderer == "http" {
		return fetch.NewHTTPRenderer(opts, logger), nil
	}
	return fetch.NewBrowserRenderer(ctx, opts, logger)
}
