package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/disease-harvester/internal/observability"
	"github.com/jonathan/disease-harvester/internal/pipeline"
	"github.com/jonathan/disease-harvester/internal/sink"
)

func newHarvestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Crawl a source's listing and save every disease's details",
		Long: `Pages through the source's disease listing until it runs dry, visits every discovered disease page, and saves the extracted records.

CSV sinks write one timestamped file at the end of the run. Relational sinks upsert by URL in batches as the run progresses. In both cases a progress CSV is overwritten every --batch-size processed diseases.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
		Args: cobra.NoArgs,
		RunE: runHarvestCmd,
	}
	addSinkFlags(cmd)
	cmd.Flags().String("renderer", "", "Page renderer: browser (headless Chrome) or http")
	cmd.Flags().String("base-url", "", "Override the source's site origin")
	cmd.Flags().StringP("out", "o", "", "Directory for CSV output")
	cmd.Flags().String("progress", "", "Progress checkpoint file (defaults to <out>/<source>_progress.csv)")
	cmd.Flags().Int("max-pages", 0, "Maximum listing pages to fetch")
	cmd.Flags().Int("batch-size", 0, "Records per checkpoint and upsert batch")
	return cmd
}

func init() {
	rootCmd.AddCommand(newHarvestCommand())
}

func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	cfg, source, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := openSink(ctx, cfg, source)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("failed to close sink", "error", err)
		}
	}()

	renderer, err := newRenderer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start %s renderer: %w", cfg.Renderer, err)
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			logger.Warn("failed to close renderer", "error", err)
		}
	}()

	logger.Info("starting harvest",
		"source", source.Name,
		"sink", cfg.Sink,
		"renderer", cfg.Renderer,
		"max_pages", cfg.MaxPages,
		"batch_size", cfg.BatchSize)

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		Source:          source,
		Renderer:        renderer,
		Sink:            out,
		Checkpoint:      &sink.ProgressFile{Path: cfg.ProgressFile, Layout: csvLayout(source)},
		MaxPages:        cfg.MaxPages,
		EmptyPageLimit:  cfg.EmptyPageLimit,
		CheckpointEvery: cfg.BatchSize,
		PageDelay:       cfg.PageDelay(),
		DetailDelay:     cfg.DetailDelay(),
		Logger:          logger,
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("harvest interrupted; final save skipped", "progress_file", cfg.ProgressFile)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintSummary(result)
	printer.PrintFailures(result)
	printer.PrintFieldCoverage(result, source.Fields())
	printer.PrintSample(result, source.Fields(), source.NoDataText)

	if fs, ok := out.(*sink.FileSink); ok && fs.Path() != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d records to %s\n", result.Persisted, fs.Path())
	}
	return nil
}
