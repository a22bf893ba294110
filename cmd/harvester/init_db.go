package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/disease-harvester/internal/sources"
)

func newInitDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the source's table if it does not exist",
		Long:  "Creates the relational table for a source with a unique url column and created_at/updated_at timestamps. Existing tables are left untouched.",
		Args:  cobra.NoArgs,
		RunE:  runInitDBCmd,
	}
	addSinkFlags(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newInitDBCommand())
}

func runInitDBCmd(cmd *cobra.Command, _ []string) error {
	cfg, source, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Sink == sources.SinkCSV {
		return fmt.Errorf("init-db requires a relational sink (--sink postgres or --sink sqlite)")
	}

	store, table, err := openStore(cmd.Context(), cfg, source)
	if err != nil {
		return fmt.Errorf("failed to initialize %s table: %w", cfg.Sink, err)
	}
	defer func() { _ = store.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Table %s ready (%s)\n", table.Name, cfg.Sink)
	return nil
}
