package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/disease-harvester/internal/observability"
	"github.com/jonathan/disease-harvester/internal/sources"
)

var sourcesCommand = &cobra.Command{
	Use:   "sources",
	Short: "List the registered sources and their fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var list []*sources.Source
		for _, name := range sources.Names() {
			src, err := sources.Lookup(name, "")
			if err != nil {
				return err
			}
			list = append(list, src)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintSources(list)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCommand)
}
