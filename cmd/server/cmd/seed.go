package cmd

import (
	"fmt"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/engine"
	"github.com/campus-events/server/internal/seed"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var seedExportFormat string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Inspect seed datasets",
}

var seedValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a seed dataset",
	Long: `Parse a seed dataset and check every reference and invariant the server
enforces at startup. Without a path the embedded default dataset is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedPath
		if len(args) == 1 {
			path = args[0]
		}
		ds, err := seed.Load(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d branches, %d venues, %d events\n", len(ds.Branches), len(ds.Venues), len(ds.Events))
		return nil
	},
}

var seedExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the dataset the server would start with",
	Long: `Load the seed dataset into an engine and print its state as YAML or JSON.
The output can be edited and fed back with --seed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := seed.Load(seedPath)
		if err != nil {
			return err
		}
		eng, err := engine.New(ds, zerolog.Nop(), audit.Nop())
		if err != nil {
			return err
		}
		out, err := seed.Export(eng.Snapshot(), seedExportFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	seedExportCmd.Flags().StringVar(&seedExportFormat, "format", "yaml", "output format (yaml, json)")
	seedCmd.AddCommand(seedValidateCmd, seedExportCmd)
}
