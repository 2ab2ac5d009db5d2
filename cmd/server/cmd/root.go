package cmd

import (
	"fmt"
	"os"

	"github.com/campus-events/server/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	seedPath  string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Campus events server - events, registrations and feedback",
		Long: `Campus events server keeps the institution's events in memory and serves
them over a JSON API.

Students register for events within capacity limits and leave feedback
after attending. Hosts and admins publish events and move them through
upcoming, ongoing and completed. Venues and branches are loaded from the
seed dataset at startup.`,
		SilenceUsage: true,
		// Run the serve command by default if no subcommand is specified
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. It is called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "seed dataset path (default: SEED_PATH or the embedded dataset)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	rootCmd.AddCommand(serveCmd, versionCmd, healthcheckCmd, eventsCmd, seedCmd)
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if seedPath != "" {
		cfg.Seed.Path = seedPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
