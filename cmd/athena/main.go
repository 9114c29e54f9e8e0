package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/athena-eo/observatory/internal/config"
)

// configPath is the optional YAML config file; the environment is used when empty
var configPath string

// rootCmd serves the site when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "athena",
	Short: "Athena Election Observatory",
	Long: `athena serves the Athena Election Observatory: the public election
dashboard, analysis posts, PDF reports and the admin API.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	analyticsCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(serveCmd, checkCmd, migrateCmd, analyticsCmd)
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
