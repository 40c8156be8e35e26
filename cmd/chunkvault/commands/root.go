// Package commands implements the chunkvault CLI's cobra command tree.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/internal/app"
	"github.com/chunkvault/chunkvault/internal/logger"
	"github.com/chunkvault/chunkvault/pkg/config"
)

var (
	configPath string

	versionStr = "dev"
	commitStr  = "none"
	buildDate  = "unknown"
)

// SetVersionInfo records build-time version strings for the version command.
func SetVersionInfo(version, commit, date string) {
	versionStr, commitStr, buildDate = version, commit, date
}

var rootCmd = &cobra.Command{
	Use:   "chunkvault",
	Short: "Content-addressed, chunked file storage engine",
	Long: `chunkvault splits files into content-verified chunks, distributes
them across storage providers, and reassembles them on demand.

Examples:
  chunkvault init
  chunkvault upload ./report.pdf
  chunkvault list
  chunkvault download <file-id> -o ./restored.pdf
  chunkvault verify <file-id>
  chunkvault scan ./documents --recursive --process-content`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: $XDG_CONFIG_HOME/chunkvault/config.yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("chunkvault %s (commit: %s, built: %s)\n", versionStr, commitStr, buildDate)
		return nil
	},
}

// openApp loads configuration from configPath (or the default location) and
// wires a fresh App. Every data-touching command calls this first.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	return app.New(ctx, cfg)
}
