package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/internal/correlation"
	"github.com/chunkvault/chunkvault/pkg/scanner"
)

var (
	scanRecursive      bool
	scanProcessContent bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a directory tree into the catalog, optionally uploading file content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		progress, err := a.Scanner.Scan(cmd.Context(), args[0], scanner.Options{
			Recursive:      scanRecursive,
			ProcessContent: scanProcessContent,
			ProgressFlush:  2 * time.Second,
			OnProgress: func(p *scanner.Progress) {
				fmt.Printf("\rscanning: %d files, %d directories", p.FilesScanned, p.DirsScanned)
			},
			CorrelationID: correlation.New(),
		})
		fmt.Println()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		fmt.Printf("scanned %d files, %d directories\n", progress.FilesScanned, progress.DirsScanned)
		for _, e := range progress.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanRecursive, "recursive", true, "descend into subdirectories")
	scanCmd.Flags().BoolVar(&scanProcessContent, "process-content", false, "upload and chunk file content (not just metadata)")
}
