package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/internal/correlation"
)

var downloadOutputPath string

var downloadCmd = &cobra.Command{
	Use:   "download <file-id>",
	Short: "Download and reassemble a file from its chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := downloadOutputPath
		if out == "" {
			out = args[0]
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()

		ok, err := a.Files.DownloadFile(cmd.Context(), args[0], f, correlation.New())
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		if !ok {
			return fmt.Errorf("file %s not found", args[0])
		}

		fmt.Printf("downloaded file %s to %s\n", args[0], out)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutputPath, "output", "o", "", "output path (default: file ID as filename)")
}
