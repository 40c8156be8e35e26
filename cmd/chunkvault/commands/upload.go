package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/internal/correlation"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file, splitting it into content-verified chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		file, err := a.Files.UploadFile(cmd.Context(), f, filepath.Base(path), info.Size(), correlation.New())
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		fmt.Printf("uploaded %s as file %s (%d chunks, checksum %s)\n", file.Name, file.ID, file.ChunkCount, file.Checksum)
		return nil
	},
}
