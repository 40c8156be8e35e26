package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/internal/correlation"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file-id>",
	Short: "Verify a file's chunks are intact by re-reading and rechecksumming them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		healthy, err := a.Files.VerifyFileIntegrity(cmd.Context(), args[0], correlation.New())
		if err != nil {
			return fmt.Errorf("verify failed: %w", err)
		}
		if !healthy {
			fmt.Printf("file %s FAILED integrity verification\n", args[0])
			return fmt.Errorf("integrity check failed")
		}

		fmt.Printf("file %s is healthy\n", args[0])
		return nil
	},
}
