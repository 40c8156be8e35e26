package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/internal/cli/prompt"
	"github.com/chunkvault/chunkvault/internal/correlation"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <file-id>",
	Short: "Delete a file and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("delete file %s and all its chunks?", args[0]), deleteForce)
		if err != nil {
			if err == prompt.ErrAborted {
				return nil
			}
			return err
		}
		if !confirmed {
			fmt.Println("aborted")
			return nil
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.Files.DeleteFile(cmd.Context(), args[0], correlation.New())
		if err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		if !ok {
			fmt.Printf("file %s was already absent\n", args[0])
			return nil
		}

		fmt.Printf("deleted file %s\n", args[0])
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
}
