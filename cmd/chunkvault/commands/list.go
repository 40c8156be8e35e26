package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/internal/cli/output"
	"github.com/chunkvault/chunkvault/internal/cli/timeutil"
	"github.com/chunkvault/chunkvault/internal/correlation"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

var listOutputFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all files and directories known to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		files, err := a.Files.ListFiles(cmd.Context(), correlation.New())
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}

		format, err := output.ParseFormat(listOutputFormat)
		if err != nil {
			return err
		}
		printer := output.NewPrinter(os.Stdout, format, true)

		if len(files) == 0 {
			printer.Println("no files found")
			return nil
		}
		return printer.Print(fileList(files))
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "table", "output format: table, json, yaml")
}

type fileList []*metadata.FileDescriptor

func (fl fileList) Headers() []string {
	return []string{"ID", "NAME", "TYPE", "STATUS", "CHUNKS", "SIZE", "MODIFIED"}
}

func (fl fileList) Rows() [][]string {
	rows := make([][]string, 0, len(fl))
	for _, f := range fl {
		size := "-"
		if f.Size != nil {
			size = strconv.FormatUint(*f.Size, 10)
		}
		rows = append(rows, []string{
			f.ID, f.Name, string(f.Type), string(f.Status),
			strconv.Itoa(f.ChunkCount), size, timeutil.FormatAge(f.ModifiedAt),
		})
	}
	return rows
}
