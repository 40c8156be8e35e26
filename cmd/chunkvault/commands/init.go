package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkvault/chunkvault/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error
		if configPath != "" {
			err = config.InitConfigToPath(configPath, initForce)
			path = configPath
		} else {
			path, err = config.InitConfig(initForce)
		}
		if err != nil {
			return err
		}

		fmt.Printf("configuration file created at: %s\n", path)
		fmt.Println("edit it to customize storage paths and chunk sizing, then run chunkvault upload/scan")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
