// Command chunkvault is a CLI front end over the chunk storage engine:
// upload, download, verify, delete, list, and recursively scan a directory
// tree onto it. Grounded on dittofs's cmd/dittofsctl cobra command tree and
// cmd/dittofs's init/start flag handling.
package main

import (
	"fmt"
	"os"

	"github.com/chunkvault/chunkvault/cmd/chunkvault/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
