package cmd

import (
	"github.com/spf13/cobra"
)

var apsCmd = &cobra.Command{
	Use:     "aps [capture file or directory]...",
	Aliases: []string{"access-points"},
	Short:   "Print the recorded metadata of access points",
	Run:     cmdHandler.Scan.AccessPoints,
}

func init() {
	RootCmd.AddCommand(apsCmd)
}
