package cmd

import (
	"github.com/spf13/cobra"
)

var probesCmd = &cobra.Command{
	Use:   "probes [capture file or directory]...",
	Short: "Print the SSIDs that client devices probed for",
	Long: `Print the SSIDs that client devices probed for.

Without arguments every *.kismet file below the base path is read.`,
	Run: cmdHandler.Scan.Probes,
}

func init() {
	RootCmd.AddCommand(probesCmd)
}
