package cmd

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display this binary's version, build time and git hash of this build",
	Run:   cmdHandler.Version.Print,
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
