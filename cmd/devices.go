package cmd

import (
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices [capture file or directory]...",
	Short: "Print the recorded metadata of devices",
	Example: `  ayars devices --type "Wi-Fi Client" --type "Wi-Fi Device"
  ayars devices -o json ~/Data/site-a`,
	Run: cmdHandler.Scan.Devices,
}

func init() {
	RootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().StringSliceP("type", "t", nil, "only devices of this type; repeat for more (default all)")
}
