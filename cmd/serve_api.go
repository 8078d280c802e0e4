package cmd

import (
	"github.com/DullnessOutfield/ayars/pkg/cmd/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveAPICmd represents the serve api command
var serveAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Serve capture reports over HTTP",
	Long: `Serve capture reports over HTTP.

Routes:
  GET /api/v1/captures               capture files below the base path
  GET /api/v1/devices?file=&type=    devices of one capture
  GET /api/v1/probes?file=           probed SSIDs of one capture
  GET /api/v1/scan/stream?type=      websocket stream of a full scan
  GET /metrics                       Prometheus metrics`,
	Run: server.RunServeAPI(c),
}

func init() {
	serveCmd.AddCommand(serveAPICmd)

	serveAPICmd.Flags().String("host", "", "interface to bind")
	serveAPICmd.Flags().IntP("port", "p", 0, "port to bind (default 8080)")
	if err := viper.BindPFlag("AYARS_HOST", serveAPICmd.Flags().Lookup("host")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("AYARS_PORT", serveAPICmd.Flags().Lookup("port")); err != nil {
		panic(err)
	}
}
