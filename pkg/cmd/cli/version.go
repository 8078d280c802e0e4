package cli

import (
	"fmt"

	"github.com/DullnessOutfield/ayars/config"
	"github.com/spf13/cobra"
)

type VersionHandler struct {
	c *config.Config
}

func (h *VersionHandler) Print(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Version:    %s\n", h.c.BuildVersion)
	fmt.Fprintf(cmd.OutOrStdout(), "Git Hash:   %s\n", h.c.BuildHash)
	fmt.Fprintf(cmd.OutOrStdout(), "Build Time: %s\n", h.c.BuildTime)
}
