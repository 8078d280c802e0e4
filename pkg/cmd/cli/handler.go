package cli

import (
	"github.com/DullnessOutfield/ayars/config"
	"github.com/DullnessOutfield/ayars/pkg/storage/kismetdb"
)

type Handler struct {
	Scan    *ScanHandler
	Version *VersionHandler
}

func NewHandler(c *config.Config) *Handler {
	return &Handler{
		Scan:    newScanHandler(c, kismetdb.Opener),
		Version: &VersionHandler{c: c},
	}
}
