package api

import (
	"github.com/DullnessOutfield/ayars/config"
	"github.com/DullnessOutfield/ayars/pkg/discovery"
	"github.com/DullnessOutfield/ayars/pkg/storage"
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Handler contains all properties to serve the API
type Handler struct {
	root    string
	ext     string
	workers int
	opener  storage.Opener
}

// NewHandler create a new API handler serving the captures below the
// configured base path
func NewHandler(c *config.Config, opener storage.Opener) *Handler {
	ext := c.Extension
	if ext == "" {
		ext = discovery.DefaultExtension
	}
	return &Handler{
		root:    c.BasePath,
		ext:     ext,
		workers: c.Workers,
		opener:  opener,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")
	api := e.Group("/api/v1")
	api.GET("/captures", h.handleFetchCaptures)
	api.GET("/devices", h.handleFetchDevices)
	api.GET("/probes", h.handleFetchProbes)

	api.GET("/scan/stream", h.scanStreamHandler())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
