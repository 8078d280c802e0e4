package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/DullnessOutfield/ayars/config"
	"github.com/DullnessOutfield/ayars/pkg/api"
	"github.com/DullnessOutfield/ayars/pkg/cmd/cli"
	"github.com/DullnessOutfield/ayars/pkg/metrics"
	"github.com/DullnessOutfield/ayars/pkg/storage"
	"github.com/DullnessOutfield/ayars/pkg/storage/kismetdb"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type apiServer struct {
	c      *config.Config
	opener storage.Opener

	quitCh chan bool
	doneCh chan bool
}

func newAPIServer(c *config.Config, opener storage.Opener) *apiServer {
	return &apiServer{
		c:      c,
		opener: opener,
		quitCh: make(chan bool),
		doneCh: make(chan bool),
	}
}

// newEcho builds the web server with every route registered.
func (s *apiServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(logger(log.StandardLogger()))

	metrics.Init()

	// Register API endpoints
	apiHandler := api.NewHandler(s.c, s.opener)
	apiHandler.RegisterRoutes(e)

	return e
}

func (s *apiServer) Serve() {
	e := s.newEcho()
	addr := fmt.Sprintf("%s:%d", s.c.BindHost, s.c.BindPort)

	go func() {
		log.WithFields(log.Fields{
			"host":      s.c.BindHost,
			"port":      s.c.BindPort,
			"base_path": s.c.BasePath,
		}).Info("Starting server")

		if err := e.Start(addr); err != nil {
			log.Info("Shutting down the server: ", err)
		}
	}()

	// Wait until receiving the quit signal
	<-s.quitCh
	log.Info("Shutdown signal received")

	// Create a 10 second timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the echo web server
	if err := e.Shutdown(ctx); err != nil {
		log.Error(err)
	}

	// We've done!
	s.doneCh <- true
}

func (s *apiServer) Shutdown() {
	// Send the quit signal to the Serve() routine
	s.quitCh <- true

	// Wait up to 10 seconds
	select {
	case <-s.doneCh:
		log.Info("Shutdown server successful")
	case <-time.After(10 * time.Second):
		log.Error("Shutdown server failed")
	}
}

func RunServeAPI(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		cli.SetupLogging(c.LogLevel)

		if _, err := os.Stat(c.BasePath); err != nil {
			log.Error("failed to read base path: ", err)
			os.Exit(1)
		}

		s := newAPIServer(c, kismetdb.Opener)
		go s.Serve()

		// Wait for interrupt signal to gracefully shutdown the server
		<-cmd.Context().Done()

		// Shutdown the server
		s.Shutdown()
	}
}
