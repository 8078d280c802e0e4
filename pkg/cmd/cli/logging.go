package cli

import (
	colorable "github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
)

// SetupLogging sends logs to stderr so stdout carries only the report.
func SetupLogging(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(colorable.NewColorableStderr())

	if err != nil && level != "" {
		log.Warnf("Unknown log level %q, using %s", level, lvl)
	}
}
