package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/DullnessOutfield/ayars/config"
	"github.com/DullnessOutfield/ayars/pkg/discovery"
	"github.com/DullnessOutfield/ayars/pkg/kismet"
	"github.com/DullnessOutfield/ayars/pkg/metrics"
	"github.com/DullnessOutfield/ayars/pkg/report"
	"github.com/DullnessOutfield/ayars/pkg/scan"
	"github.com/DullnessOutfield/ayars/pkg/storage"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// natsConn is the part of *nats.Conn used for publishing reports.
type natsConn interface {
	report.Publisher
	Flush() error
	Close()
}

type ScanHandler struct {
	c      *config.Config
	opener storage.Opener
	out    io.Writer
	errOut io.Writer

	dialNATS func(url string) (natsConn, error)
}

func newScanHandler(c *config.Config, opener storage.Opener) *ScanHandler {
	return &ScanHandler{
		c:        c,
		opener:   opener,
		out:      os.Stdout,
		errOut:   os.Stderr,
		dialNATS: dialNATS,
	}
}

func dialNATS(url string) (natsConn, error) {
	nc, err := nats.Connect(url,
		nats.Name("ayars"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return nc, nil
}

// view turns one successful scan result into a report.
type view func(r report.Reporter, res scan.Result) error

func reportProbes(r report.Reporter, res scan.Result) error {
	var ssids []string
	for _, d := range res.Devices {
		ssids = append(ssids, d.ProbedSSIDs()...)
	}
	metrics.AddProbes(len(ssids))
	return r.Probes(res.Path, ssids)
}

func reportDevices(r report.Reporter, res scan.Result) error {
	return r.Devices(res.Path, res.Devices)
}

// Probes prints the SSIDs probed for by client devices.
func (h *ScanHandler) Probes(cmd *cobra.Command, args []string) {
	SetupLogging(h.c.LogLevel)
	exitOnError(h.Run(cmd.Context(), args, kismet.StationTypes, reportProbes))
}

// AccessPoints prints the metadata of access points.
func (h *ScanHandler) AccessPoints(cmd *cobra.Command, args []string) {
	SetupLogging(h.c.LogLevel)
	exitOnError(h.Run(cmd.Context(), args, kismet.AccessPointTypes, reportDevices))
}

// Devices prints the devices matching --type, or all devices without it.
func (h *ScanHandler) Devices(cmd *cobra.Command, args []string) {
	SetupLogging(h.c.LogLevel)
	types, err := cmd.Flags().GetStringSlice("type")
	if err != nil {
		exitOnError(err)
	}
	exitOnError(h.Run(cmd.Context(), args, types, reportDevices))
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	log.Error(err)
	os.Exit(1)
}

// Run scans the captures named by args, or the configured base path when
// args is empty, and reports every file through v. Files that fail are
// reported and skipped.
func (h *ScanHandler) Run(ctx context.Context, args []string, types []string, v view) error {
	if ctx == nil {
		ctx = context.Background()
	}

	paths, err := h.capturePaths(args)
	if err != nil {
		return err
	}

	s := scan.New(h.opener,
		scan.WithTypes(types...),
		scan.WithWorkers(h.c.Workers),
	)

	reporter, closeReporter, err := h.reporter(s.RunID())
	if err != nil {
		return err
	}
	defer closeReporter()

	log.WithFields(log.Fields{
		"run":   s.RunID(),
		"files": len(paths),
		"types": types,
	}).Info("Starting scan")

	sum, err := s.Run(ctx, paths, func(res scan.Result) error {
		if res.Err != nil {
			return reporter.Failure(res.Path, res.Err)
		}
		return v(reporter, res)
	})
	if err != nil {
		return errors.Wrap(err, "failed to report scan results")
	}

	log.WithFields(log.Fields{
		"run":     sum.RunID,
		"files":   sum.Files,
		"failed":  sum.Failed,
		"devices": sum.Devices,
	}).Info("Scan finished")

	return nil
}

// capturePaths expands args into capture files. Directories are searched
// for files with the configured extension; files are taken as given.
func (h *ScanHandler) capturePaths(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{h.c.BasePath}
	}

	ext := h.c.Extension
	if ext == "" {
		ext = discovery.DefaultExtension
	}

	paths := make([]string, 0)
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", arg)
		}
		if !fi.IsDir() {
			paths = append(paths, arg)
			continue
		}

		found, err := discovery.Collect(arg, ext)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func (h *ScanHandler) reporter(runID string) (report.Reporter, func(), error) {
	r, err := report.New(h.c.Output, h.out, h.errOut, runID)
	if err != nil {
		return nil, nil, err
	}
	if h.c.NATSURL == "" {
		return r, func() {}, nil
	}

	nc, err := h.dialNATS(h.c.NATSURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to NATS")
	}

	subject := h.c.NATSSubject
	if subject == "" {
		subject = defaultNATSSubject
	}

	closeFn := func() {
		if err := nc.Flush(); err != nil {
			log.Errorf("An error occurred while flushing NATS reports: %s", err)
		}
		nc.Close()
	}
	return report.Multi(r, report.NewNATS(nc, subject, runID)), closeFn, nil
}

const defaultNATSSubject = "ayars.capture"
