// Package scan runs the per-file pass over a set of capture files.
package scan

import (
	"context"
	"time"

	"github.com/DullnessOutfield/ayars/pkg/metrics"
	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/DullnessOutfield/ayars/pkg/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of scanning one capture file. When Err is set,
// Devices is nil: a file either loads completely or not at all.
type Result struct {
	Path     string
	Devices  []model.Device
	Err      error
	Duration time.Duration
}

// Summary counts what a Run processed.
type Summary struct {
	RunID   string
	Files   int
	Failed  int
	Devices int
}

// Scanner loads the devices of capture files through a storage.Opener.
type Scanner struct {
	opener  storage.Opener
	types   []string
	workers int
	runID   string
}

type Option func(*Scanner)

// WithTypes restricts every scan to devices of the given types.
func WithTypes(types ...string) Option {
	return func(s *Scanner) {
		s.types = append([]string(nil), types...)
	}
}

// WithWorkers sets how many files are scanned at once. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Scanner) {
		s.runID = id
	}
}

func New(opener storage.Opener, opts ...Option) *Scanner {
	s := &Scanner{
		opener:  opener,
		workers: 1,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID identifies this scanner's runs in logs and published reports.
func (s *Scanner) RunID() string {
	return s.runID
}

// Types returns the device type filter, nil for all devices.
func (s *Scanner) Types() []string {
	return s.types
}

// Scan loads the devices of a single capture file.
func (s *Scanner) Scan(ctx context.Context, path string) Result {
	start := time.Now()
	r := Result{Path: path}

	r.Devices, r.Err = s.load(ctx, path)
	r.Duration = time.Since(start)

	logger := log.WithFields(log.Fields{
		"run":      s.runID,
		"file":     path,
		"duration": r.Duration.String(),
	})
	if r.Err != nil {
		metrics.ObserveScan(metrics.ResultError, r.Duration, 0)
		logger.WithField("error", r.Err).Debug("Capture scan failed")
		return r
	}

	metrics.ObserveScan(metrics.ResultSuccess, r.Duration, len(r.Devices))
	logger.WithField("devices", len(r.Devices)).Debug("Capture scanned")
	return r
}

func (s *Scanner) load(ctx context.Context, path string) ([]model.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, err := s.opener.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open capture")
	}
	defer st.Close()

	devices, err := st.Devices().FetchByTypes(ctx, s.types...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load devices")
	}
	return devices, nil
}

// Run scans paths and hands each Result to fn in the order of paths, whatever
// the number of workers. A failing file is passed to fn like any other and
// does not stop the run. An error from fn stops the run and is returned.
func (s *Scanner) Run(ctx context.Context, paths []string, fn func(Result) error) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := make([]chan Result, len(paths))
	for i := range pending {
		pending[i] = make(chan Result, 1)
	}

	var g errgroup.Group
	g.SetLimit(s.workers)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				pending[i] <- s.Scan(ctx, path)
				return nil
			})
		}
	}()

	sum := Summary{RunID: s.runID}
	var err error
	for _, ch := range pending {
		r := <-ch
		if err != nil {
			// draining after fn failed
			continue
		}

		sum.Files++
		if r.Err != nil {
			sum.Failed++
		} else {
			sum.Devices += len(r.Devices)
		}

		if ferr := fn(r); ferr != nil {
			err = ferr
			cancel()
		}
	}

	<-launched
	_ = g.Wait()

	return sum, err
}
