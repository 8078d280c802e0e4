// Package report writes scan results for people and other programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Output formats understood by New.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Reporter receives the per-file results of a scan.
type Reporter interface {
	// Probes reports the probed SSIDs of every device in file.
	Probes(file string, ssids []string) error
	// Devices reports the devices of file.
	Devices(file string, devices []model.Device) error
	// Failure reports a file that could not be scanned.
	Failure(file string, err error) error
}

// Envelope is the structured form of one report.
type Envelope struct {
	RunID   string                 `json:"runId,omitempty" yaml:"runId,omitempty"`
	File    string                 `json:"file" yaml:"file"`
	Probes  []string               `json:"probes,omitempty" yaml:"probes,omitempty"`
	Devices []*model.DeviceSummary `json:"devices,omitempty" yaml:"devices,omitempty"`
	Error   string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

func probesEnvelope(runID, file string, ssids []string) *Envelope {
	return &Envelope{RunID: runID, File: file, Probes: ssids}
}

func devicesEnvelope(runID, file string, devices []model.Device) *Envelope {
	return &Envelope{
		RunID:   runID,
		File:    file,
		Devices: model.SummarizeAll(devices, true),
	}
}

func failureEnvelope(runID, file string, err error) *Envelope {
	return &Envelope{RunID: runID, File: file, Error: err.Error()}
}

// New returns a Reporter writing format to out. Text failures go to errOut.
func New(format string, out, errOut io.Writer, runID string) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewText(out, errOut), nil
	case FormatJSON:
		return newEncoderReporter(json.NewEncoder(out), runID), nil
	case FormatYAML:
		return newEncoderReporter(yaml.NewEncoder(out), runID), nil
	}
	return nil, errors.Errorf("unknown output format %q", format)
}

type textReporter struct {
	out    io.Writer
	errOut io.Writer
}

// NewText prints a "Processing:" line per file followed by one SSID, or one
// device document, per line.
func NewText(out, errOut io.Writer) Reporter {
	return &textReporter{out: out, errOut: errOut}
}

func (r *textReporter) Probes(file string, ssids []string) error {
	if _, err := fmt.Fprintf(r.out, "Processing: %s\n", file); err != nil {
		return err
	}
	for _, ssid := range ssids {
		if _, err := fmt.Fprintln(r.out, ssid); err != nil {
			return err
		}
	}
	return nil
}

func (r *textReporter) Devices(file string, devices []model.Device) error {
	if _, err := fmt.Fprintf(r.out, "Processing: %s\n", file); err != nil {
		return err
	}
	for _, d := range devices {
		if _, err := fmt.Fprintf(r.out, "  %s\n", d.Metadata()); err != nil {
			return err
		}
	}
	return nil
}

func (r *textReporter) Failure(file string, err error) error {
	if _, werr := fmt.Fprintf(r.out, "Processing: %s\n", file); werr != nil {
		return werr
	}
	_, werr := fmt.Fprintf(r.errOut, "Error processing %s: %v\n", file, err)
	return werr
}

type encoder interface {
	Encode(v interface{}) error
}

type encoderReporter struct {
	enc   encoder
	runID string
}

func newEncoderReporter(enc encoder, runID string) Reporter {
	return &encoderReporter{enc: enc, runID: runID}
}

func (r *encoderReporter) Probes(file string, ssids []string) error {
	return r.enc.Encode(probesEnvelope(r.runID, file, ssids))
}

func (r *encoderReporter) Devices(file string, devices []model.Device) error {
	return r.enc.Encode(devicesEnvelope(r.runID, file, devices))
}

func (r *encoderReporter) Failure(file string, err error) error {
	return r.enc.Encode(failureEnvelope(r.runID, file, err))
}

// Multi fans every report out to all reporters. Every reporter is called
// even if an earlier one fails; the first error is returned.
func Multi(reporters ...Reporter) Reporter {
	return multiReporter(reporters)
}

type multiReporter []Reporter

func (m multiReporter) each(fn func(Reporter) error) error {
	var first error
	for _, r := range m {
		if err := fn(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multiReporter) Probes(file string, ssids []string) error {
	return m.each(func(r Reporter) error { return r.Probes(file, ssids) })
}

func (m multiReporter) Devices(file string, devices []model.Device) error {
	return m.each(func(r Reporter) error { return r.Devices(file, devices) })
}

func (m multiReporter) Failure(file string, err error) error {
	return m.each(func(r Reporter) error { return r.Failure(file, err) })
}
