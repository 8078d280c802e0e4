package report

import (
	"encoding/json"

	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/pkg/errors"
)

// Publisher is the part of *nats.Conn the NATS reporter needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

type natsReporter struct {
	pub     Publisher
	subject string
	runID   string
}

// NewNATS publishes JSON envelopes to <subject>.probes, <subject>.devices and
// <subject>.errors.
func NewNATS(pub Publisher, subject, runID string) Reporter {
	return &natsReporter{
		pub:     pub,
		subject: subject,
		runID:   runID,
	}
}

func (r *natsReporter) publish(suffix string, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	if err := r.pub.Publish(r.subject+"."+suffix, data); err != nil {
		return errors.Wrap(err, "failed to publish report")
	}
	return nil
}

func (r *natsReporter) Probes(file string, ssids []string) error {
	return r.publish("probes", probesEnvelope(r.runID, file, ssids))
}

func (r *natsReporter) Devices(file string, devices []model.Device) error {
	return r.publish("devices", devicesEnvelope(r.runID, file, devices))
}

func (r *natsReporter) Failure(file string, err error) error {
	return r.publish("errors", failureEnvelope(r.runID, file, err))
}
