package model

import (
	"time"

	"github.com/DullnessOutfield/ayars/pkg/metadata"
)

// Device is one row of a capture file's devices table. It is a read-only
// projection: it has no setters and keeps no reference to the row or file it
// came from.
type Device struct {
	identifier string
	firstTime  time.Time
	lastTime   time.Time
	deviceType string
	metadata   metadata.Value
}

// NewDevice builds a Device. Times are stored in UTC.
func NewDevice(identifier string, firstTime, lastTime time.Time, deviceType string, md metadata.Value) Device {
	return Device{
		identifier: identifier,
		firstTime:  firstTime.UTC(),
		lastTime:   lastTime.UTC(),
		deviceType: deviceType,
		metadata:   md,
	}
}

// Identifier is the device MAC as Kismet recorded it.
func (d Device) Identifier() string {
	return d.identifier
}

func (d Device) FirstTime() time.Time {
	return d.firstTime
}

func (d Device) LastTime() time.Time {
	return d.lastTime
}

// Type is the normalized Kismet device type, e.g. "Wi-Fi Client".
func (d Device) Type() string {
	return d.deviceType
}

// Metadata is the decoded device document. It is {} when the stored blob
// could not be parsed.
func (d Device) Metadata() metadata.Value {
	return d.metadata
}

// ProbedSSIDs returns the networks this device has probed for.
func (d Device) ProbedSSIDs() []string {
	return metadata.ProbedSSIDs(d.metadata)
}
