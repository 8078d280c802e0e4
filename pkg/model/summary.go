package model

import (
	"time"

	"github.com/DullnessOutfield/ayars/pkg/metadata"
)

// DeviceSummary is the serialized form of a Device together with the facts
// derived from its metadata.
type DeviceSummary struct {
	Identifier       string          `json:"identifier" yaml:"identifier"`
	Type             string          `json:"type" yaml:"type"`
	FirstTime        time.Time       `json:"firstTime" yaml:"firstTime"`
	LastTime         time.Time       `json:"lastTime" yaml:"lastTime"`
	Manufacturer     string          `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	LastSignal       *float64        `json:"lastSignal,omitempty" yaml:"lastSignal,omitempty"`
	ProbedSSIDs      []string        `json:"probedSsids,omitempty" yaml:"probedSsids,omitempty"`
	AdvertisedSSIDs  []string        `json:"advertisedSsids,omitempty" yaml:"advertisedSsids,omitempty"`
	LastBeaconedSSID string          `json:"lastBeaconedSsid,omitempty" yaml:"lastBeaconedSsid,omitempty"`
	Metadata         *metadata.Value `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Summarize projects d. The raw document is only included when withMetadata
// is set.
func Summarize(d Device, withMetadata bool) *DeviceSummary {
	md := d.Metadata()

	out := &DeviceSummary{
		Identifier:      d.Identifier(),
		Type:            d.Type(),
		FirstTime:       d.FirstTime(),
		LastTime:        d.LastTime(),
		ProbedSSIDs:     metadata.ProbedSSIDs(md),
		AdvertisedSSIDs: metadata.AdvertisedSSIDs(md),
	}

	if manuf, ok := metadata.Manufacturer(md); ok {
		out.Manufacturer = manuf
	}
	if signal, ok := metadata.LastSignal(md); ok {
		out.LastSignal = &signal
	}
	if ssid, ok := metadata.LastBeaconedSSID(md); ok {
		out.LastBeaconedSSID = ssid
	}
	if withMetadata {
		out.Metadata = &md
	}

	return out
}

// SummarizeAll keeps the order of devices.
func SummarizeAll(devices []Device, withMetadata bool) []*DeviceSummary {
	out := make([]*DeviceSummary, 0, len(devices))
	for _, d := range devices {
		out = append(out, Summarize(d, withMetadata))
	}
	return out
}
