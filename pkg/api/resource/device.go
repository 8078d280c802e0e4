package resource

import (
	"github.com/DullnessOutfield/ayars/pkg/model"
)

type DeviceResource = model.DeviceSummary

type DeviceListResource struct {
	File    string            `json:"file,omitempty" yaml:"file,omitempty"`
	Members []*DeviceResource `json:"members" yaml:"members"`
}

// NewDeviceList keeps the order of m, which is the order of the table.
func NewDeviceList(file string, m []model.Device, withMetadata bool) *DeviceListResource {
	return &DeviceListResource{
		File:    file,
		Members: model.SummarizeAll(m, withMetadata),
	}
}
