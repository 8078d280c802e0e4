package storage

import (
	"context"

	"github.com/DullnessOutfield/ayars/pkg/model"
)

// Interface is implemented by a single opened capture
type Interface interface {
	Devices() DeviceStore
	Close() error
}

// DeviceStore is responsible for loading the Device model
type DeviceStore interface {
	// FetchAll returns every row of the devices table.
	FetchAll(ctx context.Context) ([]model.Device, error)
	// FetchByTypes returns the rows whose type column is one of types. With
	// no types it behaves like FetchAll.
	FetchByTypes(ctx context.Context, types ...string) ([]model.Device, error)
}

// Opener opens the capture stored at path
type Opener interface {
	Open(path string) (Interface, error)
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(path string) (Interface, error)

func (f OpenerFunc) Open(path string) (Interface, error) {
	return f(path)
}
