package memory

import (
	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/DullnessOutfield/ayars/pkg/storage"
)

// store holds one capture's devices in memory
type store struct {
	devices *deviceStore
}

// NewStore creates a new memory-based Storage interface over devices
func NewStore(devices ...model.Device) storage.Interface {
	return &store{
		devices: newDeviceStore(devices),
	}
}

// Devices returns a sub-store for loading the Device model
func (s *store) Devices() storage.DeviceStore {
	return s.devices
}

func (s *store) Close() error {
	return nil
}

// NewOpener serves a fixed set of captures keyed by path. Unknown paths yield
// storage.ErrNotFound.
func NewOpener(captures map[string][]model.Device) storage.Opener {
	return storage.OpenerFunc(func(path string) (storage.Interface, error) {
		devices, ok := captures[path]
		if !ok {
			return nil, storage.ErrNotFound
		}
		return NewStore(devices...), nil
	})
}
