package memory

import (
	"context"

	"github.com/DullnessOutfield/ayars/pkg/model"
)

type deviceStore struct {
	store []model.Device
}

func newDeviceStore(devices []model.Device) *deviceStore {
	store := make([]model.Device, len(devices))
	copy(store, devices)
	return &deviceStore{store: store}
}

func (s *deviceStore) FetchAll(ctx context.Context) ([]model.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	models := make([]model.Device, len(s.store))
	copy(models, s.store)
	return models, nil
}

func (s *deviceStore) FetchByTypes(ctx context.Context, types ...string) ([]model.Device, error) {
	if len(types) == 0 {
		return s.FetchAll(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	models := make([]model.Device, 0)
	for _, m := range s.store {
		if wanted[m.Type()] {
			models = append(models, m)
		}
	}
	return models, nil
}
