package kismetdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DullnessOutfield/ayars/pkg/kismet"
	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/DullnessOutfield/ayars/pkg/storage"
	"github.com/DullnessOutfield/ayars/pkg/storage/kismetdb/kismetdbtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probeBlob = `{"dot11.device": {"dot11.device.probed_ssid_map": {
	"0": {"dot11.probedssid.ssid": "HomeNet"},
	"1": {"dot11.probedssid.ssid": ""},
	"2": {"dot11.probedssid.ssid": "CafeWifi"}}}}`

func writeCapture(t *testing.T, devices ...kismetdbtest.Device) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Kismet-20240101-00-00-00-1.kismet")
	kismetdbtest.WriteCapture(t, path, devices...)
	return path
}

func openCapture(t *testing.T, path string) storage.Interface {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func identifiers(devices []model.Device) []string {
	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		ids = append(ids, d.Identifier())
	}
	return ids
}

func TestFetchByTypes_ClientOnly(t *testing.T) {
	path := writeCapture(t,
		kismetdbtest.Device{FirstTime: 1700000000, LastTime: 1700000100, MAC: "3C:DA:2A:00:00:01", Type: "Wi-Fi Client", Device: []byte(probeBlob)},
		kismetdbtest.Device{FirstTime: 1700000000, LastTime: 1700000100, MAC: "00:11:22:00:00:02", Type: "Wi-Fi AP", Device: []byte(`{}`)},
	)

	devices, err := openCapture(t, path).Devices().FetchByTypes(context.Background(), "Wi-Fi Client")
	require.NoError(t, err)
	require.Len(t, devices, 1)

	d := devices[0]
	assert.Equal(t, "3C:DA:2A:00:00:01", d.Identifier())
	assert.Equal(t, "Wi-Fi Client", d.Type())
	assert.Equal(t, int64(1700000000), d.FirstTime().Unix())
	assert.Equal(t, int64(1700000100), d.LastTime().Unix())
	assert.Equal(t, []string{"HomeNet", "CafeWifi"}, d.ProbedSSIDs())
}

func TestFetchByTypes_StationSet(t *testing.T) {
	path := writeCapture(t,
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:01", Type: "Wi-Fi Client", Device: []byte(`{}`)},
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:02", Type: "Wi-Fi Device", Device: []byte(`{}`)},
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:03", Type: "Wi-Fi AP", Device: []byte(`{}`)},
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:04", Type: "Wi-Fi Bridged", Device: []byte(`{}`)},
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:05", PhyName: "Bluetooth", Type: "BR/EDR", Device: []byte(`{}`)},
	)
	s := openCapture(t, path)

	stations, err := s.Devices().FetchByTypes(context.Background(), kismet.StationTypes...)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"aa:00:00:00:00:01", "aa:00:00:00:00:02"}, identifiers(stations))

	aps, err := s.Devices().FetchByTypes(context.Background(), kismet.AccessPointTypes...)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"aa:00:00:00:00:03", "aa:00:00:00:00:04"}, identifiers(aps))

	all, err := s.Devices().FetchByTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestFetchByTypes_TypeIsBoundNotInterpolated(t *testing.T) {
	path := writeCapture(t,
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:01", Type: "Wi-Fi Client", Device: []byte(`{}`)},
	)

	devices, err := openCapture(t, path).Devices().FetchByTypes(context.Background(), "x') OR ('1'='1")
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestFetchAll_Fallbacks(t *testing.T) {
	path := writeCapture(t,
		kismetdbtest.Device{FirstTime: "garbage", LastTime: nil, MAC: "aa:00:00:00:00:01", Type: "  'Wi-Fi Client' ", Device: []byte{0xff, 0xfe, '{'}},
		kismetdbtest.Device{FirstTime: 10, LastTime: 5, MAC: "aa:00:00:00:00:02", Type: "Wi-Fi Client", Device: nil},
	)

	devices, err := openCapture(t, path).Devices().FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	for _, d := range devices {
		assert.True(t, d.Metadata().IsObject())
		assert.Equal(t, 0, d.Metadata().Len())
		assert.Equal(t, "Wi-Fi Client", d.Type())
	}

	byID := map[string]model.Device{}
	for _, d := range devices {
		byID[d.Identifier()] = d
	}
	assert.Equal(t, kismet.Epoch, byID["aa:00:00:00:00:01"].FirstTime())
	assert.Equal(t, kismet.Epoch, byID["aa:00:00:00:00:01"].LastTime())
	assert.True(t, byID["aa:00:00:00:00:02"].FirstTime().After(byID["aa:00:00:00:00:02"].LastTime()))
}

func TestFetchAll_RowShapeError(t *testing.T) {
	path := writeCapture(t,
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:01", Type: "Wi-Fi Client", Device: []byte(`{}`)},
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: nil, Type: "Wi-Fi Client", Device: []byte(`{}`)},
	)

	devices, err := openCapture(t, path).Devices().FetchAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, devices)
	assert.Equal(t, kismet.ErrRowShape, errors.Cause(err))
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.kismet"))
	assert.Equal(t, storage.ErrNotFound, err)
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestFetch_NoDevicesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.kismet")
	kismetdbtest.WriteEmptyDatabase(t, path)

	_, err := openCapture(t, path).Devices().FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, storage.ErrNoDevices, errors.Cause(err))
}

func TestFetch_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.kismet")
	require.NoError(t, os.WriteFile(path, []byte("this is not sqlite, just some text padding it out"), 0o644))

	s, err := Open(path)
	if err != nil {
		return
	}
	defer s.Close()

	_, err = s.Devices().FetchAll(context.Background())
	assert.Error(t, err)
}

func TestOpen_ReadOnly(t *testing.T) {
	path := writeCapture(t,
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:01", Type: "Wi-Fi Client", Device: []byte(`{}`)},
	)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.(*store).db.Exec(`DELETE FROM devices`)
	assert.Error(t, err)
}

func TestFetch_CanceledContext(t *testing.T) {
	path := writeCapture(t,
		kismetdbtest.Device{FirstTime: 1, LastTime: 2, MAC: "aa:00:00:00:00:01", Type: "Wi-Fi Client", Device: []byte(`{}`)},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := openCapture(t, path).Devices().FetchAll(ctx)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	dsn, err := DSN("/data/captures/Kismet 1.kismet")
	require.NoError(t, err)
	assert.Equal(t, "file:///data/captures/Kismet%201.kismet?mode=ro", dsn)
}
