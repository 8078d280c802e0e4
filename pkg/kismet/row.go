package kismet

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DullnessOutfield/ayars/pkg/metadata"
	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/pkg/errors"
)

// LayoutVersion identifies the devices column layout below. Bump it together
// with the positions if the capture schema changes.
const LayoutVersion = 1

// Column positions in "SELECT * FROM devices".
const (
	ColFirstTime = iota
	ColLastTime
	ColDevKey
	ColPhyName
	ColDevMAC
	ColStrongestSignal
	ColMinLat
	ColMinLon
	ColMaxLat
	ColMaxLon
	ColAvgLat
	ColAvgLon
	ColBytesData
	ColType
	ColDevice

	ColumnCount
)

// Range of epoch seconds accepted for first/last seen times: years 0 through
// 9999, the span time.Time can render as RFC 3339.
const (
	MinEpochSeconds int64 = -62167219200
	MaxEpochSeconds int64 = 253402300799
)

// Epoch is the instant substituted for unusable timestamps.
var Epoch = time.Unix(0, 0).UTC()

// ErrRowShape is the cause of every error returned by MapRow.
var ErrRowShape = errors.New("malformed device row")

// Fallbacks records which fields of a row were replaced by their defaults.
type Fallbacks struct {
	FirstTime bool
	LastTime  bool
	Metadata  bool
}

// Any reports whether any field fell back.
func (f Fallbacks) Any() bool {
	return f.FirstTime || f.LastTime || f.Metadata
}

// MapRow converts one positional devices row into a Device. Bad timestamps
// and bad metadata are replaced by Epoch and {}; only a row that is too short
// or lacks a textual MAC or type is rejected.
func MapRow(row []interface{}) (model.Device, error) {
	d, _, err := MapRowDetailed(row)
	return d, err
}

// MapRowDetailed is MapRow that also reports field-level fallbacks.
func MapRowDetailed(row []interface{}) (model.Device, Fallbacks, error) {
	var fb Fallbacks

	if len(row) < ColumnCount {
		return model.Device{}, fb, errors.Wrapf(ErrRowShape, "expected %d columns, got %d", ColumnCount, len(row))
	}

	mac, ok := textValue(row[ColDevMAC])
	if !ok {
		return model.Device{}, fb, errors.Wrapf(ErrRowShape, "column %d (devmac) is %T, not text", ColDevMAC, row[ColDevMAC])
	}
	deviceType, ok := textValue(row[ColType])
	if !ok {
		return model.Device{}, fb, errors.Wrapf(ErrRowShape, "column %d (type) is %T, not text", ColType, row[ColType])
	}

	firstTime, ok := epochValue(row[ColFirstTime])
	fb.FirstTime = !ok
	lastTime, ok := epochValue(row[ColLastTime])
	fb.LastTime = !ok

	md, fallback := metadata.Decode(blobValue(row[ColDevice]))
	fb.Metadata = fallback

	return model.NewDevice(mac, firstTime, lastTime, NormalizeType(deviceType), md), fb, nil
}

// NormalizeType trims surrounding whitespace and then a single layer of
// single quotes, which Kismet sometimes stores around the type name.
func NormalizeType(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}

func epochValue(v interface{}) (time.Time, bool) {
	var secs int64
	switch x := v.(type) {
	case int64:
		secs = x
	case int:
		secs = int64(x)
	case float64:
		if math.IsNaN(x) || x < float64(MinEpochSeconds) || x > float64(MaxEpochSeconds) {
			return Epoch, false
		}
		secs = int64(x)
	case []byte:
		return epochText(string(x))
	case string:
		return epochText(x)
	default:
		return Epoch, false
	}

	if secs < MinEpochSeconds || secs > MaxEpochSeconds {
		return Epoch, false
	}
	return time.Unix(secs, 0).UTC(), true
}

func epochText(s string) (time.Time, bool) {
	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return Epoch, false
	}
	return epochValue(secs)
}

func textValue(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

func blobValue(v interface{}) []byte {
	switch x := v.(type) {
	case []byte:
		return x
	case string:
		return []byte(x)
	}
	return nil
}
