package metadata

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
	}{
		{`null`, Null},
		{`true`, Bool},
		{`-12.5e3`, Number},
		{`"wlan0"`, String},
		{`[1, "a", null]`, Array},
		{`{"a": {"b": []}}`, Object},
		{"  {}\n", Object},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		``,
		`{`,
		`{"a" 1}`,
		`{"a": 1,}`,
		`[1 2]`,
		`{} {}`,
		`nope`,
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestParse_KeepsMemberOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": 2, "mid": {"y": true, "x": false}}`))
	require.NoError(t, err)

	members, ok := v.Members()
	require.True(t, ok)
	keys := make([]string, 0, len(members))
	for _, m := range members {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
	assert.Equal(t, `{"zeta":1,"alpha":2,"mid":{"y":true,"x":false}}`, v.String())
}

func TestParse_DuplicateKeyLastValueWins(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	assert.Equal(t, 2, v.Len())
	a, ok := v.Get("a")
	require.True(t, ok)
	n, ok := a.AsNumber()
	require.True(t, ok)
	assert.Equal(t, 3.0, n)
	assert.Equal(t, `{"a":3,"b":2}`, v.String())
}

func TestDecode_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		want     string
		fallback bool
	}{
		{"nil blob", nil, `{}`, true},
		{"empty blob", []byte{}, `{}`, true},
		{"truncated", []byte(`{"dot11.device": {`), `{}`, true},
		{"not json", []byte("kismet"), `{}`, true},
		{"valid", []byte(`{"kismet.device.base.manuf": "Apple"}`), `{"kismet.device.base.manuf":"Apple"}`, false},
		{"scalar document", []byte(`42`), `42`, false},
		{"invalid utf8 inside string", []byte("{\"ssid\": \"caf\xe9\"}"), "{\"ssid\":\"caf�\"}", false},
		{"invalid utf8 outside string", []byte("{\xff}"), `{}`, true},
		{"each invalid byte replaced", []byte("{\"ssid\": \"a\xff\xfeb\"}"), "{\"ssid\":\"a\uFFFD\uFFFDb\"}", false},
		{"truncated sequence replaced once", []byte("{\"ssid\": \"a\xe2\x82b\"}"), "{\"ssid\":\"a\uFFFDb\"}", false},
		{"surrogate replaced per byte", []byte("{\"ssid\": \"\xed\xa0\x80\"}"), "{\"ssid\":\"\uFFFD\uFFFD\uFFFD\"}", false},
		{"nested too deep", bytes.Repeat([]byte("["), 20_000_000), `{}`, true},
		{"deepest allowed nesting", []byte(strings.Repeat("[", MaxDepth) + strings.Repeat("]", MaxDepth)), strings.Repeat("[", MaxDepth) + strings.Repeat("]", MaxDepth), false},
		{"one level too deep", []byte(strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)), `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, fallback := Decode(tt.raw)
			assert.Equal(t, tt.fallback, fallback)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestLookup(t *testing.T) {
	v, err := Parse([]byte(`{"a": {"b": {"c": "deep"}, "s": "flat"}}`))
	require.NoError(t, err)

	got, ok := v.Lookup("a", "b", "c")
	require.True(t, ok)
	s, ok := got.AsString()
	require.True(t, ok)
	assert.Equal(t, "deep", s)

	_, ok = v.Lookup("a", "s", "c")
	assert.False(t, ok, "step through a string")

	_, ok = v.Lookup("a", "missing")
	assert.False(t, ok)

	self, ok := v.Lookup()
	require.True(t, ok)
	assert.Equal(t, v.String(), self.String())
}

func TestAccessors_WrongKind(t *testing.T) {
	var v Value
	assert.Equal(t, Null, v.Kind())

	_, ok := v.AsString()
	assert.False(t, ok)
	_, ok = v.AsNumber()
	assert.False(t, ok)
	_, ok = v.AsBool()
	assert.False(t, ok)
	_, ok = v.Members()
	assert.False(t, ok)
	_, ok = v.Elements()
	assert.False(t, ok)
	_, ok = v.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, v.Len())
}

func TestValue_JSONRoundTripInsideStruct(t *testing.T) {
	type wrapper struct {
		Metadata Value `json:"metadata"`
	}

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"metadata": {"b": 1, "a": ["x", null]}}`), &w))

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"metadata": {"b": 1, "a": ["x", null]}}`, string(out))
	assert.Equal(t, `{"metadata":{"b":1,"a":["x",null]}}`, string(out))
}

func TestValue_MarshalYAML(t *testing.T) {
	v, err := Parse([]byte(`{"ssid": "<HomeNet>", "channel": 6, "rate": 5.5, "open": false, "tags": ["a"], "none": null}`))
	require.NoError(t, err)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "ssid: <HomeNet>\nchannel: 6\nrate: 5.5\nopen: false\ntags:\n    - a\nnone: null\n", string(out))
}
