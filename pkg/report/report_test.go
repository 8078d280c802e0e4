package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/DullnessOutfield/ayars/pkg/metadata"
	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testDevice(t *testing.T) model.Device {
	t.Helper()
	md, err := metadata.Parse([]byte(`{"kismet.device.base.manuf": "Apple",
		"dot11.device": {"dot11.device.probed_ssid_map": {"0": {"dot11.probedssid.ssid": "HomeNet"}}}}`))
	require.NoError(t, err)
	return model.NewDevice("3C:DA:2A:00:00:01", time.Unix(1700000000, 0), time.Unix(1700000100, 0), "Wi-Fi Client", md)
}

func TestText(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewText(&out, &errOut)

	require.NoError(t, r.Probes("/data/a.kismet", []string{"HomeNet", "CafeWifi"}))
	require.NoError(t, r.Failure("/data/b.kismet", errors.New("file is not a database")))
	require.NoError(t, r.Probes("/data/c.kismet", nil))
	require.NoError(t, r.Devices("/data/d.kismet", []model.Device{testDevice(t)}))

	assert.Equal(t, "Processing: /data/a.kismet\n"+
		"HomeNet\n"+
		"CafeWifi\n"+
		"Processing: /data/b.kismet\n"+
		"Processing: /data/c.kismet\n"+
		"Processing: /data/d.kismet\n"+
		`  {"kismet.device.base.manuf":"Apple","dot11.device":{"dot11.device.probed_ssid_map":{"0":{"dot11.probedssid.ssid":"HomeNet"}}}}`+"\n",
		out.String())
	assert.Equal(t, "Error processing /data/b.kismet: file is not a database\n", errOut.String())
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r, err := New(FormatJSON, &out, nil, "run-1")
	require.NoError(t, err)

	require.NoError(t, r.Probes("a.kismet", []string{"HomeNet"}))
	require.NoError(t, r.Failure("b.kismet", errors.New("boom")))
	require.NoError(t, r.Devices("c.kismet", []model.Device{testDevice(t)}))

	lines := bufio.NewScanner(&out)
	var got []string
	for lines.Scan() {
		got = append(got, lines.Text())
	}
	require.Len(t, got, 3)

	assert.JSONEq(t, `{"runId":"run-1","file":"a.kismet","probes":["HomeNet"]}`, got[0])
	assert.JSONEq(t, `{"runId":"run-1","file":"b.kismet","error":"boom"}`, got[1])
	assert.JSONEq(t, `{"runId":"run-1","file":"c.kismet","devices":[{
		"identifier":"3C:DA:2A:00:00:01",
		"type":"Wi-Fi Client",
		"firstTime":"2023-11-14T22:13:20Z",
		"lastTime":"2023-11-14T22:15:00Z",
		"manufacturer":"Apple",
		"probedSsids":["HomeNet"],
		"metadata":{"kismet.device.base.manuf":"Apple","dot11.device":{"dot11.device.probed_ssid_map":{"0":{"dot11.probedssid.ssid":"HomeNet"}}}}
	}]}`, got[2])
}

func TestYAML(t *testing.T) {
	var out bytes.Buffer
	r, err := New(FormatYAML, &out, nil, "run-1")
	require.NoError(t, err)

	require.NoError(t, r.Probes("a.kismet", []string{"HomeNet", "CafeWifi"}))
	require.NoError(t, r.Failure("b.kismet", errors.New("boom")))

	type doc struct {
		RunID  string   `yaml:"runId"`
		File   string   `yaml:"file"`
		Probes []string `yaml:"probes"`
		Error  string   `yaml:"error"`
	}

	dec := yaml.NewDecoder(&out)
	var first, second doc
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, doc{RunID: "run-1", File: "a.kismet", Probes: []string{"HomeNet", "CafeWifi"}}, first)
	assert.Equal(t, doc{RunID: "run-1", File: "b.kismet", Error: "boom"}, second)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("csv", nil, nil, "")
	assert.Error(t, err)
}

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	messages []message
	err      error
}

func (p *fakePublisher) Publish(subj string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, message{subject: subj, data: data})
	return nil
}

func TestNATS(t *testing.T) {
	pub := &fakePublisher{}
	r := NewNATS(pub, "ayars.capture", "run-1")

	require.NoError(t, r.Probes("a.kismet", []string{"HomeNet"}))
	require.NoError(t, r.Devices("a.kismet", []model.Device{testDevice(t)}))
	require.NoError(t, r.Failure("b.kismet", errors.New("boom")))

	require.Len(t, pub.messages, 3)
	assert.Equal(t, "ayars.capture.probes", pub.messages[0].subject)
	assert.JSONEq(t, `{"runId":"run-1","file":"a.kismet","probes":["HomeNet"]}`, string(pub.messages[0].data))

	assert.Equal(t, "ayars.capture.devices", pub.messages[1].subject)
	var env Envelope
	require.NoError(t, json.Unmarshal(pub.messages[1].data, &env))
	require.Len(t, env.Devices, 1)
	assert.Equal(t, "3C:DA:2A:00:00:01", env.Devices[0].Identifier)

	assert.Equal(t, "ayars.capture.errors", pub.messages[2].subject)
}

func TestNATS_PublishError(t *testing.T) {
	r := NewNATS(&fakePublisher{err: errors.New("nats: connection closed")}, "ayars.capture", "run-1")
	err := r.Probes("a.kismet", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish report")
}

func TestMulti(t *testing.T) {
	failing := &fakePublisher{err: errors.New("down")}
	working := &fakePublisher{}
	var out bytes.Buffer

	r := Multi(NewNATS(failing, "s", ""), NewText(&out, &out), NewNATS(working, "s", ""))
	err := r.Probes("a.kismet", []string{"HomeNet"})
	require.Error(t, err)

	assert.Equal(t, "Processing: a.kismet\nHomeNet\n", out.String())
	assert.Len(t, working.messages, 1)
}
