package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/sound-and-vision/internal/logic"
	"github.com/sweeney/sound-and-vision/internal/metrics"
	"github.com/sweeney/sound-and-vision/internal/nv"
	"github.com/sweeney/sound-and-vision/internal/status"
	"github.com/sweeney/sound-and-vision/internal/thresholds"
)

func newTestServer(t *testing.T, store nv.Store) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:           100,
		StatusIntervalMs: 900000,
		Broker:           "tcp://192.168.1.200:1883",
		HTTPAddr:         ":80",
		Store:            "memory",
	}
	tr := status.NewTracker(start, status.Identity{NodeID: "node-a", Group: "lab", Profile: "rf200"}, cfg)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Tick()

	srv := New(":0", tr, thresholds.NewConsole(store), reg, nil)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func defaultedStore(t *testing.T) *nv.MemStore {
	t.Helper()
	store := nv.NewMemStore()
	if _, err := thresholds.Reset(store); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return store
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, strings.TrimSpace(string(out))
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t, defaultedStore(t))
	tr.Update(logic.State{Baseline: 1000, Baselined: true, LightLevel: 560, Counts: logic.Counts{Heartbeats: 5, Received: 2}})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Node != "node-a" {
		t.Errorf("Node: got %q, want node-a", sj.Status.Node)
	}
	if !sj.Status.Ready {
		t.Error("expected Ready=true")
	}
	if sj.Status.LightLevel != 560 {
		t.Errorf("LightLevel: got %d, want 560", sj.Status.LightLevel)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.Heartbeats != 5 {
		t.Errorf("Counts.Heartbeats: got %d, want 5", sj.Status.Counts.Heartbeats)
	}
	if sj.Status.Config.PollMs != 100 {
		t.Errorf("Config.PollMs: got %d, want 100", sj.Status.Config.PollMs)
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t, defaultedStore(t))
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"})

	_, body := get(t, ts.URL+"/index.json")

	var sj status.StatusJSON
	json.Unmarshal([]byte(body), &sj)

	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t, defaultedStore(t))
	tr.Update(logic.State{Baseline: 812, Baselined: true})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"node-a", "812", "Red: 100 | Amber: 50 | Green: 15", "Short: 1000 | Medium: 500 | Long: 100"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t, defaultedStore(t))

	if code, _ := get(t, ts.URL+"/index.html"); code != 200 {
		t.Errorf("status: got %d, want 200", code)
	}
}

func TestHTMLShowsUnsetThresholds(t *testing.T) {
	ts, _ := newTestServer(t, nv.NewMemStore())

	_, body := get(t, ts.URL+"/")
	if !strings.Contains(body, "Red: unset | Amber: unset | Green: unset") {
		t.Error("expected unset thresholds on page")
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t, defaultedStore(t))

	if code, _ := get(t, ts.URL+"/nonexistent"); code != 404 {
		t.Errorf("status: got %d, want 404", code)
	}
	if code, _ := post(t, ts.URL+"/thresholds/purple", "5"); code != 404 {
		t.Errorf("unknown threshold: got %d, want 404", code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, defaultedStore(t))

	code, body := get(t, ts.URL+"/metrics")
	if code != 200 {
		t.Fatalf("status: got %d, want 200", code)
	}
	if !strings.Contains(body, "soundandvision_ticks_total 1") {
		t.Error("expected tick counter in metrics output")
	}
}

func TestConsoleGetSummaries(t *testing.T) {
	ts, _ := newTestServer(t, defaultedStore(t))

	code, body := get(t, ts.URL+"/thresholds/color")
	if code != 200 || strings.TrimSpace(body) != "Red: 100 | Amber: 50 | Green: 15" {
		t.Errorf("color: got %d %q", code, body)
	}

	code, body = get(t, ts.URL+"/thresholds/tone")
	if code != 200 || strings.TrimSpace(body) != "Short: 1000 | Medium: 500 | Long: 100" {
		t.Errorf("tone: got %d %q", code, body)
	}
}

func TestConsoleSetThreshold(t *testing.T) {
	store := defaultedStore(t)
	ts, _ := newTestServer(t, store)

	code, body := post(t, ts.URL+"/thresholds/green", "30")
	if code != 200 {
		t.Fatalf("status: got %d, want 200", code)
	}
	if body != "Green threshold changed from 15 to 30" {
		t.Errorf("body: got %q", body)
	}

	v, _ := store.Load(string(thresholds.Green))
	if n, _ := v.Int(); n != 30 {
		t.Errorf("stored green: got %v, want 30", v)
	}
}

func TestConsoleSetAcceptsFullKey(t *testing.T) {
	ts, _ := newTestServer(t, defaultedStore(t))

	code, body := post(t, ts.URL+"/thresholds/long_threshold", "150")
	if code != 200 || body != "Long threshold changed from 100 to 150" {
		t.Errorf("got %d %q", code, body)
	}
}

func TestConsoleRejectsNonInteger(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"float", "30.0"},
		{"fraction", "30.5"},
		{"exponent", "3e1"},
		{"string", `"30"`},
		{"bool", "true"},
		{"null", "null"},
		{"malformed", "{"},
		{"empty", ""},
		{"trailing junk", "15 junk"},
		{"second value", "15 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := defaultedStore(t)
			ts, _ := newTestServer(t, store)

			code, body := post(t, ts.URL+"/thresholds/amber", tt.body)
			if code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", code)
			}
			if body != "Invalid Amber Threshold Value" {
				t.Errorf("body: got %q", body)
			}

			v, _ := store.Load(string(thresholds.Amber))
			if n, _ := v.Int(); n != 50 {
				t.Errorf("amber changed to %v", v)
			}
		})
	}
}

func TestConsoleDefault(t *testing.T) {
	store := nv.NewMemStore()
	ts, _ := newTestServer(t, store)

	code, body := post(t, ts.URL+"/thresholds/default", "")
	if code != 200 || body != "Thresholds defaulted." {
		t.Errorf("got %d %q", code, body)
	}

	_, color := get(t, ts.URL+"/thresholds/color")
	if strings.TrimSpace(color) != "Red: 100 | Amber: 50 | Green: 15" {
		t.Errorf("color after default: %q", color)
	}
}

func TestConsoleMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t, defaultedStore(t))

	if code, _ := post(t, ts.URL+"/thresholds/color", ""); code != http.StatusMethodNotAllowed {
		t.Errorf("POST color: got %d, want 405", code)
	}
	if code, _ := get(t, ts.URL+"/thresholds/green"); code != http.StatusMethodNotAllowed {
		t.Errorf("GET green: got %d, want 405", code)
	}
}

type brokenStore struct{ nv.MemStore }

var errBroken = errors.New("eeprom unavailable")

func (*brokenStore) Load(string) (nv.Value, error) { return nv.Value{}, errBroken }
func (*brokenStore) Save(string, int) error        { return errBroken }

func TestConsoleStoreFailure(t *testing.T) {
	ts, _ := newTestServer(t, &brokenStore{})

	code, body := post(t, ts.URL+"/thresholds/red", "120")
	if code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", code)
	}
	if !strings.Contains(body, "eeprom unavailable") {
		t.Errorf("body: got %q", body)
	}

	if code, _ := get(t, ts.URL+"/thresholds/tone"); code != http.StatusInternalServerError {
		t.Errorf("tone: got %d, want 500", code)
	}

	// The page still renders.
	if code, body := get(t, ts.URL+"/"); code != 200 || !strings.Contains(body, "unavailable") {
		t.Errorf("page: got %d", code)
	}
}
