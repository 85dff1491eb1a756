package ingest

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"casque-hud/internal/telemetry"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestRouterSingleFieldTopics(t *testing.T) {
	store := telemetry.NewStore(telemetry.Default())
	r := NewRouter("", DefaultRoutes())

	msgs := []struct {
		topic   string
		payload string
	}{
		{"helmet/orientation", "185"},
		{"energy/battery/level", `{"value": 2.5}`},
		{"backpack/gas/smoke/exterior", "2"},
		{"hud/target", "true"},
	}
	for _, m := range msgs {
		if err := r.Handle(store, m.topic, []byte(m.payload)); err != nil {
			t.Fatalf("Handle(%s): %v", m.topic, err)
		}
	}
	s := store.Snapshot()
	if s.Orientation != 185 || s.BatteryLevel != 2.5 || s.AirQualityExt != 2 || !s.TargetFound {
		t.Fatalf("routed values not applied: %+v", s)
	}
	if store.LastUpdate().IsZero() {
		t.Fatal("routing should count as a data arrival")
	}
}

func TestRouterCombinedTopic(t *testing.T) {
	store := telemetry.NewStore(telemetry.Default())
	r := NewRouter("", DefaultRoutes())
	payload := []byte(`{"temp_ext": 31, "humidity_ext": 12, "lost_connection": true}`)
	if err := r.Handle(store, CombinedTopic, payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	s := store.Snapshot()
	if s.TempExt != 31 || s.HumidityExt != 12 || !s.LostConnection {
		t.Fatalf("combined payload not applied: %+v", s)
	}
	if s.CasqueTemp != 25 {
		t.Fatal("absent keys must keep their values")
	}
}

func TestRouterRejectsBadInput(t *testing.T) {
	store := telemetry.NewStore(telemetry.Default())
	r := NewRouter("", DefaultRoutes())
	if err := r.Handle(store, "helmet/left/frame", []byte("1")); err == nil {
		t.Fatal("unrouted topic should fail")
	}
	err := r.Handle(store, "helmet/orientation", []byte("north"))
	if !errors.Is(err, telemetry.ErrBadValue) {
		t.Fatalf("expected ErrBadValue, got %v", err)
	}
	if !store.LastUpdate().IsZero() {
		t.Fatal("rejected messages must not count as arrivals")
	}
}

func TestRouterPrefix(t *testing.T) {
	r := NewRouter("/casque/", DefaultRoutes())
	topics := r.Topics()
	if !slices.Contains(topics, "casque/helmet/orientation") {
		t.Fatalf("prefixed topic missing from %v", topics)
	}
	if slices.Contains(topics, "helmet/orientation") {
		t.Fatal("unprefixed topic should not be routed")
	}
	if !slices.IsSorted(topics) {
		t.Fatal("topics should be sorted")
	}
}

func TestSubject(t *testing.T) {
	if got := Subject("backpack/temp/exterior"); got != "backpack.temp.exterior" {
		t.Fatalf("Subject = %q", got)
	}
}

func TestRegistry(t *testing.T) {
	names := Names()
	for _, want := range []string{"mqtt", "nats", "sim"} {
		if !slices.Contains(names, want) {
			t.Fatalf("source %q not registered (have %v)", want, names)
		}
	}
	src, err := New("sim", map[string]string{"seed": "7"})
	if err != nil {
		t.Fatalf("New(sim): %v", err)
	}
	if src.Name() != "sim" {
		t.Fatalf("Name = %q", src.Name())
	}
	if _, err := New("kafka", nil); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

func TestMQTTMessageHandler(t *testing.T) {
	cfg := MQTTConfigFromMap(map[string]string{"prefix": "casque", "qos": "1"})
	if cfg.QoS != 1 || cfg.Prefix != "casque" {
		t.Fatalf("config = %+v", cfg)
	}
	src := NewMQTT(cfg)
	store := telemetry.NewStore(telemetry.Default())

	handle := src.onMessage(store)
	handle(nil, fakeMessage{topic: "casque/helmet/right/temp", payload: []byte("41.5")})
	handle(nil, fakeMessage{topic: "casque/nowhere", payload: []byte("1")})
	if got := store.Snapshot().CasqueTemp; got != 41.5 {
		t.Fatalf("casque temp = %v, want 41.5", got)
	}

	src.onConnectionLost(store)(nil, errors.New("broker went away"))
	if !store.Snapshot().LostConnection {
		t.Fatal("connection loss should raise lost_connection")
	}
}

func TestNATSMessageHandler(t *testing.T) {
	src := NewNATS(NATSConfigFromMap(map[string]string{"prefix": "casque"}))
	if !slices.Contains(src.router.Topics(), "casque.helmet.orientation") {
		t.Fatalf("subjects = %v", src.router.Topics())
	}
	store := telemetry.NewStore(telemetry.Default())
	src.onMessage(store)(&nats.Msg{Subject: "casque.helmet.orientation", Data: []byte(`{"value": 90}`)})
	if got := store.Snapshot().Orientation; got != 90 {
		t.Fatalf("orientation = %v, want 90", got)
	}
}

func TestMQTTRunStopsOnCancel(t *testing.T) {
	src := NewMQTT(MQTTConfigFromMap(map[string]string{
		"broker":         "tcp://127.0.0.1:1",
		"retry_interval": "50ms",
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, telemetry.NewStore(telemetry.Default())) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSimDeterministic(t *testing.T) {
	a := NewSim(SimConfig{Seed: 42, Interval: time.Second / 30, TargetChance: 0.2, LostChance: 0.1})
	b := NewSim(SimConfig{Seed: 42, Interval: time.Second / 30, TargetChance: 0.2, LostChance: 0.1})
	for i := 0; i < 500; i++ {
		if sa, sb := a.Step(), b.Step(); sa != sb {
			t.Fatalf("step %d diverged: %+v vs %+v", i, sa, sb)
		}
	}
	first := a.Step()
	a.Reset(42)
	for i := 0; i < 500; i++ {
		a.Step()
	}
	if a.Step() != first {
		t.Fatal("Reset should replay the same sequence")
	}
}

func TestSimStaysInDomain(t *testing.T) {
	s := NewSim(DefaultSimConfig())
	sawDrain := false
	for i := 0; i < 2000; i++ {
		snap := s.Step()
		if snap.BatteryLevel < 0 || snap.BatteryLevel > telemetry.BatteryMax {
			t.Fatalf("battery %v out of range at step %d", snap.BatteryLevel, i)
		}
		if snap.BatteryLevel < 3 {
			sawDrain = true
		}
		if snap.Orientation < 0 || snap.Orientation >= 360 {
			t.Fatalf("heading %v out of range", snap.Orientation)
		}
		if snap.AirQualityExt < 0 || snap.AirQualityExt > telemetry.AirQualityMax {
			t.Fatalf("air quality %v out of range", snap.AirQualityExt)
		}
		if snap.CasqueHumidity < 20 || snap.CasqueHumidity > 80 {
			t.Fatalf("humidity %v out of range", snap.CasqueHumidity)
		}
	}
	if !sawDrain {
		t.Fatal("battery should drain from full")
	}
}

func TestSimRunUpdatesStore(t *testing.T) {
	s := NewSim(SimConfig{Seed: 1, Interval: time.Millisecond})
	store := telemetry.NewStore(telemetry.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, store) }()

	deadline := time.Now().Add(2 * time.Second)
	for store.LastUpdate().IsZero() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.LastUpdate().IsZero() {
		t.Fatal("sim never published")
	}
}

func TestWatchdogTransitions(t *testing.T) {
	store := telemetry.NewStore(telemetry.Default())
	w := NewWatchdog(time.Second)
	base := time.Now()
	clock := base
	w.now = func() time.Time { return clock }

	if w.Check(store) {
		t.Fatal("fresh watchdog should not be stale")
	}
	clock = base.Add(2 * time.Second)
	if !w.Check(store) || !store.Snapshot().LostConnection {
		t.Fatal("no data past StaleAfter should raise lost_connection")
	}

	_ = store.Update(func(s *telemetry.Snapshot) error { s.Orientation = 10; return nil })
	clock = store.LastUpdate().Add(100 * time.Millisecond)
	if w.Check(store) || store.Snapshot().LostConnection {
		t.Fatal("fresh data should clear lost_connection")
	}

	// Flags raised by a source are left alone while data is fresh.
	store.SetLostConnection(true)
	w.Check(store)
	if !store.Snapshot().LostConnection {
		t.Fatal("watchdog should only write on transitions")
	}
}
