package preview

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"casque-hud/internal/telemetry"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub := NewHub(2)
	store := telemetry.NewStore(telemetry.Default())
	srv := httptest.NewServer(NewHandler(hub, store))
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitFor(t, func() bool { return hub.Count() == 1 })

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 1, color.RGBA{G: 255, A: 255})
	if err := hub.BroadcastFrame(img); err != nil {
		t.Fatalf("BroadcastFrame: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	got, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	r, g, b, _ := got.At(1, 1).RGBA()
	if r != 0 || g != 0xffff || b != 0 {
		t.Fatalf("pixel = %v", got.At(1, 1))
	}
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub := NewHub(2)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return hub.Count() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Count() == 0 })
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(1)
	slow := &client{send: make(chan []byte, 1)}
	hub.add(slow)

	if n := hub.Broadcast([]byte("a")); n != 1 {
		t.Fatalf("first broadcast reached %d clients", n)
	}
	if n := hub.Broadcast([]byte("b")); n != 0 {
		t.Fatalf("second broadcast reached %d clients", n)
	}
	if hub.Count() != 0 {
		t.Fatal("client with a full queue should be dropped")
	}
	if string(hub.Latest()) != "b" {
		t.Fatalf("latest = %q", hub.Latest())
	}
	if _, ok := <-slow.send; !ok {
		t.Fatal("queued frame should still drain before close")
	}
	if _, ok := <-slow.send; ok {
		t.Fatal("send queue should be closed")
	}
}

func TestHandlerRejectsPlainHTTPOnWS(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewHub(1), telemetry.NewStore(telemetry.Default())))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHandlerFrameAndTelemetry(t *testing.T) {
	hub := NewHub(1)
	store := telemetry.NewStore(telemetry.Default())
	_ = store.Update(func(s *telemetry.Snapshot) error {
		s.Orientation = 42
		return nil
	})
	srv := httptest.NewServer(NewHandler(hub, store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatalf("get frame: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("frame before broadcast: status %d", resp.StatusCode)
	}

	hub.Broadcast([]byte("png-bytes"))
	resp, err = http.Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatalf("get frame: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "png-bytes" || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("frame response = %q (%s)", body, resp.Header.Get("Content-Type"))
	}

	resp, err = http.Get(srv.URL + "/telemetry")
	if err != nil {
		t.Fatalf("get telemetry: %v", err)
	}
	defer resp.Body.Close()
	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["orientation"] != 42.0 {
		t.Fatalf("orientation = %v", got["orientation"])
	}
	if _, ok := got["last_update"]; !ok {
		t.Fatal("last_update missing after an update")
	}
}
