package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"casque-hud/internal/telemetry"
)

// NewHandler routes the preview endpoints:
//
//	/ws          binary WebSocket stream of PNG frames
//	/frame.png   most recent frame
//	/telemetry   current snapshot as JSON
func NewHandler(hub *Hub, store *telemetry.Store) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("GET /frame.png", func(w http.ResponseWriter, r *http.Request) {
		frame := hub.Latest()
		if frame == nil {
			http.Error(w, "no frame yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(frame)
	})
	mux.HandleFunc("GET /telemetry", func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			telemetry.Snapshot
			LastUpdate *time.Time `json:"last_update,omitempty"`
		}{Snapshot: store.Snapshot()}
		if last := store.LastUpdate(); !last.IsZero() {
			body.LastUpdate = &last
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	})
	return mux
}

// Serve runs an HTTP server for handler on addr until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("preview listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
