package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"casque-hud/internal/config"
	"casque-hud/internal/core"
	"casque-hud/internal/hud"
	"casque-hud/internal/ingest"
	"casque-hud/internal/logging"
	"casque-hud/internal/preview"
	"casque-hud/internal/render"
	"casque-hud/internal/telemetry"
)

// Runtime bundles everything a HUD binary needs: the shared telemetry store,
// the compositor, the ingest source with its watchdog and the optional
// preview hub.
type Runtime struct {
	Config     *config.Config
	Log        *slog.Logger
	Store      *telemetry.Store
	Compositor *hud.Compositor
	Source     ingest.Source // nil when ingest.source is "none"
	Watchdog   *ingest.Watchdog
	Hub        *preview.Hub // nil when the preview is disabled

	backdrop *image.RGBA
	closer   io.Closer
	wg       sync.WaitGroup
}

// Setup builds a runtime from a validated, normalized configuration and
// installs the process logger.
func Setup(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	logger, closer := logging.Init(cfg.Log.Dir, cfg.Log.Name, cfg.Log.Level)
	rt, err := newRuntime(cfg, logger)
	if err != nil {
		closer.Close()
		return nil, err
	}
	rt.closer = closer
	return rt, nil
}

func newRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if size := frameSize(cfg); !size.Valid() {
		return nil, fmt.Errorf("app: invalid frame size %dx%d (config not normalized?)", size.W, size.H)
	}
	rt := &Runtime{
		Config:     cfg,
		Log:        logger,
		Store:      telemetry.NewStore(telemetry.Default()),
		Compositor: hud.New(hud.FromMap(cfg.HUD.Options())),
		Watchdog:   ingest.NewWatchdog(time.Duration(cfg.Ingest.StaleAfterMs) * time.Millisecond),
		backdrop:   render.NoSignal(frameSize(cfg)),
	}
	if name := cfg.Ingest.Source; name != "none" {
		src, err := ingest.New(name, cfg.Ingest.Options)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		rt.Source = src
	}
	if cfg.Preview.Enabled {
		rt.Hub = preview.NewHub(cfg.Preview.Queue)
	}
	return rt, nil
}

func frameSize(cfg *config.Config) core.Size {
	return core.Size{W: cfg.Display.Width, H: cfg.Display.Height}
}

// Size reports the frame size.
func (r *Runtime) Size() core.Size { return frameSize(r.Config) }

// Start launches the ingest source, the watchdog and the preview server in
// background goroutines. They stop when ctx is cancelled; Wait blocks until
// they have.
func (r *Runtime) Start(ctx context.Context) {
	if r.Source != nil {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.Log.Info("ingest starting", "source", r.Source.Name())
			if err := r.Source.Run(ctx, r.Store); err != nil {
				r.Log.Error("ingest stopped", "source", r.Source.Name(), "err", err)
				r.Store.SetLostConnection(true)
			}
		}()
		// A source that never delivers would otherwise look healthy forever.
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.Watchdog.Run(ctx, r.Store)
		}()
	}
	if r.Hub != nil {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			handler := preview.NewHandler(r.Hub, r.Store)
			if err := preview.Serve(ctx, r.Config.Preview.Addr, handler); err != nil {
				r.Log.Error("preview server", "addr", r.Config.Preview.Addr, "err", err)
			}
		}()
	}
}

// Wait blocks until every goroutine launched by Start has returned.
func (r *Runtime) Wait() { r.wg.Wait() }

// Frame composites the current telemetry over the no-signal backdrop.
func (r *Runtime) Frame() (*image.RGBA, error) {
	return r.Render(r.Compositor, r.Store.Snapshot())
}

// Render composites snap with c over a fresh copy of the backdrop.
func (r *Runtime) Render(c *hud.Compositor, snap telemetry.Snapshot) (*image.RGBA, error) {
	return c.Render(render.Clone(r.backdrop), snap)
}

// Publish hands a finished frame to the preview hub, if any.
func (r *Runtime) Publish(frame *image.RGBA) {
	if r.Hub == nil || frame == nil {
		return
	}
	if err := r.Hub.BroadcastFrame(frame); err != nil {
		r.Log.Warn("preview encode", "err", err)
	}
}

// Close releases the preview hub and the log file.
func (r *Runtime) Close() error {
	if r.Hub != nil {
		r.Hub.Close()
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
