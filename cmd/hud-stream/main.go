// Command hud-stream runs the compositor headless at the configured frame
// rate and serves the frames over the preview WebSocket.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"casque-hud/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.Preview = ":8080"
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	cfg.Capture(flag.CommandLine)

	resolved, err := cfg.Resolve()
	if err != nil {
		log.Fatal(err)
	}
	rt, err := app.Setup(resolved)
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rt.Start(ctx)

	slog.Info("streaming", "size", rt.Size(), "fps", resolved.Display.FPS, "source", resolved.Ingest.Source, "preview", resolved.Preview.Enabled)
	frames, err := app.Stream(ctx, rt, resolved.Display.FPS, rt.Publish)
	stop()
	rt.Wait()
	if err != nil {
		slog.Error("stream stopped", "frames", frames, "err", err)
		os.Exit(1)
	}
	slog.Info("stream finished", "frames", frames)
}
