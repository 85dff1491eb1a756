//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"casque-hud/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
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

	ctx, cancel := context.WithCancel(context.Background())
	rt.Start(ctx)

	game := app.New(rt, resolved.Display.Scale)
	size := rt.Size()
	w, _ := game.Layout(0, 0)

	ebiten.SetWindowTitle("casque-hud - " + resolved.Ingest.Source)
	ebiten.SetTPS(resolved.Display.FPS)
	ebiten.SetWindowSize(w, size.H*resolved.Display.Scale)

	err = ebiten.RunGame(game)
	cancel()
	rt.Wait()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
