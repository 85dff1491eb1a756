// Command hud-snapshot renders telemetry to PNG files without a display.
//
// With -in it composites one snapshot (JSON, partial updates allowed) over
// the backdrop. With -sim N it renders N consecutive sim steps into -dir.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"casque-hud/internal/app"
	"casque-hud/internal/config"
	"casque-hud/internal/core"
	"casque-hud/internal/hud"
	"casque-hud/internal/ingest"
	"casque-hud/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (hud and display sections)")
	in := flag.String("in", "", "snapshot JSON file, - for stdin")
	out := flag.String("out", "hud.png", "output PNG for a single snapshot")
	bg := flag.String("bg", "", "backdrop image (PNG or JPEG); sets the frame size")
	simSteps := flag.Int("sim", 0, "render this many sim steps instead of one snapshot")
	seed := flag.Int64("seed", 1337, "sim seed")
	dir := flag.String("dir", "frames", "output directory for -sim")
	workers := flag.Int("workers", 0, "render workers for -sim (0 = one per CPU)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := config.Validate(loaded); err != nil {
			log.Fatal(err)
		}
		config.Normalize(loaded)
		cfg = loaded
	}
	comp := hud.New(hud.FromMap(cfg.HUD.Options()))
	size := core.Size{W: cfg.Display.Width, H: cfg.Display.Height}

	var backdrop *image.RGBA
	if *bg != "" {
		img, err := loadBackdrop(*bg)
		if err != nil {
			log.Fatal(err)
		}
		backdrop = img
		size = core.Size{W: img.Bounds().Dx(), H: img.Bounds().Dy()}
	}

	var snaps []telemetry.Snapshot
	if *simSteps > 0 {
		simCfg := ingest.DefaultSimConfig()
		simCfg.Seed = *seed
		sim := ingest.NewSim(simCfg)
		for i := 0; i < *simSteps; i++ {
			snaps = append(snaps, sim.Step())
		}
		if err := os.MkdirAll(*dir, 0o755); err != nil {
			log.Fatal(err)
		}
	} else {
		snap, err := readSnapshot(*in)
		if err != nil {
			log.Fatal(err)
		}
		snaps = []telemetry.Snapshot{snap}
	}

	start := time.Now()
	failed := 0
	app.RenderBatch(comp, size, backdrop, snaps, *workers, func(res app.BatchResult) {
		if res.Err != nil {
			log.Printf("snapshot %d: %v", res.Index, res.Err)
			failed++
			return
		}
		path := *out
		if *simSteps > 0 {
			path = filepath.Join(*dir, fmt.Sprintf("frame_%05d.png", res.Index))
		}
		if err := writePNG(path, res.Frame); err != nil {
			log.Printf("write %s: %v", path, err)
			failed++
		}
	})
	fmt.Printf("rendered %d frame(s) at %dx%d in %s\n", len(snaps)-failed, size.W, size.H, time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}

func readSnapshot(path string) (telemetry.Snapshot, error) {
	snap := telemetry.Default()
	if path == "" {
		return snap, nil
	}
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return snap, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return snap, err
	}
	if err := telemetry.ApplyJSON(&snap, data); err != nil {
		return snap, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func loadBackdrop(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
