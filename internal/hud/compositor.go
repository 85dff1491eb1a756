// Package hud composes the visor overlay: reticle and lock box, compass strip,
// battery bank and the status silhouette, onto a caller-owned frame.
package hud

import (
	"errors"
	"fmt"
	"image"

	"casque-hud/internal/compass"
	"casque-hud/internal/render"
	"casque-hud/internal/telemetry"
)

// ErrInvalidFrame is returned when the frame is nil, empty or not anchored at
// the origin. Nothing is drawn in that case.
var ErrInvalidFrame = errors.New("hud: invalid frame")

// Compositor draws every HUD zone for one snapshot. It keeps no state between
// calls besides its configuration, so one value may serve any number of
// render loops as long as each owns its frames.
type Compositor struct {
	cfg Config
}

// New returns a compositor using cfg.
func New(cfg Config) *Compositor {
	return &Compositor{cfg: cfg}
}

// Config returns the configuration the compositor was built with.
func (c *Compositor) Config() Config { return c.cfg }

// Render annotates frame in place and returns it. Out-of-range telemetry is
// clamped; only a structurally unusable frame is an error.
func (c *Compositor) Render(frame *image.RGBA, snap telemetry.Snapshot) (*image.RGBA, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}
	s := snap.Clamped()
	cfg := c.cfg

	DrawCrosshair(frame, s.TargetFound, cfg)
	compass.Render(frame, s.Orientation, cfg.Compass)
	DrawBattery(frame, s.BatteryCells(), cfg)

	overlay := render.Clone(frame)
	DrawSilhouette(overlay, s, cfg)

	alpha := 1.0
	if s.LostConnection {
		alpha = cfg.LostAlpha
	}
	region := frame.Bounds()
	if cfg.BlendScope == BlendSilhouette {
		region = SilhouetteBounds(render.SizeOf(frame), cfg)
	}
	render.Blend(frame, overlay, alpha, region)
	return frame, nil
}

func checkFrame(frame *image.RGBA) error {
	if frame == nil {
		return fmt.Errorf("%w: nil", ErrInvalidFrame)
	}
	b := frame.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty bounds %v", ErrInvalidFrame, b)
	}
	if b.Min != (image.Point{}) {
		return fmt.Errorf("%w: bounds %v not anchored at origin", ErrInvalidFrame, b)
	}
	if frame.Stride < 4*b.Dx() || len(frame.Pix) < frame.Stride*(b.Dy()-1)+4*b.Dx() {
		return fmt.Errorf("%w: pixel buffer too short for %v", ErrInvalidFrame, b)
	}
	return nil
}
