package app

import (
	"context"
	"image"
	"time"

	"casque-hud/internal/core"
)

// Sink receives each composited frame. The frame is owned by the sink.
type Sink func(frame *image.RGBA)

// Stream renders frames at fps until ctx is done and returns how many were
// produced. A render error stops the loop.
func Stream(ctx context.Context, rt *Runtime, fps int, sink Sink) (int, error) {
	step := core.NewFixedStep(fps)
	timer := time.NewTimer(0)
	defer timer.Stop()

	frames := 0
	for {
		if ctx.Err() != nil {
			return frames, nil
		}
		if step.ShouldStep() {
			frame, err := rt.Frame()
			if err != nil {
				return frames, err
			}
			frames++
			if sink != nil {
				sink(frame)
			}
			continue
		}
		timer.Reset(step.Until())
		select {
		case <-ctx.Done():
			return frames, nil
		case <-timer.C:
		}
	}
}
