package app

import (
	"image"
	"runtime"
	"sync"

	"casque-hud/internal/core"
	"casque-hud/internal/hud"
	"casque-hud/internal/render"
	"casque-hud/internal/telemetry"
)

// BatchResult is one rendered snapshot from RenderBatch.
type BatchResult struct {
	Index int
	Frame *image.RGBA
	Err   error
}

// RenderBatch composites every snapshot over backdrop copies using a pool of
// workers and hands each result to emit in completion order. A nil backdrop
// renders on the no-signal pattern. workers <= 0 uses one per CPU.
func RenderBatch(c *hud.Compositor, size core.Size, backdrop *image.RGBA, snaps []telemetry.Snapshot, workers int, emit func(BatchResult)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if backdrop == nil {
		backdrop = render.NoSignal(size)
	}

	jobs := make(chan int)
	results := make(chan BatchResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				frame, err := c.Render(render.Clone(backdrop), snaps[idx])
				results <- BatchResult{Index: idx, Frame: frame, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i := range snaps {
			jobs <- i
		}
		close(jobs)
	}()

	for res := range results {
		emit(res)
	}
}
