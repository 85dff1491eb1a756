// Package ingest keeps a telemetry store current from the armor's message bus
// or from a synthetic generator.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"casque-hud/internal/telemetry"
)

// Source feeds a telemetry store until its context is cancelled.
type Source interface {
	Name() string
	// Run blocks until ctx is done or the source fails to start. A clean
	// shutdown returns nil.
	Run(ctx context.Context, store *telemetry.Store) error
}

// Factory constructs a Source using an optional configuration map.
type Factory func(cfg map[string]string) Source

// ErrUnknownSource is returned by New for unregistered names.
var ErrUnknownSource = errors.New("ingest: unknown source")

var sources = map[string]Factory{}

// Register adds a source factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sources[name] = f
}

// Sources exposes the registry of available source factories.
func Sources() map[string]Factory {
	return sources
}

// Names returns the registered source names in sorted order.
func Names() []string {
	out := make([]string, 0, len(sources))
	for name := range sources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New builds the named source.
func New(name string, cfg map[string]string) (Source, error) {
	f, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownSource, name, Names())
	}
	return f(cfg), nil
}
