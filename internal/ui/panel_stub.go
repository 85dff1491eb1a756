//go:build !ebiten

package ui

import "casque-hud/internal/core"

// Panel is a no-op placeholder for headless builds.
type Panel struct{}

// NewPanel returns nil in the headless build.
func NewPanel(int, ...Toggle) *Panel { return nil }

// Width is zero in the headless build.
func (p *Panel) Width() int { return 0 }

// Update is a no-op in the headless build.
func (p *Panel) Update(core.ParameterSnapshot, int) {}

// Draw is a no-op in the headless build.
func (p *Panel) Draw(any, int, int) {}
