//go:build ebiten

package app

import (
	"image"

	"casque-hud/internal/hud"
	"casque-hud/internal/render"
	"casque-hud/internal/telemetry"
	"casque-hud/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const panelWidth = 220

// Game shows the composited visor in a desktop window, next to a readout
// panel. It is the bench viewer; the helmet itself runs the headless stream.
type Game struct {
	rt      *Runtime
	painter *render.FramePainter
	panel   *ui.Panel
	scopes  [2]*hud.Compositor

	scale       int
	paused      bool
	forceLost   bool
	forceTarget bool
	silhouette  bool

	frame *image.RGBA
	snap  telemetry.Snapshot
}

// New constructs a Game for the provided runtime.
func New(rt *Runtime, scale int) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := rt.Size()
	cfg := rt.Compositor.Config()
	alt := cfg
	alt.BlendScope = hud.BlendSilhouette
	if cfg.BlendScope == hud.BlendSilhouette {
		alt.BlendScope = hud.BlendFrame
	}
	g := &Game{
		rt:      rt,
		painter: render.NewFramePainter(size.W, size.H),
		scopes:  [2]*hud.Compositor{rt.Compositor, hud.New(alt)},
		scale:   scale,
	}
	g.panel = ui.NewPanel(panelWidth,
		ui.Toggle{Label: "Force link lost [L]", On: func() bool { return g.forceLost }, Flip: func() { g.forceLost = !g.forceLost }},
		ui.Toggle{Label: "Force target [T]", On: func() bool { return g.forceTarget }, Flip: func() { g.forceTarget = !g.forceTarget }},
		ui.Toggle{Label: "Alt blend scope [B]", On: func() bool { return g.silhouette }, Flip: func() { g.silhouette = !g.silhouette }},
		ui.Toggle{Label: "Paused [Space]", On: func() bool { return g.paused }, Flip: func() { g.paused = !g.paused }},
	)
	return g
}

// Update handles input and composites the next frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.forceLost = !g.forceLost
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.forceTarget = !g.forceTarget
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.silhouette = !g.silhouette
	}

	if !g.paused || g.frame == nil {
		g.snap = g.rt.Store.Snapshot()
	}
	snap := g.snap
	snap.LostConnection = snap.LostConnection || g.forceLost
	snap.TargetFound = snap.TargetFound || g.forceTarget

	g.panel.Update(snap.Parameters(), g.rt.Size().W*g.scale)

	c := g.scopes[0]
	if g.silhouette {
		c = g.scopes[1]
	}
	frame, err := g.rt.Render(c, snap)
	if err != nil {
		return err
	}
	g.frame = frame
	g.rt.Publish(frame)
	return nil
}

// Draw renders the current frame and the panel.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.frame, g.scale)
	size := g.rt.Size()
	g.panel.Draw(screen, size.W*g.scale, size.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.rt.Size()
	return s.W*g.scale + g.panel.Width(), s.H * g.scale
}
