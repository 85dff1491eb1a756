//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"casque-hud/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Panel renders the telemetry readout to the right of the visor view, with a
// column of bench toggles below it.
type Panel struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []Line
	toggles    []Toggle
	rects      []image.Rectangle
	offsetX    int

	pixel *ebiten.Image
}

// NewPanel constructs a panel of the given width.
func NewPanel(width int, toggles ...Toggle) *Panel {
	if width < 0 {
		width = 0
	}
	p := &Panel{width: width, toggles: toggles}
	if width > 0 {
		p.pixel = ebiten.NewImage(1, 1)
		p.pixel.Fill(color.White)
	}
	return p
}

// Width returns the panel width in screen pixels.
func (p *Panel) Width() int {
	if p == nil {
		return 0
	}
	return p.width
}

// Update refreshes the readout rows and handles toggle clicks.
func (p *Panel) Update(snap core.ParameterSnapshot, offsetX int) {
	if p == nil {
		return
	}
	p.offsetX = offsetX
	p.lines = Lines(snap)
	p.rects = toggleRects(p.width, len(p.lines), len(p.toggles))
	p.handleInput()
}

// Draw paints the panel at offsetX with the given height.
func (p *Panel) Draw(screen *ebiten.Image, offsetX, height int) {
	if p == nil || p.width <= 0 || height <= 0 {
		return
	}
	if p.panel == nil || p.lastHeight != height {
		p.panel = ebiten.NewImage(p.width, height)
		p.lastHeight = height
	}
	p.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	p.drawLines()
	p.drawToggles()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(p.panel, op)
}

func (p *Panel) handleInput() {
	if len(p.toggles) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < p.offsetX {
		return
	}
	px := mx - p.offsetX
	for i, r := range p.rects {
		if pointInRect(px, my, r) && p.toggles[i].Flip != nil {
			p.toggles[i].Flip()
			return
		}
	}
}

func (p *Panel) drawLines() {
	face := basicfont.Face7x13
	for i, line := range p.lines {
		y := panelPadding + i*rowHeight + baseline
		x := panelPadding + 8
		c := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		switch {
		case line.Header:
			x = panelPadding
			c = color.RGBA{R: 200, G: 200, B: 210, A: 255}
		case line.Alert:
			c = color.RGBA{R: 255, G: 80, B: 80, A: 255}
		}
		text.Draw(p.panel, line.Text, face, x, y, c)
	}
}

func (p *Panel) drawToggles() {
	face := basicfont.Face7x13
	for i, t := range p.toggles {
		if i >= len(p.rects) {
			return
		}
		r := p.rects[i]
		text.Draw(p.panel, t.Label, face, panelPadding, r.Min.Y+(r.Dy()+face.Ascent)/2, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		on := t.On != nil && t.On()
		label := "off"
		if on {
			label = "on"
		}
		p.drawButton(r, label, on)
	}
}

func (p *Panel) drawButton(rect image.Rectangle, label string, on bool) {
	if p.pixel == nil {
		return
	}
	bg := color.RGBA{R: 32, G: 34, B: 40, A: 255}
	fg := color.RGBA{R: 150, G: 150, B: 160, A: 255}
	if on {
		bg = color.RGBA{R: 40, G: 110, B: 60, A: 255}
		fg = color.RGBA{R: 230, G: 240, B: 230, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	p.panel.DrawImage(p.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(p.panel, label, face, x, y, fg)
}
