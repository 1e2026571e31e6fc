package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const paletteLevels = 32

type palette struct {
	color  bool
	styles [paletteLevels]lipgloss.Style
}

func newPalette(color bool) *palette {
	p := &palette{color: color}
	if !color {
		return p
	}
	for i := range p.styles {
		p.styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(heatHex(float64(i) / (paletteLevels - 1))))
	}
	return p
}

func (p *palette) cell(v uint8) string {
	g := Glyph(v)
	if !p.color || g == ' ' {
		return string(g)
	}
	return p.styles[int(v)*(paletteLevels-1)/255].Render(string(g))
}

type rgb struct{ r, g, b float64 }

// heat stops run from dark blue through red and yellow to white.
var heat = []rgb{
	{0, 0, 40},
	{40, 0, 140},
	{200, 20, 60},
	{250, 150, 0},
	{255, 255, 200},
}

// heatHex maps t in [0, 1] onto the heat gradient.
func heatHex(t float64) string {
	t = min(max(t, 0), 1)
	pos := t * float64(len(heat)-1)
	i := min(int(pos), len(heat)-2)
	f := pos - float64(i)
	a, b := heat[i], heat[i+1]
	lerp := func(x, y float64) uint8 { return uint8(x + (y-x)*f + 0.5) }
	return fmt.Sprintf("#%02x%02x%02x", lerp(a.r, b.r), lerp(a.g, b.g), lerp(a.b, b.b))
}
