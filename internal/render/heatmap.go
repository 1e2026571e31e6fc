// Package render draws spectrograms as terminal heatmaps.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/spectral-eq/dsp/stft"
)

var ramp = []rune{' ', '.', ':', '-', '=', '+', '*', '#', '%', '@'}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})
	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})
)

// Options controls the heatmap size and decoration.
type Options struct {
	Width      int // columns of cells, default 72
	Height     int // rows of cells, default 20
	Color      bool
	Title      string
	SampleRate float64 // labels the frequency axis when > 0
}

func (o Options) withDefaults() Options {
	if o.Width < 1 {
		o.Width = 72
	}
	if o.Height < 1 {
		o.Height = 20
	}
	return o
}

// Heatmap renders s with time running left to right and frequency bottom to
// top.
func Heatmap(s *stft.Spectrogram, opts Options) string {
	opts = opts.withDefaults()

	var out strings.Builder
	if opts.Title != "" {
		out.WriteString(titleStyle.Render(opts.Title))
		out.WriteByte('\n')
	}

	if s == nil || s.Len() == 0 || s.Bins == 0 {
		out.WriteString(axisStyle.Render("(signal shorter than one frame)"))
		return out.String()
	}

	grid := Downsample(s.Frames, opts.Width, opts.Height)
	palette := newPalette(opts.Color)
	for r, row := range grid {
		if r > 0 {
			out.WriteByte('\n')
		}
		for _, v := range row {
			out.WriteString(palette.cell(v))
		}
	}

	if opts.SampleRate > 0 {
		out.WriteByte('\n')
		top := s.BinFrequency(s.Bins, opts.SampleRate)
		dur := s.FrameTime(s.Len()-1, opts.SampleRate) + float64(s.FrameLength)/opts.SampleRate
		out.WriteString(axisStyle.Render(fmt.Sprintf("0-%.0f Hz, %.2f s, %d frames x %d bins",
			top, dur, s.Len(), s.Bins)))
	}

	return out.String()
}

// Downsample reduces frames (time x bin) to a rows x cols grid by taking the
// maximum of every cell. Row 0 holds the highest bins. The grid never
// exceeds the input resolution.
func Downsample(frames [][]uint8, cols, rows int) [][]uint8 {
	if len(frames) == 0 || len(frames[0]) == 0 || cols < 1 || rows < 1 {
		return nil
	}

	nt, nb := len(frames), len(frames[0])
	cols = min(cols, nt)
	rows = min(rows, nb)

	grid := make([][]uint8, rows)
	for r := range grid {
		grid[r] = make([]uint8, cols)
		// Row r covers bins from the top down.
		b0 := (rows - 1 - r) * nb / rows
		b1 := (rows - r) * nb / rows
		for c := range cols {
			t0 := c * nt / cols
			t1 := (c + 1) * nt / cols
			var peak uint8
			for t := t0; t < t1; t++ {
				for b := b0; b < b1 && b < len(frames[t]); b++ {
					peak = max(peak, frames[t][b])
				}
			}
			grid[r][c] = peak
		}
	}
	return grid
}

// Glyph returns the ramp character for a quantized level.
func Glyph(v uint8) rune {
	return ramp[int(v)*(len(ramp)-1)/255]
}
