// Package audio loads sound files into mono float64 buffers and writes
// processed buffers back out as WAV.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cwbudde/spectral-eq/dsp/core"
)

// Format names a supported container.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// Clip is a decoded, down-mixed signal.
type Clip struct {
	Samples    []float64 // mono, nominally in [-1, 1]
	SampleRate int
	Channels   int // channel count before down-mixing
	BitDepth   int // source bit depth, 0 when the codec has none
	Format     Format
	Title      string
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "wav", "wave":
		return FormatWAV, nil
	case "mp3":
		return FormatMP3, nil
	case "flac":
		return FormatFLAC, nil
	case "ogg", "oga":
		return FormatOGG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeFile decodes the file at path. The title comes from the ID3 tag for
// MP3 files and from the file name otherwise.
func DecodeFile(path string) (*Clip, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	defer f.Close()

	clip, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	if format == FormatMP3 {
		clip.Title = readTitle(path)
	}
	if clip.Title == "" {
		clip.Title = TitleFromPath(path)
	}
	return clip, nil
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// TitleFromPath derives a display title from a file name: the extension is
// dropped, underscores and dashes become spaces and words are capitalized.
func TitleFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.Join(strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}), " ")
	return titleCaser.String(stem)
}

// Decode reads a whole stream of the given format.
func Decode(r io.ReadSeeker, format Format) (*Clip, error) {
	var (
		channels [][]float64
		clip     = &Clip{Format: format}
		err      error
	)

	switch format {
	case FormatWAV:
		channels, err = decodeWAV(r, clip)
	case FormatMP3:
		channels, err = decodeMP3(r, clip)
	case FormatFLAC:
		channels, err = decodeFLAC(r, clip)
	case FormatOGG:
		channels, err = decodeOGG(r, clip)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	clip.Channels = len(channels)
	clip.Samples = core.Downmix(channels)
	if clip.Samples == nil {
		clip.Samples = []float64{}
	}
	return clip, nil
}

func readTitle(path string) string {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ""
	}
	defer tag.Close()
	return strings.TrimSpace(tag.Title())
}

// deinterleave splits frames of n channels, scaling every sample by scale.
// A partial trailing frame is dropped.
func deinterleave[T int | int16 | int32 | float32](data []T, n int, scale float64) [][]float64 {
	if n < 1 {
		return nil
	}
	frames := len(data) / n
	out := make([][]float64, n)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range n {
			out[ch][i] = float64(data[i*n+ch]) * scale
		}
	}
	return out
}

// fullScale returns the divisor mapping signed bitDepth-bit integers to [-1, 1).
func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}
