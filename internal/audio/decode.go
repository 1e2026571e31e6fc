package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

func decodeWAV(r io.ReadSeeker, clip *Clip) ([][]float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth %d", bitDepth)
	}
	clip.SampleRate = int(dec.SampleRate)
	clip.BitDepth = bitDepth

	return deinterleave(buf.Data, int(dec.NumChans), 1/fullScale(bitDepth)), nil
}

func decodeMP3(r io.Reader, clip *Clip) ([][]float64, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	// go-mp3 always yields 16-bit little-endian stereo.
	pcm := make([]int16, len(raw)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}

	clip.SampleRate = dec.SampleRate()
	clip.BitDepth = 16
	return deinterleave(pcm, 2, 1/fullScale(16)), nil
}

func decodeFLAC(r io.Reader, clip *Clip) ([][]float64, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	n := int(info.NChannels)
	bps := int(info.BitsPerSample)
	if n < 1 || bps < 4 || bps > 32 {
		return nil, fmt.Errorf("decoding FLAC: unsupported stream %d ch %d bit", n, bps)
	}
	clip.SampleRate = int(info.SampleRate)
	clip.BitDepth = bps

	scale := 1 / fullScale(bps)
	channels := make([][]float64, n)
	for ch := range channels {
		channels[ch] = make([]float64, 0, int(info.NSamples))
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding FLAC frame: %w", err)
		}
		for ch := range n {
			for _, s := range frame.Subframes[ch].Samples {
				channels[ch] = append(channels[ch], float64(s)*scale)
			}
		}
	}
	return channels, nil
}

func decodeOGG(r io.Reader, clip *Clip) ([][]float64, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	n := reader.Channels()
	clip.SampleRate = reader.SampleRate()

	var pcm []float32
	block := make([]float32, 4096*n)
	for {
		got, err := reader.Read(block)
		pcm = append(pcm, block[:got]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding OGG: %w", err)
		}
		if got == 0 {
			break
		}
	}
	return deinterleave(pcm, n, 1), nil
}
