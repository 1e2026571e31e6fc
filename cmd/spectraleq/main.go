// Command spectraleq reshapes the spectrum of audio files and draws their
// spectrograms.
//
// Usage:
//
//	spectraleq [command] [flags]
//
// Examples:
//
//	spectraleq info song.flac
//	spectraleq equalize in.wav out.wav --band 7800:8200:0 --band 0:80:-6dB
//	spectraleq spectrogram in.mp3 --preset vocal.yaml --color
//	spectraleq play in.ogg --preset vocal.yaml
//	spectraleq preset init vocal.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
