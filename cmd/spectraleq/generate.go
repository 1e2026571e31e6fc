package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/spectral-eq/dsp/core"
	"github.com/cwbudde/spectral-eq/dsp/signal"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		kind       string
		freqs      []float64
		toHz       float64
		duration   float64
		sampleRate int
		amplitude  float64
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "generate <output.wav>",
		Short: "Write a test signal (sine, tones, sweep or noise) to a mono WAV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples := int(duration * float64(sampleRate))
			g := signal.NewGenerator(
				[]core.ProcessorOption{core.WithSampleRate(float64(sampleRate))},
				signal.WithSeed(seed))

			var (
				x   []float64
				err error
			)
			switch kind {
			case "sine":
				if len(freqs) == 0 {
					return fmt.Errorf("sine needs --freq")
				}
				x, err = g.Sine(freqs[0], amplitude, samples)
			case "tones":
				x, err = g.MultiTone(freqs, amplitude, samples)
			case "sweep":
				if len(freqs) == 0 {
					return fmt.Errorf("sweep needs --freq as start frequency")
				}
				x, err = g.LogSweep(freqs[0], toHz, amplitude, samples)
			case "noise":
				x, err = g.WhiteNoise(amplitude, samples)
			default:
				return fmt.Errorf("unknown signal kind %q (sine, tones, sweep, noise)", kind)
			}
			if err != nil {
				return err
			}

			if err := a.writeWAV(args[0], x, sampleRate); err != nil {
				return err
			}

			a.logger.Info("generated",
				zap.String("file", args[0]),
				zap.String("kind", kind),
				zap.Int("samples", len(x)),
				zap.Int("sample_rate", sampleRate))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d samples at %d Hz)\n",
				args[0], kind, len(x), sampleRate)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&kind, "kind", "k", "sine", "signal kind: sine, tones, sweep or noise")
	fs.Float64SliceVarP(&freqs, "freq", "f", []float64{1000}, "tone frequencies in Hz, or the sweep start")
	fs.Float64Var(&toHz, "to", 16000, "sweep end frequency in Hz")
	fs.Float64VarP(&duration, "duration", "d", 2, "length in seconds")
	fs.IntVarP(&sampleRate, "sample-rate", "r", 44100, "sample rate in Hz")
	fs.Float64VarP(&amplitude, "amplitude", "a", 0.5, "peak amplitude")
	fs.Int64Var(&seed, "seed", 1, "noise seed")
	exportFlags(fs)
	return cmd
}
