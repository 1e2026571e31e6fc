package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) equalizeCmd() *cobra.Command {
	var bands bandFlags

	cmd := &cobra.Command{
		Use:   "equalize <input> <output.wav>",
		Short: "Apply band gains to an audio file and write a mono WAV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := bands.resolve()
			if err != nil {
				return err
			}

			e, clip, err := a.newEngine(args[0], bs)
			if err != nil {
				return err
			}
			out, err := e.Process()
			if err != nil {
				return err
			}

			if err := a.writeWAV(args[1], out, clip.SampleRate); err != nil {
				return err
			}

			l := e.Levels()
			a.logger.Info("wrote output",
				zap.String("file", args[1]),
				zap.Int("bands", len(bs)),
				zap.Int("bit_depth", a.cfg.BitDepth),
				zap.Stringer("dither", a.cfg.DitherType()))
			if l.Output.Clipped > 0 {
				a.logger.Warn("output clipped", zap.Int("samples", l.Output.Clipped))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s -> %s\n", args[0], args[1])
			fmt.Fprintf(w, "  input  rms %s  peak %s\n", formatDB(l.Input.RMS_dB), formatDB(l.Input.Peak_dB))
			fmt.Fprintf(w, "  output rms %s  peak %s\n", formatDB(l.Output.RMS_dB), formatDB(l.Output.Peak_dB))
			fmt.Fprintf(w, "  change %s\n", formatDB(l.GainDB))
			return nil
		},
	}

	bands.register(cmd.Flags())
	exportFlags(cmd.Flags())
	return cmd
}
