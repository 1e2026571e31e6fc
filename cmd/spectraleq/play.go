package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/spectral-eq/internal/playback"
)

func (a *app) playCmd() *cobra.Command {
	var (
		bands    bandFlags
		original bool
	)

	cmd := &cobra.Command{
		Use:   "play <input>",
		Short: "Play an audio file through the band equalizer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := bands.resolve()
			if err != nil {
				return err
			}

			e, clip, err := a.newEngine(args[0], bs)
			if err != nil {
				return err
			}

			samples := clip.Samples
			if !original {
				if samples, err = e.Process(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = playback.Play(ctx, samples, clip.SampleRate, a.logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	bands.register(cmd.Flags())
	cmd.Flags().BoolVar(&original, "original", false, "play the unprocessed signal")
	return cmd
}
