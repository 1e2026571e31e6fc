package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/spectral-eq/internal/render"
)

func (a *app) spectrogramCmd() *cobra.Command {
	var (
		bands  bandFlags
		width  int
		height int
		color  bool
	)

	cmd := &cobra.Command{
		Use:   "spectrogram <input>",
		Short: "Draw the spectrogram of an audio file, and of the equalized result when bands are given",
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
			if len(bs) > 0 {
				if _, err := e.Process(); err != nil {
					return err
				}
			}

			in, out, err := e.Spectrograms()
			if err != nil {
				return err
			}

			opts := render.Options{
				Width:      width,
				Height:     height,
				Color:      color,
				SampleRate: float64(clip.SampleRate),
				Title:      clip.Title,
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, render.Heatmap(in, opts))
			if out != nil {
				opts.Title = clip.Title + " (equalized)"
				fmt.Fprintln(w, render.Heatmap(out, opts))
			}
			return nil
		},
	}

	bands.register(cmd.Flags())
	cmd.Flags().IntVar(&width, "width", 72, "heatmap width in cells")
	cmd.Flags().IntVar(&height, "height", 20, "heatmap height in cells")
	cmd.Flags().BoolVar(&color, "color", false, "color the heatmap")
	return cmd
}
