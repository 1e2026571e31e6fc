package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/spectral-eq/internal/audio"
	timestats "github.com/cwbudde/spectral-eq/stats/time"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input>...",
		Short: "Print format and level information for audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tTITLE\tFORMAT\tRATE\tCH\tBITS\tSECONDS\tRMS\tPEAK\tCREST")

			for _, path := range args {
				clip, err := audio.DecodeFile(path)
				if err != nil {
					return err
				}
				s := timestats.Calculate(clip.Samples)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%.2f\t%s\t%s\t%s\n",
					path, clip.Title, clip.Format, clip.SampleRate, clip.Channels, clip.BitDepth,
					clip.Duration(), formatDB(s.RMS_dB), formatDB(s.Peak_dB), formatDB(s.CrestFactor_dB))
			}
			return tw.Flush()
		},
	}
}
