package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/spectral-eq/internal/preset"
)

func (a *app) presetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Create and check band presets",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init <file.yaml>",
		Short: "Write an example preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(args[0]); err == nil {
					return fmt.Errorf("%s exists, use --force to overwrite", args[0])
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			if err := preset.Save(args[0], preset.Example()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	var strict bool
	validateCmd := &cobra.Command{
		Use:   "validate <file.yaml>...",
		Short: "Check presets for invalid or overlapping bands",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				p, err := preset.Load(path, strict)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %q ok, %d bands\n", path, p.Name, len(p.Bands))
			}
			return errors.Join(errs...)
		},
	}
	validateCmd.Flags().BoolVar(&strict, "strict", false, "reject overlapping bands")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
