package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"plaza/internal/config"
	"plaza/internal/deps"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check VIDEO",
		Short: "Report whether a video needs compression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compressor, err := ctx.videoCompressor()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requireBinaries(
				deps.Requirement{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "required for media inspection"},
			); err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path %q: %w", args[0], err)
			}

			verdict, err := compressor.Check(cmd.Context(), path)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, verdict)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"File", filepath.Base(path)},
					{"Needs compression", yesNo(verdict.NeedsCompression)},
					{"Resolution", fmt.Sprintf("%dx%d", verdict.Width, verdict.Height)},
					{"Duration", verdict.Duration.Round(time.Second).String()},
					{"Size", formatBytes(verdict.SizeBytes)},
					{"Reason", verdict.Reason},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the verdict as JSON")
	return cmd
}
