package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"plaza/internal/config"
	"plaza/internal/deps"
	"plaza/internal/media/videoconv"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var maxHeight int
	var bitrate int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "compress VIDEO",
		Short: "Compress a video into a playable, size-bounded format",
		Long: "Compress re-encodes a video to the configured resolution and bitrate\n" +
			"bounds using the best codec the installed ffmpeg supports. Sources that\n" +
			"are already small and compatible are returned untouched.",
		Args: cobra.ExactArgs(1),
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
				deps.Requirement{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "required for video compression"},
				deps.Requirement{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "required for media inspection"},
			); err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path %q: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			printer := newProgressPrinter(out)
			result, err := compressor.Compress(cmd.Context(), path, videoconv.Options{
				MaxHeight:   maxHeight,
				BitrateKbps: bitrate,
				OnProgress: func(percent float64) {
					printer.Update(fmt.Sprintf("compressing %s: %.1f%%", filepath.Base(path), percent))
				},
			})
			printer.Finish()
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}
			if !result.Reencoded {
				fmt.Fprintf(out, "%s is already compatible (%dx%d, %s); nothing to do\n",
					filepath.Base(path), result.Width, result.Height, formatBytes(result.SizeBytes))
				return nil
			}
			fmt.Fprintf(out, "Wrote %s (%dx%d, %s, %s)\n",
				result.Path, result.Width, result.Height, result.Codec, formatBytes(result.SizeBytes))
			if err := ctx.notifier().NotifyConversionCompleted(cmd.Context(), filepath.Base(result.Path), "video"); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "notification failed: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxHeight, "max-height", 0, "Maximum output height in pixels (defaults to configuration)")
	cmd.Flags().IntVar(&bitrate, "bitrate", 0, "Video bitrate in kbit/s (defaults to configuration)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}
