package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"plaza/internal/config"
	"plaza/internal/media/imageconv"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var maxWidth int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "convert IMAGE...",
		Short: "Convert images to size-bounded PNG files",
		Long: "Convert normalizes one or more images into PNG files no wider than the\n" +
			"configured maximum. HEIC/HEIF photos are decoded first; a photo that\n" +
			"cannot be decoded is dropped, while other unreadable files pass through\n" +
			"unmodified.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			converter, err := ctx.imageConverter()
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve path %q: %w", arg, err)
				}
				paths = append(paths, path)
			}

			out := cmd.OutOrStdout()
			printer := newProgressPrinter(out)
			results, err := converter.ConvertBatch(cmd.Context(), paths, imageconv.BatchOptions{
				MaxWidth: maxWidth,
				OnProgress: func(index, total int, name string, status imageconv.BatchStatus) {
					printer.Update(fmt.Sprintf("[%d/%d] %s: %s", index+1, total, name, status))
				},
			})
			printer.Finish()
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, results)
			}

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				outcome := fmt.Sprintf("%dx%d", result.Width, result.Height)
				if result.Passthrough {
					outcome = "passed through"
				}
				rows = append(rows, []string{
					filepath.Base(result.SourcePath),
					filepath.Base(result.Path),
					outcome,
					yesNo(result.FromHEIC),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Source", "Output", "Result", "HEIC"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			if dropped := len(paths) - len(results); dropped > 0 {
				fmt.Fprintf(out, "%d file(s) could not be converted and were dropped\n", dropped)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "Maximum output width in pixels (defaults to configuration)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}
