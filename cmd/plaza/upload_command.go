package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plaza/internal/backend"
	"plaza/internal/config"
	"plaza/internal/upload"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var postBody string
	var postType string
	var tag string
	var private bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Convert files and upload them to backend storage",
		Long: "Upload runs the full media pipeline: images are converted to bounded\n" +
			"PNGs, videos are compressed, and the results are pushed to backend\n" +
			"storage. With --post-body the uploaded attachments are published as a\n" +
			"new post.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := ctx.imageConverter()
			if err != nil {
				return err
			}
			videos, err := ctx.videoCompressor()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
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

			pipeline := upload.New(images, videos, client, ctx.notifier(), ctx.ensureLogger())

			out := cmd.OutOrStdout()
			printer := newProgressPrinter(out)
			results, err := pipeline.Run(cmd.Context(), paths, upload.Options{
				OnProgress: func(p upload.Progress) {
					printer.Update(fmt.Sprintf("[%d/%d] %s: %s %.0f%%", p.Index+1, p.Total, p.Filename, p.State, p.Percent))
				},
			})
			printer.Finish()
			if err != nil {
				return err
			}

			attachments := make([]backend.Attachment, 0, len(results))
			failed := 0
			for _, result := range results {
				if result.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %v\n", result.SourcePath, result.Err)
					continue
				}
				attachments = append(attachments, result.Attachment)
			}

			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				for _, attachment := range attachments {
					fmt.Fprintf(out, "%s (%s)\n", attachment.URL, attachment.Kind)
				}
			}

			if postBody != "" {
				if len(attachments) == 0 {
					return fmt.Errorf("no attachments uploaded; post not created")
				}
				post, err := client.CreatePost(cmd.Context(), backend.CreatePostRequest{
					Body:        postBody,
					Type:        backend.PostType(postType),
					Tag:         tag,
					Attachments: attachments,
					Private:     private,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Created post %s with %d attachment(s)\n", post.ID, len(attachments))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed", failed, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&postBody, "post-body", "", "Publish the uploads as a new post with this body")
	cmd.Flags().StringVar(&postType, "type", string(backend.PostGeneral), "Post type: general, question, or classified")
	cmd.Flags().StringVar(&tag, "tag", "", "Post tag")
	cmd.Flags().BoolVar(&private, "private", false, "Mark the post private")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit per-file results as JSON")
	return cmd
}
