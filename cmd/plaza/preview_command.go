package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plaza/internal/backend"
	"plaza/internal/localstore"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "preview URL",
		Short: "Fetch link-preview metadata for a URL",
		Long: "Preview asks the backend to extract title, description, and image\n" +
			"metadata from a URL. Results are cached locally for an hour.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			var preview backend.LinkPreview
			err := ctx.withStore(func(store *localstore.Store) error {
				if !refresh {
					cached, ok, err := store.LinkPreview(cmd.Context(), target)
					if err != nil {
						return err
					}
					if ok {
						preview = backend.LinkPreview{
							URL:         target,
							Title:       cached.Title,
							Description: cached.Description,
							ImageURL:    cached.ImageURL,
						}
						return nil
					}
				}

				client, err := ctx.backendClient()
				if err != nil {
					return err
				}
				fetched, err := client.FetchLinkPreview(cmd.Context(), target)
				if err != nil {
					return err
				}
				preview = fetched
				return store.SaveLinkPreview(cmd.Context(), target, localstore.Preview{
					Title:       fetched.Title,
					Description: fetched.Description,
					ImageURL:    fetched.ImageURL,
				})
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, preview)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:       %s\n", preview.Title)
			fmt.Fprintf(out, "Description: %s\n", preview.Description)
			fmt.Fprintf(out, "Image:       %s\n", preview.ImageURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the local cache")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the preview as JSON")
	return cmd
}
