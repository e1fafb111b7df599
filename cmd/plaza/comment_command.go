package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plaza/internal/backend"
)

func newCommentsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "comments POST_ID",
		Short: "List the comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			comments, err := client.ListComments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, comments)
			}

			rows := make([][]string, 0, len(comments))
			for _, comment := range comments {
				marker := ""
				if comment.ParentCommentID != "" {
					marker = ">"
				}
				rows = append(rows, []string{
					marker,
					comment.ID,
					comment.AuthorName,
					comment.Body,
					strconv.Itoa(comment.Likes),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"", "ID", "Author", "Comment", "Likes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit comments as JSON")
	return cmd
}

func newCommentCommand(ctx *commandContext) *cobra.Command {
	var parent string
	var secret bool

	cmd := &cobra.Command{
		Use:   "comment POST_ID BODY",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			comment, err := client.CreateComment(cmd.Context(), args[0], backend.CreateCommentRequest{
				ParentCommentID: parent,
				Body:            args[1],
				Secret:          secret,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted comment %s\n", comment.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "reply-to", "", "Comment ID this comment replies to")
	cmd.Flags().BoolVar(&secret, "secret", false, "Only the post owner and moderators can read the comment")
	return cmd
}

func newLikeCommand(ctx *commandContext) *cobra.Command {
	likeCmd := &cobra.Command{
		Use:   "like",
		Short: "Like a post or a comment",
	}

	likeCmd.AddCommand(&cobra.Command{
		Use:   "post POST_ID",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			return client.LikePost(cmd.Context(), args[0])
		},
	})
	likeCmd.AddCommand(&cobra.Command{
		Use:   "comment COMMENT_ID",
		Short: "Like a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			return client.LikeComment(cmd.Context(), args[0])
		},
	})
	return likeCmd
}
