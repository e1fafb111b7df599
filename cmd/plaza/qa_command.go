package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plaza/internal/backend"
)

func newQACommand(ctx *commandContext) *cobra.Command {
	qaCmd := &cobra.Command{
		Use:   "qa",
		Short: "Browse questions and answers",
	}
	qaCmd.AddCommand(newQAListCommand(ctx))
	qaCmd.AddCommand(newQAAnswersCommand(ctx))
	return qaCmd
}

func newQAListCommand(ctx *commandContext) *cobra.Command {
	var search string
	var page int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List question posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			questions, err := client.Questions(cmd.Context(), backend.ListPostsOptions{
				Search: search,
				Page:   page,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, questions)
			}

			rows := make([][]string, 0, len(questions))
			for _, q := range questions {
				body := ellipsize(q.Body, 70)
				rows = append(rows, []string{
					q.ID,
					q.AuthorName,
					body,
					strconv.Itoa(q.Comments),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Author", "Question", "Answers"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Search term")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit questions as JSON")
	return cmd
}

func newQAAnswersCommand(ctx *commandContext) *cobra.Command {
	var moderator bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "answers QUESTION_ID",
		Short: "Show the answers on a question",
		Long: "Answers lists the comments on a question post. Secret answers are\n" +
			"masked unless you wrote them, own the question, or pass --moderator.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}

			question, err := client.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			answers, err := client.Answers(cmd.Context(), question.ID, backend.Viewer{
				UserID:      client.UserID(),
				PostOwnerID: question.AuthorID,
				Moderator:   moderator,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, answers)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Q: %s (%s)\n\n", question.Body, question.AuthorName)
			for _, answer := range answers {
				marker := "-"
				if answer.ParentCommentID != "" {
					marker = "  >"
				}
				secret := ""
				if answer.Secret {
					secret = " [secret]"
				}
				fmt.Fprintf(out, "%s %s%s: %s\n", marker, answer.AuthorName, secret, answer.Body)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&moderator, "moderator", false, "View as a moderator")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit answers as JSON")
	return cmd
}
