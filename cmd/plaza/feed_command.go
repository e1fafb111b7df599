package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"plaza/internal/adrank"
	"plaza/internal/backend"
	"plaza/internal/localstore"
)

func newFeedCommand(ctx *commandContext) *cobra.Command {
	var postType string
	var tag string
	var search string
	var page int
	var withAds bool
	var session string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the community feed",
		Long: "Feed lists posts from the backend, optionally filtered by type, tag, or\n" +
			"search term. With --with-ads the best-ranked active ad is shown above\n" +
			"the posts and its local impression counter is bumped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}

			posts, err := client.ListPosts(cmd.Context(), backend.ListPostsOptions{
				Type:   backend.PostType(postType),
				Tag:    tag,
				Search: search,
				Page:   page,
			})
			if err != nil {
				return err
			}

			var topAd *adrank.Scored
			if withAds {
				topAd, err = pickTopAd(ctx, cmd, client, session)
				if err != nil {
					return err
				}
			}

			if jsonOut {
				payload := struct {
					Posts []backend.Post `json:"posts"`
					Ad    *adrank.Scored `json:"ad,omitempty"`
				}{Posts: posts, Ad: topAd}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if topAd != nil {
				fmt.Fprintf(out, "Sponsored: %s (score %.1f)\n\n", topAd.ID, topAd.Score)
			}

			rows := make([][]string, 0, len(posts))
			for _, post := range posts {
				body := ellipsize(post.Body, 60)
				pin := ""
				if post.Pinned {
					pin = "*"
				}
				rows = append(rows, []string{
					pin,
					string(post.Type),
					post.AuthorName,
					body,
					strconv.Itoa(post.Likes),
					strconv.Itoa(post.Comments),
					post.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"", "Type", "Author", "Body", "Likes", "Replies", "Posted"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&postType, "type", "", "Filter by post type: general, question, or classified")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&search, "search", "", "Search term")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().BoolVar(&withAds, "with-ads", false, "Insert the best-ranked active ad")
	cmd.Flags().StringVar(&session, "session", "", "Browsing session ID for impression counting (defaults to a new one)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the feed as JSON")
	return cmd
}

// pickTopAd fetches active ads, ranks them against the session's impression
// history, bumps the winner's counter, and returns it. A feed with no active
// ads gets none.
func pickTopAd(ctx *commandContext, cmd *cobra.Command, client *backend.Client, session string) (*adrank.Scored, error) {
	now := time.Now()
	ads, err := client.ActiveAds(cmd.Context(), now)
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, nil
	}
	if session == "" {
		session = uuid.NewString()
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}

	var top *adrank.Scored
	err = ctx.withStore(func(store *localstore.Store) error {
		impressions, err := store.SessionImpressions(cmd.Context(), session)
		if err != nil {
			return err
		}

		candidates := make([]adrank.Candidate, 0, len(ads))
		for _, ad := range ads {
			candidates = append(candidates, adrank.Candidate{
				ID:          ad.ID,
				Priority:    ad.Priority,
				EndDate:     ad.EndDate,
				Impressions: ad.Impressions,
				Clicks:      ad.Clicks,
			})
		}
		ranked := adrank.Rank(candidates, adrank.WeightsFromConfig(cfg), adrank.Inputs{
			Now:              now,
			LocalImpressions: impressions,
			Rand:             newJitterRand(),
		})
		if len(ranked) == 0 {
			return nil
		}
		top = &ranked[0]
		_, err = store.BumpImpression(cmd.Context(), session, top.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return top, nil
}
