package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"plaza/internal/adrank"
	"plaza/internal/localstore"
)

func newAdsCommand(ctx *commandContext) *cobra.Command {
	var session string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ads",
		Short: "List active ads in ranked order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			now := time.Now()
			ads, err := client.ActiveAds(cmd.Context(), now)
			if err != nil {
				return err
			}

			var ranked []adrank.Scored
			err = ctx.withStore(func(store *localstore.Store) error {
				impressions := map[string]int{}
				if session != "" {
					impressions, err = store.SessionImpressions(cmd.Context(), session)
					if err != nil {
						return err
					}
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
				ranked = adrank.Rank(candidates, adrank.WeightsFromConfig(cfg), adrank.Inputs{
					Now:              now,
					LocalImpressions: impressions,
					Rand:             newJitterRand(),
				})
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, ranked)
			}

			rows := make([][]string, 0, len(ranked))
			for i, ad := range ranked {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					ad.ID,
					fmt.Sprintf("%.1f", ad.Score),
					fmt.Sprintf("%.0f", ad.Priority),
					ad.EndDate.Local().Format("2006-01-02"),
					strconv.FormatInt(ad.Impressions, 10),
					strconv.FormatInt(ad.Clicks, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Ad", "Score", "Priority", "Ends", "Impressions", "Clicks"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Browsing session ID whose impression history penalizes repeats")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the ranking as JSON")

	cmd.AddCommand(newAdsClickCommand(ctx))
	return cmd
}

func newAdsClickCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "click AD_ID",
		Short: "Record a click on an ad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			return client.RecordAdClick(cmd.Context(), args[0])
		},
	}
}
