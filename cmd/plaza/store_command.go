package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plaza/internal/localstore"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and maintain local state",
	}
	storeCmd.AddCommand(newStoreScrollCommand(ctx))
	storeCmd.AddCommand(newStoreImpressionsCommand(ctx))
	storeCmd.AddCommand(newStorePruneCommand(ctx))
	storeCmd.AddCommand(newStorePathCommand(ctx))
	return storeCmd
}

func scrollKeyFlags(cmd *cobra.Command, key *localstore.ScrollKey) {
	cmd.Flags().StringVar(&key.Tag, "tag", "", "Tag refinement of the list view")
	cmd.Flags().StringVar(&key.Search, "search", "", "Search refinement of the list view")
	cmd.Flags().StringVar(&key.User, "user", "", "User refinement of the list view")
}

func newStoreScrollCommand(ctx *commandContext) *cobra.Command {
	scrollCmd := &cobra.Command{
		Use:   "scroll",
		Short: "Saved scroll positions",
	}

	var getKey localstore.ScrollKey
	getCmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Read the saved offset for a list view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			getKey.Path = args[0]
			return ctx.withStore(func(store *localstore.Store) error {
				offset, err := store.ScrollPosition(cmd.Context(), getKey)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), offset)
				return nil
			})
		},
	}
	scrollKeyFlags(getCmd, &getKey)

	var setKey localstore.ScrollKey
	setCmd := &cobra.Command{
		Use:   "set PATH OFFSET",
		Short: "Save the offset for a list view",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setKey.Path = args[0]
			offset, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid offset %q", args[1])
			}
			return ctx.withStore(func(store *localstore.Store) error {
				return store.SaveScrollPosition(cmd.Context(), setKey, offset)
			})
		},
	}
	scrollKeyFlags(setCmd, &setKey)

	scrollCmd.AddCommand(getCmd)
	scrollCmd.AddCommand(setCmd)
	return scrollCmd
}

func newStoreImpressionsCommand(ctx *commandContext) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "impressions SESSION_ID",
		Short: "Show or reset a session's ad impression counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := args[0]
			return ctx.withStore(func(store *localstore.Store) error {
				if reset {
					if err := store.ResetSession(cmd.Context(), session); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Reset impression counters for session %s\n", session)
					return nil
				}

				counts, err := store.SessionImpressions(cmd.Context(), session)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(counts))
				for adID, count := range counts {
					rows = append(rows, []string{adID, strconv.Itoa(count)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Ad", "Impressions"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Drop the session's counters")
	return cmd
}

func newStorePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired local-state entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *localstore.Store) error {
				removed, err := store.PruneExpired(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entr%s\n", removed, pluralY(removed))
				return nil
			})
		},
	}
}

func newStorePathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the local database path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *localstore.Store) error {
				fmt.Fprintln(cmd.OutOrStdout(), store.Path())
				return nil
			})
		},
	}
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
