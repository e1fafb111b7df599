package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"plaza/internal/localstore"
)

func newMarketCommand(ctx *commandContext) *cobra.Command {
	var market string
	var date string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Show market prices",
		Long: "Market lists price rows for a date. An explicitly chosen date is\n" +
			"remembered for the rest of the day; without one, the last choice or\n" +
			"today is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}

			selected := date
			err = ctx.withStore(func(store *localstore.Store) error {
				if selected != "" {
					return store.SaveSelectedMarketDate(cmd.Context(), selected)
				}
				cached, ok, err := store.SelectedMarketDate(cmd.Context())
				if err != nil {
					return err
				}
				if ok {
					selected = cached
				}
				return nil
			})
			if err != nil {
				return err
			}
			if selected == "" {
				selected = time.Now().Format("2006-01-02")
			}

			if _, err := time.Parse("2006-01-02", selected); err != nil {
				return fmt.Errorf("invalid date %q: use YYYY-MM-DD", selected)
			}

			rows, err := client.MarketPrices(cmd.Context(), market, selected)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, rows)
			}

			printer := message.NewPrinter(language.English)
			tableRows := make([][]string, 0, len(rows))
			for _, row := range rows {
				change := "-"
				if row.PreviousAverage > 0 {
					delta := (row.AveragePrice - row.PreviousAverage) / row.PreviousAverage * 100
					change = printer.Sprintf("%+.1f%%", delta)
				}
				tableRows = append(tableRows, []string{
					row.Market,
					row.Item,
					printer.Sprintf("%.0f", row.MinPrice),
					printer.Sprintf("%.0f", row.MaxPrice),
					printer.Sprintf("%.0f", row.AveragePrice),
					printer.Sprintf("%d", row.Volume),
					change,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prices for %s\n", selected)
			fmt.Fprintln(out, renderTable(
				[]string{"Market", "Item", "Min", "Max", "Average", "Volume", "Change"},
				tableRows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&market, "market", "", "Restrict to one market")
	cmd.Flags().StringVar(&date, "date", "", "Date to show (YYYY-MM-DD); remembered for the day")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit rows as JSON")
	return cmd
}
