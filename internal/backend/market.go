package backend

import (
	"context"
	"net/http"
	"net/url"
)

// MarketPrices returns the price rows for one market on one date
// (YYYY-MM-DD). An empty market returns every market's rows for the date.
func (c *Client) MarketPrices(ctx context.Context, market, date string) ([]MarketPriceRow, error) {
	query := url.Values{}
	query.Set("date", date)
	if market != "" {
		query.Set("market", market)
	}

	var rows []MarketPriceRow
	if err := c.doJSON(ctx, http.MethodGet, "/market/prices", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
