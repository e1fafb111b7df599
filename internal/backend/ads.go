package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// ActiveAds returns ads whose schedule window covers the given moment.
func (c *Client) ActiveAds(ctx context.Context, now time.Time) ([]Ad, error) {
	query := url.Values{}
	query.Set("active_at", now.UTC().Format(time.RFC3339))

	var ads []Ad
	if err := c.doJSON(ctx, http.MethodGet, "/ads", query, nil, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// RecordAdClick reports a click so the backend's CTR inputs stay current.
func (c *Client) RecordAdClick(ctx context.Context, adID string) error {
	return c.doJSON(ctx, http.MethodPost, "/ads/"+url.PathEscape(adID)+"/click", nil, nil, nil)
}
