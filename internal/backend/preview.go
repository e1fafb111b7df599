package backend

import (
	"context"
	"net/http"

	"plaza/internal/services"
)

// FetchLinkPreview invokes the backend's preview function, which fetches the
// URL server-side and extracts title, description, and image metadata.
func (c *Client) FetchLinkPreview(ctx context.Context, target string) (LinkPreview, error) {
	if target == "" {
		return LinkPreview{}, services.Wrap(services.ErrValidation, "backend", "link preview",
			"preview URL is empty", nil)
	}
	request := struct {
		URL string `json:"url"`
	}{URL: target}

	var preview LinkPreview
	if err := c.doJSON(ctx, http.MethodPost, "/functions/link-preview", nil, request, &preview); err != nil {
		return LinkPreview{}, err
	}
	return preview, nil
}
