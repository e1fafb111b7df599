package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListPostsOptions filters and pages a feed listing.
type ListPostsOptions struct {
	Type    PostType
	Tag     string
	Search  string
	Page    int
	PerPage int
}

// ListPosts fetches one page of the feed, pinned posts first as the backend
// orders them.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) ([]Post, error) {
	query := url.Values{}
	if opts.Type != "" {
		query.Set("type", string(opts.Type))
	}
	if opts.Tag != "" {
		query.Set("tag", opts.Tag)
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	var posts []Post
	if err := c.doJSON(ctx, http.MethodGet, "/posts", query, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post by ID.
func (c *Client) GetPost(ctx context.Context, id string) (Post, error) {
	var post Post
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, nil, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// CreatePostRequest carries the fields a new post needs.
type CreatePostRequest struct {
	Body        string       `json:"body"`
	Type        PostType     `json:"type"`
	Tag         string       `json:"tag,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Private     bool         `json:"private,omitempty"`
}

// CreatePost publishes a new post and returns the stored record.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (Post, error) {
	var post Post
	if err := c.doJSON(ctx, http.MethodPost, "/posts", nil, req, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// LikePost registers a like for the acting user.
func (c *Client) LikePost(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/like", url.PathEscape(id)), nil, nil, nil)
}
