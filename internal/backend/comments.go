package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListComments fetches every comment on a post, in the backend's order
// (top-level comments with replies nested by parent reference).
func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateCommentRequest carries the fields a new comment needs.
type CreateCommentRequest struct {
	ParentCommentID string `json:"parent_comment_id,omitempty"`
	Body            string `json:"body"`
	Secret          bool   `json:"secret,omitempty"`
}

// CreateComment posts a comment or a reply and returns the stored record.
func (c *Client) CreateComment(ctx context.Context, postID string, req CreateCommentRequest) (Comment, error) {
	var comment Comment
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, &comment); err != nil {
		return Comment{}, err
	}
	return comment, nil
}

// LikeComment registers a like on a comment for the acting user.
func (c *Client) LikeComment(ctx context.Context, commentID string) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/comments/%s/like", url.PathEscape(commentID)), nil, nil, nil)
}
