package backend

import "context"

// Questions lists question posts, newest first.
func (c *Client) Questions(ctx context.Context, opts ListPostsOptions) ([]Post, error) {
	opts.Type = PostQuestion
	return c.ListPosts(ctx, opts)
}

// Answers returns the comments answering a question post, masked for the
// viewer. Question authors often mark answers secret, so masking is applied
// here rather than left to each caller.
func (c *Client) Answers(ctx context.Context, questionID string, viewer Viewer) ([]Comment, error) {
	comments, err := c.ListComments(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return MaskSecretComments(comments, viewer), nil
}
