package client

import (
	"context"
	"net/http"
	"net/url"

	"fullpicture/types"
)

func commentsPath(perspectiveID string) string {
	return "/api/perspectives/" + url.PathEscape(perspectiveID) + "/comments"
}

// Comments lists the comments on a perspective, newest first
func (c *Client) Comments(ctx context.Context, perspectiveID string) ([]types.Comment, error) {
	var out []types.Comment
	if err := c.doJSONRequest(ctx, http.MethodGet, commentsPath(perspectiveID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostComment creates a comment. It is not retried: a failed POST may or may
// not have been stored.
func (c *Client) PostComment(ctx context.Context, perspectiveID, content string) (*types.Comment, error) {
	var out types.Comment
	payload := types.NewCommentRequest{Content: content}
	if err := c.doJSONRequest(ctx, http.MethodPost, commentsPath(perspectiveID), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CommentCount returns the number of comments on a perspective
func (c *Client) CommentCount(ctx context.Context, perspectiveID string) (int, error) {
	var out types.CommentCount
	if err := c.doJSONRequest(ctx, http.MethodGet, commentsPath(perspectiveID)+"/count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
