package client

import (
	"context"
	"net/http"
	"net/url"

	"fullpicture/types"
)

// Perspectives searches perspectives matching query
func (c *Client) Perspectives(ctx context.Context, query string) ([]types.Perspective, error) {
	var out []types.Perspective
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/perspectives", url.Values{"query": {query}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recent fetches the homepage feed
func (c *Client) Recent(ctx context.Context) ([]types.Perspective, error) {
	var out []types.Perspective
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/recent", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sources lists the source names covering query
func (c *Client) Sources(ctx context.Context, query string) ([]string, error) {
	var out []string
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/sources", url.Values{"query": {query}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Timeline fetches perspectives matching query grouped by day
func (c *Client) Timeline(ctx context.Context, query string) ([]types.TimelineEntry, error) {
	var out []types.TimelineEntry
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/timeline", url.Values{"query": {query}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
