package jira

import (
	"context"
	"strings"
)

// DefaultPageSize is the number of issues requested per search page.
const DefaultPageSize = 50

// Client is the interface for interacting with Jira.
type Client interface {
	SearchIssues(ctx context.Context, jql string, startAt int, maxResults int) (*SearchResponse, error)
}

// Config holds the authentication and connection settings for Jira.
type Config struct {
	BaseURL string

	// User and Token together select basic auth. Token alone is sent as a
	// personal access token. Neither means anonymous access.
	User  string
	Token string

	PageSize int
	Debug    bool
}

// NewClient creates a new Jira REST client based on the provided configuration.
func NewClient(cfg Config) Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return newRESTClient(cfg)
}
