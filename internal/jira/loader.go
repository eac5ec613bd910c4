// Package jira loads issues from a Jira server through its REST API.
package jira

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"issues-import/internal/issues"
	"issues-import/internal/loader"
	"issues-import/internal/logging"
)

const sourceName = "Jira"

// Loader pages through a JQL search and converts every issue.
type Loader struct {
	client   Client
	baseURL  string
	pageSize int
	log      zerolog.Logger
}

// NewLoader creates a Jira loader. A nil client is built from cfg.
func NewLoader(cfg Config, client Client, l zerolog.Logger) *Loader {
	if client == nil {
		client = NewClient(cfg)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Loader{
		client:   client,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		pageSize: pageSize,
		log:      l.With().Str("source", sourceName).Logger(),
	}
}

func (l *Loader) Name() string { return sourceName }

// Load implements loader.Loader.
func (l *Loader) Load(ctx context.Context, params loader.Params) loader.Result {
	p, ok := params.(loader.JiraParams)
	if !ok {
		return loader.WrongParams(sourceName, params)
	}
	return l.LoadJira(ctx, p)
}

// LoadJira retrieves all issues matching p.Query.
func (l *Loader) LoadJira(ctx context.Context, p loader.JiraParams) loader.Result {
	fetched, err := l.fetchAll(ctx, p.Query)
	if err != nil {
		logging.ExternalServiceError(l.log, err, "failed to retrieve issues from Jira")
		return loader.FromError(err)
	}
	return loader.Collect(l.log, sourceName, fetched, l.mapIssue)
}

func (l *Loader) mapIssue(item IssueDTO) (issues.IssueTemplate, error) {
	return MapIssue(item, l.baseURL)
}

// fetchAll follows startAt/total pagination until every issue was retrieved.
func (l *Loader) fetchAll(ctx context.Context, jql string) ([]IssueDTO, error) {
	var all []IssueDTO
	current, total := 0, 0

	for {
		resp, err := l.client.SearchIssues(ctx, jql, current, l.pageSize)
		if err != nil {
			return nil, fmt.Errorf("search failed at offset %d: %w", current, err)
		}
		total = resp.Total
		all = append(all, resp.Issues...)
		current += len(resp.Issues)

		l.log.Debug().Int("retrieved", current).Int("total", total).Msg("Fetched Jira page")

		// An empty page before total is reached means the result set shrank
		// while paging.
		if current >= total || len(resp.Issues) == 0 {
			break
		}
	}
	return all, nil
}
