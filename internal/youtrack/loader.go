// Package youtrack loads issues from a YouTrack instance. It also serves the
// generic External source.
package youtrack

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"issues-import/internal/issues"
	"issues-import/internal/loader"
	"issues-import/internal/logging"
)

const sourceName = "YouTrack"

// DefaultQuery is used when no query was given.
const DefaultQuery = "sort by: created asc"

type Loader struct {
	client   Client
	baseURL  string
	pageSize int
	log      zerolog.Logger
}

// NewLoader creates a YouTrack loader. A nil client is built from cfg.
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

func (l *Loader) Load(ctx context.Context, params loader.Params) loader.Result {
	p, ok := params.(loader.YouTrackParams)
	if !ok {
		return loader.WrongParams(sourceName, params)
	}
	return l.LoadYouTrack(ctx, p)
}

// LoadYouTrack retrieves every issue matching p.Query, or DefaultQuery.
func (l *Loader) LoadYouTrack(ctx context.Context, p loader.YouTrackParams) loader.Result {
	query := p.Query
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}

	fetched, err := l.fetchAll(ctx, query)
	if err != nil {
		logging.ExternalServiceError(l.log, err,
			"failed to retrieve issues from YouTrack. Does --youtrackServer match the URL in your YouTrack domain settings?")
		return loader.FromError(err)
	}
	return loader.Collect(l.log, sourceName, fetched, l.mapIssue)
}

func (l *Loader) mapIssue(item IssueDTO) (issues.IssueTemplate, error) {
	return MapIssue(item, l.baseURL)
}

// fetchAll reads pages until the server returns a short one.
func (l *Loader) fetchAll(ctx context.Context, query string) ([]IssueDTO, error) {
	var all []IssueDTO
	for skip := 0; ; skip += l.pageSize {
		page, err := l.client.ListIssues(ctx, query, skip, l.pageSize)
		if err != nil {
			return nil, fmt.Errorf("list issues at offset %d: %w", skip, err)
		}
		all = append(all, page...)
		l.log.Debug().Int("retrieved", len(all)).Msg("Fetched YouTrack page")
		if len(page) < l.pageSize {
			return all, nil
		}
	}
}
