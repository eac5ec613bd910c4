// Package github loads the issues of a GitHub repository. Pull requests are
// skipped.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"github.com/rs/zerolog"

	"issues-import/internal/issues"
	"issues-import/internal/loader"
	"issues-import/internal/logging"
	"issues-import/internal/transport"
)

const (
	sourceName   = "GitHub"
	publicAPIURL = "https://api.github.com"
)

// DefaultPageSize is the per_page value of issue listings.
const DefaultPageSize = 50

// Config holds the GitHub connection settings.
type Config struct {
	// Token is an OAuth or personal access token. Blank means anonymous,
	// which GitHub limits to 60 requests per hour.
	Token string
	// BaseURL selects a GitHub Enterprise server. Blank means github.com.
	BaseURL  string
	PageSize int
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Loader lists repository issues through the REST API.
type Loader struct {
	client   *gh.Client
	pageSize int
	log      zerolog.Logger
}

// NewLoader creates a GitHub loader.
func NewLoader(cfg Config, l zerolog.Logger) (*Loader, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = transport.NewHTTPClient()
	}
	client := gh.NewClient(httpClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" && strings.TrimRight(cfg.BaseURL, "/") != publicAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.BaseURL, err)
		}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Loader{
		client:   client,
		pageSize: pageSize,
		log:      l.With().Str("source", sourceName).Logger(),
	}, nil
}

func (l *Loader) Name() string { return sourceName }

func (l *Loader) Load(ctx context.Context, params loader.Params) loader.Result {
	p, ok := params.(loader.GitHubParams)
	if !ok {
		return loader.WrongParams(sourceName, params)
	}
	return l.LoadGitHub(ctx, p)
}

// LoadGitHub retrieves every issue of p.Owner/p.Repository, oldest first.
func (l *Loader) LoadGitHub(ctx context.Context, p loader.GitHubParams) loader.Result {
	fetched, err := l.fetchAll(ctx, p.Owner, p.Repository)
	if err != nil {
		logging.ExternalServiceError(l.log, err, "failed to retrieve issues from GitHub")
		return loader.FromError(err)
	}
	return loader.Collect(l.log, sourceName, fetched, MapIssue)
}

func (l *Loader) fetchAll(ctx context.Context, owner, repo string) ([]*gh.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: gh.ListOptions{PerPage: l.pageSize},
	}

	var all []*gh.Issue
	for {
		page, resp, err := l.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, describe(owner, repo, err)
		}
		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			all = append(all, issue)
		}
		l.log.Debug().Int("retrieved", len(all)).Int("page", opts.Page).Msg("Fetched GitHub page")
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

func describe(owner, repo string, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("GitHub rate limit exceeded, pass --gitHubToken for a higher limit: %w", err)
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("GitHub authentication failed, check --gitHubToken: %w", err)
		case http.StatusNotFound:
			return fmt.Errorf("GitHub repository %s/%s not found: %w", owner, repo, err)
		}
	}
	return fmt.Errorf("failed to list issues of %s/%s: %w", owner, repo, err)
}

// MapIssue converts a GitHub issue.
func MapIssue(item *gh.Issue) (issues.IssueTemplate, error) {
	if item == nil {
		return issues.IssueTemplate{}, errors.New("nil issue")
	}
	title := item.GetTitle()
	if title == "" {
		return issues.IssueTemplate{}, fmt.Errorf("issue #%d has no title", item.GetNumber())
	}
	if item.State == nil {
		return issues.IssueTemplate{}, fmt.Errorf("issue #%d has no state", item.GetNumber())
	}

	issue := issues.ExternalIssue{
		Summary:      title,
		Description:  item.Body,
		Status:       item.GetState(),
		ExternalID:   strconv.Itoa(item.GetNumber()),
		ExternalName: title,
		ExternalURL:  item.GetHTMLURL(),
	}
	if item.Assignee != nil {
		issue.Assignee = issues.Ptr(item.Assignee.GetLogin())
	}
	return issues.NewTemplate(issue), nil
}
