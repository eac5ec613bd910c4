package space

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"issues-import/internal/transport"
)

// ListPageSize is the $top value of list requests.
const ListPageSize = 100

const (
	importFields = "message,created(externalId,issue(id)),updated(externalId,issue(id)),skipped(externalId,issue(id))"
	listFields   = "next,data(id,name)"
)

// Client is the subset of the destination HTTP API the uploader uses.
type Client interface {
	ImportIssues(ctx context.Context, project ProjectIdentifier, req ImportRequest) (*ImportResult, error)
	ListBoards(ctx context.Context, project ProjectIdentifier, skip string, top int) (*Batch, error)
	ListHierarchicalTags(ctx context.Context, project ProjectIdentifier, skip string, top int) (*Batch, error)
	AddIssueToBoard(ctx context.Context, boardID, issueID string) error
	AddIssueTag(ctx context.Context, project ProjectIdentifier, issueID, tagID string) error
}

// Config holds the destination server settings.
type Config struct {
	ServerURL string
	Token     string
	// Debug logs every request and response line.
	Debug bool
}

type restClient struct {
	apiURL string
	api    *transport.Client
}

// NewClient creates a client authenticated with a permanent token.
func NewClient(cfg Config) Client {
	return &restClient{
		apiURL: strings.TrimRight(cfg.ServerURL, "/") + "/api/http",
		api: &transport.Client{
			HTTP:  transport.NewHTTPClient(),
			Auth:  transport.Bearer(cfg.Token),
			Debug: cfg.Debug,
		},
	}
}

func (c *restClient) projectURL(project ProjectIdentifier, path string) string {
	return fmt.Sprintf("%s/projects/%s/planning/%s", c.apiURL, url.PathEscape(project.String()), path)
}

func (c *restClient) ImportIssues(ctx context.Context, project ProjectIdentifier, req ImportRequest) (*ImportResult, error) {
	importURL := c.projectURL(project, "issues/import") + "?$fields=" + url.QueryEscape(importFields)
	var result ImportResult
	if err := c.api.PostJSON(ctx, importURL, req, &result); err != nil {
		return nil, describe(err)
	}
	return &result, nil
}

func (c *restClient) ListBoards(ctx context.Context, project ProjectIdentifier, skip string, top int) (*Batch, error) {
	return c.list(ctx, c.projectURL(project, "boards"), skip, top)
}

func (c *restClient) ListHierarchicalTags(ctx context.Context, project ProjectIdentifier, skip string, top int) (*Batch, error) {
	return c.list(ctx, c.projectURL(project, "tags/hierarchical"), skip, top)
}

func (c *restClient) list(ctx context.Context, base, skip string, top int) (*Batch, error) {
	params := url.Values{}
	if skip != "" {
		params.Set("$skip", skip)
	}
	params.Set("$top", fmt.Sprint(top))
	params.Set("$fields", listFields)

	var batch Batch
	if err := c.api.GetJSON(ctx, base+"?"+params.Encode(), &batch); err != nil {
		return nil, describe(err)
	}
	return &batch, nil
}

func (c *restClient) AddIssueToBoard(ctx context.Context, boardID, issueID string) error {
	body := boardIssueRequest{Board: "id:" + boardID, Issue: "id:" + issueID}
	if err := c.api.PostJSON(ctx, c.apiURL+"/projects/planning/boards/issues", body, nil); err != nil {
		return describe(err)
	}
	return nil
}

func (c *restClient) AddIssueTag(ctx context.Context, project ProjectIdentifier, issueID, tagID string) error {
	tagURL := c.projectURL(project, fmt.Sprintf("issues/%s/tags/%s", url.PathEscape("id:"+issueID), url.PathEscape(tagID)))
	if err := c.api.PostJSON(ctx, tagURL, nil, nil); err != nil {
		return describe(err)
	}
	return nil
}

func describe(err error) error {
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	switch statusErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("Space authentication failed, check --spaceToken and its permissions: %w", err)
	case http.StatusNotFound:
		return fmt.Errorf("Space resource not found, check --spaceServer and --spaceProject: %w", err)
	default:
		return fmt.Errorf("Space API returned status %d: %w", statusErr.Code, err)
	}
}
