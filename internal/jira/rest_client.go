package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"issues-import/internal/transport"
)

const searchFields = "summary,description,assignee,status,project"

type restClient struct {
	cfg Config
	api *transport.Client
}

func newRESTClient(cfg Config) *restClient {
	return &restClient{
		cfg: cfg,
		api: &transport.Client{
			HTTP:  transport.NewHTTPClient(),
			Auth:  authorizer(cfg),
			Debug: cfg.Debug,
		},
	}
}

func authorizer(cfg Config) transport.Authorizer {
	switch {
	case cfg.User != "" && cfg.Token != "":
		return transport.Basic(cfg.User, cfg.Token)
	case cfg.Token != "":
		return transport.Bearer(cfg.Token)
	default:
		return transport.Anonymous
	}
}

func (c *restClient) SearchIssues(ctx context.Context, jql string, startAt int, maxResults int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("fields", searchFields)

	searchURL := fmt.Sprintf("%s/rest/api/2/search?%s", c.cfg.BaseURL, params.Encode())
	log.Debug().Str("url", searchURL).Str("jql", jql).Int("startAt", startAt).Msg("Jira search details")

	var result SearchResponse
	if err := c.api.GetJSON(ctx, searchURL, &result); err != nil {
		return nil, describe(err)
	}
	return &result, nil
}

func describe(err error) error {
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	switch statusErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("Jira authentication failed (401/403), check --jiraUser and --jiraApiToken: %w", err)
	case http.StatusBadRequest:
		return fmt.Errorf("Jira rejected the query, check --jiraQuery: %w", err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("Jira rate limit exceeded (429): %w", err)
	default:
		return fmt.Errorf("Jira API returned status %d: %w", statusErr.Code, err)
	}
}
