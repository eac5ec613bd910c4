package youtrack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"issues-import/internal/transport"
)

// DefaultPageSize is the number of issues requested per page.
const DefaultPageSize = 50

const issueFields = "id,idReadable,summary,description,customFields(name,value(name,login,fullName))"

// Client is the interface for interacting with YouTrack.
type Client interface {
	ListIssues(ctx context.Context, query string, skip, top int) ([]IssueDTO, error)
}

// Config holds the connection settings for a YouTrack instance.
type Config struct {
	// BaseURL usually ends with /youtrack for self-hosted servers.
	BaseURL string
	// Token is a permanent token. Blank means guest access.
	Token    string
	PageSize int
	Debug    bool
}

type restClient struct {
	baseURL string
	api     *transport.Client
}

// NewClient creates a YouTrack REST client.
func NewClient(cfg Config) Client {
	return &restClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		api: &transport.Client{
			HTTP:  transport.NewHTTPClient(),
			Auth:  transport.Bearer(cfg.Token),
			Debug: cfg.Debug,
		},
	}
}

func (c *restClient) ListIssues(ctx context.Context, query string, skip, top int) ([]IssueDTO, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("fields", issueFields)
	params.Set("$skip", strconv.Itoa(skip))
	params.Set("$top", strconv.Itoa(top))

	listURL := fmt.Sprintf("%s/api/issues?%s", c.baseURL, params.Encode())
	log.Debug().Str("url", listURL).Int("skip", skip).Msg("YouTrack list details")

	var page []IssueDTO
	if err := c.api.GetJSON(ctx, listURL, &page); err != nil {
		return nil, describe(err)
	}
	return page, nil
}

func describe(err error) error {
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	switch statusErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("YouTrack authentication failed, check --youtrackToken: %w", err)
	case http.StatusNotFound:
		return fmt.Errorf("YouTrack API not found, does --youtrackServer match the URL in your YouTrack domain settings (it usually ends with /youtrack): %w", err)
	case http.StatusBadRequest:
		return fmt.Errorf("YouTrack rejected the query, check --youtrackQuery: %w", err)
	default:
		return fmt.Errorf("YouTrack API returned status %d: %w", statusErr.Code, err)
	}
}
