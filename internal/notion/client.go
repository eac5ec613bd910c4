package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"issues-import/internal/transport"
)

const (
	// DefaultBaseURL is the public Notion API.
	DefaultBaseURL = "https://api.notion.com"
	// APIVersion is sent as the Notion-Version header.
	APIVersion = "2022-06-28"

	pageSize = 100
)

// Client is the subset of the Notion API the loader needs.
type Client interface {
	// QueryDatabase returns one page of database rows starting at cursor.
	QueryDatabase(ctx context.Context, databaseID, cursor string) (*QueryResponse, error)
	// QueryDatabaseRaw sends body verbatim as the query.
	QueryDatabaseRaw(ctx context.Context, databaseID string, body json.RawMessage) (*QueryResponse, error)
	// BlockChildren returns one page of the children of a page or block.
	BlockChildren(ctx context.Context, blockID, cursor string) (*BlocksResponse, error)
}

// Config holds the integration token and an optional API base URL.
type Config struct {
	Token   string
	BaseURL string
	Debug   bool
}

type restClient struct {
	baseURL string
	api     *transport.Client
}

// NewClient creates a Notion REST client.
func NewClient(cfg Config) Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &restClient{
		baseURL: base,
		api: &transport.Client{
			HTTP:    transport.NewHTTPClient(),
			Auth:    transport.Bearer(cfg.Token),
			Headers: map[string]string{"Notion-Version": APIVersion},
			Debug:   cfg.Debug,
		},
	}
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size"`
}

func (c *restClient) QueryDatabase(ctx context.Context, databaseID, cursor string) (*QueryResponse, error) {
	return c.query(ctx, databaseID, queryRequest{StartCursor: cursor, PageSize: pageSize})
}

func (c *restClient) QueryDatabaseRaw(ctx context.Context, databaseID string, body json.RawMessage) (*QueryResponse, error) {
	if !json.Valid(body) {
		return nil, errors.New("Notion query is not valid JSON, check --notionQuery")
	}
	return c.query(ctx, databaseID, body)
}

func (c *restClient) query(ctx context.Context, databaseID string, body any) (*QueryResponse, error) {
	queryURL := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, url.PathEscape(databaseID))
	log.Debug().Str("url", queryURL).Msg("Notion database query")

	var resp QueryResponse
	if err := c.api.QueryJSON(ctx, queryURL, body, &resp); err != nil {
		return nil, describe(err)
	}
	return &resp, nil
}

func (c *restClient) BlockChildren(ctx context.Context, blockID, cursor string) (*BlocksResponse, error) {
	params := url.Values{}
	params.Set("page_size", fmt.Sprint(pageSize))
	if cursor != "" {
		params.Set("start_cursor", cursor)
	}
	childrenURL := fmt.Sprintf("%s/v1/blocks/%s/children?%s", c.baseURL, url.PathEscape(blockID), params.Encode())

	var resp BlocksResponse
	if err := c.api.GetJSON(ctx, childrenURL, &resp); err != nil {
		return nil, describe(err)
	}
	return &resp, nil
}

func describe(err error) error {
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	switch statusErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("Notion authentication failed, check --notionToken: %w", err)
	case http.StatusNotFound:
		return fmt.Errorf("Notion object not found, check --notionDatabaseId and that the database is shared with the integration: %w", err)
	case http.StatusBadRequest:
		return fmt.Errorf("Notion rejected the request: %w", err)
	default:
		return fmt.Errorf("Notion API returned status %d: %w", statusErr.Code, err)
	}
}
