// Package notion loads the cards of a Notion database as issues. Card
// content becomes a Markdown description and configurable columns feed the
// assignee, status and tags.
package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"issues-import/internal/issues"
	"issues-import/internal/loader"
	"issues-import/internal/logging"
)

const (
	sourceName   = "Notion"
	externalName = "Notion"
	pageURL      = "https://notion.so/"
)

var errNoTitle = errors.New("no title property found in Notion database")

type Loader struct {
	client   Client
	exporter *Exporter
	log      zerolog.Logger
}

// card is a database row together with its rendered content.
type card struct {
	page        PageDTO
	description string
}

// NewLoader creates a Notion loader. A nil client is built from cfg.
func NewLoader(cfg Config, client Client, l zerolog.Logger) *Loader {
	if client == nil {
		client = NewClient(cfg)
	}
	ld := &Loader{
		client: client,
		log:    l.With().Str("source", sourceName).Logger(),
	}
	ld.exporter = &Exporter{Children: ld.allChildren, Depth: DefaultDepth}
	return ld
}

func (l *Loader) Name() string { return sourceName }

func (l *Loader) Load(ctx context.Context, params loader.Params) loader.Result {
	p, ok := params.(loader.NotionParams)
	if !ok {
		return loader.WrongParams(sourceName, params)
	}
	return l.LoadNotion(ctx, p)
}

// LoadNotion retrieves every card of p.DatabaseID. A non-empty p.Query is
// sent as the query body and only its first page is read.
func (l *Loader) LoadNotion(ctx context.Context, p loader.NotionParams) loader.Result {
	cards, err := l.fetchCards(ctx, p)
	if err != nil {
		logging.ExternalServiceError(l.log, err, "failed to retrieve issues from Notion")
		return loader.FromError(err)
	}
	return loader.Collect(l.log, sourceName, cards, func(c card) (issues.IssueTemplate, error) {
		return MapCard(c.page, c.description, p)
	})
}

func (l *Loader) fetchCards(ctx context.Context, p loader.NotionParams) ([]card, error) {
	pages, err := l.queryAll(ctx, p)
	if err != nil {
		return nil, err
	}
	cards := make([]card, 0, len(pages))
	for _, page := range pages {
		md, err := l.exporter.Export(ctx, page.ID)
		if err != nil {
			return nil, fmt.Errorf("export content of %s: %w", page.ID, err)
		}
		cards = append(cards, card{page: page, description: md})
	}
	return cards, nil
}

func (l *Loader) queryAll(ctx context.Context, p loader.NotionParams) ([]PageDTO, error) {
	if strings.TrimSpace(p.Query) != "" {
		resp, err := l.client.QueryDatabaseRaw(ctx, p.DatabaseID, json.RawMessage(p.Query))
		if err != nil {
			return nil, err
		}
		return resp.Results, nil
	}

	var all []PageDTO
	cursor := ""
	for {
		resp, err := l.client.QueryDatabase(ctx, p.DatabaseID, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		l.log.Debug().Int("retrieved", len(all)).Msg("Fetched Notion page")
		if !resp.HasMore || resp.NextCursor == nil {
			return all, nil
		}
		cursor = *resp.NextCursor
	}
}

func (l *Loader) allChildren(ctx context.Context, blockID string) ([]BlockDTO, error) {
	var all []BlockDTO
	cursor := ""
	for {
		resp, err := l.client.BlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			return all, nil
		}
		cursor = *resp.NextCursor
	}
}

// MapCard converts a database row. description is the rendered content.
func MapCard(page PageDTO, description string, p loader.NotionParams) (issues.IssueTemplate, error) {
	title, ok := Title(page)
	if !ok {
		return issues.IssueTemplate{}, errNoTitle
	}
	if strings.TrimSpace(title) == "" {
		return issues.IssueTemplate{}, fmt.Errorf("card %s has an empty title", page.ID)
	}

	issue := issues.ExternalIssue{
		Summary:      title,
		Status:       issues.Deref(scalar(page, p.StatusProperty, p.StatusMappingType)),
		Assignee:     scalar(page, p.AssigneeProperty, p.AssigneeMappingType),
		ExternalID:   page.ID,
		ExternalName: externalName,
		ExternalURL:  pageURL + strings.ReplaceAll(page.ID, "-", ""),
	}
	if description != "" {
		issue.Description = issues.Ptr(description)
	}

	var tags []string
	if p.TagProperty != nil {
		if prop, ok := FindProperty(page, *p.TagProperty); ok {
			for _, tag := range TagValues(prop, p.TagMappingType) {
				if tag != "" {
					tags = append(tags, tag)
				}
			}
		}
	}
	return issues.NewTemplate(issue, tags...), nil
}

func scalar(page PageDTO, id *issues.PropertyIdentifier, mt issues.MappingType) *string {
	if id == nil {
		return nil
	}
	prop, ok := FindProperty(page, *id)
	if !ok {
		return nil
	}
	return ScalarValue(prop, mt)
}
