// Package loader defines the contract every source loader implements and the
// shared per-issue parsing loop.
package loader

import (
	"context"
	"strings"

	"issues-import/internal/issues"
)

// Source identifies an external issue tracker.
type Source int

const (
	External Source = iota
	Jira
	YouTrack
	Notion
	GitHub
)

var sourceNames = map[Source]string{
	External: "External",
	Jira:     "Jira",
	YouTrack: "YouTrack",
	Notion:   "Notion",
	GitHub:   "GitHub",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseSource matches a source name case-insensitively. Unknown names map to
// External.
func ParseSource(name string) Source {
	for s, n := range sourceNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s
		}
	}
	return External
}

// Loader retrieves every matching issue from one source system.
type Loader interface {
	// Name is used in log lines, e.g. "Jira".
	Name() string
	Load(ctx context.Context, params Params) Result
}

// Params carries the source-specific load parameters.
type Params interface {
	isParams()
}

// JiraParams selects Jira issues with an optional JQL query.
type JiraParams struct {
	Query string
}

// YouTrackParams selects YouTrack issues with an optional search query.
type YouTrackParams struct {
	Query string
}

// NotionParams selects the cards of one Notion database and says which
// columns feed assignee, status and tags.
type NotionParams struct {
	// Query is an optional raw JSON body for the database query endpoint.
	Query      string
	DatabaseID string

	AssigneeProperty    *issues.PropertyIdentifier
	AssigneeMappingType issues.MappingType
	StatusProperty      *issues.PropertyIdentifier
	StatusMappingType   issues.MappingType
	TagProperty         *issues.PropertyIdentifier
	TagMappingType      issues.MappingType
}

// GitHubParams selects the issues of one repository.
type GitHubParams struct {
	Owner      string
	Repository string
}

func (JiraParams) isParams()     {}
func (YouTrackParams) isParams() {}
func (NotionParams) isParams()   {}
func (GitHubParams) isParams()   {}
