package config

import (
	"strings"

	"issues-import/internal/github"
	"issues-import/internal/issues"
	"issues-import/internal/jira"
	"issues-import/internal/loader"
	"issues-import/internal/notion"
	"issues-import/internal/space"
	"issues-import/internal/youtrack"
)

// Args holds the raw command line values.
type Args struct {
	ImportSource string

	JiraServer   string
	JiraQuery    string
	JiraUser     string
	JiraAPIToken string

	YouTrackServer string
	YouTrackQuery  string
	YouTrackToken  string

	NotionDatabaseID          string
	NotionToken               string
	NotionQuery               string
	NotionAssigneeProperty    string
	NotionStatusProperty      string
	NotionTagProperty         string
	NotionAssigneeMappingType string
	NotionStatusMappingType   string
	NotionTagMappingType      string

	GitHubOwner      string
	GitHubRepository string
	GitHubToken      string
	GitHubAPIURL     string

	SpaceServer  string
	SpaceToken   string
	SpaceProject string
	SpaceBoard   string

	DryRun          bool
	OnExists        space.ImportExistsPolicy
	StatusMissing   space.ImportMissingPolicy
	AssigneeMissing space.ImportMissingPolicy

	Assignee    []string
	Status      []string
	Tag         []string
	MappingFile string

	BatchSize              int
	TagPropertyMappingType string
	Debug                  bool
}

// ImportArgs is the validated configuration of one import run.
type ImportArgs struct {
	Source loader.Source
	Params loader.Params

	Jira     jira.Config
	YouTrack youtrack.Config
	Notion   notion.Config
	GitHub   github.Config
	Space    space.Config

	// Upload has every field but Issues set.
	Upload   space.UploadRequest
	Mappings issues.Mappings
}

// Resolve validates a and selects the loader parameters for the chosen
// source. Every returned error is a *UsageError.
func Resolve(a Args) (*ImportArgs, error) {
	source := loader.ParseSource(a.ImportSource)
	out := &ImportArgs{Source: source}

	if err := resolveSource(a, out); err != nil {
		return nil, err
	}

	if err := required("spaceServer", a.SpaceServer); err != nil {
		return nil, err
	}
	if err := required("spaceToken", a.SpaceToken); err != nil {
		return nil, err
	}
	if err := required("spaceProject", a.SpaceProject); err != nil {
		return nil, err
	}
	project, err := ParseProjectIdentifier(a.SpaceProject)
	if err != nil {
		return nil, err
	}
	board, err := ParseBoardIdentifier(a.SpaceBoard)
	if err != nil {
		return nil, err
	}
	if a.BatchSize < 0 {
		return nil, usagef("batchSize must be positive")
	}

	tagType := issues.ParseMappingType(a.TagPropertyMappingType)
	if tagType == issues.MappingEmail {
		return nil, &UsageError{Msg: space.ErrEmailTagMapping.Error(), Err: space.ErrEmailTagMapping}
	}

	out.Mappings, err = buildMappings(a)
	if err != nil {
		return nil, err
	}

	out.Space = space.Config{ServerURL: a.SpaceServer, Token: a.SpaceToken, Debug: a.Debug}
	out.Upload = space.UploadRequest{
		Project:         project,
		ImportSource:    source.String(),
		AssigneeMissing: orDefault(a.AssigneeMissing, space.MissingSkip),
		StatusMissing:   orDefault(a.StatusMissing, space.MissingSkip),
		OnExists:        orDefault(a.OnExists, space.ExistsSkip),
		DryRun:          a.DryRun,
		BatchSize:       a.BatchSize,
		Board:           board,
		TagMappingType:  &tagType,
	}
	return out, nil
}

func resolveSource(a Args, out *ImportArgs) error {
	switch out.Source {
	case loader.Jira:
		if err := required("jiraServer", a.JiraServer); err != nil {
			return err
		}
		out.Jira = jira.Config{BaseURL: a.JiraServer, User: a.JiraUser, Token: a.JiraAPIToken, Debug: a.Debug}
		out.Params = loader.JiraParams{Query: a.JiraQuery}

	case loader.Notion:
		if err := required("notionDatabaseId", a.NotionDatabaseID); err != nil {
			return err
		}
		if err := required("notionToken", a.NotionToken); err != nil {
			return err
		}
		params := loader.NotionParams{
			Query:               a.NotionQuery,
			DatabaseID:          a.NotionDatabaseID,
			AssigneeMappingType: issues.ParseMappingType(a.NotionAssigneeMappingType),
			StatusMappingType:   issues.ParseMappingType(a.NotionStatusMappingType),
			TagMappingType:      issues.ParseMappingType(a.NotionTagMappingType),
		}
		var err error
		if params.AssigneeProperty, err = ParsePropertyIdentifier("notionAssigneeProperty", a.NotionAssigneeProperty); err != nil {
			return err
		}
		if params.StatusProperty, err = ParsePropertyIdentifier("notionStatusProperty", a.NotionStatusProperty); err != nil {
			return err
		}
		if params.TagProperty, err = ParsePropertyIdentifier("notionTagProperty", a.NotionTagProperty); err != nil {
			return err
		}
		out.Notion = notion.Config{Token: a.NotionToken, Debug: a.Debug}
		out.Params = params

	case loader.GitHub:
		if err := required("gitHubRepositoryOwner", a.GitHubOwner); err != nil {
			return err
		}
		if err := required("gitHubRepository", a.GitHubRepository); err != nil {
			return err
		}
		out.GitHub = github.Config{Token: a.GitHubToken, BaseURL: a.GitHubAPIURL}
		out.Params = loader.GitHubParams{Owner: a.GitHubOwner, Repository: a.GitHubRepository}

	default:
		// YouTrack also serves the External source.
		if err := required("youtrackServer", a.YouTrackServer); err != nil {
			return err
		}
		out.YouTrack = youtrack.Config{BaseURL: a.YouTrackServer, Token: a.YouTrackToken, Debug: a.Debug}
		out.Params = loader.YouTrackParams{Query: a.YouTrackQuery}
	}
	return nil
}

func buildMappings(a Args) (issues.Mappings, error) {
	var file MappingFile
	if a.MappingFile != "" {
		var err error
		if file, err = LoadMappingFile(a.MappingFile); err != nil {
			return issues.Mappings{}, &UsageError{Msg: err.Error(), Err: err}
		}
	}

	var m issues.Mappings
	var err error
	if m.Assignee, err = BuildMapping(append(file.Assignee, a.Assignee...)); err != nil {
		return m, err
	}
	if m.Status, err = BuildMapping(append(file.Status, a.Status...)); err != nil {
		return m, err
	}
	if m.Tag, err = BuildMapping(append(file.Tag, a.Tag...)); err != nil {
		return m, err
	}
	return m, nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return usagef("%s must be specified", name)
	}
	return nil
}

func orDefault[T ~string](v, fallback T) T {
	if v == "" {
		return fallback
	}
	return v
}
