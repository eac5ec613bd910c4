package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"issues-import/internal/config"
	"issues-import/internal/space"
)

// policyValue sets target to value when its flag is given. Two flags share
// one target so the last one on the command line wins.
type policyValue[T ~string] struct {
	target *T
	value  T
}

func (p *policyValue[T]) String() string {
	if p.target == nil {
		return ""
	}
	return string(*p.target)
}

func (p *policyValue[T]) Set(s string) error {
	if s == "true" {
		*p.target = p.value
	}
	return nil
}

func (p *policyValue[T]) Type() string { return "bool" }

func policyFlag[T ~string](fs *pflag.FlagSet, target *T, value T, name, usage string) {
	fs.Var(&policyValue[T]{target: target, value: value}, name, usage)
	fs.Lookup(name).NoOptDefVal = "true"
}

func registerFlags(cmd *cobra.Command, a *config.Args) {
	fs := cmd.Flags()

	// Jira
	fs.StringVar(&a.JiraServer, "jiraServer", "", "The URL of the Jira server that you want to import issues from")
	fs.StringVar(&a.JiraQuery, "jiraQuery", "", "An optional JQL query that selects the Jira issues you want to import")
	fs.StringVar(&a.JiraUser, "jiraUser", "", "An optional user name to use to login to Jira")
	fs.StringVar(&a.JiraAPIToken, "jiraApiToken", "", "An optional API token to use to login to Jira")
	fs.StringVar(&a.JiraAPIToken, "jiraPassword", "", "Alias of --jiraApiToken")

	// YouTrack
	fs.StringVar(&a.YouTrackServer, "youtrackServer", "", "The URL of the YouTrack server that you want to import issues from")
	fs.StringVar(&a.YouTrackQuery, "youtrackQuery", "", "A query that selects the YouTrack issues that you want to import")
	fs.StringVar(&a.YouTrackToken, "youtrackToken", "", "An optional permanent token. Without it issues are read with guest access")

	// Notion
	fs.StringVar(&a.NotionDatabaseID, "notionDatabaseId", "", "The ID of the Notion database that you want to import issues from")
	fs.StringVar(&a.NotionToken, "notionToken", "", "A token to access the Notion API")
	fs.StringVar(&a.NotionAssigneeProperty, "notionAssigneeProperty", "", "The Notion property mapped to the assignee, e.g. name::Owner or id::abc")
	fs.StringVar(&a.NotionStatusProperty, "notionStatusProperty", "", "The Notion property mapped to the status, e.g. name::Status or id::abc")
	fs.StringVar(&a.NotionTagProperty, "notionTagProperty", "", "The Notion property mapped to tags, e.g. name::Labels or id::abc")
	fs.StringVar(&a.NotionAssigneeMappingType, "notionAssigneePropertyMappingType", "name", "id, name or email: which facet of the assignee property is matched by --assignee")
	fs.StringVar(&a.NotionStatusMappingType, "notionStatusPropertyMappingType", "name", "id or name: which facet of the status property is matched by --status")
	fs.StringVar(&a.NotionTagMappingType, "notionTagPropertyMappingType", "name", "id or name: which facet of the tag property is matched by --tag")
	fs.StringVar(&a.NotionQuery, "notionQuery", "", "JSON body for the database query. By default every card is exported")

	// GitHub
	fs.StringVar(&a.GitHubOwner, "gitHubRepositoryOwner", "", "The owner of the GitHub repository")
	fs.StringVar(&a.GitHubRepository, "gitHubRepository", "", "The name of the GitHub repository")
	fs.StringVar(&a.GitHubToken, "gitHubToken", "", "An optional OAuth or personal access token")
	fs.StringVar(&a.GitHubAPIURL, "gitHubApiUrl", "", "The API URL of a GitHub Enterprise server")

	// Space
	fs.StringVar(&a.SpaceServer, "spaceServer", "", "The URL of the Space instance that you want to import into")
	fs.StringVar(&a.SpaceToken, "spaceToken", "", "A personal token for a Space account that has the Import Issues permission")
	fs.StringVar(&a.SpaceProject, "spaceProject", "", "The key or ID of the destination project, e.g. key::ABC or id::42")
	fs.StringVar(&a.SpaceBoard, "spaceBoard", "", "An optional board for imported issues, e.g. name::Tasks or id::DRrHX45Jsxl")

	// Import options
	fs.StringVar(&a.ImportSource, "importSource", "External", "Jira, YouTrack, Notion, GitHub or External")
	fs.BoolVar(&a.DryRun, "dryRun", false, "Run the import without creating issues")
	policyFlag(fs, &a.OnExists, space.ExistsUpdate, "updateExistingIssues", "Update issues whose external ID was imported before")
	policyFlag(fs, &a.OnExists, space.ExistsSkip, "skipExistingIssues", "Skip issues whose external ID was imported before (default)")
	policyFlag(fs, &a.StatusMissing, space.MissingReplaceWithDefault, "replaceMissingStatus", "Use the first unresolved status when the status does not exist")
	policyFlag(fs, &a.StatusMissing, space.MissingSkip, "skipMissingStatus", "Skip issues whose status does not exist (default)")
	policyFlag(fs, &a.AssigneeMissing, space.MissingReplaceWithDefault, "replaceMissingAssignee", "Leave issues unassigned when the assignee does not exist")
	policyFlag(fs, &a.AssigneeMissing, space.MissingSkip, "skipMissingAssignee", "Skip issues whose assignee does not exist (default)")

	// Mappings
	fs.StringArrayVarP(&a.Assignee, "assignee", "a", nil, "Map an external assignee to a Space member, e.g. leonid.tolstoy::leo.tolstoy")
	fs.StringArrayVarP(&a.Status, "status", "s", nil, "Map an external status to a Space status, e.g. in-progress::In Progress")
	fs.StringArrayVarP(&a.Tag, "tag", "t", nil, "Map an external tag to a Space tag, e.g. external-tag::space-tag-id")
	fs.StringVar(&a.MappingFile, "mappingFile", "", "A YAML, JSON or TOML file with assignee, status and tag lists of key::value entries")
	fs.IntVar(&a.BatchSize, "batchSize", space.DefaultBatchSize, "The number of issues sent to Space per request")
	fs.StringVar(&a.TagPropertyMappingType, "tagPropertyMappingType", "name", "id or name: whether --tag values are Space tag IDs or names")
}

// applyEnv fills every flag left at its default from the environment.
func applyEnv(fs *pflag.FlagSet) error {
	var firstErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Value.String() != f.DefValue {
			return
		}
		v, ok := config.LookupEnv(f.Name)
		if !ok || v == "" {
			return
		}
		if err := f.Value.Set(v); err != nil && firstErr == nil {
			firstErr = &config.UsageError{Msg: "invalid value for " + config.EnvName(f.Name) + ": " + err.Error(), Err: err}
		}
	})
	return firstErr
}
