package space

import "issues-import/internal/issues"

// ImportRequest is the body of the bulk import endpoint.
type ImportRequest struct {
	Metadata              ImportMetadata         `json:"metadata"`
	Issues                []issues.ExternalIssue `json:"issues"`
	AssigneeMissingPolicy ImportMissingPolicy    `json:"assigneeMissingPolicy"`
	StatusMissingPolicy   ImportMissingPolicy    `json:"statusMissingPolicy"`
	OnExistsPolicy        ImportExistsPolicy     `json:"onExistsPolicy"`
	DryRun                bool                   `json:"dryRun"`
}

type ImportMetadata struct {
	ImportSource string `json:"importSource"`
}

// ImportResult is the response of one import batch.
type ImportResult struct {
	Message string             `json:"message"`
	Created []ImportResultItem `json:"created"`
	Updated []ImportResultItem `json:"updated"`
	Skipped []ImportResultItem `json:"skipped"`
}

// ImportResultItem echoes the external id of an imported issue. Issue is
// set when the destination created or matched an issue.
type ImportResultItem struct {
	ExternalID string    `json:"externalId"`
	Issue      *IssueRef `json:"issue"`
}

type IssueRef struct {
	ID string `json:"id"`
}

// Touched returns the created and updated items that carry an issue id.
func (r ImportResult) Touched() []ImportResultItem {
	var out []ImportResultItem
	for _, group := range [][]ImportResultItem{r.Created, r.Updated} {
		for _, item := range group {
			if item.Issue != nil && item.Issue.ID != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// Record is a board or tag as returned by the list endpoints.
type Record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Batch is one page of a list endpoint. Next is the offset of the
// following page.
type Batch struct {
	Next string   `json:"next"`
	Data []Record `json:"data"`
}

type boardIssueRequest struct {
	Board string `json:"board"`
	Issue string `json:"issue"`
}
