package jira

// SearchResponse is the top-level container for Jira search results.
type SearchResponse struct {
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Total      int        `json:"total"`
	Issues     []IssueDTO `json:"issues"`
}

// IssueDTO represents a single issue in the Jira search response.
type IssueDTO struct {
	ID     string    `json:"id"`
	Key    string    `json:"key"`
	Fields FieldsDTO `json:"fields"`
}

// FieldsDTO contains the specific fields we care about.
type FieldsDTO struct {
	Summary     string   `json:"summary"`
	Description *string  `json:"description"`
	Assignee    *UserDTO `json:"assignee"`
	Status      *struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		StatusCategory struct {
			Key string `json:"key"`
		} `json:"statusCategory"`
	} `json:"status"`
	Project *struct {
		Key string `json:"key"`
	} `json:"project"`
}

// UserDTO is the subset of a Jira user used for assignees.
type UserDTO struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}
