package jira

import (
	"errors"
	"fmt"
	"net/url"

	"issues-import/internal/issues"
)

// MapIssue transforms a Jira DTO into an issue template. baseURL is the Jira
// server root used to build the deep link.
func MapIssue(item IssueDTO, baseURL string) (issues.IssueTemplate, error) {
	if item.Fields.Summary == "" {
		return issues.IssueTemplate{}, errors.New("issue has no summary")
	}
	if item.Fields.Status == nil {
		return issues.IssueTemplate{}, fmt.Errorf("issue %s has no status", item.Key)
	}
	if item.ID == "" {
		return issues.IssueTemplate{}, fmt.Errorf("issue %s has no id", item.Key)
	}

	assignee := ""
	if item.Fields.Assignee != nil {
		assignee = item.Fields.Assignee.DisplayName
	}

	projectKey := ""
	if item.Fields.Project != nil {
		projectKey = item.Fields.Project.Key
	}

	issue := issues.ExternalIssue{
		Summary:      item.Fields.Summary,
		Description:  item.Fields.Description,
		Status:       item.Fields.Status.StatusCategory.Key,
		Assignee:     issues.Ptr(assignee),
		ExternalID:   item.ID,
		ExternalName: item.Key,
		ExternalURL:  boardURL(baseURL, projectKey, item.Key),
	}
	return issues.NewTemplate(issue), nil
}

func boardURL(baseURL, projectKey, key string) string {
	params := url.Values{}
	params.Set("projectKey", projectKey)
	params.Set("selectedIssue", key)
	return fmt.Sprintf("%s/secure/RapidBoard.jspa?%s", baseURL, params.Encode())
}
