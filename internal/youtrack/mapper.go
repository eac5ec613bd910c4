package youtrack

import (
	"errors"
	"fmt"

	"issues-import/internal/issues"
)

const (
	stateField    = "State"
	assigneeField = "Assignee"
)

// MapIssue converts a YouTrack issue. baseURL must not end with a slash.
func MapIssue(item IssueDTO, baseURL string) (issues.IssueTemplate, error) {
	if item.IDReadable == "" {
		return issues.IssueTemplate{}, errors.New("issue has no readable id")
	}
	if item.Summary == nil {
		return issues.IssueTemplate{}, fmt.Errorf("issue %s has no summary", item.IDReadable)
	}
	state, ok := firstValue(item, stateField)
	if !ok || state.Name == "" {
		return issues.IssueTemplate{}, fmt.Errorf("issue %s has no %s", item.IDReadable, stateField)
	}

	assignee := ""
	if user, ok := firstValue(item, assigneeField); ok {
		assignee = user.Login
		if assignee == "" {
			assignee = user.Name
		}
	}

	issue := issues.ExternalIssue{
		Summary:     *item.Summary,
		Description: item.Description,
		Status:      state.Name,
		Assignee:    issues.Ptr(assignee),
		ExternalID:  item.IDReadable,
		ExternalURL: baseURL + "/issue/" + item.IDReadable,
	}
	return issues.NewTemplate(issue), nil
}

func firstValue(item IssueDTO, field string) (FieldValueDTO, bool) {
	f, ok := item.Field(field)
	if !ok {
		return FieldValueDTO{}, false
	}
	values := f.Values()
	if len(values) == 0 {
		return FieldValueDTO{}, false
	}
	return values[0], true
}
