// Package issues holds the normalized issue representation shared by every
// source loader and the destination uploader.
package issues

import (
	"sort"
)

// ExternalIssue is a single issue as it will be sent to the destination's
// import endpoint.
type ExternalIssue struct {
	Summary      string  `json:"summary"`
	Description  *string `json:"description,omitempty"`
	Status       string  `json:"status"`
	Assignee     *string `json:"assignee,omitempty"`
	ExternalID   string  `json:"externalId"`
	ExternalName string  `json:"externalName,omitempty"`
	ExternalURL  string  `json:"externalUrl,omitempty"`
}

// IssueTemplate pairs an issue with the tag identifiers collected for it.
// Tags hold source tag names or ids depending on the configured mapping type.
type IssueTemplate struct {
	Issue ExternalIssue
	Tags  map[string]struct{}
}

// NewTemplate builds a template from an issue and an optional list of tags.
func NewTemplate(issue ExternalIssue, tags ...string) IssueTemplate {
	t := IssueTemplate{Issue: issue, Tags: make(map[string]struct{}, len(tags))}
	for _, tag := range tags {
		t.Tags[tag] = struct{}{}
	}
	return t
}

// TagList returns the template's tags in sorted order.
func (t IssueTemplate) TagList() []string {
	out := make([]string, 0, len(t.Tags))
	for tag := range t.Tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// HasTag reports whether the template carries the given tag.
func (t IssueTemplate) HasTag(tag string) bool {
	_, ok := t.Tags[tag]
	return ok
}

// Issues projects templates to the plain issues the import endpoint accepts.
func Issues(templates []IssueTemplate) []ExternalIssue {
	out := make([]ExternalIssue, len(templates))
	for i, t := range templates {
		out[i] = t.Issue
	}
	return out
}

// TagsByExternalID indexes template tags by the issue's external id.
func TagsByExternalID(templates []IssueTemplate) map[string][]string {
	out := make(map[string][]string, len(templates))
	for _, t := range templates {
		if len(t.Tags) == 0 {
			continue
		}
		out[t.Issue.ExternalID] = t.TagList()
	}
	return out
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
