package issues

import "strings"

// Mapping rewrites source values to destination values. Keys are
// lowercased source values.
type Mapping map[string]string

// Mappings bundles the three rename tables applied to every loaded issue.
// They are built once and only read afterwards.
type Mappings struct {
	Assignee Mapping
	Status   Mapping
	Tag      Mapping
}

// ResolveMappings rewrites assignee, status and tags of t in a single pass.
// Assignee and status are matched case-insensitively, tags are matched
// verbatim. Values absent from a table are kept unchanged and chains are
// not followed.
func ResolveMappings(t *IssueTemplate, m Mappings) {
	if t.Issue.Assignee != nil {
		if mapped, ok := m.Assignee[strings.ToLower(*t.Issue.Assignee)]; ok {
			t.Issue.Assignee = Ptr(mapped)
		}
	}

	if mapped, ok := m.Status[strings.ToLower(t.Issue.Status)]; ok {
		t.Issue.Status = mapped
	}

	if len(t.Tags) == 0 {
		return
	}
	tags := make(map[string]struct{}, len(t.Tags))
	for tag := range t.Tags {
		if mapped, ok := m.Tag[tag]; ok {
			tag = mapped
		}
		tags[tag] = struct{}{}
	}
	t.Tags = tags
}

// ResolveAll applies ResolveMappings to every template in place.
func ResolveAll(templates []IssueTemplate, m Mappings) {
	for i := range templates {
		ResolveMappings(&templates[i], m)
	}
}
