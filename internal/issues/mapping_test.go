package issues

import (
	"reflect"
	"testing"
)

var (
	assigneeMapping = Mapping{"assignee1": "john1", "assignee2": "john2"}
	statusMapping   = Mapping{"ongoing": "inprogress", "notstarted": "open"}
)

func TestResolveMappings_AssigneeAndStatus(t *testing.T) {
	templates := []IssueTemplate{
		NewTemplate(ExternalIssue{Summary: "#0", Status: "ongoing", Assignee: Ptr("assignee1"), ExternalID: "#0"}),
		NewTemplate(ExternalIssue{Summary: "#1", Status: "notstarted", Assignee: Ptr("assignee2"), ExternalID: "#1"}),
	}

	ResolveAll(templates, Mappings{Assignee: assigneeMapping, Status: statusMapping})

	wantStatus := []string{"inprogress", "open"}
	wantAssignee := []string{"john1", "john2"}
	for i, tmpl := range templates {
		if tmpl.Issue.Status != wantStatus[i] {
			t.Errorf("issue %d status = %q, want %q", i, tmpl.Issue.Status, wantStatus[i])
		}
		if got := Deref(tmpl.Issue.Assignee); got != wantAssignee[i] {
			t.Errorf("issue %d assignee = %q, want %q", i, got, wantAssignee[i])
		}
		if tmpl.Issue.ExternalID != "#"+string(rune('0'+i)) {
			t.Errorf("issue %d reordered: external id %q", i, tmpl.Issue.ExternalID)
		}
	}
}

func TestResolveMappings_CaseSensitivity(t *testing.T) {
	m := Mappings{
		Assignee: assigneeMapping,
		Status:   statusMapping,
		Tag:      Mapping{"android": "mobile"},
	}

	tests := []struct {
		name         string
		assignee     *string
		status       string
		tags         []string
		wantAssignee *string
		wantStatus   string
		wantTags     []string
	}{
		{
			name:         "uppercase assignee and status are matched",
			assignee:     Ptr("ASSIGNEE1"),
			status:       "NotStarted",
			wantAssignee: Ptr("john1"),
			wantStatus:   "open",
			wantTags:     []string{},
		},
		{
			name:       "nil assignee stays nil",
			status:     "done",
			wantStatus: "done",
			wantTags:   []string{},
		},
		{
			name:         "unmapped values are kept",
			assignee:     Ptr("someone"),
			status:       "blocked",
			tags:         []string{"backend"},
			wantAssignee: Ptr("someone"),
			wantStatus:   "blocked",
			wantTags:     []string{"backend"},
		},
		{
			name:       "tag lookup is case-sensitive",
			status:     "ongoing",
			tags:       []string{"android", "Android"},
			wantStatus: "inprogress",
			wantTags:   []string{"Android", "mobile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := NewTemplate(ExternalIssue{Summary: "s", Status: tt.status, Assignee: tt.assignee}, tt.tags...)
			ResolveMappings(&tmpl, m)

			if !reflect.DeepEqual(tmpl.Issue.Assignee, tt.wantAssignee) {
				t.Errorf("assignee = %v, want %v", tmpl.Issue.Assignee, tt.wantAssignee)
			}
			if tmpl.Issue.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", tmpl.Issue.Status, tt.wantStatus)
			}
			if got := tmpl.TagList(); !reflect.DeepEqual(got, tt.wantTags) {
				t.Errorf("tags = %v, want %v", got, tt.wantTags)
			}
		})
	}
}

func TestResolveMappings_SinglePass(t *testing.T) {
	m := Mappings{Status: Mapping{"a": "b", "b": "c"}}
	tmpl := NewTemplate(ExternalIssue{Summary: "s", Status: "a"})

	ResolveMappings(&tmpl, m)

	if tmpl.Issue.Status != "b" {
		t.Errorf("status = %q, want %q (no transitive resolution)", tmpl.Issue.Status, "b")
	}
}

func TestTagsByExternalID(t *testing.T) {
	templates := []IssueTemplate{
		NewTemplate(ExternalIssue{ExternalID: "1"}, "b", "a"),
		NewTemplate(ExternalIssue{ExternalID: "2"}),
	}

	got := TagsByExternalID(templates)
	want := map[string][]string{"1": {"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TagsByExternalID() = %v, want %v", got, want)
	}
}

func TestParseMappingType(t *testing.T) {
	tests := []struct {
		in   string
		want MappingType
	}{
		{"id", MappingID},
		{"ID", MappingID},
		{"Name", MappingName},
		{"email", MappingEmail},
		{"", MappingName},
		{"unknown", MappingName},
	}

	for _, tt := range tests {
		if got := ParseMappingType(tt.in); got != tt.want {
			t.Errorf("ParseMappingType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
