package youtrack

import (
	"encoding/json"
	"testing"

	"issues-import/internal/issues"
)

func decodeIssue(t *testing.T, raw string) IssueDTO {
	t.Helper()
	var item IssueDTO
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return item
}

func TestMapIssue(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantErr      bool
		wantStatus   string
		wantAssignee string
	}{
		{
			name:         "state and assignee",
			raw:          `{"idReadable":"A-1","summary":"s","customFields":[{"name":"State","value":{"name":"Fixed"}},{"name":"Assignee","value":{"login":"bob","name":"Bob"}}]}`,
			wantStatus:   "Fixed",
			wantAssignee: "bob",
		},
		{
			name:         "unassigned",
			raw:          `{"idReadable":"A-2","summary":"s","customFields":[{"name":"State","value":{"name":"Open"}},{"name":"Assignee","value":null}]}`,
			wantStatus:   "Open",
			wantAssignee: "",
		},
		{
			name:         "multi-value assignee takes first",
			raw:          `{"idReadable":"A-3","summary":"s","customFields":[{"name":"State","value":{"name":"Open"}},{"name":"Assignee","value":[{"login":"x"},{"login":"y"}]}]}`,
			wantStatus:   "Open",
			wantAssignee: "x",
		},
		{
			name:    "missing state",
			raw:     `{"idReadable":"A-4","summary":"s","customFields":[]}`,
			wantErr: true,
		},
		{
			name:    "missing summary",
			raw:     `{"idReadable":"A-5","customFields":[{"name":"State","value":{"name":"Open"}}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := MapIssue(decodeIssue(t, tt.raw), "https://yt.example.com/youtrack")
			if (err != nil) != tt.wantErr {
				t.Fatalf("MapIssue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tmpl.Issue.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", tmpl.Issue.Status, tt.wantStatus)
			}
			if issues.Deref(tmpl.Issue.Assignee) != tt.wantAssignee {
				t.Errorf("Assignee = %q, want %q", issues.Deref(tmpl.Issue.Assignee), tt.wantAssignee)
			}
			if tmpl.Issue.Assignee == nil {
				t.Error("Assignee is nil, want non-nil")
			}
		})
	}
}
