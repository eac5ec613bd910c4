package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"issues-import/internal/issues"
	"issues-import/internal/loader"
)

type fakeNotion struct {
	bodies  []string
	version string
	auth    string
}

func row(id, title string, extra string) string {
	return `{"id": "` + id + `", "properties": {
		"Name": {"id": "title", "type": "title", "title": [{"plain_text": "` + title + `"}]},
		"Status": {"id": "st", "type": "select", "select": {"id": "s1", "name": "Done"}},
		"Labels": {"id": "lb", "type": "multi_select", "multi_select": [{"id": "m1", "name": "bug"}]}` + extra + `
	}}`
}

func (f *fakeNotion) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.version = r.Header.Get("Notion-Version")
	f.auth = r.Header.Get("Authorization")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/databases/db-1/query":
		body, _ := io.ReadAll(r.Body)
		f.bodies = append(f.bodies, string(body))
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		if req["start_cursor"] == "cursor-2" {
			_, _ = io.WriteString(w, `{"results": [`+row("bbbb-2222", "second", "")+`], "has_more": false, "next_cursor": null}`)
			return
		}
		_, _ = io.WriteString(w, `{"results": [`+row("aaaa-1111", "first", "")+`], "has_more": true, "next_cursor": "cursor-2"}`)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/blocks/"):
		if r.URL.Path == "/v1/blocks/aaaa-1111/children" {
			_, _ = io.WriteString(w, `{"results": [{"id": "b1", "type": "paragraph", "paragraph": {"rich_text": [{"plain_text": "body"}]}}], "has_more": false}`)
			return
		}
		_, _ = io.WriteString(w, `{"results": [], "has_more": false}`)
	default:
		http.NotFound(w, r)
	}
}

func newFakeLoader(t *testing.T, fake *fakeNotion) *Loader {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return NewLoader(Config{Token: "secret_x", BaseURL: server.URL}, nil, zerolog.Nop())
}

func TestLoader_FollowsCursor(t *testing.T) {
	fake := &fakeNotion{}
	l := newFakeLoader(t, fake)

	res := l.Load(context.Background(), loader.NotionParams{
		DatabaseID:     "db-1",
		StatusProperty: issues.PropertyByName("Status"),
		TagProperty:    issues.PropertyByID("lb"),
	})

	if !res.OK() {
		t.Fatalf("Load() failed: %v", res.Err)
	}
	if len(res.Issues) != 2 {
		t.Fatalf("len(Issues) = %d, want 2", len(res.Issues))
	}
	if len(fake.bodies) != 2 {
		t.Errorf("query requests = %d, want 2", len(fake.bodies))
	}
	if fake.version != APIVersion || fake.auth != "Bearer secret_x" {
		t.Errorf("headers = %q / %q", fake.version, fake.auth)
	}

	first := res.Issues[0]
	if first.Issue.Summary != "first" || first.Issue.Status != "Done" {
		t.Errorf("first = %+v", first.Issue)
	}
	if issues.Deref(first.Issue.Description) != "body" {
		t.Errorf("Description = %v, want %q", first.Issue.Description, "body")
	}
	if first.Issue.ExternalURL != "https://notion.so/aaaa1111" || first.Issue.ExternalName != "Notion" {
		t.Errorf("external fields = %q / %q", first.Issue.ExternalURL, first.Issue.ExternalName)
	}
	if first.Issue.Assignee != nil {
		t.Errorf("Assignee = %v, want nil without an assignee property", first.Issue.Assignee)
	}
	if !first.HasTag("bug") {
		t.Errorf("Tags = %v, want bug", first.TagList())
	}
	if res.Issues[1].Issue.Description != nil {
		t.Errorf("second Description = %v, want nil", res.Issues[1].Issue.Description)
	}
}

func TestLoader_RawQueryReadsOnePage(t *testing.T) {
	fake := &fakeNotion{}
	l := newFakeLoader(t, fake)

	query := `{"filter": {"property": "Status", "select": {"equals": "Done"}}}`
	res := l.Load(context.Background(), loader.NotionParams{DatabaseID: "db-1", Query: query})

	if !res.OK() || len(res.Issues) != 1 {
		t.Fatalf("Load() = %+v, want one issue", res)
	}
	if len(fake.bodies) != 1 || fake.bodies[0] != query {
		t.Errorf("bodies = %v, want the raw query once", fake.bodies)
	}
}

func TestLoader_MissingStatusIsEmpty(t *testing.T) {
	l := newFakeLoader(t, &fakeNotion{})

	res := l.Load(context.Background(), loader.NotionParams{
		DatabaseID:     "db-1",
		StatusProperty: issues.PropertyByName("Nope"),
	})

	if !res.OK() {
		t.Fatalf("Load() failed: %v", res.Err)
	}
	if res.Issues[0].Issue.Status != "" {
		t.Errorf("Status = %q, want empty", res.Issues[0].Issue.Status)
	}
}

func TestLoader_UnknownDatabase(t *testing.T) {
	l := newFakeLoader(t, &fakeNotion{})

	res := l.Load(context.Background(), loader.NotionParams{DatabaseID: "missing"})

	if res.OK() {
		t.Fatal("Load() succeeded, want failure")
	}
	if !strings.Contains(res.Err.Message, "--notionDatabaseId") {
		t.Errorf("Message = %q", res.Err.Message)
	}
}

func TestLoader_WrongParams(t *testing.T) {
	l := NewLoader(Config{}, nil, zerolog.Nop())

	res := l.Load(context.Background(), loader.GitHubParams{})

	if res.OK() || !res.Err.WrongParams {
		t.Fatalf("Load() = %+v, want wrong-params failure", res)
	}
}

func TestMapCard_NoTitle(t *testing.T) {
	page := PageDTO{ID: "p", Properties: map[string]PropertyDTO{}}

	if _, err := MapCard(page, "", loader.NotionParams{}); err != errNoTitle {
		t.Errorf("MapCard() error = %v, want %v", err, errNoTitle)
	}
}
