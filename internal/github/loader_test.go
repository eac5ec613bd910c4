package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gh "github.com/google/go-github/v68/github"
	"github.com/rs/zerolog"

	"issues-import/internal/issues"
	"issues-import/internal/loader"
)

func issueJSON(number int, title string, pr bool) map[string]any {
	m := map[string]any{
		"number":   number,
		"title":    title,
		"state":    "open",
		"body":     "body of " + title,
		"html_url": fmt.Sprintf("https://github.com/owner/repo/issues/%d", number),
		"assignee": map[string]any{"login": "octocat"},
	}
	if pr {
		m["pull_request"] = map[string]any{"url": "https://api.github.com/repos/owner/repo/pulls/1"}
	}
	return m
}

func newTestLoader(t *testing.T, handler http.HandlerFunc) *Loader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	l, err := NewLoader(Config{BaseURL: server.URL, Token: "ghp_test", PageSize: 2, HTTPClient: server.Client()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	return l
}

func TestLoader_FollowsNextPageAndSkipsPullRequests(t *testing.T) {
	var requests int
	l := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/v3/repos/owner/repo/issues" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("state") != "all" || q.Get("sort") != "created" || q.Get("direction") != "asc" || q.Get("per_page") != "2" {
			t.Errorf("query = %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ghp_test" {
			t.Errorf("Authorization = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		var page []map[string]any
		if q.Get("page") == "" {
			next := fmt.Sprintf("<http://%s%s?page=2&per_page=2>; rel=\"next\"", r.Host, r.URL.Path)
			w.Header().Set("Link", next)
			page = []map[string]any{issueJSON(1, "first", false), issueJSON(2, "a pull request", true)}
		} else {
			page = []map[string]any{issueJSON(3, "third", false)}
		}
		_ = json.NewEncoder(w).Encode(page)
	})

	res := l.Load(context.Background(), loader.GitHubParams{Owner: "owner", Repository: "repo"})

	if !res.OK() {
		t.Fatalf("Load() failed: %v", res.Err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if len(res.Issues) != 2 {
		t.Fatalf("len(Issues) = %d, want 2", len(res.Issues))
	}
	got := res.Issues[0].Issue
	if got.ExternalID != "1" || got.ExternalName != "first" || got.Status != "open" {
		t.Errorf("issue = %+v", got)
	}
	if issues.Deref(got.Assignee) != "octocat" {
		t.Errorf("Assignee = %v", got.Assignee)
	}
	if res.Issues[1].Issue.ExternalID != "3" {
		t.Errorf("second ExternalID = %q, want 3", res.Issues[1].Issue.ExternalID)
	}
}

func TestLoader_RepositoryNotFound(t *testing.T) {
	l := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	res := l.Load(context.Background(), loader.GitHubParams{Owner: "owner", Repository: "missing"})

	if res.OK() {
		t.Fatal("Load() succeeded, want failure")
	}
	if res.Err.WrongParams {
		t.Error("WrongParams = true, want API failure")
	}
}

func TestLoader_WrongParams(t *testing.T) {
	l, err := NewLoader(Config{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	res := l.Load(context.Background(), loader.NotionParams{})

	if res.OK() || !res.Err.WrongParams {
		t.Fatalf("Load() = %+v, want wrong-params failure", res)
	}
}

func TestMapIssue(t *testing.T) {
	tests := []struct {
		name    string
		issue   *gh.Issue
		wantErr bool
	}{
		{"complete", &gh.Issue{Number: gh.Ptr(7), Title: gh.Ptr("t"), State: gh.Ptr("closed")}, false},
		{"no title", &gh.Issue{Number: gh.Ptr(8), State: gh.Ptr("open")}, true},
		{"no state", &gh.Issue{Number: gh.Ptr(9), Title: gh.Ptr("t")}, true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := MapIssue(tt.issue)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MapIssue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tmpl.Issue.Assignee != nil {
				t.Errorf("Assignee = %v, want nil for unassigned issue", tmpl.Issue.Assignee)
			}
		})
	}
}
