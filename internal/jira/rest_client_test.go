package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRESTClient_SearchIssues(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("jql")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(SearchResponse{Total: 1, Issues: []IssueDTO{{ID: "1", Key: "P-1"}}})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL + "/", User: "user", Token: "secret"})
	resp, err := c.SearchIssues(context.Background(), "project = P", 0, 50)
	if err != nil {
		t.Fatalf("SearchIssues() error = %v", err)
	}
	if resp.Total != 1 || len(resp.Issues) != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if gotQuery != "project = P" {
		t.Errorf("jql = %q", gotQuery)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Errorf("Authorization = %q, want basic auth", gotAuth)
	}
}

func TestRESTClient_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.SearchIssues(context.Background(), "", 0, 50)
	if err == nil || !strings.Contains(err.Error(), "Jira authentication failed") {
		t.Errorf("error = %v, want authentication failure", err)
	}
}

func TestAuthorizer(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"anonymous", Config{}, ""},
		{"token only", Config{Token: "pat"}, "Bearer pat"},
		{"user without token", Config{User: "u"}, ""},
		{"basic", Config{User: "u", Token: "p"}, "Basic dTpw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			authorizer(tt.cfg)(req)
			if got := req.Header.Get("Authorization"); got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
		})
	}
}
