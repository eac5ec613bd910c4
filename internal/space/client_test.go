package space

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issues-import/internal/issues"
)

func TestRESTClient_ImportIssues(t *testing.T) {
	var got ImportRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/http/projects/key:ABC/planning/issues/import", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"message": "1 created", "created": [{"externalId": "X-1", "issue": {"id": "abc"}}]}`)
	}))
	defer server.Close()

	c := NewClient(Config{ServerURL: server.URL + "/", Token: "tok"})
	res, err := c.ImportIssues(context.Background(), ProjectByKey("ABC"), ImportRequest{
		Metadata:              ImportMetadata{ImportSource: "GitHub"},
		Issues:                []issues.ExternalIssue{{Summary: "s", Status: "open", ExternalID: "X-1"}},
		AssigneeMissingPolicy: MissingReplaceWithDefault,
		StatusMissingPolicy:   MissingSkip,
		OnExistsPolicy:        ExistsUpdate,
	})

	require.NoError(t, err)
	assert.Equal(t, "1 created", res.Message)
	require.Len(t, res.Touched(), 1)
	assert.Equal(t, "abc", res.Touched()[0].Issue.ID)
	assert.Equal(t, ExistsUpdate, got.OnExistsPolicy)
	assert.Equal(t, MissingReplaceWithDefault, got.AssigneeMissingPolicy)
	assert.Equal(t, "GitHub", got.Metadata.ImportSource)
}

func TestRESTClient_ImportIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(Config{ServerURL: server.URL})
	_, err := c.ImportIssues(context.Background(), ProjectByID("42"), ImportRequest{})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRESTClient_SecondaryEndpoints(t *testing.T) {
	var paths []string
	var boardBody boardIssueRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/api/http/projects/planning/boards/issues":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&boardBody))
		case "/api/http/projects/id:42/planning/boards":
			assert.Equal(t, "100", r.URL.Query().Get("$top"))
			assert.Equal(t, "7", r.URL.Query().Get("$skip"))
			_, _ = io.WriteString(w, `{"next": "8", "data": [{"id": "b", "name": "Board"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	c := NewClient(Config{ServerURL: server.URL})
	ctx := context.Background()

	require.NoError(t, c.AddIssueToBoard(ctx, "B1", "I1"))
	require.NoError(t, c.AddIssueTag(ctx, ProjectByID("42"), "I1", "T1"))
	batch, err := c.ListBoards(ctx, ProjectByID("42"), "7", ListPageSize)
	require.NoError(t, err)

	assert.Equal(t, boardIssueRequest{Board: "id:B1", Issue: "id:I1"}, boardBody)
	assert.Equal(t, "8", batch.Next)
	assert.Equal(t, []Record{{ID: "b", Name: "Board"}}, batch.Data)
	assert.Equal(t, []string{
		"POST /api/http/projects/planning/boards/issues",
		"POST /api/http/projects/id:42/planning/issues/id:I1/tags/T1",
		"GET /api/http/projects/id:42/planning/boards",
	}, paths)
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "key:ABC", ProjectByKey("ABC").String())
	assert.Equal(t, "id:42", ProjectByID("42").String())
	assert.Equal(t, "name:Sprint", BoardByName("Sprint").String())
	assert.Equal(t, "id:7", BoardByID("7").String())
}
