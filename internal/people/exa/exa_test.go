package exa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spigell/candidate-sourcer/internal/people"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := New("test-key", Config{APIURL: ts.URL, RequestsPerSecond: 1000}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("  ", Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is required")
}

func TestSearchBuildsPeopleRequest(t *testing.T) {
	var got searchRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(searchResponse{Results: []result{{
			Title:  "Jane Doe - Staff Data Engineer",
			URL:    "https://www.linkedin.com/in/jane",
			Author: "Jane Doe",
			Text:   strings.Repeat("a", 300),
		}}})
	})

	stubs, err := c.Search(context.Background(), people.SearchRequest{
		Query:        "staff data engineer chicago",
		NumResults:   99,
		LinkedInOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "people", got.Category)
	assert.Equal(t, 25, got.NumResults)
	assert.Equal(t, []string{"linkedin.com", "www.linkedin.com"}, got.IncludeDomains)
	assert.True(t, got.Contents.Text)

	require.Len(t, stubs, 1)
	assert.Equal(t, "Jane Doe", stubs[0].Author)
	assert.Len(t, stubs[0].Summary, 240)
	assert.Len(t, stubs[0].Content, 300)
}

func TestSearchOmitsDomainsWhenNotLinkedInOnly(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(searchResponse{Results: []result{{URL: "https://github.com/jane"}}})
	})

	_, err := c.Search(context.Background(), people.SearchRequest{Query: "go developer", NumResults: 0})
	require.NoError(t, err)

	_, ok := raw["includeDomains"]
	assert.False(t, ok)
	assert.EqualValues(t, 1, raw["numResults"])
}

func TestSearchEmptyResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.Search(context.Background(), people.SearchRequest{Query: "nobody", NumResults: 5})
	assert.True(t, errors.Is(err, people.ErrNoResults))
}

func TestSearchBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	})

	_, err := c.Search(context.Background(), people.SearchRequest{Query: "x", NumResults: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Search(context.Background(), people.SearchRequest{Query: "  "})
	require.Error(t, err)
}
