package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/search"
)

func TestClient_Search(t *testing.T) {
	var got SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"ev","results":[{"title":"EV subsidies","url":"https://example.com/ev","content":"snippet","score":0.9,"published_date":"2026-10-01"}]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-test", WithBaseURL(srv.URL+"/"))
	resp, err := c.Search(context.Background(), &search.Request{Query: "ev", Topic: search.TopicNews, MaxResults: 3})
	require.NoError(t, err)

	assert.Equal(t, SearchRequest{Query: "ev", SearchDepth: "basic", Topic: "news", MaxResults: 3}, got)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, search.Result{
		Title:         "EV subsidies",
		URL:           "https://example.com/ev",
		Content:       "snippet",
		Score:         0.9,
		PublishedDate: "2026-10-01",
	}, resp.Results[0])
}

func TestClient_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), &search.Request{Query: "ev"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
