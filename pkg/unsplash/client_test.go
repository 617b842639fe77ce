package unsplash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "Tomato plant", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))

		w.Write([]byte(`{"results": [
			{"id": "p1", "description": "a tomato", "urls": {"regular": "https://img/p1.jpg"}},
			{"id": "p2", "description": "no url", "urls": {}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	photos, err := c.Search(context.Background(), "Tomato plant", 2)
	require.NoError(t, err)

	// Results without a usable URL are dropped.
	require.Len(t, photos, 1)
	assert.Equal(t, "p1", photos[0].ID)
	assert.Equal(t, "https://img/p1.jpg", photos[0].URL)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "tomato", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
