package tarallo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkAdd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bulk/add/batch-1", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("overwrite"))

		body, _ := io.ReadAll(r.Body)
		var items []map[string]any
		require.NoError(t, json.Unmarshal(body, &items))
		require.Len(t, items, 2)
		assert.Equal(t, "Chernobyl", items[0]["parent"])

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	first := NewItemToUpload()
	first.SetParent("Chernobyl")
	first.AddFeature("type", "ram")
	second := NewItemToUpload()
	second.SetParent("Chernobyl")

	client := newTestClient(t, server.URL)
	ok, err := client.BulkAdd(context.Background(), []*ItemToUpload{first, second}, "batch-1", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBulkAdd_DuplicateIdentifier(t *testing.T) {
	var batches int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		overwrite := r.URL.Query().Get("overwrite") == "true"
		batches++
		if batches > 1 && !overwrite {
			// Same identifier, no overwrite: a conflict, not an error.
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	items := []*ItemToUpload{NewItemToUpload()}

	ok, err := client.BulkAdd(context.Background(), items, "batch-1", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.BulkAdd(context.Background(), items, "batch-1", false)
	require.NoError(t, err)
	assert.False(t, ok, "duplicate identifier without overwrite is a no-op failure")

	ok, err = client.BulkAdd(context.Background(), items, "batch-1", true)
	require.NoError(t, err)
	assert.True(t, ok, "overwrite replaces the previous batch")
}

func TestBulkAdd_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"validation failure", http.StatusBadRequest},
		{"identifier conflict", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			ok, err := client.BulkAdd(context.Background(), []*ItemToUpload{NewItemToUpload()}, "batch-1", false)
			require.NoError(t, err, "a refused batch is an expected outcome, not an error")
			assert.False(t, ok)
		})
	}
}

func TestBulkAdd_GeneratedIdentifier(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ok, err := client.BulkAdd(context.Background(), []*ItemToUpload{NewItemToUpload()}, "", false)
	require.NoError(t, err)
	assert.True(t, ok)

	identifier := strings.TrimPrefix(gotPath, "/bulk/add/")
	assert.NotEmpty(t, identifier, "an identifier is generated when none is given")
	assert.Len(t, identifier, 36, "generated identifiers are UUIDs")
}

func TestBulkAdd_InvalidItem(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	bad := NewItemToUpload()
	bad.Features[""] = "x"

	client := newTestClient(t, server.URL)
	_, err := client.BulkAdd(context.Background(), []*ItemToUpload{bad}, "", false)

	var invalid *InvalidObjectError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, called, "invalid batches never reach the server")
}

func TestBulkAdd_NotAuthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ok, err := client.BulkAdd(context.Background(), []*ItemToUpload{NewItemToUpload()}, "batch-1", false)
	assert.False(t, ok)

	var authErr *NotAuthorizedError
	require.ErrorAs(t, err, &authErr)
}
