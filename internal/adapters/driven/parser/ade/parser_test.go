package ade

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.pdf")
	require.NoError(t, os.WriteFile(path, []byte("fake pdf bytes"), 0600))
	return path
}

func TestNewParser_RequiresAPIKey(t *testing.T) {
	_, err := NewParser(Config{})

	assert.Error(t, err)
}

func TestNewParser_Defaults(t *testing.T) {
	p, err := NewParser(Config{APIKey: "key"})

	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultModel, p.model)
}

func TestParser_Parse_MapsChunks(t *testing.T) {
	var gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		gotModel = r.FormValue("model")
		_, _, err := r.FormFile("document")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chunks":[
			{"text":"First clause.","page_index":0,"type":"text"},
			{"text":"A table.","type":"table"},
			{"text":"Second page.","page_index":1}
		]}`))
	}))
	defer server.Close()

	p, err := NewParser(Config{APIKey: "test-key", BaseURL: server.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	chunks, err := p.Parse(context.Background(), writeTestDoc(t))

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, DefaultModel, gotModel)

	require.Len(t, chunks, 3)
	assert.Equal(t, "First clause.", chunks[0].Text)
	require.NotNil(t, chunks[0].Page)
	assert.Equal(t, 0, *chunks[0].Page)
	assert.Equal(t, "text", chunks[0].Type)

	// Page and type stay unset when the service omits them.
	assert.Nil(t, chunks[1].Page)
	assert.Equal(t, "table", chunks[1].Type)
	assert.Equal(t, "", chunks[2].Type)
}

func TestParser_Parse_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"message":"unsupported layout"}}`))
	}))
	defer server.Close()

	p, err := NewParser(Config{APIKey: "test-key", BaseURL: server.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	_, err = p.Parse(context.Background(), writeTestDoc(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported layout")
}

func TestParser_Parse_MissingFile(t *testing.T) {
	p, err := NewParser(Config{APIKey: "test-key", RequestsPerSecond: 100})
	require.NoError(t, err)

	_, err = p.Parse(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))

	assert.Error(t, err)
}
