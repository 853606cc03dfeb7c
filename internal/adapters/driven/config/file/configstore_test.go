package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	s, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), s.Path())
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyUser, "alice"))
	require.NoError(t, s.Set(KeyWorkers, 8))
	require.NoError(t, s.Set("watch.enabled", true))

	assert.Equal(t, "alice", s.GetString(KeyUser))
	assert.Equal(t, 8, s.GetInt(KeyWorkers))
	assert.True(t, s.GetBool("watch.enabled"))
}

func TestConfigStore_MissingKeyDefaults(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", s.GetString("absent"))
	assert.Equal(t, 0, s.GetInt("absent"))
	assert.Equal(t, 0.0, s.GetFloat("absent"))
	assert.False(t, s.GetBool("absent"))
	assert.Nil(t, s.GetStringSlice("absent"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(KeyDocsDir, "/srv/deal-room"))

	s2, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/deal-room", s2.GetString(KeyDocsDir))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	payload := `user = "alice"

[parser]
api_key = "secret"
requests_per_second = 0.5

[search]
top_k = 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(payload), 0600))

	s, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "alice", s.GetString(KeyUser))
	assert.Equal(t, "secret", s.GetString(KeyParserAPIKey))
	assert.Equal(t, 0.5, s.GetFloat(KeyParserRPS))
	assert.Equal(t, 10, s.GetInt(KeyTopK))
}

func TestConfigStore_GetFloat_AcceptsIntegers(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyAnswererRPS, int64(2)))

	assert.Equal(t, 2.0, s.GetFloat(KeyAnswererRPS))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("risk.keywords", []any{"indemnity", "liability"}))

	assert.Equal(t, []string{"indemnity", "liability"}, s.GetStringSlice("risk.keywords"))
}
