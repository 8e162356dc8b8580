package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONL(t *testing.T) {
	t.Run("empty lines are ignored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dump.jsonl")
		require.NoError(t, os.WriteFile(path, []byte("{\"a\":1}\n\n{\"a\":2}\n\n"), 0o644))

		records, skipped, err := readJSONL(path)
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Zero(t, skipped)
	})

	t.Run("malformed lines are skipped and counted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dump.jsonl")
		require.NoError(t, os.WriteFile(path, []byte("{\"a\":1}\n{invalid json here\n{\"a\":2}\n"), 0o644))

		records, skipped, err := readJSONL(path)
		require.NoError(t, err)
		assert.Equal(t, []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`{"a":2}`)}, records)
		assert.Equal(t, 1, skipped)
	})

	t.Run("lines beyond the default scanner limit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dump.jsonl")
		long := `{"data":"` + strings.Repeat("x", 1<<20) + `"}`
		require.NoError(t, os.WriteFile(path, []byte(long+"\n"), 0o644))

		records, _, err := readJSONL(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Len(t, records[0], len(long))
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := readJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWriteJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.jsonl")

	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))
	records := []json.RawMessage{
		json.RawMessage(`{"key":"value1"}`),
		json.RawMessage(`{"key":"value2"}`),
	}
	require.NoError(t, writeJSONL(path, records))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"key\":\"value1\"}\n{\"key\":\"value2\"}\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	t.Run("missing directory", func(t *testing.T) {
		err := writeJSONL(filepath.Join(dir, "no", "such", "dir", "dump.jsonl"), records)
		assert.Error(t, err)
	})
}
