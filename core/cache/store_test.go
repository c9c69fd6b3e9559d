package cache_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"kivo-exporter/core/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) (*cache.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return cache.NewStore(cache.Config{Dir: dir}, zap.NewNop()), dir
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store, _ := newStore(t)

	payload := []byte(`{"code":200,"data":{"id":42,"name":"J_CH0042_spr","type":"spr"}}`)
	store.Put(cache.KindSpine, 42, payload)

	got, ok := store.Get(cache.KindSpine, 42)
	require.True(t, ok)
	// Spine entries are stored verbatim.
	assert.Equal(t, payload, got)
}

func TestStore_GetMiss(t *testing.T) {
	store, _ := newStore(t)

	_, ok := store.Get(cache.KindStudent, 1)
	assert.False(t, ok)
}

func TestStore_GetMalformedEntry(t *testing.T) {
	store, dir := newStore(t)

	path := filepath.Join(dir, string(cache.KindSpine), "7.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"truncated`), 0o644))

	_, ok := store.Get(cache.KindSpine, 7)
	assert.False(t, ok)
}

func TestStore_PutStudentScrubs(t *testing.T) {
	store, _ := newStore(t)

	payload := []byte(`{"code":200,"data":{"given_name":"アル","gallery":[{"big":"blob"}],"voice":[1,2,3]}}`)
	store.Put(cache.KindStudent, 5, payload)

	got, ok := store.Get(cache.KindStudent, 5)
	require.True(t, ok)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(got, &doc))
	data := doc["data"].(map[string]any)
	assert.NotContains(t, data, "gallery")
	assert.Len(t, data["voice"], 1)
	assert.Equal(t, "アル", data["given_name"])
}

func TestStore_StatsAndClear(t *testing.T) {
	store, _ := newStore(t)

	store.Put(cache.KindStudent, 1, []byte(`{"code":200,"data":{}}`))
	store.Put(cache.KindSpine, 1, []byte(`{"data":{}}`))
	store.Put(cache.KindSpine, 2, []byte(`{"data":{}}`))

	stats, err := store.CollectStats()
	require.NoError(t, err)
	assert.Equal(t, cache.Stats{Students: 1, Spines: 2}, stats)

	removed, err := store.Clear(cache.KindSpine)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	stats, err = store.CollectStats()
	require.NoError(t, err)
	assert.Equal(t, cache.Stats{Students: 1, Spines: 0}, stats)
}

func TestStore_ClearMissingNamespace(t *testing.T) {
	store, _ := newStore(t)

	removed, err := store.Clear(cache.KindStudent)
	assert.NoError(t, err)
	assert.Zero(t, removed)
}
