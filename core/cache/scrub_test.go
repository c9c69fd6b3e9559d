package cache_test

import (
	"encoding/json"
	"testing"

	"kivo-exporter/core/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrubStudent(t *testing.T) {
	payload := []byte(`{
		"code": 200,
		"data": {
			"family_name": "砂狼",
			"given_name": "シロコ",
			"gallery": [{"url": "https://example.com/a.png"}, {"url": "https://example.com/b.png"}],
			"voice_lines": [{"text": "..."}],
			"voice": [{"id": 1}, {"id": 2}, {"id": 3}],
			"ost": [],
			"spine": [10, 11]
		}
	}`)

	scrubbed, err := cache.ScrubStudent(payload)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(scrubbed, &doc))
	data := doc["data"].(map[string]any)

	// Heavy fields are removed outright.
	assert.NotContains(t, data, "gallery")
	assert.NotContains(t, data, "voice_lines")

	// Non-empty presence arrays collapse to a single sentinel element.
	voice, ok := data["voice"].([]any)
	require.True(t, ok)
	assert.Len(t, voice, 1)

	// Empty arrays stay empty.
	ost, ok := data["ost"].([]any)
	require.True(t, ok)
	assert.Empty(t, ost)

	// Fields the pipeline reads survive untouched.
	assert.Equal(t, "砂狼", data["family_name"])
	assert.Equal(t, []any{float64(10), float64(11)}, data["spine"])
}

func TestScrubStudent_NoDataObject(t *testing.T) {
	scrubbed, err := cache.ScrubStudent([]byte(`{"code": 404}`))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"code": 404}`, string(scrubbed))
}

func TestScrubStudent_InvalidJSON(t *testing.T) {
	_, err := cache.ScrubStudent([]byte(`not json`))
	assert.Error(t, err)
}
