package cache

import "encoding/json"

// scrubRemoveFields are dropped from the student data payload outright.
// They hold media galleries and voice-line content that the export
// pipeline never reads and that dominates the payload size.
var scrubRemoveFields = []string{"gallery", "voice_lines"}

// scrubCompactFields are media-presence arrays. A non-empty array is
// collapsed to a single sentinel element so "has content" survives the
// round trip without storing the content. Empty arrays stay empty.
var scrubCompactFields = []string{"voice", "ost", "manga"}

// ScrubStudent returns a compacted copy of a raw student response suitable
// for caching. This is a one-way transform: the original content of the
// scrubbed fields cannot be reconstructed from a cache hit, so anything
// that needs those fields must bypass the cache and fetch fresh.
func ScrubStudent(payload []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}

	data, ok := doc["data"].(map[string]any)
	if !ok {
		// No data object to scrub; still re-marshal for compactness.
		return json.Marshal(doc)
	}

	for _, field := range scrubRemoveFields {
		delete(data, field)
	}
	for _, field := range scrubCompactFields {
		if arr, ok := data[field].([]any); ok && len(arr) > 0 {
			data[field] = []any{map[string]any{}}
		}
	}

	return json.Marshal(doc)
}
