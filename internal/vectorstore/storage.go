// Package vectorstore holds the read-only index connectors. Each backend lives
// in its own subpackage and satisfies domain.VectorStore.
package vectorstore

import (
	"strconv"

	"docqa/internal/domain"
)

// Storage searches a remote index for chunks similar to a vector.
type Storage = domain.VectorStore

// ChunkFromPayload builds a chunk from index metadata. The value under
// textKey becomes the chunk text; everything else stays in Metadata.
func ChunkFromPayload(id string, payload map[string]any, textKey string) domain.Chunk {
	chunk := domain.Chunk{ID: id, Metadata: make(map[string]any, len(payload))}
	for k, v := range payload {
		if k == textKey {
			chunk.Text = stringify(v)
			continue
		}
		chunk.Metadata[k] = v
	}
	return chunk
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
