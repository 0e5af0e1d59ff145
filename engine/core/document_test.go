package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CopyDocument(t *testing.T) {
	t.Run("Should produce an independent copy", func(t *testing.T) {
		original := Document{
			"card": map[string]any{"name": "agent", "tags": []any{"a"}},
		}
		copied, err := CopyDocument(original)
		require.NoError(t, err)
		require.Equal(t, original, copied)

		copied["card"].(map[string]any)["name"] = "changed"
		copied["card"].(map[string]any)["tags"].([]any)[0] = "b"
		assert.Equal(t, "agent", original["card"].(map[string]any)["name"])
		assert.Equal(t, "a", original["card"].(map[string]any)["tags"].([]any)[0])
	})

	t.Run("Should copy nil to an empty writable document", func(t *testing.T) {
		copied, err := CopyDocument(nil)
		require.NoError(t, err)
		require.NotNil(t, copied)
		copied["k"] = "v"
		assert.Equal(t, "v", copied["k"])
	})
}
