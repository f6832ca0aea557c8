package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReport(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		rep, err := decodeReport(`{"selections": {"category": "Goods Only"}, "final_answer": "Use a Goods and Services Contract.", "analysis": "Low risk."}`)
		require.NoError(t, err)
		assert.Equal(t, "Goods Only", rep.Selections["category"])
		assert.Equal(t, "Use a Goods and Services Contract.", rep.FinalAnswer)
		assert.Equal(t, "Low risk.", rep.Analysis)
	})

	t.Run("fenced with prose", func(t *testing.T) {
		rep, err := decodeReport("Here is the report:\n```json\n{\"final_answer\": \"x\", \"analysis\": \"y\"}\n```\nHope that helps!")
		require.NoError(t, err)
		assert.Equal(t, "x", rep.FinalAnswer)
		assert.Equal(t, "y", rep.Analysis)
	})

	t.Run("missing keys tolerated", func(t *testing.T) {
		rep, err := decodeReport(`{"final_answer": "x"}`)
		require.NoError(t, err)
		assert.Equal(t, "x", rep.FinalAnswer)
		assert.Empty(t, rep.Analysis)
	})

	t.Run("no object", func(t *testing.T) {
		_, err := decodeReport("I cannot produce a report.")
		require.Error(t, err)
	})

	t.Run("broken JSON", func(t *testing.T) {
		_, err := decodeReport(`{"final_answer": `)
		require.Error(t, err)
	})
}
