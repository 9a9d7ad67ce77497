package steamspy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHiddenContainer(t *testing.T) {
	t.Run("first hidden div wins", func(t *testing.T) {
		doc := `<html><body><div>visible</div><div hidden>{"a": &quot;b&quot;}</div><div hidden>second</div></body></html>`
		text, err := findHiddenContainer(doc)
		require.NoError(t, err)
		assert.Equal(t, `{"a": "b"}`, text)
	})

	t.Run("entities are decoded", func(t *testing.T) {
		text, err := findHiddenContainer(hiddenDocument(`{"name": "Tom & Jerry <3"}`))
		require.NoError(t, err)
		assert.Equal(t, `{"name": "Tom & Jerry <3"}`, text)
	})

	t.Run("missing container", func(t *testing.T) {
		_, err := findHiddenContainer(`<html><body><span hidden>{}</span></body></html>`)
		assert.Error(t, err)
	})
}

func TestDecodePayload(t *testing.T) {
	payload, err := decodePayload("  {\"10\": {\"appid\": 10}}\n")
	require.NoError(t, err)
	assert.False(t, isEmptyPayload(payload))

	payload, err = decodePayload("{}")
	require.NoError(t, err)
	assert.True(t, isEmptyPayload(payload))

	payload, err = decodePayload("not json")
	assert.Error(t, err)
	assert.True(t, isEmptyPayload(payload))

	_, err = decodePayload(`"string"`)
	assert.Error(t, err)
}
