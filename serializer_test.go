package satchel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSerializer_RoundTrip(t *testing.T) {
	s := DefaultSerializer()

	type doc struct {
		Id    string
		Value string
	}
	data, err := s.Serialize(doc{Id: "one", Value: "<purple>"})
	require.NoError(t, err)
	// No HTML escaping and no trailing newline in stored text.
	assert.Equal(t, `{"Id":"one","Value":"<purple>"}`, data)

	var out doc
	require.NoError(t, s.Deserialize(data, &out))
	assert.Equal(t, "one", out.Id)
	assert.Equal(t, "<purple>", out.Value)
}

func TestDefaultSerializer_DeserializeError(t *testing.T) {
	var out map[string]any
	err := DefaultSerializer().Deserialize("{not json", &out)
	require.Error(t, err)
}

func TestDocumentKey(t *testing.T) {
	s := DefaultSerializer()

	id, data, err := documentKey(s, "Id", map[string]any{"Id": "dove", "Value": "purple"})
	require.NoError(t, err)
	assert.Equal(t, "dove", id)
	assert.JSONEq(t, `{"Id":"dove","Value":"purple"}`, data)

	// Numeric keys coerce to their string form.
	id, _, err = documentKey(s, "Id", map[string]any{"Id": 18})
	require.NoError(t, err)
	assert.Equal(t, "18", id)

	// Custom key field.
	id, _, err = documentKey(s, "DocKey", map[string]any{"DocKey": "k7"})
	require.NoError(t, err)
	assert.Equal(t, "k7", id)

	// Absent key yields the empty string, not an error.
	id, _, err = documentKey(s, "Id", map[string]any{"Value": "x"})
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestConfigGenerateID(t *testing.T) {
	id, err := Config{AutoID: AutoIDDisabled}.generateID()
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = Config{AutoID: AutoIDUUID}.generateID()
	require.NoError(t, err)
	assert.Len(t, id, 36)

	id, err = Config{AutoID: AutoIDRandomString}.generateID()
	require.NoError(t, err)
	assert.Len(t, id, DefaultRandomIDLength)

	id, err = Config{AutoID: AutoIDRandomString, RandomIDLength: 40}.generateID()
	require.NoError(t, err)
	assert.Len(t, id, 40)
}
