package orderedmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSONPreservesInsertionOrder(t *testing.T) {
	m := New().Set("z", 1).Set("a", 2).Set("m", 3)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(b))
}

func TestSetOverwriteKeepsOriginalPosition(t *testing.T) {
	m := New().Set("a", 1).Set("b", 2).Set("a", 99)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"a":99,"b":2}`, string(b))
}

func TestGetMissingKey(t *testing.T) {
	m := New()
	_, ok := m.Get("missing")
	assert.False(t, ok)
}
