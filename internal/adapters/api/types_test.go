package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLanguages(t *testing.T) {
	got, err := decodeLanguages([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = decodeLanguages([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, bad := range []string{`[]`, `{"Go":"lots"}`, `{"Go":1`, `"Go"`} {
		_, err := decodeLanguages([]byte(bad))
		assert.Error(t, err, bad)
	}
}
