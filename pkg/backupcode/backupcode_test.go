package backupcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	codes, hashes, err := Generate(10, 8)
	require.NoError(t, err)
	require.Len(t, codes, 10)
	require.Len(t, hashes, 10)

	seen := make(map[string]bool)
	for i, code := range codes {
		assert.Len(t, code, 8)
		assert.False(t, seen[code], "codes must be unique")
		seen[code] = true
		assert.Equal(t, HashCode(code), hashes[i].Value)
		assert.NotContains(t, hashes[i].Value, code)
		assert.False(t, hashes[i].Used)
	}
}

func TestGenerateInvalidParameters(t *testing.T) {
	_, _, err := Generate(0, 8)
	assert.Error(t, err)

	_, _, err = Generate(10, 0)
	assert.Error(t, err)
}

func TestHashCodeNormalizes(t *testing.T) {
	assert.Equal(t, HashCode("a1b2c3d4"), HashCode("  A1B2C3D4 "))
	assert.NotEqual(t, HashCode("a1b2c3d4"), HashCode("a1b2c3d5"))
}

func TestConsume(t *testing.T) {
	codes, hashes, err := Generate(3, 8)
	require.NoError(t, err)

	assert.False(t, Consume(hashes, "not-a-code"))
	assert.Equal(t, 3, Remaining(hashes))

	assert.True(t, Consume(hashes, codes[1]))
	assert.Equal(t, 2, Remaining(hashes))

	// Single use: the same code never matches twice.
	assert.False(t, Consume(hashes, codes[1]))
	assert.Equal(t, 2, Remaining(hashes))

	assert.True(t, Consume(hashes, codes[0]))
	assert.True(t, Consume(hashes, codes[2]))
	assert.Equal(t, 0, Remaining(hashes))
}
