package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPattern(t *testing.T) {
	assert.True(t, MatchesPattern(".text", []string{".text"}, nil))
	assert.True(t, MatchesPattern(".debug_info", nil, []string{".debug"}))
	assert.False(t, MatchesPattern(".data", []string{""}, []string{""}))
}

func TestCalculateEntropy(t *testing.T) {
	assert.Zero(t, CalculateEntropy(nil))
	assert.Zero(t, CalculateEntropy(bytes.Repeat([]byte{7}, 100)))
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	assert.InDelta(t, 8.0, CalculateEntropy(all), 1e-9)
	assert.InDelta(t, 1.0, CalculateEntropy([]byte{0, 1, 0, 1}), 1e-9)
}

func TestSummarizeSection(t *testing.T) {
	info := SummarizeSection([]byte("abc"), PERM_READ|PERM_EXECUTE)
	assert.True(t, info.IsReadable)
	assert.True(t, info.IsExecutable)
	assert.False(t, info.IsWritable)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", info.MD5Hash)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", info.SHA1Hash)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", info.SHA256Hash)
	assert.Greater(t, info.Entropy, 1.5)

	empty := SummarizeSection(nil, PERM_WRITE)
	assert.True(t, empty.IsWritable)
	assert.Equal(t, "N/A (no raw data)", empty.MD5Hash)
	assert.Zero(t, empty.Entropy)
}
