package elfrw

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyRejectsNonELF(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("MZ\x90\x00"), []byte("\x7fEL")} {
		info, ok := Identify(data)
		assert.False(t, ok)
		assert.Nil(t, info)
	}
}

func TestIdentifyBrokenELF(t *testing.T) {
	data := append([]byte{0x7F, 'E', 'L', 'F', 2}, make([]byte, 8)...)
	info, ok := Identify(data)
	require.True(t, ok)
	require.NotNil(t, info)
	assert.True(t, info.Is64Bit)
	assert.Error(t, info.Err)
	assert.Contains(t, info.String(), "ELF64 image")
}

func TestIdentifyTestBinary(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("test binary is only ELF on linux")
	}
	path, err := os.Executable()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	info, ok := Identify(data)
	require.True(t, ok)
	require.NoError(t, info.Err)
	assert.NotEmpty(t, info.Sections)
	assert.Positive(t, info.Segments)
	assert.Contains(t, info.Sections, ".text")
}
