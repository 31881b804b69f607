package perw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopehdr/common"
)

func resultByName(t *testing.T, rs []*common.CheckResult, name string) *common.CheckResult {
	t.Helper()
	for _, r := range rs {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no check named %q", name)
	return nil
}

func TestValidateCleanImage(t *testing.T) {
	m := newImage()
	f, err := Decode(m.buf)
	require.NoError(t, err)

	rs := Validate(f, m.buf)
	assert.False(t, common.Failed(rs))
	assert.True(t, resultByName(t, rs, "CheckSum").Skipped)
	assert.True(t, resultByName(t, rs, "Alignment").Passed)
	assert.True(t, resultByName(t, rs, "SizeOfImage").Passed)
}

func TestValidateChecksum(t *testing.T) {
	m := newImage()
	sum := Checksum(m.buf, optOff+64)
	m.u32(optOff+64, sum)
	assert.Equal(t, sum, Checksum(m.buf, optOff+64), "stored field must not affect the sum")

	f, err := Decode(m.buf)
	require.NoError(t, err)
	assert.True(t, resultByName(t, Validate(f, m.buf), "CheckSum").Passed)

	m.u32(optOff+64, sum+1)
	f, err = Decode(m.buf)
	require.NoError(t, err)
	r := resultByName(t, Validate(f, m.buf), "CheckSum")
	assert.False(t, r.Passed)
	assert.Contains(t, r.Message, "computed")
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, uint32(0), Checksum(nil, 0))
	// 0x0201 + 0x0403 + 0x05 + length 5
	assert.Equal(t, uint32(0x0609+5), Checksum([]byte{1, 2, 3, 4, 5}, 100))
	// Carries fold back into the low 16 bits.
	assert.Equal(t, uint32(0x0002+4), Checksum([]byte{0xFF, 0xFF, 0x02, 0x00}, 100))
	// The four bytes at the checksum offset are skipped.
	assert.Equal(t, uint32(0x0201+6), Checksum([]byte{1, 2, 9, 9, 9, 9}, 2))
	// An odd offset masks bytes 1..4, not the words around them.
	// 0x0001 + 0x0000 + 0x0600 + 0x0807 + length 8
	assert.Equal(t, uint32(0x0E08+8), Checksum([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 1))
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *image)
		check  string
	}{
		{"section alignment below file", func(m *image) { m.u32(winOff+8, 0x100); m.u32(winOff+12, 0x200) }, "Alignment"},
		{"alignment not power of two", func(m *image) { m.u32(winOff+12, 0x300) }, "Alignment"},
		{"file alignment too large", func(m *image) { m.u32(winOff+8, 0x40000); m.u32(winOff+12, 0x20000) }, "Alignment"},
		{"optional header size", func(m *image) { m.u16(coffOff+16, 224) }, "SizeOfOptionalHeader"},
		{"rva and sizes", func(m *image) { m.u32(winOff+84, 10) }, "NumberOfRvaAndSizes"},
		{"size of image", func(m *image) { m.u32(winOff+32, 0x1008) }, "SizeOfImage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newImage()
			tt.mutate(m)
			f, err := Decode(m.buf)
			require.NoError(t, err)
			rs := Validate(f, m.buf)
			assert.True(t, common.Failed(rs))
			assert.False(t, resultByName(t, rs, tt.check).Passed)
		})
	}
}

func TestValidateSmallAlignment(t *testing.T) {
	m := newImage()
	m.u32(winOff+8, 0x200)
	m.u32(winOff+12, 0x200)
	f, err := Decode(m.buf)
	require.NoError(t, err)
	assert.True(t, resultByName(t, Validate(f, m.buf), "Alignment").Passed)
}

func TestChecksumIgnoresStoredFieldAtOddOffset(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	want := Checksum(data, 21)
	copy(data[21:25], []byte{0xAA, 0xBB, 0xCC, 0xDD})
	assert.Equal(t, want, Checksum(data, 21))

	zeroed := append([]byte(nil), data...)
	copy(zeroed[21:25], make([]byte, 4))
	assert.Equal(t, Checksum(zeroed, len(zeroed)), Checksum(data, 21))

	data[20] ^= 0xFF
	assert.NotEqual(t, want, Checksum(data, 21), "byte before the field is summed")
}
