package perw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	m := newImage()
	data := append(m.buf, make([]byte, 0x40)...)
	f, err := Decode(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	f.WriteReport(&buf, "sample.exe", int64(len(data)))
	out := buf.String()
	for _, want := range []string{
		"PE64 HEADER ANALYSIS REPORT",
		"File Name:       sample.exe",
		"File Type:       Executable",
		"Architecture:    AMD64 (0x8664)",
		"Linker Version:  14.29",
		"Image Base:      0x0000000140000000",
		"Entry Point:     0x00001000 (RVA)",
		"Subsystem:       3 (Windows Console)",
		"NX_COMPAT",
		"Checksum:        Not set",
		"No data directories present",
		"Overlay Status:     ⚠️ Present at 0x210",
		".text",
		"r-x",
		"code, execute, read (executable code)",
		"SECTION HASHES",
		"MD5:    dea8736ca5558f9039bc5eec91e65734",
		"SHA256: d4f376ea1200f6ee38e9d24177b882cf10532899277b7eb4b6e68fa13eeaf5fe",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteSectionTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&File{}).WriteSectionTable(&buf)
	assert.Contains(t, buf.String(), "No sections found")
}

func TestWriteSectionTableNotes(t *testing.T) {
	m := newImage()
	m.u16(coffOff+2, 2)
	m.section(1, ".debug", 0x2000, 0, 0, 0x42000040)
	f, err := Decode(m.buf)
	require.NoError(t, err)

	var buf bytes.Buffer
	f.WriteSectionTable(&buf)
	out := buf.String()
	assert.Contains(t, out, "(debugging information, not needed at run time)")
	assert.Contains(t, out, "MD5:    N/A (no raw data)")
}
