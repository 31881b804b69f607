package perw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMachineSweep(t *testing.T) {
	known := map[uint16]Machine{0: MachineUnknown, 0x8664: MachineAMD64, 0x200: MachineIA64, 0x14C: MachineI386}
	for v := 0; v <= 0xFFFF; v++ {
		m, err := ParseMachine(uint16(v))
		if want, ok := known[uint16(v)]; ok {
			require.NoError(t, err, "0x%X", v)
			assert.Equal(t, want, m)
			continue
		}
		require.ErrorIs(t, err, ErrUnrecognizedCode, "0x%X", v)
	}
	assert.Equal(t, "AMD64", MachineAMD64.String())
	assert.Equal(t, "Machine(0x1C0)", Machine(0x1C0).String())
}

func TestParseSubsystemSweep(t *testing.T) {
	valid := map[uint16]bool{0: true, 1: true, 2: true, 3: true, 5: true, 7: true, 8: true, 9: true,
		10: true, 11: true, 12: true, 13: true, 14: true, 16: true}
	for v := 0; v <= 0xFFFF; v++ {
		s, err := ParseSubsystem(uint16(v))
		if valid[uint16(v)] {
			require.NoError(t, err, "%d", v)
			assert.Equal(t, Subsystem(v), s)
			continue
		}
		require.ErrorIs(t, err, ErrUnrecognizedCode, "%d", v)
	}
	assert.Equal(t, "EFI ROM", SubsystemEfiRom.String())
	assert.Equal(t, "Subsystem(4)", Subsystem(4).String())
}

func TestParseCharacteristicsSweep(t *testing.T) {
	for v := 0; v <= 0xFFFF; v++ {
		c, err := ParseCharacteristics(uint16(v))
		if v&0x0040 != 0 {
			require.ErrorIs(t, err, ErrUnrecognizedBits, "0x%X", v)
			continue
		}
		require.NoError(t, err, "0x%X", v)
		assert.Equal(t, uint16(v), c.Bits())
	}
}

func TestParseDllCharacteristicsSweep(t *testing.T) {
	for v := 0; v <= 0xFFFF; v++ {
		c, err := ParseDllCharacteristics(uint16(v))
		if v&0x001F != 0 {
			require.ErrorIs(t, err, ErrUnrecognizedBits, "0x%X", v)
			continue
		}
		require.NoError(t, err, "0x%X", v)
		assert.Equal(t, uint16(v), c.Bits())
	}
}

func TestParseSectionCharacteristics(t *testing.T) {
	expectValid := func(v uint32) bool {
		return v&^0xFFF098E0 == 0 && (v>>20)&0xF != 0xF
	}
	for v := uint64(0); v <= 0xFFFFFFFF; v += 0x10001 {
		c, err := ParseSectionCharacteristics(uint32(v))
		if !expectValid(uint32(v)) {
			require.ErrorIs(t, err, ErrUnrecognizedBits, "0x%08X", v)
			continue
		}
		require.NoError(t, err, "0x%08X", v)
		assert.Equal(t, uint32(v), c.Bits())
	}
	for bit := 0; bit < 32; bit++ {
		v := uint32(1) << bit
		_, err := ParseSectionCharacteristics(v)
		assert.Equal(t, expectValid(v), err == nil, "bit %d", bit)
	}
}

func TestSectionAlignmentCodes(t *testing.T) {
	for code := uint32(0); code < 16; code++ {
		c, err := ParseSectionCharacteristics(code<<20 | uint32(SectionMemRead))
		switch code {
		case 0:
			require.NoError(t, err)
			assert.Zero(t, c.Alignment())
		case 15:
			require.ErrorIs(t, err, ErrUnrecognizedBits)
		default:
			require.NoError(t, err)
			assert.Equal(t, uint32(1)<<(code-1), c.Alignment())
		}
	}
	assert.Equal(t, uint32(8192), SectionAlign8192Bytes.Alignment())
	assert.Equal(t, uint32(16), SectionAlign16Bytes.Alignment())
}

func TestFlagSetOperations(t *testing.T) {
	c := FileExecutableImage.Union(FileDLL)
	assert.True(t, c.Has(FileDLL))
	assert.True(t, c.Has(FileExecutableImage|FileDLL))
	assert.False(t, c.Has(FileSystem))
	assert.Equal(t, FileDLL, c.Intersect(FileDLL|FileSystem))
	assert.Equal(t, "EXECUTABLE_IMAGE, DLL", c.String())
	assert.Equal(t, "None", Characteristics(0).String())

	d := DllNXCompat.Union(DllDynamicBase)
	assert.True(t, d.Has(DllNXCompat))
	assert.Equal(t, "DYNAMIC_BASE, NX_COMPAT", d.String())

	s := SectionCntCode | SectionMemExecute | SectionMemRead | SectionAlign16Bytes
	assert.True(t, s.Has(SectionMemExecute|SectionMemRead))
	assert.True(t, s.Has(SectionAlign16Bytes))
	assert.False(t, s.Has(SectionAlign1Bytes))
	assert.False(t, s.Has(SectionMemWrite))
	assert.Equal(t, SectionMemRead, s.Intersect(SectionMemRead|SectionMemWrite))
	assert.Equal(t, "CODE, EXECUTE, READ, ALIGN_16BYTES", s.String())
	assert.Equal(t, "ALIGN_4BYTES", SectionAlign4Bytes.String())
}
