package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySection(t *testing.T) {
	tests := map[string]SectionType{
		".text":        CodeSections,
		".text$mn":     CodeSections,
		".rdata":       DataSections,
		".debug_info":  DebugSections,
		".reloc":       RelocationSections,
		".pdata":       ExceptionSections,
		".rsrc":        ResourceSections,
		".idata":       LinkageSections,
		".gopclntab":   BuildInfoSections,
		".rust.panics": RuntimeSections,
		"UPX0":         UnknownSections,
	}
	for name, want := range tests {
		got, m := ClassifySection(name)
		assert.Equal(t, want, got, name)
		assert.NotEmpty(t, m.Description, name)
	}
	_, m := ClassifySection(".debug_line")
	assert.True(t, m.Removable)
	assert.Equal(t, "debug", DebugSections.String())
	assert.Equal(t, "unknown", UnknownSections.String())
}
