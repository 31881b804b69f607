package elfrw

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/yalue/elf_reader"
)

var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

// Info summarises an ELF image. Err is set when the magic matched but the
// rest of the file could not be parsed.
type Info struct {
	Is64Bit  bool
	Type     string
	Sections []string
	Segments int
	Err      error
}

func fileTypeName(t elf_reader.ELFFileType) string {
	switch t {
	case 1:
		return "relocatable"
	case 2:
		return "executable"
	case 3:
		return "shared object"
	case 4:
		return "core"
	}
	return fmt.Sprintf("type %d", uint16(t))
}

// Identify reports whether data is an ELF image and, if so, what it holds.
func Identify(data []byte) (*Info, bool) {
	if !bytes.HasPrefix(data, elfMagic) {
		return nil, false
	}
	info := &Info{Is64Bit: len(data) > 4 && data[4] == 2}
	ef, err := elf_reader.ParseELFFile(data)
	if err != nil {
		info.Err = errors.Wrap(err, "failed to parse ELF file")
		return info, true
	}
	info.Type = fileTypeName(ef.GetFileType())
	info.Segments = int(ef.GetSegmentCount())
	for i := uint16(0); i < ef.GetSectionCount(); i++ {
		name, err := ef.GetSectionName(i)
		if err != nil {
			continue
		}
		info.Sections = append(info.Sections, name)
	}
	return info, true
}

func (i *Info) String() string {
	class := map[bool]string{true: "ELF64", false: "ELF32"}[i.Is64Bit]
	if i.Err != nil {
		return fmt.Sprintf("%s image (%v)", class, i.Err)
	}
	return fmt.Sprintf("%s %s, %d sections, %d segments", class, i.Type, len(i.Sections), i.Segments)
}
