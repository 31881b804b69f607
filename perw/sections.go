package perw

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopehdr/common"
)

// sanitizeSectionName turns the fixed 8-byte name into a display string:
// NUL bytes are dropped, invalid UTF-8 replaced and surrounding whitespace
// trimmed.
func sanitizeSectionName(raw []byte) string {
	name := string(bytes.ReplaceAll(raw, []byte{0}, nil))
	if !utf8.ValidString(name) {
		name = strings.ToValidUTF8(name, string(utf8.RuneError))
	}
	return strings.TrimSpace(name)
}

func decodeSection(d *decoder, index int) SectionHeader {
	defer d.enter(fmt.Sprintf("Section[%d]", index))()
	var s SectionHeader
	if name := d.raw("Name", len(s.RawName)); name != nil {
		copy(s.RawName[:], name)
		s.Name = sanitizeSectionName(name)
	}
	s.VirtualSize = take[uint32](d, "VirtualSize")
	s.VirtualAddress = addr32(d, "VirtualAddress")
	s.SizeOfRawData = take[uint32](d, "SizeOfRawData")
	rawAt := d.pos
	s.PointerToRawData = addr32(d, "PointerToRawData")
	s.PointerToRelocations = addr32(d, "PointerToRelocations")
	s.PointerToLinenumbers = common.Addr32(zero[uint32](d, "PointerToLinenumbers"))
	s.NumberOfRelocations = take[uint16](d, "NumberOfRelocations")
	s.NumberOfLinenumbers = zero[uint16](d, "NumberOfLinenumbers")
	s.Characteristics = flags[SectionCharacteristics](d, "Characteristics")
	if d.err != nil {
		return s
	}

	end := uint64(s.PointerToRawData) + uint64(s.SizeOfRawData)
	if end > uint64(len(d.data)) {
		d.fail("PointerToRawData", ErrOutOfBounds, rawAt, rawAt, end)
		return s
	}
	s.Data = bytes.Clone(d.data[s.PointerToRawData:end])
	if s.Data == nil {
		s.Data = []byte{}
	}
	return s
}

// decodeSections reads NumberOfSections records starting right after the
// optional header. A bad record does not stop the ones after it, unless the
// table itself runs past the end of the buffer.
func decodeSections(d *decoder, h *FileHeader) ([]SectionHeader, ParseErrors) {
	start := h.sectionTableOffset()
	d.seek(start)
	defer d.enter("SectionTable")()

	var (
		out  []SectionHeader
		errs ParseErrors
	)
	for i := 0; i < int(h.NumberOfSections); i++ {
		d.seek(start + i*sectionHeaderSize)
		s := decodeSection(d, i)
		if d.err == nil {
			out = append(out, s)
			continue
		}
		errs = append(errs, d.err)
		truncated := d.err.Err == ErrTruncated
		d.err = nil
		if truncated {
			break
		}
	}
	return out, errs
}
