package perw

import (
	"gopehdr/common"
)

// decodeFileHeader follows the pointer at 0x3C, checks the PE signature and
// reads the COFF header together with the optional header that follows it.
// Only the low byte of the pointer is honoured.
func decodeFileHeader(d *decoder) FileHeader {
	var h FileHeader
	d.seek(peOffsetPointer)
	h.Offset = common.Addr32(take[uint8](d, "PEHeaderOffset"))
	if d.err != nil {
		return h
	}

	d.seek(int(h.Offset))
	defer d.enter("Header")()
	d.expect("Signature", peSignature, ErrBadSignature)
	h.Machine = code[Machine](d, "Machine")
	h.NumberOfSections = take[uint16](d, "NumberOfSections")
	h.TimeDateStamp = take[uint32](d, "TimeDateStamp")
	h.PointerToSymbolTable = addr32(d, "PointerToSymbolTable")
	h.NumberOfSymbols = take[uint32](d, "NumberOfSymbols")
	h.SizeOfOptionalHeader = take[uint16](d, "SizeOfOptionalHeader")
	h.Characteristics = flags[Characteristics](d, "Characteristics")
	h.OptionalHeader = decodeOptionalHeader(d)
	return h
}
