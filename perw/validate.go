package perw

import (
	"fmt"
	"math/bits"

	"gopehdr/common"
)

const (
	pageSize         = 0x1000
	minFileAlignment = 0x200
	maxFileAlignment = 0x10000
)

// Checksum computes the image checksum of data. The four bytes of the stored
// CheckSum field at checksumOffset count as zero, whatever their alignment.
func Checksum(data []byte, checksumOffset int) uint32 {
	at := func(i int) uint64 {
		if i >= checksumOffset && i < checksumOffset+4 {
			return 0
		}
		return uint64(data[i])
	}
	var sum uint64
	n := len(data)
	for i := 0; i < n; i += 2 {
		word := at(i)
		if i+1 < n {
			word |= at(i+1) << 8
		}
		sum += word
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	sum = (sum & 0xFFFF) + (sum >> 16)
	return uint32(sum) + uint32(n)
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && bits.OnesCount32(v) == 1
}

// Validate runs the consistency checks that a loader would apply on top of
// the structural decode. data must be the buffer f was decoded from.
func Validate(f *File, data []byte) []*common.CheckResult {
	h := &f.Header
	w := &h.OptionalHeader.Windows
	var results []*common.CheckResult

	if h.SizeOfOptionalHeader == optionalHeaderSize {
		results = append(results, common.NewPassed("SizeOfOptionalHeader", fmt.Sprintf("%d bytes", h.SizeOfOptionalHeader)))
	} else {
		results = append(results, common.NewFailed("SizeOfOptionalHeader",
			fmt.Sprintf("%d bytes, section table assumed at %d", h.SizeOfOptionalHeader, optionalHeaderSize)))
	}

	if w.NumberOfRvaAndSizes == dataDirectoryCount {
		results = append(results, common.NewPassed("NumberOfRvaAndSizes", fmt.Sprintf("%d", w.NumberOfRvaAndSizes)))
	} else {
		results = append(results, common.NewFailed("NumberOfRvaAndSizes",
			fmt.Sprintf("%d, expected %d", w.NumberOfRvaAndSizes, dataDirectoryCount)))
	}

	results = append(results, checkAlignment(w))

	switch {
	case w.CheckSum == 0:
		results = append(results, common.NewSkipped("CheckSum", "not set"))
	default:
		sum := Checksum(data, int(h.Offset)+len(peSignature)+fileHeaderSize+checksumFieldOffset)
		if sum == w.CheckSum {
			results = append(results, common.NewPassed("CheckSum", fmt.Sprintf("0x%08X", sum)))
		} else {
			results = append(results, common.NewFailed("CheckSum",
				fmt.Sprintf("stored 0x%08X, computed 0x%08X", w.CheckSum, sum)))
		}
	}

	var outside []string
	for i := range f.Sections {
		s := &f.Sections[i]
		end := uint64(s.VirtualAddress) + uint64(s.VirtualSize)
		if end > uint64(w.SizeOfImage) {
			outside = append(outside, fmt.Sprintf("%s ends at 0x%X", s.Name, end))
		}
	}
	if len(outside) == 0 {
		results = append(results, common.NewPassed("SizeOfImage", fmt.Sprintf("all sections within 0x%X", w.SizeOfImage)))
	} else {
		results = append(results, common.NewFailed("SizeOfImage",
			fmt.Sprintf("0x%X exceeded: %v", w.SizeOfImage, outside)))
	}
	return results
}

func checkAlignment(w *WindowsFields) *common.CheckResult {
	const name = "Alignment"
	switch {
	case !isPowerOfTwo(w.SectionAlignment) || !isPowerOfTwo(w.FileAlignment):
		return common.NewFailed(name, fmt.Sprintf("section 0x%X / file 0x%X not powers of two",
			w.SectionAlignment, w.FileAlignment))
	case w.SectionAlignment < w.FileAlignment:
		return common.NewFailed(name, fmt.Sprintf("section 0x%X below file 0x%X",
			w.SectionAlignment, w.FileAlignment))
	case w.SectionAlignment >= pageSize && (w.FileAlignment < minFileAlignment || w.FileAlignment > maxFileAlignment):
		return common.NewFailed(name, fmt.Sprintf("file 0x%X outside [0x%X, 0x%X]",
			w.FileAlignment, minFileAlignment, maxFileAlignment))
	case w.SectionAlignment < pageSize && w.SectionAlignment != w.FileAlignment:
		return common.NewFailed(name, fmt.Sprintf("section 0x%X below page size must equal file 0x%X",
			w.SectionAlignment, w.FileAlignment))
	}
	return common.NewPassed(name, fmt.Sprintf("section 0x%X, file 0x%X", w.SectionAlignment, w.FileAlignment))
}
