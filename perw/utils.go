package perw

import (
	"time"

	"github.com/pkg/errors"

	"gopehdr/common"
)

// FileType describes the image kind from the file characteristics.
func (f *File) FileType() string {
	switch {
	case f.IsDLL():
		return "DLL"
	case f.Header.Characteristics.Has(FileSystem):
		return "System file"
	case f.IsExecutable():
		return "Executable"
	}
	return "Object"
}

func (f *File) IsExecutable() bool {
	return f.Header.Characteristics.Has(FileExecutableImage)
}

func (f *File) IsDLL() bool {
	return f.Header.Characteristics.Has(FileDLL)
}

// SectionByName returns the first section called name.
func (f *File) SectionByName(name string) (*SectionHeader, error) {
	for i := range f.Sections {
		if f.Sections[i].Name == name {
			return &f.Sections[i], nil
		}
	}
	return nil, errors.Errorf("section %q not found", name)
}

// SectionByRVA returns the section whose virtual range holds rva.
func (f *File) SectionByRVA(rva common.Addr32) (*SectionHeader, error) {
	for i := range f.Sections {
		s := &f.Sections[i]
		size := max(s.VirtualSize, s.SizeOfRawData)
		if rva >= s.VirtualAddress && uint64(rva) < uint64(s.VirtualAddress)+uint64(size) {
			return s, nil
		}
	}
	return nil, errors.Errorf("no section contains RVA 0x%s", rva)
}

// ExecutableSections returns the sections mapped with execute permission.
func (f *File) ExecutableSections() []*SectionHeader {
	var out []*SectionHeader
	for i := range f.Sections {
		if f.Sections[i].Characteristics.Has(SectionMemExecute) {
			out = append(out, &f.Sections[i])
		}
	}
	return out
}

// ActiveDirectories returns the non-empty data directories.
func (f *File) ActiveDirectories() []NamedDirectory {
	var out []NamedDirectory
	for _, d := range f.Header.OptionalHeader.DataDirectories.Entries() {
		if !d.Entry.IsZero() {
			out = append(out, d)
		}
	}
	return out
}

// RawSize sums SizeOfRawData over all sections.
func (f *File) RawSize() int64 {
	var total int64
	for i := range f.Sections {
		total += int64(f.Sections[i].SizeOfRawData)
	}
	return total
}

// Timestamp renders TimeDateStamp as UTC, or "Not set" when zero.
func (h *FileHeader) Timestamp() string {
	if h.TimeDateStamp == 0 {
		return "Not set"
	}
	return time.Unix(int64(h.TimeDateStamp), 0).UTC().Format("2006-01-02 15:04:05 MST")
}
