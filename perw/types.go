package perw

import (
	"gopehdr/common"
)

const (
	peOffsetPointer     = 0x3C
	fileHeaderSize      = 20
	optionalHeaderSize  = 240
	dataDirectoryCount  = 16
	sectionHeaderSize   = 40
	checksumFieldOffset = 64
)

var (
	peSignature = []byte{'P', 'E', 0, 0}
	pe64Magic   = []byte{0x0B, 0x02}
)

type DataDirectoryEntry struct {
	VirtualAddress common.Addr32
	Size           uint32
}

// IsZero reports whether the entry is absent.
func (e DataDirectoryEntry) IsZero() bool {
	return e.VirtualAddress == 0 && e.Size == 0
}

type DataDirectories struct {
	Export         DataDirectoryEntry
	Import         DataDirectoryEntry
	Resource       DataDirectoryEntry
	Exception      DataDirectoryEntry
	Certificate    DataDirectoryEntry
	BaseRelocation DataDirectoryEntry
	Debug          DataDirectoryEntry
	GlobalPtr      DataDirectoryEntry
	TLS            DataDirectoryEntry
	LoadConfig     DataDirectoryEntry
	BoundImport    DataDirectoryEntry
	IAT            DataDirectoryEntry
	DelayImport    DataDirectoryEntry
	CLRRuntime     DataDirectoryEntry
}

// NamedDirectory pairs a directory entry with its display name.
type NamedDirectory struct {
	Name  string
	Entry DataDirectoryEntry
}

// Entries lists the named directories in table order.
func (d *DataDirectories) Entries() []NamedDirectory {
	return []NamedDirectory{
		{"Export", d.Export},
		{"Import", d.Import},
		{"Resource", d.Resource},
		{"Exception", d.Exception},
		{"Certificate", d.Certificate},
		{"BaseRelocation", d.BaseRelocation},
		{"Debug", d.Debug},
		{"GlobalPtr", d.GlobalPtr},
		{"TLS", d.TLS},
		{"LoadConfig", d.LoadConfig},
		{"BoundImport", d.BoundImport},
		{"IAT", d.IAT},
		{"DelayImport", d.DelayImport},
		{"CLRRuntime", d.CLRRuntime},
	}
}

type WindowsFields struct {
	ImageBase                   common.Addr64
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   Subsystem
	DllCharacteristics          DllCharacteristics
	SizeOfStackReserve          uint64
	SizeOfStackCommit           uint64
	SizeOfHeapReserve           uint64
	SizeOfHeapCommit            uint64
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
}

type OptionalHeader64 struct {
	MajorLinkerVersion      uint8
	MinorLinkerVersion      uint8
	SizeOfCode              uint32
	SizeOfInitializedData   uint32
	SizeOfUninitializedData uint32
	AddressOfEntryPoint     common.Addr32
	BaseOfCode              common.Addr32
	Windows                 WindowsFields
	DataDirectories         DataDirectories
}

// FileHeader is the COFF file header. Offset is the position of the PE
// signature as read from 0x3C.
type FileHeader struct {
	Offset               common.Addr32
	Machine              Machine
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable common.Addr32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      Characteristics
	OptionalHeader       OptionalHeader64
}

// sectionTableOffset is where the first section record starts.
func (h *FileHeader) sectionTableOffset() int {
	return int(h.Offset) + len(peSignature) + fileHeaderSize + optionalHeaderSize
}

type SectionHeader struct {
	Name                 string
	RawName              [8]byte
	VirtualSize          uint32
	VirtualAddress       common.Addr32
	SizeOfRawData        uint32
	PointerToRawData     common.Addr32
	PointerToRelocations common.Addr32
	PointerToLinenumbers common.Addr32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      SectionCharacteristics
	Data                 []byte
}

// Perms converts the memory flags to common.PERM_* bits.
func (s *SectionHeader) Perms() int {
	var p int
	if s.Characteristics.Has(SectionMemRead) {
		p |= common.PERM_READ
	}
	if s.Characteristics.Has(SectionMemWrite) {
		p |= common.PERM_WRITE
	}
	if s.Characteristics.Has(SectionMemExecute) {
		p |= common.PERM_EXECUTE
	}
	return p
}

// File is a fully decoded PE64 header region. It never aliases the buffer it
// was decoded from.
type File struct {
	Header   FileHeader
	Sections []SectionHeader
}
