package perw

import (
	"fmt"
	"strings"
)

// Machine identifies the CPU architecture an image targets.
type Machine uint16

const (
	MachineUnknown Machine = 0x0
	MachineAMD64   Machine = 0x8664
	MachineIA64    Machine = 0x200
	MachineI386    Machine = 0x14C
)

var machineNames = map[Machine]string{
	MachineUnknown: "Unknown",
	MachineAMD64:   "AMD64",
	MachineIA64:    "IA64",
	MachineI386:    "I386",
}

// Known reports whether m is one of the supported machine codes.
func (m Machine) Known() bool {
	_, ok := machineNames[m]
	return ok
}

func (m Machine) String() string {
	if n, ok := machineNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Machine(0x%X)", uint16(m))
}

// ParseMachine maps a raw machine code to its Machine.
func ParseMachine(v uint16) (Machine, error) {
	return decodeCode(Machine(v))
}

// Subsystem is the environment required to run an image.
type Subsystem uint16

const (
	SubsystemUnknown                Subsystem = 0
	SubsystemNative                 Subsystem = 1
	SubsystemWindowsGui             Subsystem = 2
	SubsystemWindowsCui             Subsystem = 3
	SubsystemOs2Cui                 Subsystem = 5
	SubsystemPosixCui               Subsystem = 7
	SubsystemNativeWindows          Subsystem = 8
	SubsystemWindowsCeGui           Subsystem = 9
	SubsystemEfiApplication         Subsystem = 10
	SubsystemEfiBootServiceDriver   Subsystem = 11
	SubsystemEfiRuntimeDriver       Subsystem = 12
	SubsystemEfiRom                 Subsystem = 13
	SubsystemXbox                   Subsystem = 14
	SubsystemWindowsBootApplication Subsystem = 16
)

var subsystemNames = map[Subsystem]string{
	SubsystemUnknown:                "Unknown",
	SubsystemNative:                 "Native",
	SubsystemWindowsGui:             "Windows GUI",
	SubsystemWindowsCui:             "Windows Console",
	SubsystemOs2Cui:                 "OS/2 Console",
	SubsystemPosixCui:               "POSIX Console",
	SubsystemNativeWindows:          "Native Win9x Driver",
	SubsystemWindowsCeGui:           "Windows CE GUI",
	SubsystemEfiApplication:         "EFI Application",
	SubsystemEfiBootServiceDriver:   "EFI Boot Service Driver",
	SubsystemEfiRuntimeDriver:       "EFI Runtime Driver",
	SubsystemEfiRom:                 "EFI ROM",
	SubsystemXbox:                   "Xbox",
	SubsystemWindowsBootApplication: "Windows Boot Application",
}

// Known reports whether s is a defined subsystem code.
func (s Subsystem) Known() bool {
	_, ok := subsystemNames[s]
	return ok
}

func (s Subsystem) String() string {
	if n, ok := subsystemNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Subsystem(%d)", uint16(s))
}

// ParseSubsystem maps a raw subsystem code to its Subsystem.
func ParseSubsystem(v uint16) (Subsystem, error) {
	return decodeCode(Subsystem(v))
}

type flagName[T ~uint16 | ~uint32] struct {
	bit  T
	name string
}

func flagString[T ~uint16 | ~uint32](v T, names []flagName[T]) string {
	if v == 0 {
		return "None"
	}
	var out []string
	for _, f := range names {
		if v&f.bit != 0 {
			out = append(out, f.name)
		}
	}
	return strings.Join(out, ", ")
}

// Characteristics are the COFF file header flags.
type Characteristics uint16

const (
	FileRelocsStripped       Characteristics = 0x0001
	FileExecutableImage      Characteristics = 0x0002
	FileLineNumsStripped     Characteristics = 0x0004
	FileLocalSymsStripped    Characteristics = 0x0008
	FileAggressiveWsTrim     Characteristics = 0x0010
	FileLargeAddressAware    Characteristics = 0x0020
	FileBytesReversedLo      Characteristics = 0x0080
	FileMachine32Bit         Characteristics = 0x0100
	FileDebugStripped        Characteristics = 0x0200
	FileRemovableRunFromSwap Characteristics = 0x0400
	FileNetRunFromSwap       Characteristics = 0x0800
	FileSystem               Characteristics = 0x1000
	FileDLL                  Characteristics = 0x2000
	FileUpSystemOnly         Characteristics = 0x4000
	FileBytesReversedHi      Characteristics = 0x8000

	characteristicsMask Characteristics = 0xFFBF
)

var characteristicsNames = []flagName[Characteristics]{
	{FileRelocsStripped, "RELOCS_STRIPPED"},
	{FileExecutableImage, "EXECUTABLE_IMAGE"},
	{FileLineNumsStripped, "LINE_NUMS_STRIPPED"},
	{FileLocalSymsStripped, "LOCAL_SYMS_STRIPPED"},
	{FileAggressiveWsTrim, "AGGRESSIVE_WS_TRIM"},
	{FileLargeAddressAware, "LARGE_ADDRESS_AWARE"},
	{FileBytesReversedLo, "BYTES_REVERSED_LO"},
	{FileMachine32Bit, "32BIT_MACHINE"},
	{FileDebugStripped, "DEBUG_STRIPPED"},
	{FileRemovableRunFromSwap, "REMOVABLE_RUN_FROM_SWAP"},
	{FileNetRunFromSwap, "NET_RUN_FROM_SWAP"},
	{FileSystem, "SYSTEM"},
	{FileDLL, "DLL"},
	{FileUpSystemOnly, "UP_SYSTEM_ONLY"},
	{FileBytesReversedHi, "BYTES_REVERSED_HI"},
}

// Valid reports whether c only contains defined flags.
func (c Characteristics) Valid() bool                { return c&^characteristicsMask == 0 }
func (c Characteristics) Has(f Characteristics) bool { return c&f == f }
func (c Characteristics) Union(f Characteristics) Characteristics {
	return c | f
}
func (c Characteristics) Intersect(f Characteristics) Characteristics {
	return c & f
}
func (c Characteristics) Bits() uint16   { return uint16(c) }
func (c Characteristics) String() string { return flagString(c, characteristicsNames) }

// ParseCharacteristics validates raw file header flags.
func ParseCharacteristics(v uint16) (Characteristics, error) {
	return decodeBits(Characteristics(v))
}

// DllCharacteristics are the optional header DLL flags.
type DllCharacteristics uint16

const (
	DllHighEntropyVA       DllCharacteristics = 0x0020
	DllDynamicBase         DllCharacteristics = 0x0040
	DllForceIntegrity      DllCharacteristics = 0x0080
	DllNXCompat            DllCharacteristics = 0x0100
	DllNoIsolation         DllCharacteristics = 0x0200
	DllNoSEH               DllCharacteristics = 0x0400
	DllNoBind              DllCharacteristics = 0x0800
	DllAppContainer        DllCharacteristics = 0x1000
	DllWDMDriver           DllCharacteristics = 0x2000
	DllGuardCF             DllCharacteristics = 0x4000
	DllTerminalServerAware DllCharacteristics = 0x8000

	dllCharacteristicsMask DllCharacteristics = 0xFFE0
)

var dllCharacteristicsNames = []flagName[DllCharacteristics]{
	{DllHighEntropyVA, "HIGH_ENTROPY_VA"},
	{DllDynamicBase, "DYNAMIC_BASE"},
	{DllForceIntegrity, "FORCE_INTEGRITY"},
	{DllNXCompat, "NX_COMPAT"},
	{DllNoIsolation, "NO_ISOLATION"},
	{DllNoSEH, "NO_SEH"},
	{DllNoBind, "NO_BIND"},
	{DllAppContainer, "APPCONTAINER"},
	{DllWDMDriver, "WDM_DRIVER"},
	{DllGuardCF, "GUARD_CF"},
	{DllTerminalServerAware, "TERMINAL_SERVER_AWARE"},
}

// Valid reports whether c only contains defined flags.
func (c DllCharacteristics) Valid() bool                   { return c&^dllCharacteristicsMask == 0 }
func (c DllCharacteristics) Has(f DllCharacteristics) bool { return c&f == f }
func (c DllCharacteristics) Union(f DllCharacteristics) DllCharacteristics {
	return c | f
}
func (c DllCharacteristics) Intersect(f DllCharacteristics) DllCharacteristics {
	return c & f
}
func (c DllCharacteristics) Bits() uint16   { return uint16(c) }
func (c DllCharacteristics) String() string { return flagString(c, dllCharacteristicsNames) }

// ParseDllCharacteristics validates raw DLL characteristics.
func ParseDllCharacteristics(v uint16) (DllCharacteristics, error) {
	return decodeBits(DllCharacteristics(v))
}

// SectionCharacteristics are the section header flags. Bits 20-23 hold an
// alignment code rather than independent flags.
type SectionCharacteristics uint32

const (
	SectionCntCode              SectionCharacteristics = 0x00000020
	SectionCntInitializedData   SectionCharacteristics = 0x00000040
	SectionCntUninitializedData SectionCharacteristics = 0x00000080
	SectionLnkInfo              SectionCharacteristics = 0x00000200
	SectionLnkRemove            SectionCharacteristics = 0x00000800
	SectionLnkComdat            SectionCharacteristics = 0x00001000
	SectionGPRel                SectionCharacteristics = 0x00008000
	SectionAlign1Bytes          SectionCharacteristics = 0x00100000
	SectionAlign2Bytes          SectionCharacteristics = 0x00200000
	SectionAlign4Bytes          SectionCharacteristics = 0x00300000
	SectionAlign8Bytes          SectionCharacteristics = 0x00400000
	SectionAlign16Bytes         SectionCharacteristics = 0x00500000
	SectionAlign32Bytes         SectionCharacteristics = 0x00600000
	SectionAlign64Bytes         SectionCharacteristics = 0x00700000
	SectionAlign128Bytes        SectionCharacteristics = 0x00800000
	SectionAlign256Bytes        SectionCharacteristics = 0x00900000
	SectionAlign512Bytes        SectionCharacteristics = 0x00A00000
	SectionAlign1024Bytes       SectionCharacteristics = 0x00B00000
	SectionAlign2048Bytes       SectionCharacteristics = 0x00C00000
	SectionAlign4096Bytes       SectionCharacteristics = 0x00D00000
	SectionAlign8192Bytes       SectionCharacteristics = 0x00E00000
	SectionLnkNRelocOvfl        SectionCharacteristics = 0x01000000
	SectionMemDiscardable       SectionCharacteristics = 0x02000000
	SectionMemNotCached         SectionCharacteristics = 0x04000000
	SectionMemNotPaged          SectionCharacteristics = 0x08000000
	SectionMemShared            SectionCharacteristics = 0x10000000
	SectionMemExecute           SectionCharacteristics = 0x20000000
	SectionMemRead              SectionCharacteristics = 0x40000000
	SectionMemWrite             SectionCharacteristics = 0x80000000

	sectionAlignMask SectionCharacteristics = 0x00F00000
	sectionFlagMask  SectionCharacteristics = 0xFF0098E0
)

var sectionCharacteristicsNames = []flagName[SectionCharacteristics]{
	{SectionCntCode, "CODE"},
	{SectionCntInitializedData, "INITIALIZED_DATA"},
	{SectionCntUninitializedData, "UNINITIALIZED_DATA"},
	{SectionLnkInfo, "LNK_INFO"},
	{SectionLnkRemove, "LNK_REMOVE"},
	{SectionLnkComdat, "LNK_COMDAT"},
	{SectionGPRel, "GPREL"},
	{SectionLnkNRelocOvfl, "LNK_NRELOC_OVFL"},
	{SectionMemDiscardable, "DISCARDABLE"},
	{SectionMemNotCached, "NOT_CACHED"},
	{SectionMemNotPaged, "NOT_PAGED"},
	{SectionMemShared, "SHARED"},
	{SectionMemExecute, "EXECUTE"},
	{SectionMemRead, "READ"},
	{SectionMemWrite, "WRITE"},
}

// Valid reports whether c only contains defined flags and, if an alignment
// is present, that it is one of the fourteen defined codes.
func (c SectionCharacteristics) Valid() bool {
	if c&^(sectionFlagMask|sectionAlignMask) != 0 {
		return false
	}
	return c&sectionAlignMask != sectionAlignMask
}

// Has reports whether every flag in f is set. Alignment codes are compared
// as a whole, not bit by bit.
func (c SectionCharacteristics) Has(f SectionCharacteristics) bool {
	if a := f & sectionAlignMask; a != 0 && c&sectionAlignMask != a {
		return false
	}
	f &^= sectionAlignMask
	return c&f == f
}
func (c SectionCharacteristics) Union(f SectionCharacteristics) SectionCharacteristics {
	return c | f
}
func (c SectionCharacteristics) Intersect(f SectionCharacteristics) SectionCharacteristics {
	return c & f
}
func (c SectionCharacteristics) Bits() uint32 { return uint32(c) }

// Alignment returns the section alignment in bytes, or 0 when none is given.
func (c SectionCharacteristics) Alignment() uint32 {
	code := uint32(c&sectionAlignMask) >> 20
	if code == 0 || code > 14 {
		return 0
	}
	return 1 << (code - 1)
}

func (c SectionCharacteristics) String() string {
	s := flagString(c&^sectionAlignMask, sectionCharacteristicsNames)
	if a := c.Alignment(); a != 0 {
		if s == "None" {
			return fmt.Sprintf("ALIGN_%dBYTES", a)
		}
		return fmt.Sprintf("%s, ALIGN_%dBYTES", s, a)
	}
	return s
}

// ParseSectionCharacteristics validates raw section flags.
func ParseSectionCharacteristics(v uint32) (SectionCharacteristics, error) {
	return decodeBits(SectionCharacteristics(v))
}
