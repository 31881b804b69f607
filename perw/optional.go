package perw

import (
	"gopehdr/common"
)

func decodeWindowsFields(d *decoder) WindowsFields {
	defer d.enter("WindowsFields")()
	var w WindowsFields
	w.ImageBase = common.Addr64(take[uint64](d, "ImageBase"))
	w.SectionAlignment = take[uint32](d, "SectionAlignment")
	w.FileAlignment = take[uint32](d, "FileAlignment")
	w.MajorOperatingSystemVersion = take[uint16](d, "MajorOperatingSystemVersion")
	w.MinorOperatingSystemVersion = take[uint16](d, "MinorOperatingSystemVersion")
	w.MajorImageVersion = take[uint16](d, "MajorImageVersion")
	w.MinorImageVersion = take[uint16](d, "MinorImageVersion")
	w.MajorSubsystemVersion = take[uint16](d, "MajorSubsystemVersion")
	w.MinorSubsystemVersion = take[uint16](d, "MinorSubsystemVersion")
	w.Win32VersionValue = zero[uint32](d, "Win32VersionValue")
	w.SizeOfImage = take[uint32](d, "SizeOfImage")
	w.SizeOfHeaders = take[uint32](d, "SizeOfHeaders")
	w.CheckSum = take[uint32](d, "CheckSum")
	w.Subsystem = code[Subsystem](d, "Subsystem")
	w.DllCharacteristics = flags[DllCharacteristics](d, "DllCharacteristics")
	w.SizeOfStackReserve = take[uint64](d, "SizeOfStackReserve")
	w.SizeOfStackCommit = take[uint64](d, "SizeOfStackCommit")
	w.SizeOfHeapReserve = take[uint64](d, "SizeOfHeapReserve")
	w.SizeOfHeapCommit = take[uint64](d, "SizeOfHeapCommit")
	w.LoaderFlags = zero[uint32](d, "LoaderFlags")
	w.NumberOfRvaAndSizes = take[uint32](d, "NumberOfRvaAndSizes")
	return w
}

// decodeOptionalHeader reads the 240-byte PE32+ optional header.
func decodeOptionalHeader(d *decoder) OptionalHeader64 {
	defer d.enter("OptionalHeader")()
	var o OptionalHeader64
	d.expect("Magic", pe64Magic, ErrBadMagic)
	o.MajorLinkerVersion = take[uint8](d, "MajorLinkerVersion")
	o.MinorLinkerVersion = take[uint8](d, "MinorLinkerVersion")
	o.SizeOfCode = take[uint32](d, "SizeOfCode")
	o.SizeOfInitializedData = take[uint32](d, "SizeOfInitializedData")
	o.SizeOfUninitializedData = take[uint32](d, "SizeOfUninitializedData")
	o.AddressOfEntryPoint = addr32(d, "AddressOfEntryPoint")
	o.BaseOfCode = addr32(d, "BaseOfCode")
	o.Windows = decodeWindowsFields(d)
	o.DataDirectories = decodeDataDirectories(d)
	return o
}
