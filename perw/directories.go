package perw

// directoryEntry reads one (RVA, size) pair.
func directoryEntry(d *decoder, name string) DataDirectoryEntry {
	defer d.enter(name)()
	return DataDirectoryEntry{
		VirtualAddress: addr32(d, "VirtualAddress"),
		Size:           take[uint32](d, "Size"),
	}
}

// decodeDataDirectories reads the 16-slot directory table. The Architecture
// slot and the trailing slot are reserved and must be zero.
func decodeDataDirectories(d *decoder) DataDirectories {
	defer d.enter("DataDirectories")()
	var dd DataDirectories
	dd.Export = directoryEntry(d, "Export")
	dd.Import = directoryEntry(d, "Import")
	dd.Resource = directoryEntry(d, "Resource")
	dd.Exception = directoryEntry(d, "Exception")
	dd.Certificate = directoryEntry(d, "Certificate")
	dd.BaseRelocation = directoryEntry(d, "BaseRelocation")
	dd.Debug = directoryEntry(d, "Debug")
	zero[uint64](d, "Architecture")
	dd.GlobalPtr = directoryEntry(d, "GlobalPtr")
	dd.TLS = directoryEntry(d, "TLS")
	dd.LoadConfig = directoryEntry(d, "LoadConfig")
	dd.BoundImport = directoryEntry(d, "BoundImport")
	dd.IAT = directoryEntry(d, "IAT")
	dd.DelayImport = directoryEntry(d, "DelayImport")
	dd.CLRRuntime = directoryEntry(d, "CLRRuntime")
	zero[uint64](d, "Reserved")
	return dd
}
