package perw

import (
	"fmt"
	"io"
	"strings"

	"gopehdr/common"
)

// WriteReport prints a human-readable summary of f. name and size describe
// the input file and are only used for display and overlay detection.
func (f *File) WriteReport(w io.Writer, name string, size int64) {
	f.printBanner(w)
	f.printBasicInfo(w, name, size)
	f.printFileHeader(w)
	f.printOptionalHeader(w)
	f.printDataDirectories(w)
	f.WriteSectionTable(w)
}

func (f *File) printBanner(w io.Writer) {
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║                          PE64 HEADER ANALYSIS REPORT                         ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)
}

func (f *File) printBasicInfo(w io.Writer, name string, size int64) {
	fmt.Fprintln(w, "📁 BINARY INFORMATION")
	fmt.Fprintln(w, "═════════════════════")
	fmt.Fprintf(w, "File Name:       %s\n", name)
	fmt.Fprintf(w, "File Size:       %s (%d bytes)\n", common.FormatFileSize(size), size)
	fmt.Fprintf(w, "File Type:       %s\n", f.FileType())
	fmt.Fprintf(w, "Sections:        %d total\n", len(f.Sections))

	if size > 0 {
		raw := f.RawSize()
		fmt.Fprintf(w, "\n💾 SPACE UTILIZATION:\n")
		fmt.Fprintf(w, "Total Section Size: %s\n", common.FormatFileSize(raw))
		fmt.Fprintf(w, "File Efficiency:    %.1f%%\n", float64(raw)/float64(size)*100)
	}

	fmt.Fprintf(w, "\n🗂️  OVERLAY ANALYSIS:\n")
	if ov, ok := f.Overlay(size); ok {
		fmt.Fprintf(w, "Overlay Status:     %s Present at 0x%X\n", common.SymbolWarn, ov.Offset)
		fmt.Fprintf(w, "Overlay Size:       %s\n", common.FormatFileSize(ov.Size))
	} else {
		fmt.Fprintf(w, "Overlay Status:     %s No overlay detected\n", common.SymbolCheck)
	}
	fmt.Fprintln(w)
}

func (f *File) printFileHeader(w io.Writer) {
	h := &f.Header
	fmt.Fprintln(w, "🏗️  COFF FILE HEADER")
	fmt.Fprintln(w, "════════════════════")
	fmt.Fprintf(w, "Header Offset:   0x%s\n", h.Offset)
	fmt.Fprintf(w, "Architecture:    %s (0x%04X)\n", h.Machine, uint16(h.Machine))
	fmt.Fprintf(w, "Sections:        %d\n", h.NumberOfSections)
	fmt.Fprintf(w, "Compile Time:    %s\n", h.Timestamp())
	fmt.Fprintf(w, "Symbol Table:    0x%s (%d symbols)\n", h.PointerToSymbolTable, h.NumberOfSymbols)
	fmt.Fprintf(w, "Optional Header: %d bytes\n", h.SizeOfOptionalHeader)
	fmt.Fprintf(w, "Characteristics: 0x%04X (%s)\n", h.Characteristics.Bits(), h.Characteristics)
	fmt.Fprintln(w)
}

func (f *File) printOptionalHeader(w io.Writer) {
	o := &f.Header.OptionalHeader
	win := &o.Windows
	fmt.Fprintln(w, "⚙️  OPTIONAL HEADER")
	fmt.Fprintln(w, "═══════════════════")
	fmt.Fprintf(w, "Linker Version:  %d.%d\n", o.MajorLinkerVersion, o.MinorLinkerVersion)
	fmt.Fprintf(w, "Size of Code:    %s\n", common.FormatFileSize(int64(o.SizeOfCode)))
	fmt.Fprintf(w, "Init. Data:      %s\n", common.FormatFileSize(int64(o.SizeOfInitializedData)))
	fmt.Fprintf(w, "Uninit. Data:    %s\n", common.FormatFileSize(int64(o.SizeOfUninitializedData)))
	fmt.Fprintf(w, "Entry Point:     0x%s (RVA)\n", o.AddressOfEntryPoint)
	fmt.Fprintf(w, "Base of Code:    0x%s\n", o.BaseOfCode)
	fmt.Fprintf(w, "Image Base:      0x%s\n", win.ImageBase)
	fmt.Fprintf(w, "Alignment:       section 0x%X, file 0x%X\n", win.SectionAlignment, win.FileAlignment)
	fmt.Fprintf(w, "OS Version:      %d.%d\n", win.MajorOperatingSystemVersion, win.MinorOperatingSystemVersion)
	fmt.Fprintf(w, "Image Version:   %d.%d\n", win.MajorImageVersion, win.MinorImageVersion)
	fmt.Fprintf(w, "Subsystem Ver.:  %d.%d\n", win.MajorSubsystemVersion, win.MinorSubsystemVersion)
	fmt.Fprintf(w, "Size of Image:   %d bytes (%s)\n", win.SizeOfImage, common.FormatFileSize(int64(win.SizeOfImage)))
	fmt.Fprintf(w, "Size of Headers: %d bytes\n", win.SizeOfHeaders)
	if win.CheckSum != 0 {
		fmt.Fprintf(w, "Checksum:        0x%X\n", win.CheckSum)
	} else {
		fmt.Fprintf(w, "Checksum:        Not set\n")
	}
	fmt.Fprintf(w, "Subsystem:       %d (%s)\n", uint16(win.Subsystem), win.Subsystem)
	fmt.Fprintf(w, "DLL Characteristics: 0x%X (%s)\n", win.DllCharacteristics.Bits(), win.DllCharacteristics)
	fmt.Fprintf(w, "Stack:           reserve %s, commit %s\n",
		common.FormatFileSize(int64(win.SizeOfStackReserve)), common.FormatFileSize(int64(win.SizeOfStackCommit)))
	fmt.Fprintf(w, "Heap:            reserve %s, commit %s\n",
		common.FormatFileSize(int64(win.SizeOfHeapReserve)), common.FormatFileSize(int64(win.SizeOfHeapCommit)))
	fmt.Fprintf(w, "RVA and Sizes:   %d\n", win.NumberOfRvaAndSizes)
	fmt.Fprintln(w)
}

func (f *File) printDataDirectories(w io.Writer) {
	fmt.Fprintln(w, "📂 DATA DIRECTORIES")
	fmt.Fprintln(w, "═══════════════════")
	active := f.ActiveDirectories()
	if len(active) == 0 {
		fmt.Fprintln(w, "❌ No data directories present")
		fmt.Fprintln(w)
		return
	}
	for _, d := range active {
		fmt.Fprintf(w, "   • %-15s RVA 0x%s  Size %d\n", d.Name, d.Entry.VirtualAddress, d.Entry.Size)
	}
	fmt.Fprintln(w)
}

// WriteSectionTable prints the section table with permissions, entropy and
// a name-based classification of every section.
func (f *File) WriteSectionTable(w io.Writer) {
	fmt.Fprintln(w, "📊 SECTION ANALYSIS")
	fmt.Fprintln(w, "═══════════════════")
	if len(f.Sections) == 0 {
		fmt.Fprintln(w, "❌ No sections found")
		fmt.Fprintln(w)
		return
	}
	var executable, writable int
	for i := range f.Sections {
		c := f.Sections[i].Characteristics
		if c.Has(SectionMemExecute) {
			executable++
		}
		if c.Has(SectionMemWrite) {
			writable++
		}
	}
	fmt.Fprintf(w, "Total Sections:     %d\nExecutable Secs:    %d\nWritable Secs:      %d\nTotal Size:         %s\n\n",
		len(f.Sections), executable, writable, common.FormatFileSize(f.RawSize()))
	fmt.Fprintln(w, "SECTION TABLE:")
	fmt.Fprintln(w, "┌──────────┬─────────────┬─────────────┬─────────────┬──────┬──────────┬───────────┐")
	fmt.Fprintln(w, "│ Name     │ Virtual Addr│ File Offset │ Size        │ Perm │ Entropy  │ Kind      │")
	fmt.Fprintln(w, "├──────────┼─────────────┼─────────────┼─────────────┼──────┼──────────┼───────────┤")
	infos := make([]common.CommonSectionInfo, len(f.Sections))
	for i := range f.Sections {
		s := &f.Sections[i]
		info := common.SummarizeSection(s.Data, s.Perms())
		infos[i] = info
		kind, _ := common.ClassifySection(s.Name)
		fmt.Fprintf(w, "│ %-8s │ 0x%s  │ 0x%s  │ %-11s │ %-4s │ %s%.2f%s     │ %-9s │\n",
			common.TruncateString(s.Name, 8),
			s.VirtualAddress,
			s.PointerToRawData,
			common.FormatFileSize(int64(s.SizeOfRawData)),
			common.FormatPermissions(info.IsExecutable, info.IsReadable, info.IsWritable),
			common.GetEntropyColor(info.Entropy),
			info.Entropy,
			common.ColorReset(),
			kind)
	}
	fmt.Fprintln(w, "└──────────┴─────────────┴─────────────┴─────────────┴──────┴──────────┴───────────┘")
	for i := range f.Sections {
		s := &f.Sections[i]
		_, m := common.ClassifySection(s.Name)
		note := m.Description
		if m.Removable {
			note += ", not needed at run time"
		}
		fmt.Fprintf(w, "   %-8s %s (%s)\n", s.Name, strings.ToLower(s.Characteristics.String()), note)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔐 SECTION HASHES")
	fmt.Fprintln(w, "═════════════════")
	for i := range f.Sections {
		fmt.Fprintf(w, "%s:\n", f.Sections[i].Name)
		fmt.Fprintf(w, "   MD5:    %s\n", infos[i].MD5Hash)
		fmt.Fprintf(w, "   SHA1:   %s\n", infos[i].SHA1Hash)
		fmt.Fprintf(w, "   SHA256: %s\n", infos[i].SHA256Hash)
	}
	fmt.Fprintln(w)
}
