package common

// SectionType is the role a section plays in an image, judged from its name.
type SectionType int

const (
	UnknownSections SectionType = iota
	CodeSections
	DataSections
	DebugSections
	SymbolSections
	RelocationSections
	ExceptionSections
	ResourceSections
	LinkageSections
	BuildInfoSections
	RuntimeSections
)

type SectionMatcher struct {
	ExactNames  []string
	PrefixNames []string
	Description string
	Removable   bool // not needed by the loader at run time
}

// sectionTypeOrder fixes the lookup order so overlapping prefixes resolve
// the same way every time.
var sectionTypeOrder = []SectionType{
	CodeSections,
	DataSections,
	DebugSections,
	SymbolSections,
	RelocationSections,
	ExceptionSections,
	ResourceSections,
	LinkageSections,
	BuildInfoSections,
	RuntimeSections,
}

func GetSectionMatchers() map[SectionType]SectionMatcher {
	return map[SectionType]SectionMatcher{
		CodeSections: {
			ExactNames:  []string{".text", "CODE", ".textbss", ".init", ".fini"},
			PrefixNames: []string{".text$"},
			Description: "executable code",
		},
		DataSections: {
			ExactNames:  []string{".data", ".rdata", ".bss", "DATA", "BSS", ".noptrdata", ".noptrbss", ".CRT", ".tls", ".00cfg"},
			PrefixNames: []string{".rdata$", ".data$"},
			Description: "program data",
		},
		DebugSections: {
			ExactNames:  []string{".stab", ".stabstr"},
			PrefixNames: []string{".debug", ".zdebug"},
			Description: "debugging information",
			Removable:   true,
		},
		SymbolSections: {
			ExactNames:  []string{".symtab", ".strtab"},
			Description: "symbol table information",
			Removable:   true,
		},
		RelocationSections: {
			ExactNames:  []string{".reloc"},
			Description: "base relocation information",
		},
		ExceptionSections: {
			ExactNames:  []string{".pdata", ".xdata"},
			Description: "structured exception handling data",
		},
		ResourceSections: {
			ExactNames:  []string{".rsrc"},
			Description: "resources",
		},
		LinkageSections: {
			ExactNames:  []string{".idata", ".edata", ".didat"},
			Description: "import and export tables",
		},
		BuildInfoSections: {
			ExactNames:  []string{".buildid", ".gfids", ".giats", ".gljmp", ".go.buildinfo", ".typelink", ".itablink", ".gosymtab", ".gopclntab"},
			PrefixNames: []string{".go.", ".gopkg."},
			Description: "build information and toolchain metadata",
			Removable:   true,
		},
		RuntimeSections: {
			ExactNames:  []string{".rustc", ".llvm_addrsig", ".ctors", ".dtors", ".drectve", ".sxdata", ".cormeta"},
			PrefixNames: []string{".rust.", ".llvm.", ".msvcrt.", ".mingw32."},
			Description: "runtime and language-specific sections",
		},
	}
}

// ClassifySection returns the type matching name, or UnknownSections.
func ClassifySection(name string) (SectionType, SectionMatcher) {
	matchers := GetSectionMatchers()
	for _, t := range sectionTypeOrder {
		m := matchers[t]
		if MatchesPattern(name, m.ExactNames, m.PrefixNames) {
			return t, m
		}
	}
	return UnknownSections, SectionMatcher{Description: "unrecognized"}
}

func (t SectionType) String() string {
	switch t {
	case CodeSections:
		return "code"
	case DataSections:
		return "data"
	case DebugSections:
		return "debug"
	case SymbolSections:
		return "symbols"
	case RelocationSections:
		return "reloc"
	case ExceptionSections:
		return "exception"
	case ResourceSections:
		return "resource"
	case LinkageSections:
		return "linkage"
	case BuildInfoSections:
		return "buildinfo"
	case RuntimeSections:
		return "runtime"
	}
	return "unknown"
}
