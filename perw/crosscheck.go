package perw

import (
	"bytes"
	"fmt"
	"strings"

	binject "github.com/Binject/debug/pe"
	velocidex "github.com/Velocidex/go-pe"
	"github.com/pkg/errors"

	"gopehdr/common"
)

// Reference is what an independent PE parser saw in the same input.
type Reference struct {
	Source   string
	Machine  *Machine
	Sections []string
}

// BinjectReference parses data with github.com/Binject/debug/pe.
func BinjectReference(data []byte) (*Reference, error) {
	pf, err := binject.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "binject")
	}
	defer pf.Close()
	m := Machine(pf.FileHeader.Machine)
	ref := &Reference{Source: "binject", Machine: &m}
	for _, s := range pf.Sections {
		ref.Sections = append(ref.Sections, s.Name)
	}
	return ref, nil
}

// VelocidexReference parses data with github.com/Velocidex/go-pe. It does not
// expose the raw machine code, so only sections are compared.
func VelocidexReference(data []byte) (*Reference, error) {
	pf, err := velocidex.NewPEFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "velocidex")
	}
	ref := &Reference{Source: "velocidex"}
	for _, s := range pf.Sections {
		ref.Sections = append(ref.Sections, s.Name)
	}
	return ref, nil
}

// CrossCheck compares f against ref. Section names are compared after the
// same trimming the decoder applies.
func (f *File) CrossCheck(ref *Reference) []*common.CheckResult {
	prefix := ref.Source + " "
	var results []*common.CheckResult

	if ref.Machine == nil {
		results = append(results, common.NewSkipped(prefix+"machine", "not reported"))
	} else if *ref.Machine == f.Header.Machine {
		results = append(results, common.NewPassed(prefix+"machine", f.Header.Machine.String()))
	} else {
		results = append(results, common.NewFailed(prefix+"machine",
			fmt.Sprintf("decoded %s, reference %s", f.Header.Machine, *ref.Machine)))
	}

	if len(ref.Sections) != len(f.Sections) {
		results = append(results, common.NewFailed(prefix+"sections",
			fmt.Sprintf("decoded %d, reference %d", len(f.Sections), len(ref.Sections))))
		return results
	}
	var mismatched []string
	for i, name := range ref.Sections {
		name = sanitizeSectionName([]byte(name))
		if name != f.Sections[i].Name {
			mismatched = append(mismatched, fmt.Sprintf("#%d %q != %q", i, f.Sections[i].Name, name))
		}
	}
	if len(mismatched) > 0 {
		results = append(results, common.NewFailed(prefix+"sections", strings.Join(mismatched, ", ")))
	} else {
		results = append(results, common.NewPassed(prefix+"sections", fmt.Sprintf("%d names match", len(f.Sections))))
	}
	return results
}
