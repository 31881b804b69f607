package perw

import (
	"errors"
	"fmt"
	"strings"

	"gopehdr/common"
)

// Decode failures. Every error returned by Decode unwraps to one of these.
var (
	ErrBadSignature           = errors.New("bad PE signature")
	ErrBadMagic               = errors.New("bad optional header magic")
	ErrUnrecognizedCode       = errors.New("unrecognized code")
	ErrUnrecognizedBits       = errors.New("unrecognized bits")
	ErrMalformedReservedField = errors.New("malformed reserved field")
	ErrTruncated              = errors.New("truncated input")
	ErrOutOfBounds            = errors.New("range out of bounds")
)

// Frame is one named decoding context that was active when a failure
// happened, with the absolute offset where that context started.
type Frame struct {
	Name    string
	Offset  int64
	Preview common.HexDump
}

// ParseError is a single decode failure annotated with its context chain.
// Frames are ordered outermost first. The last frame names the field that
// failed; Offset is the absolute position the failure refers to.
type ParseError struct {
	Err    error
	Offset int64
	Value  uint64
	Frames []Frame
	// Preview holds the bytes at Offset.
	Preview common.HexDump
}

// ParseErrors is returned when more than one independent record failed.
type ParseErrors []*ParseError

// Diagnostic is one reportable line of a decode failure.
type Diagnostic struct {
	Context []string
	Offset  int64
	Preview common.HexDump
	Err     error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Path())
	sb.WriteString(": ")
	sb.WriteString(e.detail())
	fmt.Fprintf(&sb, " at offset 0x%x", e.Offset)
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Path returns the context chain as a single '/'-separated string.
func (e *ParseError) Path() string {
	names := make([]string, len(e.Frames))
	for i := range e.Frames {
		names[i] = e.Frames[i].Name
	}
	return strings.Join(names, "/")
}

func (e *ParseError) detail() string {
	switch e.Err {
	case ErrUnrecognizedCode, ErrUnrecognizedBits, ErrMalformedReservedField:
		return fmt.Sprintf("%s (0x%x)", e.Err, e.Value)
	case ErrTruncated:
		return fmt.Sprintf("%s (need %d more bytes)", e.Err, e.Value)
	case ErrOutOfBounds:
		return fmt.Sprintf("%s (range ends at 0x%x)", e.Err, e.Value)
	}
	return e.Err.Error()
}

// Diagnostics expands the error into one entry per context frame, outermost
// first. The innermost entry carries the failure itself.
func (e *ParseError) Diagnostics() []Diagnostic {
	if len(e.Frames) == 0 {
		return []Diagnostic{{Offset: e.Offset, Preview: e.Preview, Err: e}}
	}
	out := make([]Diagnostic, 0, len(e.Frames))
	for i, f := range e.Frames {
		ctx := make([]string, i+1)
		for j := 0; j <= i; j++ {
			ctx[j] = e.Frames[j].Name
		}
		d := Diagnostic{Context: ctx, Offset: f.Offset, Preview: f.Preview}
		if i == len(e.Frames)-1 {
			d.Offset, d.Preview, d.Err = e.Offset, e.Preview, e
		}
		out = append(out, d)
	}
	return out
}

func (es ParseErrors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", es[0].Error(), len(es)-1)
}

// Unwrap exposes every contained error to errors.Is and errors.As.
func (es ParseErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i := range es {
		out[i] = es[i]
	}
	return out
}

// Diagnose flattens any error returned by Decode into ordered diagnostics.
// Errors that did not come from the decoder yield a single context-free
// entry.
func Diagnose(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var (
		es ParseErrors
		pe *ParseError
	)
	switch {
	case errors.As(err, &es):
		var out []Diagnostic
		for _, e := range es {
			out = append(out, e.Diagnostics()...)
		}
		return out
	case errors.As(err, &pe):
		return pe.Diagnostics()
	}
	return []Diagnostic{{Offset: -1, Err: err}}
}

// String renders the diagnostic as "ctx/ctx at position N:" plus a hex line.
func (d Diagnostic) String() string {
	var sb strings.Builder
	if len(d.Context) > 0 {
		sb.WriteString(strings.Join(d.Context, "/"))
	} else {
		sb.WriteString("error")
	}
	if d.Err != nil {
		var pe *ParseError
		if errors.As(d.Err, &pe) {
			sb.WriteString(": " + pe.detail())
		} else {
			sb.WriteString(": " + d.Err.Error())
		}
	}
	if d.Offset >= 0 {
		fmt.Fprintf(&sb, " at position %d:\n%08x: %s", d.Offset, d.Offset, d.Preview)
	}
	return sb.String()
}
