package perw

import (
	"bytes"
	"math/bits"

	"golang.org/x/exp/constraints"

	"gopehdr/common"
)

// enum is a closed set of integer codes.
type enum interface {
	constraints.Unsigned
	Known() bool
}

// flagSet is an integer bit mask over a closed set of named flags.
type flagSet interface {
	constraints.Unsigned
	Valid() bool
}

type scope struct {
	name string
	off  int
}

// decoder walks the full input buffer. Errors are sticky: once err is set
// every read is a no-op returning zero, so decoding functions read all their
// fields in order and check err once.
type decoder struct {
	data  []byte
	pos   int
	stack []scope
	err   *ParseError
}

func newDecoder(data []byte) *decoder {
	return &decoder{data: data}
}

// decodeCode validates v against its closed set of codes.
func decodeCode[T enum](v T) (T, error) {
	if !v.Known() {
		return 0, ErrUnrecognizedCode
	}
	return v, nil
}

// decodeBits validates v against its set of known flags.
func decodeBits[T flagSet](v T) (T, error) {
	if !v.Valid() {
		return 0, ErrUnrecognizedBits
	}
	return v, nil
}

func width[T constraints.Unsigned]() int {
	return bits.Len64(uint64(^T(0))) / 8
}

// enter pushes a named context beginning at the current position and
// returns the function that pops it.
func (d *decoder) enter(name string) func() {
	d.stack = append(d.stack, scope{name: name, off: d.pos})
	return func() {
		d.stack = d.stack[:len(d.stack)-1]
	}
}

func (d *decoder) remaining() int {
	if d.pos >= len(d.data) {
		return 0
	}
	return len(d.data) - d.pos
}

func (d *decoder) seek(off int) {
	d.pos = off
}

// fail records the first failure. field names the innermost field and
// fieldAt its position; at is the offset the failure refers to.
func (d *decoder) fail(field string, kind error, fieldAt, at int, value uint64) {
	if d.err != nil {
		return
	}
	frames := make([]Frame, 0, len(d.stack)+1)
	for _, c := range d.stack {
		frames = append(frames, Frame{Name: c.name, Offset: int64(c.off), Preview: common.NewHexDump(d.data, c.off)})
	}
	if field != "" {
		frames = append(frames, Frame{Name: field, Offset: int64(fieldAt), Preview: common.NewHexDump(d.data, fieldAt)})
	}
	d.err = &ParseError{
		Err:     kind,
		Offset:  int64(at),
		Value:   value,
		Frames:  frames,
		Preview: common.NewHexDump(d.data, at),
	}
}

// need checks that n bytes are available for field, recording a truncation
// at the end of the buffer otherwise.
func (d *decoder) need(field string, n int) bool {
	if d.err != nil {
		return false
	}
	if r := d.remaining(); r < n {
		d.fail(field, ErrTruncated, d.pos, len(d.data), uint64(n-r))
		return false
	}
	return true
}

func (d *decoder) raw(field string, n int) []byte {
	if !d.need(field, n) {
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

// expect consumes len(want) bytes and fails with kind when they differ.
func (d *decoder) expect(field string, want []byte, kind error) {
	at := d.pos
	b := d.raw(field, len(want))
	if b == nil || bytes.Equal(b, want) {
		return
	}
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	d.fail(field, kind, at, at, v)
}

// take reads a little-endian unsigned integer of T's width.
func take[T constraints.Unsigned](d *decoder, field string) T {
	n := width[T]()
	b := d.raw(field, n)
	if b == nil {
		return 0
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return T(v)
}

// code reads a closed-enumeration field.
func code[T enum](d *decoder, field string) T {
	at := d.pos
	v := take[T](d, field)
	if d.err != nil {
		return 0
	}
	r, err := decodeCode(v)
	if err != nil {
		d.fail(field, err, at, at, uint64(v))
	}
	return r
}

// flags reads a bit-mask field.
func flags[T flagSet](d *decoder, field string) T {
	at := d.pos
	v := take[T](d, field)
	if d.err != nil {
		return 0
	}
	r, err := decodeBits(v)
	if err != nil {
		d.fail(field, err, at, at, uint64(v))
	}
	return r
}

// zero reads a reserved field that must be zero.
func zero[T constraints.Unsigned](d *decoder, field string) T {
	at := d.pos
	v := take[T](d, field)
	if d.err == nil && v != 0 {
		d.fail(field, ErrMalformedReservedField, at, at, uint64(v))
	}
	return v
}

// addr32 reads a 32-bit address field.
func addr32(d *decoder, field string) common.Addr32 {
	return common.Addr32(take[uint32](d, field))
}
