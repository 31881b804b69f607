package perw

import (
	"encoding/binary"
)

// Layout of the synthetic image built by newImage.
const (
	hdrOff  = 0x80
	coffOff = hdrOff + 4
	optOff  = coffOff + fileHeaderSize
	winOff  = optOff + 24
	dirOff  = optOff + 112
	secOff  = optOff + optionalHeaderSize
	rawOff  = 0x200
	rawSize = 0x10
)

type image struct {
	buf []byte
}

func (m *image) u8(off int, v uint8)   { m.buf[off] = v }
func (m *image) u16(off int, v uint16) { binary.LittleEndian.PutUint16(m.buf[off:], v) }
func (m *image) u32(off int, v uint32) { binary.LittleEndian.PutUint32(m.buf[off:], v) }
func (m *image) u64(off int, v uint64) { binary.LittleEndian.PutUint64(m.buf[off:], v) }

// section writes record i of the section table.
func (m *image) section(i int, name string, va, ptr, size, chars uint32) {
	off := secOff + i*sectionHeaderSize
	copy(m.buf[off:off+8], make([]byte, 8))
	copy(m.buf[off:off+8], name)
	m.u32(off+8, size)
	m.u32(off+12, va)
	m.u32(off+16, size)
	m.u32(off+20, ptr)
	m.u32(off+24, 0)
	m.u32(off+28, 0)
	m.u16(off+32, 0)
	m.u16(off+34, 0)
	m.u32(off+36, chars)
}

// newImage builds a minimal valid AMD64 console executable with one .text
// section whose raw data ends exactly at the end of the buffer.
func newImage() *image {
	m := &image{buf: make([]byte, rawOff+rawSize)}
	m.buf[0], m.buf[1] = 'M', 'Z'
	m.u8(peOffsetPointer, hdrOff)
	copy(m.buf[hdrOff:], "PE\x00\x00")

	m.u16(coffOff, 0x8664)
	m.u16(coffOff+2, 1)
	m.u32(coffOff+4, 0x5F5E1000)
	m.u32(coffOff+8, 0)
	m.u32(coffOff+12, 0)
	m.u16(coffOff+16, optionalHeaderSize)
	m.u16(coffOff+18, 0x0022)

	m.u16(optOff, 0x020B)
	m.u8(optOff+2, 14)
	m.u8(optOff+3, 29)
	m.u32(optOff+4, 0x200)
	m.u32(optOff+8, 0x400)
	m.u32(optOff+12, 0)
	m.u32(optOff+16, 0x1000)
	m.u32(optOff+20, 0x1000)

	m.u64(winOff, 0x140000000)
	m.u32(winOff+8, 0x1000)
	m.u32(winOff+12, 0x200)
	m.u16(winOff+16, 6)
	m.u16(winOff+18, 0)
	m.u16(winOff+20, 1)
	m.u16(winOff+22, 2)
	m.u16(winOff+24, 6)
	m.u16(winOff+26, 0)
	m.u32(winOff+28, 0)
	m.u32(winOff+32, 0x2000)
	m.u32(winOff+36, 0x200)
	m.u32(winOff+40, 0)
	m.u16(winOff+44, 3)
	m.u16(winOff+46, 0x8160)
	m.u64(winOff+48, 0x100000)
	m.u64(winOff+56, 0x1000)
	m.u64(winOff+64, 0x100000)
	m.u64(winOff+72, 0x1000)
	m.u32(winOff+80, 0)
	m.u32(winOff+84, dataDirectoryCount)

	m.section(0, ".text", 0x1000, rawOff, rawSize, 0x60000020)
	for i := 0; i < rawSize; i++ {
		m.buf[rawOff+i] = byte(0xC0 + i)
	}
	return m
}
