package common

import (
	"fmt"
	"strings"
)

// Addr32 is a 32-bit file offset or relative virtual address.
type Addr32 uint32

// Addr64 is a 64-bit virtual address, such as the preferred image base.
type Addr64 uint64

// HexDump is a bounded window over raw bytes used for diagnostic previews.
// At most HexDumpWidth bytes are ever kept or printed.
type HexDump []byte

// HexDumpWidth is the number of bytes shown in a diagnostic preview.
const HexDumpWidth = 20

// CommonSectionInfo holds derived statistics for one section's raw data.
type CommonSectionInfo struct {
	Entropy      float64
	MD5Hash      string
	SHA1Hash     string
	SHA256Hash   string
	IsExecutable bool
	IsReadable   bool
	IsWritable   bool
}

const (
	PERM_READ    = 0x4
	PERM_WRITE   = 0x2
	PERM_EXECUTE = 0x1
)

func (a Addr32) String() string {
	return fmt.Sprintf("%08x", uint32(a))
}

// Sub returns the distance from b to a. It is only meaningful when a >= b.
func (a Addr32) Sub(b Addr32) uint32 {
	return uint32(a) - uint32(b)
}

// Add offsets the address by n bytes.
func (a Addr32) Add(n uint32) Addr32 {
	return a + Addr32(n)
}

func (a Addr64) String() string {
	return fmt.Sprintf("%016x", uint64(a))
}

// Sub returns the distance from b to a. It is only meaningful when a >= b.
func (a Addr64) Sub(b Addr64) uint64 {
	return uint64(a) - uint64(b)
}

// Add offsets the address by n bytes.
func (a Addr64) Add(n uint64) Addr64 {
	return a + Addr64(n)
}

// NewHexDump copies up to HexDumpWidth bytes of data starting at offset. An
// offset outside data yields an empty dump.
func NewHexDump(data []byte, offset int) HexDump {
	if offset < 0 || offset >= len(data) {
		return HexDump{}
	}
	end := min(offset+HexDumpWidth, len(data))
	out := make(HexDump, end-offset)
	copy(out, data[offset:end])
	return out
}

func (h HexDump) String() string {
	var sb strings.Builder
	for i, b := range h {
		if i == HexDumpWidth {
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
