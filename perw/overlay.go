package perw

// OverlayInfo describes bytes appended after the last section's raw data.
type OverlayInfo struct {
	Offset int64
	Size   int64
}

// Overlay reports the data past the furthest section end in a file of
// fileSize bytes. ok is false when there is none.
func (f *File) Overlay(fileSize int64) (info OverlayInfo, ok bool) {
	var end int64
	for i := range f.Sections {
		s := &f.Sections[i]
		if s.SizeOfRawData == 0 {
			continue
		}
		if e := int64(s.PointerToRawData) + int64(s.SizeOfRawData); e > end {
			end = e
		}
	}
	if end == 0 || end >= fileSize {
		return OverlayInfo{}, false
	}
	return OverlayInfo{Offset: end, Size: fileSize - end}, true
}
