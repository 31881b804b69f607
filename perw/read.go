package perw

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// Decode parses the PE64 header region of data. On failure the error is a
// *ParseError, or ParseErrors when several section records were rejected, and
// no partial File is returned.
func Decode(data []byte) (*File, error) {
	d := newDecoder(data)
	h := decodeFileHeader(d)
	if d.err != nil {
		return nil, d.err
	}
	sections, errs := decodeSections(d, &h)
	switch len(errs) {
	case 0:
	case 1:
		return nil, errs[0]
	default:
		return nil, errs
	}
	if sections == nil {
		sections = []SectionHeader{}
	}
	return &File{Header: h, Sections: sections}, nil
}

// Image is a read-only memory mapped input file.
type Image struct {
	Name string
	Data []byte

	file *os.File
	m    mmap.MMap
}

// Open maps path into memory. Empty files are not mapped and yield an Image
// with no data.
func Open(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to get file info")
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, errors.Errorf("%s is a directory", path)
	}
	img := &Image{Name: path, file: file}
	if info.Size() == 0 {
		return img, nil
	}
	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to map file")
	}
	img.m, img.Data = m, m
	return img, nil
}

// Size returns the number of bytes in the image.
func (i *Image) Size() int64 {
	return int64(len(i.Data))
}

// Decode parses the mapped bytes. The File stays valid after Close.
func (i *Image) Decode() (*File, error) {
	return Decode(i.Data)
}

func (i *Image) Close() error {
	var errs []error
	if i.m != nil {
		if err := i.m.Unmap(); err != nil {
			errs = append(errs, errors.Wrap(err, "failed to unmap file"))
		}
		i.m, i.Data = nil, nil
	}
	if i.file != nil {
		if err := i.file.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "failed to close file"))
		}
		i.file = nil
	}
	if len(errs) > 0 {
		return errors.Errorf("close errors: %v", errs)
	}
	return nil
}

// ReadFile opens, decodes and closes path.
func ReadFile(path string) (*File, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return img.Decode()
}
