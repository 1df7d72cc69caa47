package newfs

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// ExportDevice streams a compressed, byte-for-byte copy of dev's full
// contents to w (spec.md §4.11, C10). format selects the codec: "gzip"
// (github.com/klauspost/compress, a drop-in for compress/gzip) or "xz"
// (github.com/ulikunitz/xz). Both stream sector-by-sector through
// BlockDevice's own read boundary, the same one the Block Device Adapter
// (C1) uses, rather than re-opening the backing file directly.
//
// ExportDevice and ImportDevice are the only entry points for this
// component: a mounted Filesystem's dev is closed by Unmount before its
// mounted flag clears (mount.go), so there is no point in the mount
// lifecycle where a *Filesystem wrapper could call through to a still-open
// device. Callers back up or restore an image by reopening the device path
// with OpenDevice once unmounted, the way cmd/newfsctl/main.go's doExport/
// doImport do.
func ExportDevice(dev BlockDevice, w io.Writer, format string) error {
	size, err := dev.Size()
	if err != nil {
		return ErrIO
	}
	sectorSize, err := dev.SectorSize()
	if err != nil {
		return ErrIO
	}

	cw, err := newCompressWriter(w, format)
	if err != nil {
		return err
	}

	buf := make([]byte, sectorSize)
	for off := int64(0); off < size; off += int64(sectorSize) {
		if err := dev.ReadSector(off, buf); err != nil {
			return ErrIO
		}
		if _, err := cw.Write(buf); err != nil {
			return ErrIO
		}
	}

	return cw.Close()
}

// ImportDevice restores a device image previously produced by ExportDevice
// (spec.md §4.11, C10). dev must already be sized exactly to the captured
// image: a shorter image or a longer one returns ErrIO.
func ImportDevice(dev BlockDevice, r io.Reader, format string) error {
	sectorSize, err := dev.SectorSize()
	if err != nil {
		return ErrIO
	}
	size, err := dev.Size()
	if err != nil {
		return ErrIO
	}

	cr, err := newDecompressReader(r, format)
	if err != nil {
		return err
	}

	buf := make([]byte, sectorSize)
	for off := int64(0); off < size; off += int64(sectorSize) {
		if _, err := io.ReadFull(cr, buf); err != nil {
			return ErrIO
		}
		if err := dev.WriteSector(off, buf); err != nil {
			return ErrIO
		}
	}

	// An image larger than dev still has bytes left in the stream.
	if _, err := io.ReadFull(cr, make([]byte, 1)); err == nil {
		return ErrIO
	}

	return nil
}

type compressWriter interface {
	io.Writer
	Close() error
}

func newCompressWriter(w io.Writer, format string) (compressWriter, error) {
	switch format {
	case "gzip":
		return gzip.NewWriter(w), nil
	case "xz":
		return xz.NewWriter(w)
	default:
		return nil, fmt.Errorf("newfs: unknown image format %q", format)
	}
}

func newDecompressReader(r io.Reader, format string) (io.Reader, error) {
	switch format {
	case "gzip":
		return gzip.NewReader(r)
	case "xz":
		return xz.NewReader(r)
	default:
		return nil, fmt.Errorf("newfs: unknown image format %q", format)
	}
}
