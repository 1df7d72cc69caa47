package newfs

import (
	"io"
	"os"
)

// BlockDevice is the abstract driver boundary (spec.md §6): open, close,
// query device size, query sector size, seek, read-sector, write-sector.
// The core only ever issues sector-aligned, sector-sized I/O through it; all
// unaligned-access translation happens in Adapter.
type BlockDevice interface {
	io.Closer

	// Size returns the total addressable size of the device in bytes.
	Size() (int64, error)

	// SectorSize returns the device's native I/O unit size in bytes.
	SectorSize() (int, error)

	// ReadSector reads exactly one sector at the given sector-aligned
	// byte offset into buf, which must be SectorSize() bytes long.
	ReadSector(offset int64, buf []byte) error

	// WriteSector writes exactly one sector at the given sector-aligned
	// byte offset from buf, which must be SectorSize() bytes long.
	WriteSector(offset int64, buf []byte) error
}

// OpenDevice opens path as a BlockDevice. If path names a Linux block
// special file, its real geometry is queried via ioctl (see device_linux.go);
// otherwise it is treated as a plain file sized by Stat, with a fixed
// 512-byte sector, which is the common case for a CLI backed by a disk
// image rather than a raw device node.
func OpenDevice(path string) (BlockDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	if dev, ok := openBlockDevice(f); ok {
		return dev, nil
	}

	return &fileDevice{f: f, sectorSize: 512}, nil
}

// fileDevice implements BlockDevice over a plain *os.File (a disk image, not
// a raw block special file).
type fileDevice struct {
	f          *os.File
	sectorSize int
}

func (d *fileDevice) Close() error {
	return d.f.Close()
}

func (d *fileDevice) Size() (int64, error) {
	fi, err := d.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (d *fileDevice) SectorSize() (int, error) {
	return d.sectorSize, nil
}

func (d *fileDevice) ReadSector(offset int64, buf []byte) error {
	_, err := d.f.ReadAt(buf, offset)
	return err
}

func (d *fileDevice) WriteSector(offset int64, buf []byte) error {
	_, err := d.f.WriteAt(buf, offset)
	return err
}

// Adapter turns unaligned byte-range reads/writes into sector-aligned
// BlockDevice I/O (spec.md §4.1, C1). It assumes single-threaded use and
// performs no caching of its own; callers that need a page cache build one
// above the Adapter.
type Adapter struct {
	dev        BlockDevice
	sectorSize int
}

// NewAdapter wraps dev, caching its sector size for the lifetime of the Adapter.
func NewAdapter(dev BlockDevice) (*Adapter, error) {
	s, err := dev.SectorSize()
	if err != nil {
		return nil, err
	}
	return &Adapter{dev: dev, sectorSize: s}, nil
}

func (a *Adapter) SectorSize() int {
	return a.sectorSize
}

// ReadAt reads size bytes starting at offset, neither of which need be
// sector-aligned.
func (a *Adapter) ReadAt(offset int64, out []byte) error {
	s := int64(a.sectorSize)
	down := (offset / s) * s
	up := ((offset + int64(len(out)) + s - 1) / s) * s

	scratch := make([]byte, up-down)
	for i := int64(0); i < (up-down)/s; i++ {
		if err := a.dev.ReadSector(down+i*s, scratch[i*s:(i+1)*s]); err != nil {
			return err
		}
	}

	copy(out, scratch[offset-down:])
	return nil
}

// WriteAt writes len(in) bytes at offset, neither of which need be
// sector-aligned. Bytes outside [offset, offset+len(in)) within the touched
// sectors are preserved by a read-modify-write cycle.
func (a *Adapter) WriteAt(offset int64, in []byte) error {
	s := int64(a.sectorSize)
	down := (offset / s) * s
	up := ((offset + int64(len(in)) + s - 1) / s) * s

	scratch := make([]byte, up-down)
	n := (up - down) / s
	for i := int64(0); i < n; i++ {
		if err := a.dev.ReadSector(down+i*s, scratch[i*s:(i+1)*s]); err != nil {
			return err
		}
	}

	copy(scratch[offset-down:], in)

	for i := int64(0); i < n; i++ {
		if err := a.dev.WriteSector(down+i*s, scratch[i*s:(i+1)*s]); err != nil {
			return err
		}
	}
	return nil
}
