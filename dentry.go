package newfs

import (
	"bytes"
	"encoding/binary"
)

// dentryDisk is the on-disk dentry record (spec.md §3): a fixed 128-byte
// name (NUL-terminated, but not guaranteed to be — a full-width name has no
// trailing NUL), an inode number, and a type tag.
type dentryDisk struct {
	Name  [MaxNameLen]byte
	Ino   uint32
	FType uint32
}

func dentryDiskSize() int {
	var d dentryDisk
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &d)
	return buf.Len()
}

func encodeName(name string) [MaxNameLen]byte {
	var out [MaxNameLen]byte
	copy(out[:], name)
	return out
}

func decodeName(raw [MaxNameLen]byte) string {
	if n := bytes.IndexByte(raw[:], 0); n >= 0 {
		return string(raw[:n])
	}
	return string(raw[:])
}

// Dentry is the in-memory directory entry (spec.md §3, C4). It owns its
// Inode once hydrated; Parent and Next are weak references used only for
// tree navigation, never for ownership.
type Dentry struct {
	Name   string
	Ino    uint32
	FType  FileType
	Parent *Dentry
	Next   *Dentry // next sibling in the owning directory's child list
	Inode  *Inode  // populated lazily on first hydration need
}

// newDentry constructs a detached dentry; it is linked into a parent's
// children only by allocDentry or hydration's linkChild.
func newDentry(name string, ftype FileType) *Dentry {
	return &Dentry{Name: name, FType: ftype, Ino: noBlock}
}

func (d *Dentry) toDisk() *dentryDisk {
	dd := &dentryDisk{Ino: d.Ino, FType: uint32(d.FType)}
	dd.Name = encodeName(d.Name)
	return dd
}

func dentryFromDisk(dd *dentryDisk, parent *Dentry) *Dentry {
	return &Dentry{
		Name:   decodeName(dd.Name),
		Ino:    dd.Ino,
		FType:  FileType(dd.FType),
		Parent: parent,
	}
}
