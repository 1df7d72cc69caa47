package newfs

import (
	"bytes"
	"encoding/binary"
)

// inodeDisk is the on-disk inode record (spec.md §3): ino, size, dir_cnt,
// ftype, and a fixed K-entry array of data-block numbers (noBlock/0xFFFFFFFF
// marks an unused slot). Because K (MaxFileBlocks, 1024) entries of uint32
// already exceed one logical block on their own, every inode necessarily
// occupies its own region rather than packing tightly many-per-block; see
// DESIGN.md for why this is kept rather than "fixed" (spec.md's K=1024 is
// exercised directly by S5's getattr blocks assertion, so it cannot shrink).
type inodeDisk struct {
	Ino    uint32
	Size   uint64
	DirCnt uint32
	FType  uint32
	Data   [MaxFileBlocks]uint32
}

func inodeDiskSize() int {
	var d inodeDisk
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &d)
	return buf.Len()
}

// Inode is the in-memory inode (spec.md §3, C4): scalar fields, a back
// pointer to the dentry that names it, a child-dentry list for directories
// (LIFO insertion order), and a per-slot block buffer for each live data[i].
type Inode struct {
	Ino    uint32
	Size   uint64
	DirCnt uint32
	FType  FileType

	Dentry   *Dentry // the dentry naming this inode
	Children *Dentry // head of the child-dentry list, directories only

	Data   [MaxFileBlocks]uint32
	Blocks [MaxFileBlocks][]byte // owned buffers, populated where Data[i] != noBlock
}

func newInode(ino uint32, ftype FileType) *Inode {
	in := &Inode{Ino: ino, FType: ftype}
	for i := range in.Data {
		in.Data[i] = noBlock
	}
	return in
}

func (in *Inode) toDisk() *inodeDisk {
	d := &inodeDisk{
		Ino:    in.Ino,
		Size:   in.Size,
		DirCnt: in.DirCnt,
		FType:  uint32(in.FType),
	}
	d.Data = in.Data
	return d
}

func inodeFromDisk(d *inodeDisk, dentry *Dentry) *Inode {
	in := &Inode{
		Ino:    d.Ino,
		Size:   d.Size,
		DirCnt: d.DirCnt,
		FType:  FileType(d.FType),
		Dentry: dentry,
	}
	in.Data = d.Data
	return in
}

// childCount walks the in-memory child list and counts it; used by tests to
// check the child list against dir_cnt (the sync engine's own check in
// sync.go counts the list it builds while walking).
func (in *Inode) childCount() int {
	n := 0
	for c := in.Children; c != nil; c = c.Next {
		n++
	}
	return n
}
