package newfs

import (
	"bytes"
	"encoding/binary"
)

// hydrateInode reads ino's on-disk record into memory and, for a directory,
// reads and links every live child dentry; for a regular file it reads each
// live data block into its slot buffer (spec.md §4.4, C4). It is the only
// path that should ever construct an Inode from disk; everywhere else either
// reuses an already-hydrated Inode or allocates a brand new one via
// allocInode.
//
// Children are linked via linkChild (not allocDentry): hydration must not
// grow dir_cnt or allocate fresh blocks, it is replaying state that already
// exists (spec.md §9).
func (fs *Filesystem) hydrateInode(dentry *Dentry, ino uint32) (*Inode, error) {
	off := fs.sb.InodeOffset + int64(ino)*int64(inodeDiskSize())
	buf := make([]byte, inodeDiskSize())
	if err := fs.adapter.ReadAt(off, buf); err != nil {
		return nil, ErrIO
	}

	var d inodeDisk
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &d); err != nil {
		return nil, ErrIO
	}
	in := inodeFromDisk(&d, dentry)

	if in.FType != Dir {
		for slot := 0; slot < MaxFileBlocks; slot++ {
			if in.Data[slot] == noBlock {
				continue
			}
			blockBuf := make([]byte, fs.sb.BlockSize)
			if err := fs.adapter.ReadAt(fs.sb.DataOffset+int64(in.Data[slot])*fs.sb.BlockSize, blockBuf); err != nil {
				return nil, ErrIO
			}
			in.Blocks[slot] = blockBuf
		}
		return in, nil
	}
	if in.DirCnt == 0 {
		return in, nil
	}

	perBlock := fs.sb.DentriesPerBlock()
	remaining := int(in.DirCnt)
	recSize := dentryDiskSize()

	var records []*dentryDisk
	for slot := 0; remaining > 0; slot++ {
		if slot >= MaxFileBlocks {
			return nil, ErrIO
		}
		blkNum := in.Data[slot]
		if blkNum == noBlock {
			return nil, ErrIO
		}

		blockOff := fs.sb.DataOffset + int64(blkNum)*fs.sb.BlockSize
		blockBuf := make([]byte, fs.sb.BlockSize)
		if err := fs.adapter.ReadAt(blockOff, blockBuf); err != nil {
			return nil, ErrIO
		}
		in.Blocks[slot] = blockBuf

		count := remaining
		if count > perBlock {
			count = perBlock
		}
		for i := 0; i < count; i++ {
			rec := blockBuf[i*recSize : (i+1)*recSize]
			var dd dentryDisk
			if err := binary.Read(bytes.NewReader(rec), binary.LittleEndian, &dd); err != nil {
				return nil, ErrIO
			}
			records = append(records, &dd)
		}
		remaining -= count
	}

	// records is in on-disk (head-first) order; linkChild head-inserts, so
	// walking it back-to-front reproduces that same order in the rebuilt
	// list.
	for i := len(records) - 1; i >= 0; i-- {
		child := dentryFromDisk(records[i], dentry)
		linkChild(in, child)
	}

	return in, nil
}
