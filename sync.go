package newfs

import (
	"bytes"
	"encoding/binary"
)

// sync flushes in's own inode record to disk and, for a regular file, every
// live data block; for a directory it also serializes each child dentry into
// its owning data block and recurses into any child whose inode is already
// hydrated (spec.md §4.7, C7). It reports ErrIO if the in-memory child count
// disagrees with dir_cnt, since that means the tree and the on-disk record
// have drifted apart.
func (fs *Filesystem) sync(in *Inode) error {
	d := in.toDisk()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, d); err != nil {
		return ErrIO
	}
	off := fs.sb.InodeOffset + int64(in.Ino)*int64(inodeDiskSize())
	if err := fs.adapter.WriteAt(off, buf.Bytes()); err != nil {
		return ErrIO
	}

	if in.FType != Dir {
		for i := 0; i < MaxFileBlocks; i++ {
			if in.Data[i] == noBlock || in.Blocks[i] == nil {
				continue
			}
			blockOff := fs.sb.DataOffset + int64(in.Data[i])*fs.sb.BlockSize
			if err := fs.adapter.WriteAt(blockOff, in.Blocks[i]); err != nil {
				return ErrIO
			}
		}
		return nil
	}

	children := make([]*Dentry, 0, in.DirCnt)
	for c := in.Children; c != nil; c = c.Next {
		children = append(children, c)
	}
	if len(children) != int(in.DirCnt) {
		return ErrIO
	}

	perBlock := fs.sb.DentriesPerBlock()
	recSize := dentryDiskSize()
	touched := make(map[int]bool)

	for idx, c := range children {
		slot := idx / perBlock
		pos := idx % perBlock
		if in.Data[slot] == noBlock {
			return ErrIO
		}
		if in.Blocks[slot] == nil {
			in.Blocks[slot] = make([]byte, fs.sb.BlockSize)
		}

		var rbuf bytes.Buffer
		if err := binary.Write(&rbuf, binary.LittleEndian, c.toDisk()); err != nil {
			return ErrIO
		}
		copy(in.Blocks[slot][pos*recSize:(pos+1)*recSize], rbuf.Bytes())
		touched[slot] = true

		if c.Inode != nil {
			if err := fs.sync(c.Inode); err != nil {
				return err
			}
		}
	}

	for slot := range touched {
		blockOff := fs.sb.DataOffset + int64(in.Data[slot])*fs.sb.BlockSize
		if err := fs.adapter.WriteAt(blockOff, in.Blocks[slot]); err != nil {
			return ErrIO
		}
	}

	return nil
}
