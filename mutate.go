package newfs

// allocInode allocates a fresh inode number from the inode bitmap and
// cross-links it with dentry (spec.md §4.6, C6). It returns ErrNoSpace if
// the inode bitmap is exhausted.
func (fs *Filesystem) allocInode(dentry *Dentry) (*Inode, error) {
	ino, err := fs.inoBitmap.Allocate()
	if err != nil {
		return nil, ErrNoSpace
	}

	in := newInode(ino, dentry.FType)
	in.Dentry = dentry

	dentry.Inode = in
	dentry.Ino = in.Ino

	return in, nil
}

// allocDentry head-inserts dentry into parent's child list, growing parent's
// size/dir_cnt and allocating a fresh data block whenever dentry starts one
// (spec.md §4.6, C6). This is the user-mutation path: unlike hydration's
// linkChild, it always grows dir_cnt and may allocate blocks.
func (fs *Filesystem) allocDentry(parent *Inode, dentry *Dentry) (int, error) {
	dentry.Next = parent.Children
	parent.Children = dentry

	parent.Size += uint64(dentryDiskSize())

	perBlock := fs.sb.DentriesPerBlock()
	if int(parent.DirCnt) >= MaxFileBlocks*perBlock {
		return -1, ErrNoSpace
	}

	needNewBlock := parent.DirCnt == 0 || int(parent.DirCnt)%perBlock == 0
	if needNewBlock {
		blk, err := fs.datBitmap.Allocate()
		if err != nil {
			return -1, ErrNoSpace
		}
		slot := int(parent.DirCnt) / perBlock
		parent.Data[slot] = blk
		parent.Blocks[slot] = make([]byte, fs.sb.BlockSize)
	}

	parent.DirCnt++
	return int(parent.DirCnt), nil
}

// linkChild inserts a dentry read from disk into parent's child list without
// touching dir_cnt or allocating blocks: hydration already knows dir_cnt and
// data[] from the on-disk inode, and must not re-grow them (spec.md §9,
// "hydration double-count" — the source bug this deliberately avoids).
func linkChild(parent *Inode, dentry *Dentry) {
	dentry.Next = parent.Children
	parent.Children = dentry
}
