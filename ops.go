package newfs

import "strings"

// Attr is the subset of attributes getattr reports (spec.md §6). It mirrors
// the fields a FUSE getattr callback needs, independent of any particular
// host binding.
type Attr struct {
	Mode    uint32
	Size    uint64
	Nlink   uint32
	Uid     uint32
	Gid     uint32
	Blksize uint32
	Blocks  uint64
}

// ensureHydrated populates dentry.Inode on first use; every path-facing
// operation and the FUSE adapter route through it so hydration happens
// exactly once per dentry (spec.md §4.4).
func (fs *Filesystem) ensureHydrated(dentry *Dentry) (*Inode, error) {
	if dentry.Inode != nil {
		return dentry.Inode, nil
	}
	in, err := fs.hydrateInode(dentry, dentry.Ino)
	if err != nil {
		return nil, err
	}
	dentry.Inode = in
	return in, nil
}

// attrFromDentry computes Getattr's result for an already-resolved dentry
// (spec.md §6, S5). The root is special-cased: nlink=2 and blocks=D/B
// rather than the per-file K-block budget.
func (fs *Filesystem) attrFromDentry(dentry *Dentry, isRoot bool) (*Attr, error) {
	in, err := fs.ensureHydrated(dentry)
	if err != nil {
		return nil, err
	}

	unixMode := uint32(DefaultPerm)
	switch in.FType {
	case Dir:
		unixMode |= S_IFDIR
	case SymLink:
		unixMode |= S_IFLNK
	default:
		unixMode |= S_IFREG
	}

	attr := &Attr{
		Mode:    unixMode,
		Size:    in.Size,
		Nlink:   1,
		Blksize: uint32(fs.sb.BlockSize),
	}

	switch {
	case isRoot:
		attr.Nlink = 2
		deviceSize, err := fs.dev.Size()
		if err != nil {
			return nil, ErrIO
		}
		attr.Blocks = uint64(deviceSize / fs.sb.BlockSize)
	default:
		// newfs.c reports st_blocks as the flat NEWFS_DATA_PER_FILE budget
		// for every non-root entry, directories included, rather than
		// actual usage; kept as-is here.
		attr.Blocks = uint64(MaxFileBlocks)
	}

	return attr, nil
}

// Getattr resolves path and reports its attributes (spec.md §6, S5).
func (fs *Filesystem) Getattr(path string) (*Attr, error) {
	dentry, found, isRoot, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return fs.attrFromDentry(dentry, isRoot)
}

// childNames returns dentry's children names in in-memory list order; it is
// an error to call it on anything but a directory.
func (fs *Filesystem) childNames(dentry *Dentry) ([]string, error) {
	in, err := fs.ensureHydrated(dentry)
	if err != nil {
		return nil, err
	}
	if in.FType != Dir {
		return nil, ErrNotADirectory
	}

	names := make([]string, 0, in.DirCnt)
	for c := in.Children; c != nil; c = c.Next {
		names = append(names, c.Name)
	}
	return names, nil
}

// Readdir resolves path and returns the names of its children in the
// in-memory list order (spec.md §6, S4).
func (fs *Filesystem) Readdir(path string) ([]string, error) {
	dentry, found, _, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return fs.childNames(dentry)
}

// parentPath returns the '/'-prefixed directory containing path's final
// component; parentPath("/a/b") is "/a", parentPath("/a") is "/".
func parentPath(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

// lookupChild scans parentDentry's already-hydrated children for name.
func lookupChild(parentInode *Inode, name string) *Dentry {
	for c := parentInode.Children; c != nil; c = c.Next {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// createChild allocates a fresh dentry+inode of ftype as parentDentry's
// child (spec.md §4.6, shared by Mkdir, Mknod and the FUSE adapter). It
// rejects an existing name with ErrExists and a non-directory parent with
// ErrNotADirectory.
func (fs *Filesystem) createChild(parentDentry *Dentry, name string, ftype FileType) (*Dentry, error) {
	parentInode, err := fs.ensureHydrated(parentDentry)
	if err != nil {
		return nil, err
	}
	if parentInode.FType != Dir {
		return nil, ErrNotADirectory
	}
	if lookupChild(parentInode, name) != nil {
		return nil, ErrExists
	}

	child := newDentry(name, ftype)
	child.Parent = parentDentry

	if _, err := fs.allocDentry(parentInode, child); err != nil {
		return nil, err
	}
	if _, err := fs.allocInode(child); err != nil {
		return nil, err
	}

	if err := fs.sync(fs.root.Inode); err != nil {
		return nil, err
	}
	return child, nil
}

// create resolves path's parent directory and creates ftype as its child
// (spec.md §4.6, shared by Mkdir and Mknod). It rejects a missing parent
// with ErrNotFound.
func (fs *Filesystem) create(path string, ftype FileType) error {
	name := baseName(path)

	parentDentry, found, _, err := fs.Resolve(parentPath(path))
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	_, err = fs.createChild(parentDentry, name, ftype)
	return err
}

// Mkdir creates a new, empty directory at path (spec.md §6).
func (fs *Filesystem) Mkdir(path string, mode uint32) error {
	return fs.create(path, Dir)
}

// Mknod creates a new regular file at path (spec.md §6). dev is accepted
// for signature compatibility but ignored: newfs has no device-node type.
func (fs *Filesystem) Mknod(path string, mode uint32, dev uint64) error {
	return fs.create(path, RegFile)
}

// Utimens is a no-op: the core performs no timestamp maintenance (spec.md §6).
func (fs *Filesystem) Utimens(path string) error {
	return nil
}
