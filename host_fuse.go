//go:build fuse

package newfs

import (
	"context"
	"syscall"

	gofs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// hostNode is the go-fuse tree node wrapping one dentry (spec.md §6). The
// whole tree is discovered lazily through Lookup/Readdir, mirroring the
// object graph's own lazy hydration rather than pre-building a static tree.
type hostNode struct {
	gofs.Inode

	fsys   *Filesystem
	dentry *Dentry
}

var (
	_ gofs.InodeEmbedder = (*hostNode)(nil)
	_ gofs.NodeLookuper  = (*hostNode)(nil)
	_ gofs.NodeReaddirer = (*hostNode)(nil)
	_ gofs.NodeGetattrer = (*hostNode)(nil)
	_ gofs.NodeMkdirer   = (*hostNode)(nil)
	_ gofs.NodeMknoder   = (*hostNode)(nil)
	_ gofs.NodeOpendirer = (*hostNode)(nil)
)

// Serve mounts fsys at mountpoint and returns the running server (spec.md
// §6, the host boundary the core is served through); the server's Wait
// blocks until the host unmounts it. Callers are responsible for calling
// fsys.Unmount after Wait returns.
func Serve(fsys *Filesystem, mountpoint string, opts *gofs.Options) (*fuse.Server, error) {
	root := &hostNode{fsys: fsys, dentry: fsys.Root()}
	if opts == nil {
		opts = &gofs.Options{}
	}
	return gofs.Mount(mountpoint, root, opts)
}

// errToErrno maps a core error to the syscall.Errno the host expects
// (spec.md §7).
func errToErrno(err error) syscall.Errno {
	switch err {
	case nil:
		return 0
	case ErrNotFound:
		return syscall.ENOENT
	case ErrExists:
		return syscall.EEXIST
	case ErrNotADirectory:
		return syscall.ENXIO
	case ErrIsADirectory:
		return syscall.EISDIR
	case ErrNoSpace:
		return syscall.ENOSPC
	case ErrAccessDenied:
		return syscall.EACCES
	default:
		return syscall.EIO
	}
}

func (n *hostNode) childAttr(child *Dentry) fuse.Attr {
	attr, err := n.fsys.attrFromDentry(child, false)
	if err != nil {
		return fuse.Attr{}
	}
	var out fuse.Attr
	out.Mode = attr.Mode
	out.Size = attr.Size
	out.Nlink = attr.Nlink
	out.Blksize = attr.Blksize
	out.Blocks = attr.Blocks
	return out
}

func (n *hostNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	parentInode, err := n.fsys.ensureHydrated(n.dentry)
	if err != nil {
		return nil, errToErrno(err)
	}
	child := lookupChild(parentInode, name)
	if child == nil {
		return nil, syscall.ENOENT
	}

	out.Attr = n.childAttr(child)

	mode := uint32(syscall.S_IFREG)
	if child.FType == Dir {
		mode = syscall.S_IFDIR
	}
	childNode := &hostNode{fsys: n.fsys, dentry: child}
	return n.NewInode(ctx, childNode, gofs.StableAttr{Mode: mode, Ino: uint64(child.Ino)}), 0
}

type nameDirStream struct {
	names []string
	pos   int
	ftype func(string) FileType
}

func (s *nameDirStream) HasNext() bool {
	return s.pos < len(s.names)
}

func (s *nameDirStream) Next() (fuse.DirEntry, syscall.Errno) {
	name := s.names[s.pos]
	s.pos++
	mode := uint32(syscall.S_IFREG)
	if s.ftype(name) == Dir {
		mode = syscall.S_IFDIR
	}
	return fuse.DirEntry{Name: name, Mode: mode}, 0
}

func (s *nameDirStream) Close() {}

func (n *hostNode) Readdir(ctx context.Context) (gofs.DirStream, syscall.Errno) {
	names, err := n.fsys.childNames(n.dentry)
	if err != nil {
		return nil, errToErrno(err)
	}

	in, _ := n.fsys.ensureHydrated(n.dentry)
	ftype := func(name string) FileType {
		for c := in.Children; c != nil; c = c.Next {
			if c.Name == name {
				return c.FType
			}
		}
		return RegFile
	}

	return &nameDirStream{names: names, ftype: ftype}, 0
}

func (n *hostNode) Opendir(ctx context.Context) syscall.Errno {
	_, err := n.fsys.ensureHydrated(n.dentry)
	return errToErrno(err)
}

func (n *hostNode) Getattr(ctx context.Context, f gofs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	isRoot := n.dentry == n.fsys.Root()
	attr, err := n.fsys.attrFromDentry(n.dentry, isRoot)
	if err != nil {
		return errToErrno(err)
	}
	out.Mode = attr.Mode
	out.Size = attr.Size
	out.Nlink = attr.Nlink
	out.Blksize = attr.Blksize
	out.Blocks = attr.Blocks
	return 0
}

func (n *hostNode) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	child, err := n.fsys.createChild(n.dentry, name, Dir)
	if err != nil {
		return nil, errToErrno(err)
	}
	out.Attr = n.childAttr(child)
	childNode := &hostNode{fsys: n.fsys, dentry: child}
	return n.NewInode(ctx, childNode, gofs.StableAttr{Mode: syscall.S_IFDIR, Ino: uint64(child.Ino)}), 0
}

func (n *hostNode) Mknod(ctx context.Context, name string, mode uint32, rdev uint32, out *fuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	child, err := n.fsys.createChild(n.dentry, name, RegFile)
	if err != nil {
		return nil, errToErrno(err)
	}
	out.Attr = n.childAttr(child)
	childNode := &hostNode{fsys: n.fsys, dentry: child}
	return n.NewInode(ctx, childNode, gofs.StableAttr{Mode: syscall.S_IFREG, Ino: uint64(child.Ino)}), 0
}
