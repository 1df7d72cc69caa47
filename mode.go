package newfs

import (
	"io/fs"
)

// newfs only ever constructs regular files and directories on disk (symlinks
// are a reserved FileType that nothing allocates yet), so the mode translator
// only needs to cover those two, based on: https://golang.org/src/os/stat_linux.go

const (
	S_IFMT  = 0xf000
	S_IFREG = 0x8000
	S_IFDIR = 0x4000
	S_IFLNK = 0xa000

	S_IRUSR = 0x100
	S_IRGRP = 0x20
	S_IROTH = 0x4

	S_IWUSR = 0x80
	S_IWGRP = 0x10
	S_IWOTH = 0x2

	S_IXUSR = 0x40
	S_IXGRP = 0x8
	S_IXOTH = 0x1

	// DefaultPerm is the fixed permission bits newfs reports for every
	// inode; the core performs no permission checks (see ErrAccessDenied).
	DefaultPerm = 0777
)

// UnixToMode converts a raw unix mode word (as DefaultPerm | S_IFxxx) into an
// fs.FileMode.
func UnixToMode(mode uint32) fs.FileMode {
	res := fs.FileMode(mode & 0777)

	switch {
	case mode&S_IFDIR == S_IFDIR:
		res |= fs.ModeDir
	case mode&S_IFLNK == S_IFLNK:
		res |= fs.ModeSymlink
	}

	return res
}

// ModeToUnix converts an fs.FileMode back into a raw unix mode word.
func ModeToUnix(mode fs.FileMode) uint32 {
	res := uint32(mode.Perm())

	switch {
	case mode&fs.ModeDir == fs.ModeDir:
		res |= S_IFDIR
	case mode&fs.ModeSymlink == fs.ModeSymlink:
		res |= S_IFLNK
	default:
		res |= S_IFREG
	}

	return res
}
