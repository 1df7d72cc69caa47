package newfs

import (
	"sync"
)

// Filesystem is the mounted, in-memory state of a newfs image (spec.md §5,
// C8). Unlike the source, which keeps a single process-wide superblock, a
// Filesystem handle is threaded explicitly through every operation and the
// host adapter stores it in its own private-data slot (spec.md §9).
type Filesystem struct {
	dev     BlockDevice
	adapter *Adapter

	sb        *Superblock
	inoBitmap *bitmap
	datBitmap *bitmap

	root *Dentry

	// mu serializes Unmount and Mounted. No other operation takes it, and
	// ExportDevice/ImportDevice have no Filesystem to lock; normal
	// operation is single-threaded dispatch per spec.md §5.
	mu      sync.Mutex
	mounted bool
}

// Mount opens dev, formatting it on first use (magic mismatch) or loading
// its existing layout otherwise, and returns a ready Filesystem with its
// root dentry hydrated (spec.md §4.8).
func Mount(dev BlockDevice) (*Filesystem, error) {
	adapter, err := NewAdapter(dev)
	if err != nil {
		return nil, err
	}
	blockSize := int64(adapter.SectorSize()) * 2

	fs := &Filesystem{dev: dev, adapter: adapter}

	existing, err := readSuperblock(adapter, blockSize)
	if err != nil {
		return nil, err
	}

	if existing.Magic != Magic {
		if err := fs.format(blockSize); err != nil {
			return nil, err
		}
	} else {
		fs.sb = existing

		fs.inoBitmap = newBitmap(blockSize, existing.InoMax)
		fs.datBitmap = newBitmap(blockSize, uint32(existing.DataBlocks))
		if err := fs.adapter.ReadAt(fs.sb.InoMapOffset, fs.inoBitmap.bytes); err != nil {
			return nil, ErrIO
		}
		if err := fs.adapter.ReadAt(fs.sb.DatMapOffset, fs.datBitmap.bytes); err != nil {
			return nil, ErrIO
		}

		root := newDentry("/", Dir)
		root.Ino = uint32(fs.sb.RootIno)
		rootInode, err := fs.hydrateInode(root, root.Ino)
		if err != nil {
			return nil, err
		}
		root.Inode = rootInode
		fs.root = root
	}

	fs.mounted = true
	return fs, nil
}

func (fs *Filesystem) format(blockSize int64) error {
	deviceSize, err := fs.dev.Size()
	if err != nil {
		return ErrIO
	}

	sb := layoutForBlockSize(blockSize)
	sb.finalizeLimits(deviceSize)
	fs.sb = sb

	fs.inoBitmap = newBitmap(blockSize, sb.InoMax)
	fs.datBitmap = newBitmap(blockSize, uint32(sb.DataBlocks))

	if err := fs.adapter.WriteAt(sb.InoMapOffset, fs.inoBitmap.bytes); err != nil {
		return ErrIO
	}
	if err := fs.adapter.WriteAt(sb.DatMapOffset, fs.datBitmap.bytes); err != nil {
		return ErrIO
	}

	root := newDentry("/", Dir)
	root.Ino = uint32(sb.RootIno)
	root.Parent = nil

	rootInode, err := fs.allocInode(root)
	if err != nil {
		return err
	}
	root.Inode = rootInode
	fs.root = root

	return fs.sync(rootInode)
}

// Unmount flushes the whole hydrated tree, both bitmaps, and the superblock
// back to disk, then closes the device (spec.md §4.8 step 2-5). It is a
// no-op if the filesystem is not mounted.
func (fs *Filesystem) Unmount() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !fs.mounted {
		return nil
	}

	if fs.root != nil && fs.root.Inode != nil {
		if err := fs.sync(fs.root.Inode); err != nil {
			return err
		}
	}

	if err := fs.adapter.WriteAt(fs.sb.InoMapOffset, fs.inoBitmap.bytes); err != nil {
		return ErrIO
	}
	if err := fs.adapter.WriteAt(fs.sb.DatMapOffset, fs.datBitmap.bytes); err != nil {
		return ErrIO
	}
	if err := writeSuperblock(fs.adapter, fs.sb); err != nil {
		return err
	}

	if err := fs.dev.Close(); err != nil {
		return ErrIO
	}

	fs.mounted = false
	fs.root = nil
	return nil
}

// Root returns the mounted filesystem's root dentry.
func (fs *Filesystem) Root() *Dentry {
	return fs.root
}

// Mounted reports whether the filesystem is currently mounted.
func (fs *Filesystem) Mounted() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.mounted
}
