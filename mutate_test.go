package newfs

import "testing"

// TestAllocDentryGrowsAccounting checks spec.md invariant 2: dir_cnt equals
// the child list length and size tracks it in dentryDisk units.
func TestAllocDentryGrowsAccounting(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	root := fsys.Root()
	parent := root.Inode

	names := []string{"one", "two", "three"}
	for _, name := range names {
		d := newDentry(name, RegFile)
		d.Parent = root
		if _, err := fsys.allocDentry(parent, d); err != nil {
			t.Fatalf("allocDentry(%s): %s", name, err)
		}
		if _, err := fsys.allocInode(d); err != nil {
			t.Fatalf("allocInode(%s): %s", name, err)
		}
	}

	if int(parent.DirCnt) != len(names) {
		t.Fatalf("dir_cnt = %d, want %d", parent.DirCnt, len(names))
	}
	if parent.childCount() != len(names) {
		t.Fatalf("child list length = %d, want %d", parent.childCount(), len(names))
	}
	wantSize := uint64(len(names) * dentryDiskSize())
	if parent.Size != wantSize {
		t.Fatalf("size = %d, want %d", parent.Size, wantSize)
	}
}

// TestAllocDentryAllocatesNewBlockAtBoundary checks invariant 3: data[j] is
// live iff j < ceil(dir_cnt/dentries_per_block).
func TestAllocDentryAllocatesNewBlockAtBoundary(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	root := fsys.Root()
	parent := root.Inode
	perBlock := fsys.sb.DentriesPerBlock()

	for i := 0; i < perBlock; i++ {
		d := newDentry("c", RegFile)
		if _, err := fsys.allocDentry(parent, d); err != nil {
			t.Fatalf("allocDentry %d: %s", i, err)
		}
	}
	if parent.Data[1] != noBlock {
		t.Fatalf("data[1] allocated before dir_cnt crossed a block boundary")
	}

	d := newDentry("overflow", RegFile)
	if _, err := fsys.allocDentry(parent, d); err != nil {
		t.Fatalf("allocDentry at boundary: %s", err)
	}
	if parent.Data[1] == noBlock {
		t.Fatalf("data[1] not allocated after dir_cnt crossed a block boundary")
	}
}

// TestLinkChildDoesNotGrowAccounting checks the §9 "hydration double-count"
// fix: linkChild must not touch dir_cnt, size, or data[].
func TestLinkChildDoesNotGrowAccounting(t *testing.T) {
	parent := newInode(0, Dir)
	parent.DirCnt = 3
	parent.Size = 3 * uint64(dentryDiskSize())

	child := newDentry("x", RegFile)
	linkChild(parent, child)

	if parent.DirCnt != 3 {
		t.Fatalf("linkChild changed dir_cnt to %d, want 3", parent.DirCnt)
	}
	if parent.Size != 3*uint64(dentryDiskSize()) {
		t.Fatalf("linkChild changed size")
	}
	if parent.Children != child {
		t.Fatalf("linkChild did not head-insert the new child")
	}
}

// TestAllocInodeExhaustion checks the inode bitmap exhaustion path surfaces
// ErrNoSpace without corrupting already-allocated state.
func TestAllocInodeExhaustion(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	var lastErr error
	count := 0
	for i := 0; i < 100; i++ {
		d := newDentry("f", RegFile)
		if _, err := fsys.allocInode(d); err != nil {
			lastErr = err
			break
		}
		count++
	}
	if lastErr != ErrNoSpace {
		t.Fatalf("allocInode exhaustion = %v, want ErrNoSpace", lastErr)
	}
	if uint32(count) > fsys.sb.InoMax {
		t.Fatalf("allocated %d inodes, more than ino_max %d", count, fsys.sb.InoMax)
	}
}
