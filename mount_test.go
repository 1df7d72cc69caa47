package newfs

import (
	"os"
	"testing"
)

const testDeviceSize = 4 * 1024 * 1024 // 4 MiB, B=1024 per spec.md §8 S1

func newTestDevicePath(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "newfs-*.img")
	if err != nil {
		t.Fatalf("CreateTemp: %s", err)
	}
	defer f.Close()
	if err := f.Truncate(testDeviceSize); err != nil {
		t.Fatalf("Truncate: %s", err)
	}
	return f.Name()
}

func mustMount(t *testing.T, path string) *Filesystem {
	t.Helper()
	dev, err := OpenDevice(path)
	if err != nil {
		t.Fatalf("OpenDevice: %s", err)
	}
	fsys, err := Mount(dev)
	if err != nil {
		t.Fatalf("Mount: %s", err)
	}
	return fsys
}

// TestS1FirstMount reproduces spec.md §8 scenario S1: the very first mount
// on a zeroed 4 MiB device.
func TestS1FirstMount(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)

	root := fsys.Root()
	if root.Ino != 0 {
		t.Fatalf("root ino = %d, want 0", root.Ino)
	}
	if root.Inode.FType != Dir {
		t.Fatalf("root ftype = %v, want Dir", root.Inode.FType)
	}
	if root.Inode.DirCnt != 0 || root.Inode.Size != 0 {
		t.Fatalf("fresh root dir_cnt/size = %d/%d, want 0/0", root.Inode.DirCnt, root.Inode.Size)
	}
	for i, d := range root.Inode.Data {
		if d != noBlock {
			t.Fatalf("root.Data[%d] = %#x, want noBlock", i, d)
		}
	}
	if fsys.inoBitmap.bytes[0] != 0x01 {
		t.Fatalf("inode bitmap byte 0 = %#x, want 0x01", fsys.inoBitmap.bytes[0])
	}
	for i := 1; i < len(fsys.inoBitmap.bytes); i++ {
		if fsys.inoBitmap.bytes[i] != 0 {
			t.Fatalf("inode bitmap byte %d = %#x, want 0", i, fsys.inoBitmap.bytes[i])
		}
	}

	if err := fsys.Unmount(); err != nil {
		t.Fatalf("Unmount: %s", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %s", err)
	}
	magic := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
	if magic != Magic {
		t.Fatalf("on-disk magic = %#x, want %#x", magic, Magic)
	}
}

// TestScenarioSequence runs S2-S6 back to back, remounting between mutating
// steps as spec.md §8 prescribes.
func TestScenarioSequence(t *testing.T) {
	path := newTestDevicePath(t)

	// S1
	fsys := mustMount(t, path)
	if err := fsys.Unmount(); err != nil {
		t.Fatalf("Unmount after S1: %s", err)
	}

	// S2 — mkdir /a
	fsys = mustMount(t, path)
	if err := fsys.Mkdir("/a", DefaultPerm); err != nil {
		t.Fatalf("Mkdir /a: %s", err)
	}
	if err := fsys.Unmount(); err != nil {
		t.Fatalf("Unmount after S2: %s", err)
	}

	fsys = mustMount(t, path)
	root := fsys.Root()
	if root.Inode.DirCnt != 1 {
		t.Fatalf("S2: root.dir_cnt = %d, want 1", root.Inode.DirCnt)
	}
	if root.Inode.Children == nil || root.Inode.Children.Name != "a" {
		t.Fatalf("S2: root's child is not named \"a\"")
	}
	a := root.Inode.Children
	if a.FType != Dir || a.Ino != 1 {
		t.Fatalf("S2: /a ftype=%v ino=%d, want Dir/1", a.FType, a.Ino)
	}
	if root.Inode.Data[0] != 0 {
		t.Fatalf("S2: root.Data[0] = %d, want 0", root.Inode.Data[0])
	}
	if fsys.datBitmap.bytes[0] != 0x01 {
		t.Fatalf("S2: data bitmap byte 0 = %#x, want 0x01", fsys.datBitmap.bytes[0])
	}
	if fsys.inoBitmap.bytes[0] != 0x03 {
		t.Fatalf("S2: inode bitmap byte 0 = %#x, want 0x03", fsys.inoBitmap.bytes[0])
	}
	if err := fsys.Unmount(); err != nil {
		t.Fatalf("Unmount after S2 check: %s", err)
	}

	// S3 — mknod /a/b
	fsys = mustMount(t, path)
	if err := fsys.Mknod("/a/b", uint32(DefaultPerm), 0); err != nil {
		t.Fatalf("Mknod /a/b: %s", err)
	}
	if err := fsys.Unmount(); err != nil {
		t.Fatalf("Unmount after S3: %s", err)
	}

	fsys = mustMount(t, path)
	root = fsys.Root()
	if root.Inode.DirCnt != 1 || root.Inode.Children.Name != "a" {
		t.Fatalf("S3: root's children were disturbed")
	}
	aDentry := root.Inode.Children
	aInode, err := fsys.hydrateInode(aDentry, aDentry.Ino)
	if err != nil {
		t.Fatalf("hydrate /a: %s", err)
	}
	if aInode.DirCnt != 1 || aInode.Children == nil || aInode.Children.Name != "b" {
		t.Fatalf("S3: /a does not have exactly child \"b\"")
	}
	b := aInode.Children
	if b.FType != RegFile || b.Ino != 2 {
		t.Fatalf("S3: /a/b ftype=%v ino=%d, want RegFile/2", b.FType, b.Ino)
	}
	if fsys.datBitmap.bytes[0] != 0x03 {
		t.Fatalf("S3: data bitmap byte 0 = %#x, want 0x03", fsys.datBitmap.bytes[0])
	}
	if fsys.inoBitmap.bytes[0] != 0x07 {
		t.Fatalf("S3: inode bitmap byte 0 = %#x, want 0x07", fsys.inoBitmap.bytes[0])
	}

	// S4 — readdir /
	names, err := fsys.Readdir("/")
	if err != nil {
		t.Fatalf("Readdir /: %s", err)
	}
	if len(names) != 1 || names[0] != "a" {
		t.Fatalf("S4: readdir / = %v, want [\"a\"]", names)
	}

	// S5 — getattr /a/b
	attr, err := fsys.Getattr("/a/b")
	if err != nil {
		t.Fatalf("Getattr /a/b: %s", err)
	}
	wantMode := uint32(DefaultPerm | S_IFREG)
	if attr.Mode != wantMode {
		t.Fatalf("S5: mode = %#o, want %#o", attr.Mode, wantMode)
	}
	if attr.Size != 0 {
		t.Fatalf("S5: size = %d, want 0", attr.Size)
	}
	if attr.Blksize != 1024 {
		t.Fatalf("S5: blksize = %d, want 1024", attr.Blksize)
	}
	if attr.Blocks != MaxFileBlocks {
		t.Fatalf("S5: blocks = %d, want %d", attr.Blocks, MaxFileBlocks)
	}

	// S6 — mkdir of existing name
	inoBefore := fsys.inoBitmap.bytes[0]
	datBefore := fsys.datBitmap.bytes[0]
	if err := fsys.Mkdir("/a", DefaultPerm); err != ErrExists {
		t.Fatalf("S6: Mkdir /a again = %v, want ErrExists", err)
	}
	if fsys.inoBitmap.bytes[0] != inoBefore || fsys.datBitmap.bytes[0] != datBefore {
		t.Fatalf("S6: bitmaps mutated by a rejected mkdir")
	}

	if err := fsys.Unmount(); err != nil {
		t.Fatalf("final Unmount: %s", err)
	}
}
