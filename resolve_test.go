package newfs

import "testing"

// TestResolveExactNameMatch checks the §9 fix: the source compares names
// with a prefix memcmp, so mkdir /ab followed by lookup /a would incorrectly
// hit. This port must require an exact match.
func TestResolveExactNameMatch(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	if err := fsys.Mkdir("/ab", DefaultPerm); err != nil {
		t.Fatalf("Mkdir /ab: %s", err)
	}

	_, found, _, err := fsys.Resolve("/a")
	if err != nil {
		t.Fatalf("Resolve /a: %s", err)
	}
	if found {
		t.Fatalf("Resolve /a found a dentry named \"ab\" via prefix match")
	}
}

// TestResolveStopsAtRegularFile checks that descending through a regular
// file (rather than a directory) is reported as a miss, not followed.
func TestResolveStopsAtRegularFile(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	if err := fsys.Mknod("/f", uint32(DefaultPerm), 0); err != nil {
		t.Fatalf("Mknod /f: %s", err)
	}

	dentry, found, _, err := fsys.Resolve("/f/x")
	if err != nil {
		t.Fatalf("Resolve /f/x: %s", err)
	}
	if found {
		t.Fatalf("Resolve /f/x should not succeed: /f is a regular file")
	}
	if dentry.FType != RegFile || dentry.Name != "f" {
		t.Fatalf("Resolve /f/x returned %q (%v), want the \"f\" dentry", dentry.Name, dentry.FType)
	}
}

// TestResolveMissingParentReturnsParent checks that a missing final
// component returns the parent directory's dentry with found=false.
func TestResolveMissingParentReturnsParent(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	dentry, found, _, err := fsys.Resolve("/missing")
	if err != nil {
		t.Fatalf("Resolve /missing: %s", err)
	}
	if found {
		t.Fatalf("Resolve /missing should miss")
	}
	if dentry != fsys.Root() {
		t.Fatalf("Resolve /missing should return the root dentry as the last directory walked")
	}
}

// TestCreateRejectsMissingParent checks mkdir/mknod's ENOENT case: a parent
// path that does not exist at all.
func TestCreateRejectsMissingParent(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	if err := fsys.Mkdir("/missing/child", DefaultPerm); err != ErrNotFound {
		t.Fatalf("Mkdir with missing parent = %v, want ErrNotFound", err)
	}
}

// TestCreateRejectsFileParent checks mkdir/mknod's ENXIO case: an
// intermediate component that is a regular file.
func TestCreateRejectsFileParent(t *testing.T) {
	path := newTestDevicePath(t)
	fsys := mustMount(t, path)
	defer fsys.Unmount()

	if err := fsys.Mknod("/f", uint32(DefaultPerm), 0); err != nil {
		t.Fatalf("Mknod /f: %s", err)
	}
	if err := fsys.Mkdir("/f/child", DefaultPerm); err != ErrNotADirectory {
		t.Fatalf("Mkdir under a regular file = %v, want ErrNotADirectory", err)
	}
}
