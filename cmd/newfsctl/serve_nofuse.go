//go:build !fuse

package main

import (
	"fmt"

	"github.com/blockfs/newfs"
)

func serve(fsys *newfs.Filesystem, mountpoint string) error {
	return fmt.Errorf("newfsctl was built without the fuse build tag; rebuild with -tags fuse to mount")
}
