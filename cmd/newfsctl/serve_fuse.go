//go:build fuse

package main

import (
	gofs "github.com/hanwen/go-fuse/v2/fs"

	"github.com/blockfs/newfs"
)

func serve(fsys *newfs.Filesystem, mountpoint string) error {
	server, err := newfs.Serve(fsys, mountpoint, &gofs.Options{})
	if err != nil {
		return err
	}
	server.Wait()
	return nil
}
