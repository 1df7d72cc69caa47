//go:build !linux

package newfs

import "os"

// openBlockDevice only has a real implementation on Linux (via ioctl);
// elsewhere every path is treated as a plain file image.
func openBlockDevice(f *os.File) (BlockDevice, bool) {
	return nil, false
}
