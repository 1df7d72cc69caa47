package newfs

import "math/bits"

// bitmap is a first-fit, in-memory allocation map over blockSize bytes
// (spec.md §4.3, C3). It has no in-band journaling: every Allocate/Free is
// visible only in memory until the mount lifecycle flushes the bitmap back
// to disk at unmount.
type bitmap struct {
	bytes []byte
	limit uint32 // capacity: ino_max or data_blks
}

func newBitmap(blockSize int64, limit uint32) *bitmap {
	return &bitmap{bytes: make([]byte, blockSize), limit: limit}
}

// Allocate scans bytes low-to-high, bits low-to-high (bit 0 = LSB), sets the
// first clear bit and returns its index. Allocation is strictly first-fit in
// ascending order; callers MUST NOT rely on any other ordering.
func (b *bitmap) Allocate() (uint32, error) {
	for i, by := range b.bytes {
		if by == 0xFF {
			continue
		}
		// TrailingZeros8 of the inverted byte gives the lowest clear bit.
		bit := bits.TrailingZeros8(^by)
		idx := uint32(i)*8 + uint32(bit)
		if idx >= b.limit {
			return 0, ErrNoSpace
		}
		b.bytes[i] |= 1 << uint(bit)
		return idx, nil
	}
	return 0, ErrNoSpace
}

// Free clears bit i, making it available for a future Allocate.
func (b *bitmap) Free(i uint32) {
	byteIdx := i / 8
	bitIdx := i % 8
	if int(byteIdx) >= len(b.bytes) {
		return
	}
	b.bytes[byteIdx] &^= 1 << bitIdx
}

// Test reports whether bit i is set.
func (b *bitmap) Test(i uint32) bool {
	byteIdx := i / 8
	bitIdx := i % 8
	if int(byteIdx) >= len(b.bytes) {
		return false
	}
	return b.bytes[byteIdx]&(1<<bitIdx) != 0
}
