package newfs

// On-disk layout constants. The region sizes below reproduce the source
// filesystem's fixed layout bit-for-bit: the inode table is InodeTableBlocks
// (29) blocks starting at block 3, so it ends at block 31, and the data
// region is pinned to start at block 32. No block lies unused between the
// two regions. The offsets are fixed constants (SPEC_FULL.md §9) so that
// images written by the reference tool stay readable.
const (
	// Magic is the expected superblock signature ("ext2", reused here).
	Magic uint32 = 0xEF53

	// MaxNameLen is the fixed width of a dentry's name field, NUL-terminated
	// but not guaranteed to be (a full 128-byte name has no trailing NUL).
	MaxNameLen = 128

	// MaxFileBlocks (K in spec.md) is the number of direct data-block slots
	// every inode carries, used both for file content and, for directories,
	// for the blocks holding that directory's dentries.
	MaxFileBlocks = 1024

	// InodeTableBlocks is the fixed size of the inode-table region.
	InodeTableBlocks = 29

	// DataRegionBlockOffset is the data region's start, expressed in
	// logical blocks from the start of the device. It does not follow
	// directly from SuperblockBlocks+InodeBitmapBlocks+DataBitmapBlocks+
	// InodeTableBlocks (3+29=32 would suffice); the source pins it to 32
	// anyway, which happens to match, leaving no gap in this particular
	// revision of the layout. Kept as a named constant rather than a
	// computed one so the layout is pinned even if InodeTableBlocks ever
	// changes.
	DataRegionBlockOffset = 32

	// SuperblockBlocks, InodeBitmapBlocks, DataBitmapBlocks are each a
	// single logical block.
	SuperblockBlocks  = 1
	InodeBitmapBlocks = 1
	DataBitmapBlocks  = 1

	// noBlock is the sentinel stored in an inode's data[] slot to mean
	// "unused". It must read/write as the raw 0xFFFFFFFF pattern to stay
	// compatible with existing images (spec.md §9); represented here as a
	// named constant instead of a literal -1 sprinkled through the code.
	noBlock uint32 = 0xFFFFFFFF
)

// FileType is the on-disk file type tag. SymLink is reserved by spec.md but
// never allocated by this implementation.
type FileType uint32

const (
	RegFile FileType = iota
	Dir
	SymLink
)

func (t FileType) String() string {
	switch t {
	case RegFile:
		return "file"
	case Dir:
		return "dir"
	case SymLink:
		return "symlink"
	default:
		return "unknown"
	}
}
