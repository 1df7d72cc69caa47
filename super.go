package newfs

import (
	"bytes"
	"encoding/binary"
)

// superblockDisk is the on-disk superblock record (spec.md §3). Validity is
// signaled purely by Magic matching Magic; everything else is only
// meaningful once that check passes.
type superblockDisk struct {
	Magic        uint32
	SBOffset     uint64
	SBBlocks     uint32
	InoMapOffset uint64
	InoMapBlocks uint32
	DatMapOffset uint64
	DatMapBlocks uint32
	InodeOffset  uint64
	InodeBlocks  uint32
	DataOffset   uint64
	DataBlocks   uint32
	InoMax       uint32
	FileMax      uint64
	RootIno      uint32
}

func superblockDiskSize() int {
	var sb superblockDisk
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &sb)
	return buf.Len()
}

// Superblock is the in-memory region map, populated either by formatting a
// fresh image or by reading an existing one (spec.md §4.2, C2).
type Superblock struct {
	Magic uint32

	BlockSize int64 // B = 2 * sector size

	SBOffset, SBBlocks         int64
	InoMapOffset, InoMapBlocks int64
	DatMapOffset, DatMapBlocks int64
	InodeOffset, InodeBlocks   int64
	DataOffset, DataBlocks     int64

	InoMax  uint32
	FileMax uint64
	RootIno uint32
}

// InodesPerBlock returns how many packed inodeDisk records fit in one
// logical block.
func (s *Superblock) InodesPerBlock() int {
	return int(s.BlockSize) / inodeDiskSize()
}

// DentriesPerBlock returns how many packed dentryDisk records fit in one
// logical data block.
func (s *Superblock) DentriesPerBlock() int {
	return int(s.BlockSize) / dentryDiskSize()
}

// layoutForBlockSize computes the fixed region layout for a given logical
// block size, reproducing the source's offsets bit-for-bit (spec.md §3; see
// layout.go).
func layoutForBlockSize(blockSize int64) *Superblock {
	s := &Superblock{
		Magic:        Magic,
		BlockSize:    blockSize,
		SBOffset:     0,
		SBBlocks:     SuperblockBlocks,
		InoMapOffset: blockSize,
		InoMapBlocks: InodeBitmapBlocks,
		DatMapOffset: 2 * blockSize,
		DatMapBlocks: DataBitmapBlocks,
		InodeOffset:  3 * blockSize,
		InodeBlocks:  InodeTableBlocks,
		DataOffset:   DataRegionBlockOffset * blockSize,
	}
	return s
}

func (s *Superblock) finalizeLimits(deviceSize int64) {
	s.DataBlocks = (deviceSize - s.DataOffset) / s.BlockSize

	// ino_max = inode_blks * (B / sizeof(inode_on_disk)) as spec.md §4.2
	// literally states truncates to zero here: K=1024 data-block slots
	// alone already make one inodeDisk record (≈4KB) bigger than one
	// logical block (1KB), so B/sizeof(inode) underflows to 0 before the
	// multiply ever runs. Computing it as (inode_blks·B)/sizeof(inode)
	// instead - the same quantity, multiplied before it is divided -
	// gives the region's real inode capacity instead of zero.
	s.InoMax = uint32((s.InodeBlocks * s.BlockSize) / int64(inodeDiskSize()))

	s.FileMax = uint64(MaxFileBlocks) * uint64(s.BlockSize)
	s.RootIno = 0
}

func (s *Superblock) toDisk() *superblockDisk {
	return &superblockDisk{
		Magic:        s.Magic,
		SBOffset:     uint64(s.SBOffset),
		SBBlocks:     uint32(s.SBBlocks),
		InoMapOffset: uint64(s.InoMapOffset),
		InoMapBlocks: uint32(s.InoMapBlocks),
		DatMapOffset: uint64(s.DatMapOffset),
		DatMapBlocks: uint32(s.DatMapBlocks),
		InodeOffset:  uint64(s.InodeOffset),
		InodeBlocks:  uint32(s.InodeBlocks),
		DataOffset:   uint64(s.DataOffset),
		DataBlocks:   uint32(s.DataBlocks),
		InoMax:       s.InoMax,
		FileMax:      s.FileMax,
		RootIno:      s.RootIno,
	}
}

func (s *Superblock) fromDisk(d *superblockDisk) {
	s.Magic = d.Magic
	s.SBOffset = int64(d.SBOffset)
	s.SBBlocks = int64(d.SBBlocks)
	s.InoMapOffset = int64(d.InoMapOffset)
	s.InoMapBlocks = int64(d.InoMapBlocks)
	s.DatMapOffset = int64(d.DatMapOffset)
	s.DatMapBlocks = int64(d.DatMapBlocks)
	s.InodeOffset = int64(d.InodeOffset)
	s.InodeBlocks = int64(d.InodeBlocks)
	s.DataOffset = int64(d.DataOffset)
	s.DataBlocks = int64(d.DataBlocks)
	s.InoMax = d.InoMax
	s.FileMax = d.FileMax
	s.RootIno = d.RootIno
}

// readSuperblock reads and decodes the superblock at offset 0. The returned
// Superblock's Magic field must be checked by the caller: a mismatch means
// "not yet formatted", not an error.
func readSuperblock(a *Adapter, blockSize int64) (*Superblock, error) {
	buf := make([]byte, superblockDiskSize())
	if err := a.ReadAt(0, buf); err != nil {
		return nil, ErrIO
	}

	var d superblockDisk
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &d); err != nil {
		return nil, ErrIO
	}

	s := &Superblock{BlockSize: blockSize}
	s.fromDisk(&d)
	return s, nil
}

func writeSuperblock(a *Adapter, s *Superblock) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, s.toDisk()); err != nil {
		return ErrIO
	}
	if err := a.WriteAt(0, buf.Bytes()); err != nil {
		return ErrIO
	}
	return nil
}
