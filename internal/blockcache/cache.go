// Package blockcache batches small reads of the backing file into
// fixed-size aligned blocks. A single-byte read that misses pulls one
// whole block through the view; neighbouring reads then hit memory.
package blockcache

import (
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/internal/types"
	"github.com/bethropolis/ebb/internal/view"
)

const (
	// DefaultBlockSize is the aligned block width in bytes.
	DefaultBlockSize = 1024
	// DefaultMaxBlockCount bounds how many blocks stay resident.
	DefaultMaxBlockCount = 8
)

// block is one cached aligned window of the file. data may be shorter
// than the block size at the end of the file or window.
type block struct {
	start    types.Natural // rounded to a blockSize multiple
	data     []byte
	lastUsed uint64
}

// Cache is a read-through block cache over a view.
type Cache struct {
	view      *view.View
	blockSize uint64
	maxBlocks int

	blocks []block
	tick   uint64
}

// New creates a cache over v. Zero parameters fall back to the defaults.
func New(v *view.View, blockSize uint64, maxBlocks int) *Cache {
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	if maxBlocks <= 0 {
		maxBlocks = DefaultMaxBlockCount
	}
	return &Cache{
		view:      v,
		blockSize: blockSize,
		maxBlocks: maxBlocks,
		blocks:    make([]block, 0, maxBlocks),
	}
}

// ReadByte returns the byte at pos, faulting in its block on a miss.
// The bool is false when pos is past the end of the readable range.
func (c *Cache) ReadByte(pos types.Natural) (byte, bool, error) {
	rounded := pos.RoundDown(c.blockSize)

	idx := c.find(rounded)
	if idx < 0 {
		var err error
		idx, err = c.fill(rounded)
		if err != nil {
			return 0, false, err
		}
		if idx < 0 {
			return 0, false, nil // nothing readable at this block
		}
	}

	c.tick++
	c.blocks[idx].lastUsed = c.tick

	offset := uint64(pos.Diff(rounded))
	if offset >= uint64(len(c.blocks[idx].data)) {
		// Inside the block's span but past its actual length: EOF.
		return 0, false, nil
	}
	return c.blocks[idx].data[offset], true, nil
}

// Read returns up to amount bytes starting at pos, stopping at the
// first unreadable position.
func (c *Cache) Read(pos types.Natural, amount uint64) ([]byte, error) {
	data := make([]byte, 0, amount)
	for i := uint64(0); i < amount; i++ {
		b, ok, err := c.ReadByte(pos.Add(types.Relative(i)))
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		data = append(data, b)
	}
	return data, nil
}

func (c *Cache) find(rounded types.Natural) int {
	for i := range c.blocks {
		if c.blocks[i].start == rounded {
			return i
		}
	}
	return -1
}

// fill reads one block's worth of bytes at rounded and caches it,
// evicting the least recently used block when full. Returns -1 when
// the view has nothing at that position.
func (c *Cache) fill(rounded types.Natural) (int, error) {
	data, err := c.view.Read(rounded, c.blockSize)
	if err != nil {
		return -1, err
	}
	if len(data) == 0 {
		return -1, nil
	}

	if len(c.blocks) >= c.maxBlocks {
		c.evict()
	}

	c.tick++
	c.blocks = append(c.blocks, block{start: rounded, data: data, lastUsed: c.tick})
	return len(c.blocks) - 1, nil
}

func (c *Cache) evict() {
	victim := 0
	for i := range c.blocks {
		if c.blocks[i].lastUsed < c.blocks[victim].lastUsed {
			victim = i
		}
	}
	logger.Debugf("blockcache: evicting block at %d", c.blocks[victim].start)
	c.blocks = append(c.blocks[:victim], c.blocks[victim+1:]...)
}

// InvalidateFrom drops every block whose span reaches pos or beyond.
// Insertions and deletions shift all later bytes, so everything from
// the edited position on is suspect.
func (c *Cache) InvalidateFrom(pos types.Natural) {
	kept := c.blocks[:0]
	for _, b := range c.blocks {
		if uint64(b.start)+uint64(len(b.data)) <= uint64(pos) {
			kept = append(kept, b)
		}
	}
	c.blocks = kept
}

// Clear drops every cached block. Called after a save rewrites the
// backing file.
func (c *Cache) Clear() {
	c.blocks = c.blocks[:0]
}

// Len reports the number of resident blocks.
func (c *Cache) Len() int {
	return len(c.blocks)
}
