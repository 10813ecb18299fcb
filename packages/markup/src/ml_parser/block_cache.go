package ml_parser

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/singleflight"
)

// DefaultBlockSize is the number of elements per cache block
const DefaultBlockSize = 4096

var cacheLog = commonlog.GetLogger("markup.cache")

// CacheOptions represents options for a BlockCache
type CacheOptions struct {
	// BlockSize is the number of elements per block. Defaults to
	// DefaultBlockSize.
	BlockSize int
	// Store holds the block contents. Defaults to a WeakStore.
	Store ContentStore
}

// CacheBlock is a directory entry of a BlockCache: the element index range
// [StartIndex, EndIndex) scanned from tokens [StartTokenIndex, EndTokenIndex)
type CacheBlock struct {
	StartIndex      int
	EndIndex        int
	StartTokenIndex int
	EndTokenIndex   int
}

// BlockCache exposes the elements of a token sequence in fixed-size blocks
// whose contents can be dropped and recomputed. Blocks are only appended;
// block i resumes scanning where block i-1 ended.
type BlockCache struct {
	mu        sync.Mutex
	seq       *TokenSequence
	blockSize int
	store     ContentStore
	blocks    []CacheBlock
	complete  bool

	group      singleflight.Group
	recomputes atomic.Int64
}

// NewBlockCache creates a new BlockCache over seq
func NewBlockCache(seq *TokenSequence, options *CacheOptions) *BlockCache {
	if options == nil {
		options = &CacheOptions{}
	}
	c := &BlockCache{
		seq:       seq,
		blockSize: options.BlockSize,
		store:     options.Store,
	}
	if c.blockSize <= 0 {
		c.blockSize = DefaultBlockSize
	}
	if c.store == nil {
		c.store = NewWeakStore()
	}
	return c
}

// BlockSize returns the number of elements per block
func (c *BlockCache) BlockSize() int {
	return c.blockSize
}

// TokenSequence returns the scanned token sequence
func (c *BlockCache) TokenSequence() *TokenSequence {
	return c.seq
}

// CreateSequence returns a new sequence over all elements. Sequences are
// independent and may be read concurrently.
func (c *BlockCache) CreateSequence() *ElementSequence {
	return &ElementSequence{cache: c}
}

// Blocks returns a snapshot of the blocks created so far
func (c *BlockCache) Blocks() []CacheBlock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CacheBlock(nil), c.blocks...)
}

// Len scans the whole input and returns the number of elements
func (c *BlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.complete {
		c.appendBlock()
	}
	if len(c.blocks) == 0 {
		return 0
	}
	return c.blocks[len(c.blocks)-1].EndIndex
}

// Evict drops the content of block i
func (c *BlockCache) Evict(i int) {
	c.store.Evict(i)
}

// EvictAll drops the content of every block
func (c *BlockCache) EvictAll() {
	c.store.Purge()
}

// Recomputations returns how many times a dropped block was scanned again
func (c *BlockCache) Recomputations() int64 {
	return c.recomputes.Load()
}

// appendBlock scans the next block and returns its content, or nil when the
// input is exhausted. Callers hold c.mu.
func (c *BlockCache) appendBlock() *BlockContent {
	start, startToken := 0, 0
	if n := len(c.blocks); n > 0 {
		start, startToken = c.blocks[n-1].EndIndex, c.blocks[n-1].EndTokenIndex
	}
	elements, endToken := c.scan(startToken)
	if len(elements) < c.blockSize {
		c.complete = true
	}
	if len(elements) == 0 {
		return nil
	}
	index := len(c.blocks)
	c.blocks = append(c.blocks, CacheBlock{
		StartIndex:      start,
		EndIndex:        start + len(elements),
		StartTokenIndex: startToken,
		EndTokenIndex:   endToken,
	})
	content := &BlockContent{Elements: elements}
	c.store.Put(index, content)
	cacheLog.Debugf("created block %d: elements [%d,%d) tokens [%d,%d)",
		index, start, start+len(elements), startToken, endToken)
	return content
}

func (c *BlockCache) scan(startToken int) ([]Element, int) {
	scanner := ScannerForTokenIndex(c.seq, startToken)
	elements := make([]Element, 0, min(c.blockSize, 64))
	for len(elements) < c.blockSize && scanner.HasNext() {
		elements = append(elements, scanner.Next())
	}
	return elements, scanner.TokenIndex()
}

// block returns the content of block i, scanning new blocks or recomputing
// a dropped one as needed
func (c *BlockCache) block(i int) (*BlockContent, bool) {
	c.mu.Lock()
	var created *BlockContent
	for len(c.blocks) <= i && !c.complete {
		created = c.appendBlock()
	}
	if created != nil && len(c.blocks) == i+1 {
		c.mu.Unlock()
		return created, true
	}
	if i >= len(c.blocks) {
		c.mu.Unlock()
		return nil, false
	}
	entry := c.blocks[i]
	c.mu.Unlock()

	if content, ok := c.store.Get(i); ok {
		return content, true
	}
	v, _, _ := c.group.Do(strconv.Itoa(i), func() (any, error) {
		if content, ok := c.store.Get(i); ok {
			return content, nil
		}
		elements, endToken := c.scan(entry.StartTokenIndex)
		if len(elements) != entry.EndIndex-entry.StartIndex || endToken != entry.EndTokenIndex {
			panic(fmt.Sprintf("Programming error - block %d recomputed as %d elements ending at token %d, want %d ending at %d",
				i, len(elements), endToken, entry.EndIndex-entry.StartIndex, entry.EndTokenIndex))
		}
		content := &BlockContent{Elements: elements}
		c.store.Put(i, content)
		c.recomputes.Add(1)
		cacheLog.Debugf("recomputed block %d from token %d", i, entry.StartTokenIndex)
		return content, nil
	})
	return v.(*BlockContent), true
}

// ElementSequence iterates the elements of a BlockCache. It holds the block
// it is reading, so that block stays materialized until the sequence moves on.
type ElementSequence struct {
	cache   *BlockCache
	block   int
	content *BlockContent
	pos     int
}

// HasNext reports whether another element is available
func (s *ElementSequence) HasNext() bool {
	for {
		if s.content != nil {
			if s.pos < len(s.content.Elements) {
				return true
			}
			s.block++
			s.pos = 0
			s.content = nil
		}
		content, ok := s.cache.block(s.block)
		if !ok {
			return false
		}
		s.content = content
	}
}

// Next returns the next element. It panics when HasNext is false.
func (s *ElementSequence) Next() Element {
	if !s.HasNext() {
		panic("Programming error - Next called on an exhausted element sequence")
	}
	e := s.content.Elements[s.pos]
	s.pos++
	return e
}
