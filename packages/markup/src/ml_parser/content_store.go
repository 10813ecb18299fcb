package ml_parser

import (
	"fmt"
	"sync"
	"weak"

	lru "github.com/hashicorp/golang-lru/v2"
)

// BlockContent is the materialized element list of one cache block
type BlockContent struct {
	Elements []Element
}

// ContentStore holds reclaimable block contents. A store may drop any entry
// at any time; the cache recomputes what it no longer finds. A store belongs
// to a single BlockCache.
type ContentStore interface {
	Get(block int) (*BlockContent, bool)
	Put(block int, content *BlockContent)
	Evict(block int)
	Purge()
}

// LRUStore keeps the contents of the most recently used blocks
type LRUStore struct {
	cache *lru.Cache[int, *BlockContent]
}

// NewLRUStore creates a store holding at most capacity blocks
func NewLRUStore(capacity int) *LRUStore {
	cache, err := lru.New[int, *BlockContent](capacity)
	if err != nil {
		panic(fmt.Sprintf("Programming error - invalid LRU capacity %d: %v", capacity, err))
	}
	return &LRUStore{cache: cache}
}

func (s *LRUStore) Get(block int) (*BlockContent, bool) {
	return s.cache.Get(block)
}

func (s *LRUStore) Put(block int, content *BlockContent) {
	s.cache.Add(block, content)
}

func (s *LRUStore) Evict(block int) {
	s.cache.Remove(block)
}

func (s *LRUStore) Purge() {
	s.cache.Purge()
}

// Len returns the number of blocks held
func (s *LRUStore) Len() int {
	return s.cache.Len()
}

// WeakStore holds block contents through weak pointers, so the garbage
// collector reclaims every block no sequence is currently reading
type WeakStore struct {
	mu       sync.Mutex
	contents map[int]weak.Pointer[BlockContent]
}

// NewWeakStore creates a new WeakStore
func NewWeakStore() *WeakStore {
	return &WeakStore{contents: make(map[int]weak.Pointer[BlockContent])}
}

func (s *WeakStore) Get(block int) (*BlockContent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.contents[block]
	if !ok {
		return nil, false
	}
	content := p.Value()
	if content == nil {
		delete(s.contents, block)
		return nil, false
	}
	return content, true
}

func (s *WeakStore) Put(block int, content *BlockContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[block] = weak.Make(content)
}

func (s *WeakStore) Evict(block int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contents, block)
}

func (s *WeakStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.contents)
}
