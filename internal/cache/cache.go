// Package cache memoizes decode outcomes by the content hash of the raw
// EPS bytes.
//
// A Store is safe for concurrent use. Two workers that miss on the same key
// both compute the outcome and the later Put wins; both values are equal, so
// no per-key locking is done.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Key is the xxhash64 digest of an entry's raw bytes.
type Key uint64

// Entry is a memoized decode outcome. OK entries carry the payload; the
// others carry the status and the error that caused it.
type Entry struct {
	Payload string
	OK      bool
	Status  string
	Err     error
}

type Store struct {
	mu      sync.RWMutex
	entries map[Key]Entry

	hits   atomic.Int64
	misses atomic.Int64
}

func New() *Store {
	return &Store{entries: make(map[Key]Entry)}
}

// Key hashes content.
func (s *Store) Key(content []byte) Key {
	return Key(xxhash.Sum64(content))
}

func (s *Store) Get(k Key) (Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[k]
	s.mu.RUnlock()

	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return e, ok
}

func (s *Store) Put(k Key, e Entry) {
	s.mu.Lock()
	s.entries[k] = e
	s.mu.Unlock()
}

// Clear drops every entry and returns how many were removed. Hit and miss
// counters survive a clear.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make(map[Key]Entry)
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns lookup counters since the store was created.
func (s *Store) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}
