// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package read

import (
	"sync"
	"sync/atomic"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"golang.org/x/crypto/sha3"
)

// Capacities of the shared slot hash caches. Array and string data slots
// hash a single word, mapping entries with value-typed keys hash two.
const (
	wordHashCapacity     = 1 << 12
	wordPairHashCapacity = 1 << 14
)

var slotHashes = newSlotHashCache(wordHashCapacity, wordPairHashCapacity)

// SlotHashStats reports the hits and misses of the slot hash cache.
func SlotHashStats() (hits, misses uint64) {
	return slotHashes.hits.Load(), slotHashes.misses.Load()
}

var keccakPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

func keccak256(data ...[]byte) evm.Word {
	hasher := keccakPool.Get().(keccakHasher)
	hasher.Reset()
	for _, part := range data {
		hasher.Write(part)
	}
	var res evm.Word
	hasher.Read(res[:])
	keccakPool.Put(hasher)
	return res
}

// slotHashCache memoizes the keccak hashes computed while resolving storage
// slots. Inputs of one or two words are cached, longer mapping keys such as
// strings are hashed on every use.
type slotHashCache struct {
	words        *lruHashCache[evm.Word]
	pairs        *lruHashCache[[2 * evm.WordSize]byte]
	hits, misses atomic.Uint64
}

func newSlotHashCache(wordCapacity, pairCapacity int) *slotHashCache {
	res := &slotHashCache{}
	res.words = newLruHashCache(wordCapacity, func(w evm.Word) evm.Word {
		return keccak256(w[:])
	}, res.count)
	res.pairs = newLruHashCache(pairCapacity, func(p [2 * evm.WordSize]byte) evm.Word {
		return keccak256(p[:])
	}, res.count)
	return res
}

func (c *slotHashCache) count(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

// hash returns the keccak hash of key followed by slot.
func (c *slotHashCache) hash(key []byte, slot evm.Word) evm.Word {
	switch len(key) {
	case 0:
		return c.words.get(slot)
	case evm.WordSize:
		var pair [2 * evm.WordSize]byte
		copy(pair[:], key)
		copy(pair[evm.WordSize:], slot[:])
		return c.pairs.get(pair)
	}
	c.count(false)
	return keccak256(key, slot[:])
}

// lruHashCache is a fixed-capacity cache of hashes with least recently used
// eviction. It is safe for concurrent use.
type lruHashCache[K comparable] struct {
	hash       func(K) evm.Word
	observe    func(hit bool)
	entries    []lruHashEntry[K]
	index      map[K]*lruHashEntry[K]
	head, tail *lruHashEntry[K]
	used       int
	lock       sync.Mutex
}

type lruHashEntry[K any] struct {
	key        K
	hash       evm.Word
	pred, succ *lruHashEntry[K]
}

// newLruHashCache creates a cache holding at least two entries. It starts
// out with the hash of the zero key, so head and tail are never nil.
func newLruHashCache[K comparable](capacity int, hash func(K) evm.Word, observe func(bool)) *lruHashCache[K] {
	capacity = max(capacity, 2)
	res := &lruHashCache[K]{
		hash:    hash,
		observe: observe,
		entries: make([]lruHashEntry[K], capacity),
		index:   make(map[K]*lruHashEntry[K], capacity),
	}
	var zero K
	res.head = res.free()
	res.tail = res.head
	res.head.hash = hash(zero)
	res.index[zero] = res.head
	return res
}

func (c *lruHashCache[K]) get(key K) evm.Word {
	c.lock.Lock()
	if entry, found := c.index[key]; found {
		c.moveToFront(entry)
		c.lock.Unlock()
		c.observe(true)
		return entry.hash
	}
	c.lock.Unlock()
	c.observe(false)

	hash := c.hash(key)

	c.lock.Lock()
	defer c.lock.Unlock()
	if _, found := c.index[key]; found {
		// added concurrently
		return hash
	}
	entry := c.free()
	entry.key = key
	entry.hash = hash
	entry.pred = nil
	entry.succ = c.head
	c.head.pred = entry
	c.head = entry
	c.index[key] = entry
	return hash
}

func (c *lruHashCache[K]) moveToFront(entry *lruHashEntry[K]) {
	if entry == c.head {
		return
	}
	entry.pred.succ = entry.succ
	if entry.succ != nil {
		entry.succ.pred = entry.pred
	} else {
		c.tail = entry.pred
	}
	entry.pred = nil
	entry.succ = c.head
	c.head.pred = entry
	c.head = entry
}

// free returns an unused entry, evicting the tail once all are taken.
func (c *lruHashCache[K]) free() *lruHashEntry[K] {
	if c.used < len(c.entries) {
		res := &c.entries[c.used]
		c.used++
		return res
	}
	res := c.tail
	c.tail = res.pred
	c.tail.succ = nil
	delete(c.index, res.key)
	return res
}
