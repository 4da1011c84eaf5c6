// Package cache implements a multi-level set-associative cache hierarchy
// with configurable write policies, driven byte-by-byte by a trace.
package cache

import (
	"fmt"
	"math/bits"
)

// Policy is an immutable descriptor of a single cache level's geometry and
// write behavior. Construct one with NewPolicy; the zero value is invalid.
type Policy struct {
	// CacheSize is the total number of bytes a level can hold.
	CacheSize int
	// BlockSize is the number of bytes per block (cache line).
	BlockSize int
	// BlockNum is CacheSize / BlockSize.
	BlockNum int
	// Associativity is the number of ways per set.
	Associativity int
	// HitLatency is the cycle cost of a hit.
	HitLatency uint64
	// MissLatency is the cycle cost of a miss, charged in addition to any
	// latency incurred while filling from the next level.
	MissLatency uint64
	// WriteBack marks a block dirty on a write hit and defers propagation
	// to eviction. When false, every write hit is also written through.
	WriteBack bool
	// WriteAllocate fills a block into this level on a write miss before
	// performing the write. When false, writes miss around this level.
	WriteAllocate bool

	offsetBits uint
	setBits    uint
	numSets    int
}

// NewPolicy validates and constructs a Policy. It rejects a cacheSize or
// blockSize that isn't a power of two, a blockSize that doesn't divide
// cacheSize, and an associativity that doesn't divide blockNum.
func NewPolicy(
	cacheSize, blockSize, associativity int,
	hitLatency, missLatency uint64,
	writeBack, writeAllocate bool,
) (Policy, error) {
	if !isPowerOfTwo(cacheSize) {
		return Policy{}, fmt.Errorf("cache: cacheSize %d is not a power of two", cacheSize)
	}
	if !isPowerOfTwo(blockSize) {
		return Policy{}, fmt.Errorf("cache: blockSize %d is not a power of two", blockSize)
	}
	if blockSize <= 0 || cacheSize%blockSize != 0 {
		return Policy{}, fmt.Errorf("cache: blockSize %d does not divide cacheSize %d", blockSize, cacheSize)
	}

	blockNum := cacheSize / blockSize
	if blockNum*blockSize != cacheSize {
		return Policy{}, fmt.Errorf("cache: blockNum*blockSize != cacheSize")
	}
	if associativity <= 0 || blockNum%associativity != 0 {
		return Policy{}, fmt.Errorf("cache: associativity %d does not divide blockNum %d", associativity, blockNum)
	}

	numSets := blockNum / associativity
	if !isPowerOfTwo(numSets) {
		return Policy{}, fmt.Errorf("cache: derived set count %d is not a power of two", numSets)
	}

	return Policy{
		CacheSize:     cacheSize,
		BlockSize:     blockSize,
		BlockNum:      blockNum,
		Associativity: associativity,
		HitLatency:    hitLatency,
		MissLatency:   missLatency,
		WriteBack:     writeBack,
		WriteAllocate: writeAllocate,
		offsetBits:    uint(bits.TrailingZeros(uint(blockSize))),
		setBits:       uint(bits.TrailingZeros(uint(numSets))),
		numSets:       numSets,
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NumSets returns BlockNum / Associativity.
func (p Policy) NumSets() int {
	return p.numSets
}

// Offset returns the block-offset bits of addr.
func (p Policy) Offset(addr uint32) uint32 {
	return addr & uint32((1<<p.offsetBits)-1)
}

// SetIndex returns the set-index bits of addr.
func (p Policy) SetIndex(addr uint32) uint32 {
	return (addr >> p.offsetBits) & uint32((1<<p.setBits)-1)
}

// Tag returns the tag bits of addr (everything above offset and set).
func (p Policy) Tag(addr uint32) uint32 {
	return addr >> (p.offsetBits + p.setBits)
}

// AddrOf reconstructs the block-aligned address a block represents from
// its tag and its owning set id.
func (p Policy) AddrOf(block Block) uint32 {
	return (block.Tag << (p.offsetBits + p.setBits)) | (uint32(block.ID) << p.offsetBits)
}
