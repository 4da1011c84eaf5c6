package cache

// MemoryBacking is the memory of last resort behind the deepest cache
// level. Implementations provide no caching and no coherence guarantee
// beyond last-write-wins for a given address.
type MemoryBacking interface {
	IsPageExist(addr uint32) bool
	AddPage(addr uint32)
	GetByteNoCache(addr uint32) byte
	SetByteNoCache(addr uint32, value byte)
}

// Statistics holds one level's counters. Reads and writes count demand
// accesses only; hits are incremented by every access, including
// prefetches, and a prefetch hit charges HitLatency to cycles; misses
// and the cycles a miss costs are counted for demand accesses only
// (spec.md §4.4, §4.6).
type Statistics struct {
	NumRead     uint64
	NumWrite    uint64
	NumHit      uint64
	NumMiss     uint64
	TotalCycles uint64

	// Evictions and Writebacks aren't part of the printed report but
	// are useful for tests exercising §8's property tests.
	Evictions  uint64
	Writebacks uint64
}

// Level is one level of the hierarchy. It owns its block storage
// exclusively and holds a non-owning reference to the next lower level
// (nil for the deepest level, which talks to memory directly instead).
type Level struct {
	Name string

	policy           Policy
	storage          *blockStorage
	referenceCounter uint32
	stats            Statistics

	lower  *Level
	memory MemoryBacking
}

// NewLevel constructs a level with empty (all-invalid) block storage.
// lower is nil for the deepest level in the chain.
func NewLevel(name string, policy Policy, lower *Level, memory MemoryBacking) *Level {
	return &Level{
		Name:    name,
		policy:  policy,
		storage: newBlockStorage(policy),
		lower:   lower,
		memory:  memory,
	}
}

// Policy returns this level's configuration.
func (l *Level) Policy() Policy {
	return l.policy
}

// Lower returns the next level down, or nil at the deepest level.
func (l *Level) Lower() *Level {
	return l.lower
}

// Stats returns a snapshot of this level's counters.
func (l *Level) Stats() Statistics {
	return l.stats
}

// InCache reports whether addr currently resides in this level. It is a
// pure query: it does not touch the reference counter or statistics.
func (l *Level) InCache(addr uint32) bool {
	_, hit := l.storage.findBlock(addr)
	return hit
}

// GetByte reads one byte at addr, per spec.md §4.4. cyclesOut, if
// non-nil, accumulates the hit and memory-fill latency this call and
// its recursive fills incur; a demand miss's own MissLatency is
// charged to TotalCycles only, not to cyclesOut, exactly as specified.
// isPrefetch marks a speculative access issued by the prefetch
// controller rather than a demand read: per spec.md §4.6, a prefetch
// never bumps NumRead or NumMiss, and a prefetch miss adds nothing to
// TotalCycles, including the memory-read and writeback-triggered costs
// incurred as it propagates down through fill. A prefetch hit still
// counts in NumHit and charges HitLatency to TotalCycles.
func (l *Level) GetByte(addr uint32, cyclesOut *uint64, isPrefetch bool) byte {
	l.referenceCounter++
	if !isPrefetch {
		l.stats.NumRead++
	}

	idx, hit := l.storage.findBlock(addr)
	if hit {
		l.stats.NumHit++
		l.stats.TotalCycles += l.policy.HitLatency
		if cyclesOut != nil {
			*cyclesOut += l.policy.HitLatency
		}

		block := &l.storage.blocks[idx]
		block.LastReference = l.referenceCounter

		return block.Data[l.policy.Offset(addr)]
	}

	if !isPrefetch {
		l.stats.NumMiss++
		l.stats.TotalCycles += l.policy.MissLatency
	}

	l.fill(addr, cyclesOut, isPrefetch)

	idx, hit = l.storage.findBlock(addr)
	if !hit {
		panic("cache: fatal: address not resident immediately after fill")
	}

	block := &l.storage.blocks[idx]
	block.LastReference = l.referenceCounter

	return block.Data[l.policy.Offset(addr)]
}

// SetByte writes one byte at addr. Writes are always demand accesses;
// there is no prefetch write.
func (l *Level) SetByte(addr uint32, value byte, cyclesOut *uint64) {
	l.referenceCounter++
	l.stats.NumWrite++

	offset := l.policy.Offset(addr)

	idx, hit := l.storage.findBlock(addr)
	if hit {
		l.stats.NumHit++
		l.stats.TotalCycles += l.policy.HitLatency
		if cyclesOut != nil {
			*cyclesOut += l.policy.HitLatency
		}

		l.applyWriteHit(&l.storage.blocks[idx], value, offset)
		return
	}

	l.stats.NumMiss++
	l.stats.TotalCycles += l.policy.MissLatency

	if l.policy.WriteAllocate {
		l.fill(addr, cyclesOut, false)

		idx, hit = l.storage.findBlock(addr)
		if !hit {
			panic("cache: fatal: address not resident immediately after write-allocate fill")
		}

		l.applyWriteHit(&l.storage.blocks[idx], value, offset)
		return
	}

	// Write-around: forward a single byte without allocating a slot here.
	if l.lower != nil {
		l.lower.SetByte(addr, value, cyclesOut)
	} else {
		l.memory.SetByteNoCache(addr, value)
	}
}

// applyWriteHit performs the mutation shared by a write hit and the
// hit-path step of a write-allocate miss: mark dirty, bump recency,
// store the byte, and write through immediately if write-back is off.
func (l *Level) applyWriteHit(block *Block, value byte, offset uint32) {
	block.Modified = true
	block.LastReference = l.referenceCounter
	block.Data[offset] = value

	if !l.policy.WriteBack {
		l.writeback(block)
		l.stats.TotalCycles += l.policy.MissLatency
		block.Modified = false
	}
}

// fill loads the block containing addr into this level, evicting a
// victim chosen per §4.3 and writing it back first if it is dirty and
// write-back is enabled. It faithfully reproduces the reference
// design's single-byte transfer bug (see SPEC_FULL.md §4, §9): only
// the first byte of the block range is actually populated.
func (l *Level) fill(addr uint32, cyclesOut *uint64, isPrefetch bool) {
	tag := l.policy.Tag(addr)
	setIdx := int(l.policy.SetIndex(addr))
	blockAddrBegin := addr - l.policy.Offset(addr)

	data := make([]byte, l.policy.BlockSize)
	if l.lower != nil {
		data[0] = l.lower.GetByte(blockAddrBegin, cyclesOut, isPrefetch)
	} else {
		data[0] = l.memory.GetByteNoCache(blockAddrBegin)
		if !isPrefetch {
			l.stats.TotalCycles += 100
		}
		if cyclesOut != nil {
			*cyclesOut += 100
		}
	}

	victimIdx := l.storage.chooseVictim(setIdx)
	victim := &l.storage.blocks[victimIdx]

	if victim.Valid {
		l.stats.Evictions++
	}
	if victim.Valid && victim.Modified && l.policy.WriteBack {
		l.writeback(victim)
		if !isPrefetch {
			l.stats.TotalCycles += l.policy.MissLatency
		}
	}

	victim.Valid = true
	victim.Modified = false
	victim.Tag = tag
	victim.Data = data
	// victim.ID is left untouched: it is immutable per I1.
}

// writeback propagates a block's full contents to the next lower level,
// or to memory if this is the deepest level. It is always a demand
// write; prefetch semantics don't apply to writeback.
func (l *Level) writeback(block *Block) {
	base := l.policy.AddrOf(*block)
	l.stats.Writebacks++

	if l.lower != nil {
		for i := 0; i < l.policy.BlockSize; i++ {
			l.lower.SetByte(base+uint32(i), block.Data[i], nil)
		}
		return
	}

	for i := 0; i < l.policy.BlockSize; i++ {
		l.memory.SetByteNoCache(base+uint32(i), block.Data[i])
	}
}
