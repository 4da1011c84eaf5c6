package cache

// DefaultL1Policy returns the reference L1 configuration from
// spec.md §4.5: 16 KiB, 64-byte blocks, direct-mapped, 1-cycle hit and
// miss, write-back and write-allocate.
func DefaultL1Policy() Policy {
	p, err := NewPolicy(16*1024, 64, 1, 1, 1, true, true)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultL2Policy returns the reference L2 configuration: 128 KiB,
// 64-byte blocks, 8-way, 8-cycle hit and miss, write-back and
// write-allocate.
func DefaultL2Policy() Policy {
	p, err := NewPolicy(128*1024, 64, 8, 8, 8, true, true)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultL3Policy returns the reference L3 configuration: 2 MiB,
// 64-byte blocks, 16-way, 20-cycle hit, 100-cycle miss, write-back and
// write-allocate.
func DefaultL3Policy() Policy {
	p, err := NewPolicy(2*1024*1024, 64, 16, 20, 100, true, true)
	if err != nil {
		panic(err)
	}
	return p
}

// BuildDefaultHierarchy wires L1 -> L2 -> L3 -> memory using the
// defaults above and returns the top level.
func BuildDefaultHierarchy(memory MemoryBacking) *Level {
	l3 := NewLevel("L3", DefaultL3Policy(), nil, memory)
	l2 := NewLevel("L2", DefaultL2Policy(), l3, memory)
	l1 := NewLevel("L1", DefaultL1Policy(), l2, memory)
	return l1
}
