package cache

import (
	"encoding/json"
	"fmt"
	"os"
)

// PolicyConfig is the JSON-serializable form of a Policy, used to
// override the built-in hierarchy defaults from a configuration file.
type PolicyConfig struct {
	CacheSize     int    `json:"cache_size"`
	BlockSize     int    `json:"block_size"`
	Associativity int    `json:"associativity"`
	HitLatency    uint64 `json:"hit_latency"`
	MissLatency   uint64 `json:"miss_latency"`
	WriteBack     bool   `json:"write_back"`
	WriteAllocate bool   `json:"write_allocate"`
}

func policyConfigOf(p Policy) PolicyConfig {
	return PolicyConfig{
		CacheSize:     p.CacheSize,
		BlockSize:     p.BlockSize,
		Associativity: p.Associativity,
		HitLatency:    p.HitLatency,
		MissLatency:   p.MissLatency,
		WriteBack:     p.WriteBack,
		WriteAllocate: p.WriteAllocate,
	}
}

func (pc PolicyConfig) toPolicy() (Policy, error) {
	return NewPolicy(
		pc.CacheSize, pc.BlockSize, pc.Associativity,
		pc.HitLatency, pc.MissLatency,
		pc.WriteBack, pc.WriteAllocate,
	)
}

// HierarchyConfig holds the per-level policy configuration for an
// L1/L2/L3 hierarchy.
type HierarchyConfig struct {
	L1 PolicyConfig `json:"l1"`
	L2 PolicyConfig `json:"l2"`
	L3 PolicyConfig `json:"l3"`
}

// DefaultHierarchyConfig returns the JSON form of spec.md §4.5's
// built-in defaults.
func DefaultHierarchyConfig() *HierarchyConfig {
	return &HierarchyConfig{
		L1: policyConfigOf(DefaultL1Policy()),
		L2: policyConfigOf(DefaultL2Policy()),
		L3: policyConfigOf(DefaultL3Policy()),
	}
}

// LoadHierarchyConfig loads a HierarchyConfig from a JSON file, using
// the built-in defaults for any level not present in the file.
func LoadHierarchyConfig(path string) (*HierarchyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to read hierarchy config file: %w", err)
	}

	config := DefaultHierarchyConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("cache: failed to parse hierarchy config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a HierarchyConfig to a JSON file.
func (c *HierarchyConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: failed to serialize hierarchy config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cache: failed to write hierarchy config file: %w", err)
	}

	return nil
}

// Build validates every level's policy and wires L1 -> L2 -> L3 ->
// memory, returning the top level.
func (c *HierarchyConfig) Build(memory MemoryBacking) (*Level, error) {
	l1p, err := c.L1.toPolicy()
	if err != nil {
		return nil, fmt.Errorf("cache: l1: %w", err)
	}
	l2p, err := c.L2.toPolicy()
	if err != nil {
		return nil, fmt.Errorf("cache: l2: %w", err)
	}
	l3p, err := c.L3.toPolicy()
	if err != nil {
		return nil, fmt.Errorf("cache: l3: %w", err)
	}

	l3 := NewLevel("L3", l3p, nil, memory)
	l2 := NewLevel("L2", l2p, l3, memory)
	l1 := NewLevel("L1", l1p, l2, memory)

	return l1, nil
}
