// Package membacking provides the paged byte-addressable memory of
// last resort behind a cache hierarchy (spec.md §4.7).
package membacking

import "fmt"

const (
	pageSize  = 4096
	pageShift = 12
)

// Memory is a paged byte store. Pages are allocated lazily; no
// coherence guarantee is offered beyond last-write-wins for a given
// address.
type Memory struct {
	pages map[uint32][]byte
}

// NewMemory returns an empty memory with no pages allocated.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint32][]byte)}
}

func pageNumber(addr uint32) uint32 {
	return addr >> pageShift
}

func pageOffset(addr uint32) uint32 {
	return addr & (pageSize - 1)
}

// IsPageExist reports whether the page containing addr has been
// allocated.
func (m *Memory) IsPageExist(addr uint32) bool {
	_, ok := m.pages[pageNumber(addr)]
	return ok
}

// AddPage allocates a zero-filled page for addr. Calling it for an
// already-allocated page is a fatal structural error: every call site
// in this repository guards with IsPageExist first.
func (m *Memory) AddPage(addr uint32) {
	pn := pageNumber(addr)
	if _, ok := m.pages[pn]; ok {
		panic(fmt.Sprintf("membacking: page %d already exists", pn))
	}
	m.pages[pn] = make([]byte, pageSize)
}

// ensurePage returns addr's page, allocating it on first touch. The
// cache fill path reads and writes arbitrary addresses without
// pre-touching every page a fill might reach, so GetByteNoCache and
// SetByteNoCache auto-vivify rather than require AddPage first.
func (m *Memory) ensurePage(addr uint32) []byte {
	pn := pageNumber(addr)
	page, ok := m.pages[pn]
	if !ok {
		page = make([]byte, pageSize)
		m.pages[pn] = page
	}
	return page
}

// GetByteNoCache reads one uncached byte.
func (m *Memory) GetByteNoCache(addr uint32) byte {
	return m.ensurePage(addr)[pageOffset(addr)]
}

// SetByteNoCache writes one uncached byte.
func (m *Memory) SetByteNoCache(addr uint32, value byte) {
	m.ensurePage(addr)[pageOffset(addr)] = value
}
