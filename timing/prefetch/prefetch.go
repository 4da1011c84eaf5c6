// Package prefetch implements the adaptive next-line/stride prefetch
// controller described in spec.md §4.6.
package prefetch

// TopLevel is the subset of the top-level cache the controller drives.
type TopLevel interface {
	InCache(addr uint32) bool
	GetByte(addr uint32, cyclesOut *uint64, isPrefetch bool) byte
}

// Memory is the subset of the memory collaborator the controller
// consults before issuing a prefetch.
type Memory interface {
	IsPageExist(addr uint32) bool
	AddPage(addr uint32)
}

// Controller tracks the stride between successive demand addresses and
// issues speculative reads into the top-level cache. It observes only
// addresses, never distinguishing reads from writes, and holds no
// resource beyond its five scalar fields.
type Controller struct {
	lastAddr    uint32
	stride      int64
	sameCount   int
	prefetching bool
	missCount   int
}

// NewController returns a controller in training mode with a zeroed
// history, per spec.md §4.6.
func NewController() *Controller {
	return &Controller{}
}

// OnAccess observes one demand access at addr and, per the state
// machine in spec.md §4.6, may issue speculative reads into top.
func (c *Controller) OnAccess(addr uint32, top TopLevel, mem Memory) {
	stride := int64(addr) - int64(c.lastAddr)

	if !c.prefetching {
		if stride == c.stride {
			c.sameCount++
		} else {
			c.stride = stride
			c.sameCount = 1
		}

		if c.sameCount >= 3 {
			c.prefetching = true
			c.missCount = 0
			for i := int64(1); i <= 3; i++ {
				c.issue(addr, i, top, mem)
			}
		}
	} else {
		if stride == c.stride {
			c.missCount = 0
			for i := int64(1); i <= 2; i++ {
				c.issue(addr, i, top, mem)
			}
		} else {
			c.missCount++
			if c.missCount > 3 {
				c.prefetching = false
				c.stride = stride
				c.sameCount = 1
			}
		}
	}

	c.lastAddr = addr
}

// issue prefetches A + i*stride, skipping addresses already resident
// in the top level. The memory existence check duplicates what the
// cache's own fill path will do on a miss; spec.md §9 calls this out
// as redundant but harmless, and instructs preserving it.
func (c *Controller) issue(addr uint32, i int64, top TopLevel, mem Memory) {
	target := uint32(int64(addr) + i*c.stride)

	if top.InCache(target) {
		return
	}
	if !mem.IsPageExist(target) {
		mem.AddPage(target)
	}

	top.GetByte(target, nil, true)
}
