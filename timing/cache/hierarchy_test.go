package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/timing/cache"
)

var _ = Describe("BuildDefaultHierarchy", func() {
	It("wires L1 -> L2 -> L3 with the spec.md §4.5 defaults", func() {
		mem := newFakeMemory()
		l1 := cache.BuildDefaultHierarchy(mem)

		Expect(l1.Name).To(Equal("L1"))
		Expect(l1.Policy().CacheSize).To(Equal(16 * 1024))

		l2 := l1.Lower()
		Expect(l2).NotTo(BeNil())
		Expect(l2.Name).To(Equal("L2"))
		Expect(l2.Policy().CacheSize).To(Equal(128 * 1024))

		l3 := l2.Lower()
		Expect(l3).NotTo(BeNil())
		Expect(l3.Name).To(Equal("L3"))
		Expect(l3.Policy().CacheSize).To(Equal(2 * 1024 * 1024))

		Expect(l3.Lower()).To(BeNil())
	})

	It("propagates a miss through every level", func() {
		mem := newFakeMemory()
		l1 := cache.BuildDefaultHierarchy(mem)

		l1.GetByte(0, nil, false)

		Expect(l1.Stats().NumMiss).To(Equal(uint64(1)))
		Expect(l1.Lower().Stats().NumRead).To(Equal(uint64(1)))
		Expect(l1.Lower().Lower().Stats().NumRead).To(Equal(uint64(1)))
	})
})

var _ = Describe("Policy rejection", func() {
	DescribeTable("invalid configurations fail construction",
		func(cacheSize, blockSize, assoc int) {
			_, err := cache.NewPolicy(cacheSize, blockSize, assoc, 1, 1, true, true)
			Expect(err).To(HaveOccurred())
		},
		Entry("cacheSize not a power of two", 100, 64, 1),
		Entry("blockSize not a power of two", 128, 48, 1),
		Entry("blockSize does not divide cacheSize", 64, 128, 1),
		Entry("associativity does not divide blockNum", 128, 64, 3),
	)
})
