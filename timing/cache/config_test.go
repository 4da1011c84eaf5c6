package cache_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/timing/cache"
)

var _ = Describe("HierarchyConfig", func() {
	It("builds the same defaults as BuildDefaultHierarchy", func() {
		config := cache.DefaultHierarchyConfig()
		mem := newFakeMemory()

		l1, err := config.Build(mem)
		Expect(err).NotTo(HaveOccurred())
		Expect(l1.Policy().CacheSize).To(Equal(cache.DefaultL1Policy().CacheSize))
		Expect(l1.Lower().Policy().CacheSize).To(Equal(cache.DefaultL2Policy().CacheSize))
		Expect(l1.Lower().Lower().Policy().CacheSize).To(Equal(cache.DefaultL3Policy().CacheSize))
	})

	It("round-trips through a JSON file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "hierarchy.json")

		original := cache.DefaultHierarchyConfig()
		original.L1.CacheSize = 32 * 1024
		original.L1.BlockSize = 32

		Expect(original.SaveConfig(path)).To(Succeed())

		loaded, err := cache.LoadHierarchyConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.L1.CacheSize).To(Equal(32 * 1024))
		Expect(loaded.L1.BlockSize).To(Equal(32))
		Expect(loaded.L2.CacheSize).To(Equal(cache.DefaultL2Policy().CacheSize))
	})

	It("fills in defaults for levels absent from the file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "partial.json")

		Expect(os.WriteFile(path, []byte(`{"l1":{"cache_size":4096,"block_size":64,"associativity":1,"hit_latency":1,"miss_latency":1,"write_back":true,"write_allocate":true}}`), 0644)).To(Succeed())

		loaded, err := cache.LoadHierarchyConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.L1.CacheSize).To(Equal(4096))
		Expect(loaded.L2.CacheSize).To(Equal(cache.DefaultL2Policy().CacheSize))
	})

	It("rejects a file with an invalid level policy", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "bad.json")

		Expect(os.WriteFile(path, []byte(`{"l1":{"cache_size":100,"block_size":64,"associativity":1,"hit_latency":1,"miss_latency":1,"write_back":true,"write_allocate":true}}`), 0644)).To(Succeed())

		loaded, err := cache.LoadHierarchyConfig(path)
		Expect(err).NotTo(HaveOccurred())

		_, buildErr := loaded.Build(newFakeMemory())
		Expect(buildErr).To(HaveOccurred())
	})

	It("errors when the file does not exist", func() {
		_, err := cache.LoadHierarchyConfig(filepath.Join(GinkgoT().TempDir(), "missing.json"))
		Expect(err).To(HaveOccurred())
	})
})
