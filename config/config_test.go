package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/config"
)

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("DefaultConfig", func() {
		It("should be valid", func() {
			Expect(config.DefaultConfig().Validate()).To(Succeed())
		})

		It("should default to a 1 MiB memory at address 0", func() {
			c := config.DefaultConfig()
			Expect(c.MemorySize).To(Equal(uint64(1 << 20)))
			Expect(c.LoadAddress).To(BeZero())
			Expect(c.MaxInstructions).To(BeZero())
		})

		It("should default to info logging", func() {
			level, err := config.DefaultConfig().Level()
			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(logrus.InfoLevel))
		})
	})

	Describe("LoadConfig and SaveConfig", func() {
		It("should round-trip through a file", func() {
			path := filepath.Join(tempDir, "config.json")
			c := config.DefaultConfig()
			c.MemorySize = 4096
			c.LoadAddress = 0x100
			c.MaxInstructions = 1000
			c.LogLevel = "debug"

			Expect(c.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(c))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"max_instructions": 42}`), 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MaxInstructions).To(Equal(uint64(42)))
			Expect(loaded.MemorySize).To(Equal(config.DefaultConfig().MemorySize))
		})

		It("should fail on a missing file", func() {
			_, err := config.LoadConfig(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("should fail on malformed JSON", func() {
			path := filepath.Join(tempDir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{`), 0644)).To(Succeed())

			_, err := config.LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
		})
	})

	Describe("Validate", func() {
		var c *config.Config

		BeforeEach(func() {
			c = config.DefaultConfig()
		})

		It("should reject an empty memory", func() {
			c.MemorySize = 0
			Expect(c.Validate()).To(MatchError(ContainSubstring("memory_size")))
		})

		It("should reject a memory larger than the address space", func() {
			c.MemorySize = config.MaxMemorySize + 1
			Expect(c.Validate()).To(MatchError(ContainSubstring("memory_size")))
		})

		It("should reject an unaligned load address", func() {
			c.LoadAddress = 2
			Expect(c.Validate()).To(MatchError(ContainSubstring("word aligned")))
		})

		It("should reject a load address outside memory", func() {
			c.MemorySize = 1024
			c.LoadAddress = 1024
			Expect(c.Validate()).To(MatchError(ContainSubstring("inside memory")))
		})

		It("should reject an unknown log level", func() {
			c.LogLevel = "chatty"
			Expect(c.Validate()).To(MatchError(ContainSubstring("log_level")))
		})
	})

	Describe("Clone", func() {
		It("should return an independent copy", func() {
			c := config.DefaultConfig()
			clone := c.Clone()
			clone.MemorySize = 8

			Expect(c.MemorySize).To(Equal(uint64(1 << 20)))
			Expect(clone).NotTo(BeIdenticalTo(c))
		})
	})
})
