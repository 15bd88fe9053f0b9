package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/pdfexplorer/internal/config"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	writeConfig := func(content string) string {
		path := filepath.Join(dir, config.DefaultConfigFileName)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	It("should apply defaults to an empty file", func() {
		cfg, err := config.Load(writeConfig(""))
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Worker.InboxSize).To(Equal(config.DefaultInboxSize))
		Expect(cfg.Explore.MaxObjects).To(Equal(config.DefaultMaxObjects))
		Expect(cfg.RoundTrip.OutputFile).To(Equal(config.DefaultRoundTripFile))
		Expect(cfg.ShouldValidate()).To(BeTrue())
		Expect(cfg.Explore.ExtractText).To(BeFalse())
	})

	It("should read every section", func() {
		cfg, err := config.Load(writeConfig(`
worker:
  inbox_size: 4
explore:
  validate: false
  extract_text: true
  max_objects: 50
roundtrip:
  output_file: out.pdf
metrics:
  addr: ":9090"
`))
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Worker.InboxSize).To(Equal(4))
		Expect(cfg.ShouldValidate()).To(BeFalse())
		Expect(cfg.Explore.ExtractText).To(BeTrue())
		Expect(cfg.Explore.MaxObjects).To(Equal(50))
		Expect(cfg.RoundTrip.OutputFile).To(Equal("out.pdf"))
		Expect(cfg.Metrics.Addr).To(Equal(":9090"))
	})

	It("should reject malformed YAML", func() {
		_, err := config.Load(writeConfig("worker: [unterminated"))
		Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
	})

	It("should fail to load a missing file", func() {
		_, err := config.Load(filepath.Join(dir, "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})

	It("should fall back to defaults for a missing file", func() {
		cfg, err := config.LoadOrDefault(filepath.Join(dir, "missing.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})
})
