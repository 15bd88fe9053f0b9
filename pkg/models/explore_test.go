package models_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

var _ = Describe("Explore Models", func() {
	Context("FileRef", func() {
		DescribeTable("DisplayName",
			func(ref models.FileRef, expected string) {
				Expect(ref.DisplayName()).To(Equal(expected))
			},
			Entry("explicit name wins", models.FileRef{Name: "a.pdf", Path: "/x/b.pdf"}, "a.pdf"),
			Entry("base of path", models.FileRef{Path: "/x/b.pdf"}, "b.pdf"),
			Entry("in-memory data", models.FileRef{Data: []byte("%PDF")}, "<memory>"),
		)

		It("should treat a reference without data or path as empty", func() {
			Expect(models.FileRef{}.IsEmpty()).To(BeTrue())
			Expect(models.FileRef{Name: "only-a-name"}.IsEmpty()).To(BeTrue())
			Expect(models.FileRef{Path: "/tmp/x.pdf"}.IsEmpty()).To(BeFalse())
		})

		It("should not serialize raw data", func() {
			out, err := json.Marshal(models.FileRef{Name: "a.pdf", Data: []byte("secret")})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(`{"name":"a.pdf"}`))
		})
	})

	Context("ExploreResult", func() {
		It("should omit optional sections when unset", func() {
			out, err := json.Marshal(models.ExploreResult{FileName: "a.pdf"})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).NotTo(ContainSubstring("validation_error"))
			Expect(string(out)).NotTo(ContainSubstring("pages"))
			Expect(string(out)).To(ContainSubstring(`"round_trip"`))
		})
	})
})
