package program_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/tapevm/program"
)

var _ = Describe("Encoding", func() {
	var p *program.Program

	BeforeEach(func() {
		p = program.MustTranslate("+[>,.<-]\n[]")
	})

	Context("YAML", func() {
		It("should keep loop targets through a file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "prog.yaml")

			Expect(program.SaveProgramFileToYAML(path, p)).To(Succeed())
			loaded, err := program.LoadProgramFileFromYAML(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Insts).To(Equal(p.Insts))
		})

		It("should write the canonical source", func() {
			data, err := yaml.Marshal(p)

			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("source: +[>,.<-][]"))
		})

		It("should reject broken pairings", func() {
			data := []byte(`
isa: tapevm
instructions:
  - op: "["
    target: 3
  - op: "]"
    target: 0
`)
			_, err := program.ParseYAML(data)

			Expect(errors.Is(err, program.ErrInvalidProgram)).To(BeTrue())
		})

		It("should reject unknown ops", func() {
			_, err := program.ParseYAML([]byte("instructions:\n  - op: x\n"))

			Expect(errors.Is(err, program.ErrInvalidProgram)).To(BeTrue())
		})

		It("should report missing files", func() {
			_, err := program.LoadProgramFileFromYAML(filepath.Join(GinkgoT().TempDir(), "none.yaml"))

			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})

	Context("CBOR", func() {
		It("should keep loop targets", func() {
			data, err := cbor.Marshal(p)
			Expect(err).NotTo(HaveOccurred())

			decoded, err := program.UnmarshalProgram(data)

			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Insts).To(Equal(p.Insts))
		})

		It("should encode deterministically", func() {
			a, err := p.MarshalCBOR()
			Expect(err).NotTo(HaveOccurred())
			b, err := program.MustTranslate("+[>,.<-]\n[]").MarshalCBOR()
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(Equal(b))
		})

		It("should reject garbage", func() {
			_, err := program.UnmarshalProgram([]byte("not cbor"))

			Expect(err).To(HaveOccurred())
		})

		It("should reject broken pairings", func() {
			broken := &program.Program{Insts: []program.Instruction{
				{Opcode: program.LoopStart, Target: 0},
				{Opcode: program.LoopEnd, Target: 0},
			}}
			data, err := broken.MarshalCBOR()
			Expect(err).NotTo(HaveOccurred())

			_, err = program.UnmarshalProgram(data)

			Expect(errors.Is(err, program.ErrInvalidProgram)).To(BeTrue())
		})
	})
})

var _ = Describe("Cache", func() {
	It("should translate each source once", func() {
		c := program.NewCache()

		a, err := c.Get("+[-]")
		Expect(err).NotTo(HaveOccurred())
		b, err := c.Get("+[-]")
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(BeIdenticalTo(b))
		Expect(c.Len()).To(Equal(1))

		hits, misses := c.Stats()
		Expect(hits).To(Equal(uint64(1)))
		Expect(misses).To(Equal(uint64(1)))
	})

	It("should not cache translation errors", func() {
		c := program.NewCache()

		_, err := c.Get("]")

		Expect(errors.Is(err, program.ErrUnmatchedCloseBracket)).To(BeTrue())
		Expect(c.Len()).To(Equal(0))
	})

	It("should be safe for concurrent use", func() {
		c := program.NewCache()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				_, err := c.Get("++[>+<-]")
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		Expect(c.Len()).To(Equal(1))
	})
})
