package core_test

import (
	"bytes"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/tape"
)

var _ = Describe("Channels", func() {
	It("should read bytes until EOF", func() {
		in := core.NewByteInput(strings.NewReader("hi"))

		Expect(in.ReadCell()).To(Equal(uint64('h')))
		Expect(in.ReadCell()).To(Equal(uint64('i')))
		_, err := in.ReadCell()
		Expect(err).To(Equal(io.EOF))
	})

	It("should reject malformed numbers", func() {
		in := core.NewNumberInput(strings.NewReader("7 x"))

		Expect(in.ReadCell()).To(Equal(uint64(7)))
		_, err := in.ReadCell()
		Expect(err).To(MatchError(ContainSubstring(`bad number "x"`)))
	})

	It("should report EOF after the last number", func() {
		in := core.NewNumberInput(strings.NewReader(" 18446744073709551615 \n"))

		Expect(in.ReadCell()).To(Equal(^uint64(0)))
		_, err := in.ReadCell()
		Expect(err).To(Equal(io.EOF))
	})

	It("should replace values outside the code point range", func() {
		buf := &bytes.Buffer{}
		out := core.NewCharOutput(buf, tape.Width32)

		Expect(out.WriteCell(0x110000)).To(Succeed())
		Expect(out.Flush()).To(Succeed())

		Expect(buf.String()).To(Equal("�"))
	})

	It("should hold output until flushed", func() {
		buf := &bytes.Buffer{}
		out := core.NewNumberOutput(buf, tape.Width8, true, ",")

		Expect(out.WriteCell(255)).To(Succeed())
		Expect(buf.Len()).To(Equal(0))

		Expect(out.Flush()).To(Succeed())
		Expect(buf.String()).To(Equal("-1,"))
	})

	It("should collect values", func() {
		c := core.NewCollector()
		Expect(c.WriteCell(3)).To(Succeed())
		Expect(c.Values()).To(Equal([]uint64{3}))

		c.Reset()

		Expect(c.Values()).To(BeEmpty())
	})

	It("should parse output modes", func() {
		Expect(core.ParseOutputMode("number")).To(Equal(core.OutputNumber))
		Expect(core.OutputChar.String()).To(Equal("char"))
		_, err := core.ParseOutputMode("hex")
		Expect(err).To(HaveOccurred())
	})
})
