package core_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/tape"
)

var _ = Describe("Engine", func() {
	var (
		out *bytes.Buffer
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	run := func(b core.Builder, src string) (*core.Engine, error) {
		e := b.Build()
		return e, e.Run(program.MustTranslate(src))
	}

	Context("end to end", func() {
		It("should double into the neighbor cell", func() {
			collector := core.NewCollector()

			e, err := run(core.MakeBuilder().WithOutput(collector), "++[>++<-]>.")

			Expect(err).NotTo(HaveOccurred())
			Expect(collector.Values()).To(Equal([]uint64{4}))
			Expect(e.Cursor()).To(Equal(1))
			Expect(e.Tape().Window(0, 2)).To(Equal([]uint64{0, 4}))
		})

		It("should render the result as a character", func() {
			_, err := run(core.MakeBuilder().WithWriter(out),
				strings.Repeat("+", 52)+".")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("4"))
		})

		It("should render the result as a number", func() {
			_, err := run(core.MakeBuilder().
				WithWriter(out).
				WithOutputMode(core.OutputNumber),
				"++[>++<-]>.")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("4\n"))
		})

		It("should echo input", func() {
			_, err := run(core.MakeBuilder().
				WithReader(bytes.NewReader([]byte{65})).
				WithWriter(out),
				",.")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Bytes()).To(Equal([]byte{65}))
		})

		It("should skip a loop over a zero cell", func() {
			e, err := run(core.MakeBuilder().WithWriter(out), "[]+++.")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Cell()).To(Equal(uint64(3)))
			Expect(e.Steps()).To(Equal(uint64(5)))
		})

		It("should underflow before anything else runs", func() {
			collector := core.NewCollector()

			e, err := run(core.MakeBuilder().WithOutput(collector), "<+.")

			Expect(errors.Is(err, core.ErrPointerUnderflow)).To(BeTrue())
			Expect(collector.Values()).To(BeEmpty())
			Expect(e.Cell()).To(Equal(uint64(0)))
			Expect(e.Steps()).To(Equal(uint64(0)))

			var execErr *core.ExecError
			Expect(errors.As(err, &execErr)).To(BeTrue())
			Expect(execErr.PC).To(Equal(0))
			Expect(execErr.Opcode).To(Equal(program.MovePointerBackward))
			Expect(execErr.Pos.Column).To(Equal(1))
		})

		It("should underflow after moving back past the start", func() {
			e, err := run(core.MakeBuilder(), "+>+<<")

			Expect(err).To(MatchError(core.ErrPointerUnderflow))
			Expect(e.PC()).To(Equal(4))
			Expect(e.Cursor()).To(Equal(0))
		})

		It("should run the empty program", func() {
			e, err := run(core.MakeBuilder(), "no instructions here")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Steps()).To(Equal(uint64(0)))
			Expect(e.Tape().Len()).To(Equal(tape.DefaultSize))
		})
	})

	Context("tape", func() {
		It("should grow by exactly one zero cell", func() {
			e, err := run(core.MakeBuilder().
				WithTapeSize(2).
				WithInitialTape([]uint64{7, 9}),
				">>")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Tape().Values()).To(Equal([]uint64{7, 9, 0}))
			Expect(e.Cursor()).To(Equal(2))
		})

		It("should keep growing one cell at a time", func() {
			e, err := run(core.MakeBuilder().WithTapeSize(1), ">+>+>+")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Tape().Values()).To(Equal([]uint64{0, 1, 1, 1}))
		})

		It("should wrap at 8 bits", func() {
			e, err := run(core.MakeBuilder(), "-")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Cell()).To(Equal(uint64(255)))

			Expect(e.Run(program.MustTranslate("+"))).To(Succeed())
			Expect(e.Cell()).To(Equal(uint64(0)))
		})

		It("should wrap at 64 bits", func() {
			e, err := run(core.MakeBuilder().WithCellWidth(tape.Width64), "-")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Cell()).To(Equal(^uint64(0)))
			Expect(e.Tape().Signed(0)).To(Equal(int64(-1)))
		})

		It("should start from the initial tape", func() {
			e, err := run(core.MakeBuilder().
				WithInitialTape([]uint64{3}).
				WithOutput(core.NewCollector()),
				"[>+<-]")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Tape().Window(0, 2)).To(Equal([]uint64{0, 3}))
		})

		It("should continue on the same tape across runs", func() {
			e := core.MakeBuilder().Build()
			p := program.MustTranslate(">+")

			Expect(e.Run(p)).To(Succeed())
			Expect(e.Run(p)).To(Succeed())

			Expect(e.Cursor()).To(Equal(2))
			Expect(e.Tape().Window(0, 3)).To(Equal([]uint64{0, 1, 1}))
		})

		It("should restore the initial tape on reset", func() {
			e, err := run(core.MakeBuilder().WithInitialTape([]uint64{5}), "+>+")
			Expect(err).NotTo(HaveOccurred())

			e.Reset()

			Expect(e.Cursor()).To(Equal(0))
			Expect(e.PC()).To(Equal(0))
			Expect(e.Cell()).To(Equal(uint64(5)))
			Expect(e.Tape().Get(1)).To(Equal(uint64(0)))
		})
	})

	Context("numeric variant", func() {
		It("should print signed 64-bit values", func() {
			_, err := run(core.MakeBuilder().
				WithCellWidth(tape.Width64).
				WithOutputMode(core.OutputNumber).
				WithSigned(true).
				WithSeparator(" ").
				WithWriter(out),
				"++[>++<-]>.<--.")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("4 -2 "))
		})

		It("should read numbers in number mode", func() {
			_, err := run(core.MakeBuilder().
				WithCellWidth(tape.Width16).
				WithOutputMode(core.OutputNumber).
				WithReader(strings.NewReader("12 -1")).
				WithWriter(out),
				",.,.")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("12\n65535\n"))
		})
	})

	Context("input", func() {
		var (
			mockCtrl  *gomock.Controller
			mockInput *MockInputChannel
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockInput = NewMockInputChannel(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should leave the cell unchanged without an input channel", func() {
			e, err := run(core.MakeBuilder().WithInitialTape([]uint64{9}), ",")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Cell()).To(Equal(uint64(9)))
		})

		It("should leave the cell unchanged at end of input", func() {
			e, err := run(core.MakeBuilder().
				WithInitialTape([]uint64{9}).
				WithInput(core.NewValueInput(1)),
				",>,")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Tape().Window(0, 2)).To(Equal([]uint64{1, 0}))
		})

		It("should mask wide input values", func() {
			mockInput.EXPECT().ReadCell().Return(uint64(0x1FF), nil)

			e, err := run(core.MakeBuilder().WithInput(mockInput), ",")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Cell()).To(Equal(uint64(0xFF)))
		})

		It("should stop on input failures", func() {
			broken := errors.New("device gone")
			mockInput.EXPECT().ReadCell().Return(uint64(0), broken)

			_, err := run(core.MakeBuilder().WithInput(mockInput), "+,+")

			Expect(errors.Is(err, core.ErrInput)).To(BeTrue())
			Expect(errors.Is(err, broken)).To(BeTrue())
		})

		It("should treat a wrapped end of input as exhaustion", func() {
			mockInput.EXPECT().
				ReadCell().
				Return(uint64(0), fmt.Errorf("serial port: %w", io.EOF))

			e, err := run(core.MakeBuilder().WithInput(mockInput), "+,+")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Cell()).To(Equal(uint64(2)))
		})
	})

	Context("output", func() {
		var (
			mockCtrl   *gomock.Controller
			mockOutput *MockOutputChannel
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockOutput = NewMockOutputChannel(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should flush once after writing every value", func() {
			gomock.InOrder(
				mockOutput.EXPECT().WriteCell(uint64(1)).Return(nil),
				mockOutput.EXPECT().WriteCell(uint64(2)).Return(nil),
				mockOutput.EXPECT().Flush().Return(nil),
			)

			_, err := run(core.MakeBuilder().WithOutput(mockOutput), "+.+.")

			Expect(err).NotTo(HaveOccurred())
		})

		It("should flush partial output when the run fails", func() {
			gomock.InOrder(
				mockOutput.EXPECT().WriteCell(uint64(1)).Return(nil),
				mockOutput.EXPECT().Flush().Return(nil),
			)

			_, err := run(core.MakeBuilder().WithOutput(mockOutput), "+.<.")

			Expect(err).To(MatchError(core.ErrPointerUnderflow))
		})

		It("should keep buffered characters written before an underflow", func() {
			_, err := run(core.MakeBuilder().WithWriter(out),
				strings.Repeat("+", 72)+".<")

			Expect(err).To(MatchError(core.ErrPointerUnderflow))
			Expect(out.String()).To(Equal("H"))
		})

		It("should report flush failures", func() {
			mockOutput.EXPECT().Flush().Return(errors.New("disk full"))

			_, err := run(core.MakeBuilder().WithOutput(mockOutput), "+")

			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})

		It("should write wide cells as UTF-8", func() {
			_, err := run(core.MakeBuilder().
				WithCellWidth(tape.Width16).
				WithInitialTape([]uint64{0x263A}).
				WithWriter(out),
				".")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("☺"))
		})
	})

	Context("bounded runs", func() {
		It("should stop an infinite loop on the step budget", func() {
			e, err := run(core.MakeBuilder().WithStepBudget(1000), "+[]")

			Expect(errors.Is(err, core.ErrStepBudgetExceeded)).To(BeTrue())
			Expect(e.Steps()).To(Equal(uint64(1000)))
		})

		It("should not terminate a loop that keeps the cell non-zero", func() {
			e, err := run(core.MakeBuilder().WithStepBudget(10000), "+[>+<]")

			Expect(errors.Is(err, core.ErrStepBudgetExceeded)).To(BeTrue())
			Expect(e.Steps()).To(Equal(uint64(10000)))
			Expect(e.Tape().Get(0)).To(Equal(uint64(1)))
			Expect(e.PC()).To(BeNumerically("<", 6))
		})

		It("should finish within the budget", func() {
			_, err := run(core.MakeBuilder().WithStepBudget(5), "+++++")

			Expect(err).NotTo(HaveOccurred())
		})

		It("should stop an infinite loop on context expiry", func() {
			e := core.MakeBuilder().Build()
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			err := e.RunContext(ctx, program.MustTranslate("+[]"))

			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
			Expect(e.Steps()).To(BeNumerically(">", 0))
		})

		It("should not start with a cancelled context", func() {
			e := core.MakeBuilder().Build()
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := e.RunContext(ctx, program.MustTranslate("+"))

			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(e.Cell()).To(Equal(uint64(0)))
		})
	})

	Context("stepping", func() {
		It("should execute one instruction per step", func() {
			e := core.MakeBuilder().Build()
			p := program.MustTranslate("+[-]")

			var (
				done  bool
				err   error
				steps int
			)
			for !done {
				done, err = e.Step(p)
				Expect(err).NotTo(HaveOccurred())
				steps++
			}

			Expect(steps).To(Equal(4))
			Expect(e.PC()).To(Equal(p.Len()))
			Expect(e.Cell()).To(Equal(uint64(0)))
		})

		It("should report done past the end", func() {
			e := core.MakeBuilder().Build()

			done, err := e.Step(program.MustTranslate(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
		})
	})

	Context("builder", func() {
		It("should panic on an invalid cell width", func() {
			Expect(func() { core.MakeBuilder().WithCellWidth(12) }).To(Panic())
		})

		It("should panic on an empty tape", func() {
			Expect(func() { core.MakeBuilder().WithTapeSize(0) }).To(Panic())
		})

		It("should not alias the initial tape", func() {
			initial := []uint64{1}
			b := core.MakeBuilder().WithInitialTape(initial)
			initial[0] = 2

			Expect(b.Build().Cell()).To(Equal(uint64(1)))
		})
	})

	It("should render the cells around the cursor", func() {
		e, err := run(core.MakeBuilder(), ">>+++")
		Expect(err).NotTo(HaveOccurred())

		state := core.RenderState(e)

		Expect(state).To(ContainSubstring("[2]"))
		Expect(state).To(ContainSubstring("3"))
	})
})
