package simlog_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/simuben/simlog"
)

var _ = Describe("ParseBrief", func() {
	It("should collect cores in encounter order", func() {
		input := `Using simulated 8192MB RAM
The image is /tmp/coremark.bin
Core 0: HIT GOOD TRAP at pc = 0x80000f4c
Core-0 instrCnt = 295214, cycleCnt = 403991, IPC = 0.730744
Core-1 instrCnt = 1000, cycleCnt = 2000, IPC = 0.500000
Seed=0 Guest cycle spent: 404002 (this will be different from cycleCnt if emu loads a snapshot)
Host time spent: 41387ms
`
		brief, err := simlog.ParseBrief(strings.NewReader(input))
		Expect(err).NotTo(HaveOccurred())

		Expect(brief.Cores).To(Equal([]simlog.CoreBrief{
			{CoreNumber: 0, InstructionsCount: 295214, CyclesCount: 403991},
			{CoreNumber: 1, InstructionsCount: 1000, CyclesCount: 2000},
		}))
		Expect(brief.TimeSpentMS).To(Equal(int64(41387)))
	})

	It("should let the last host time line win", func() {
		brief, err := simlog.ParseBriefLines([]string{
			"Host time spent: 250ms",
			"Host time spent: 500ms",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(brief.TimeSpentMS).To(Equal(int64(500)))
	})

	It("should never fail on unmatched lines", func() {
		brief, err := simlog.ParseBriefLines([]string{"garbage", "", "[PERF ] nope"})
		Expect(err).NotTo(HaveOccurred())
		Expect(brief.Cores).To(BeEmpty())
		Expect(brief.TimeSpentMS).To(BeZero())
	})

	It("should match core lines embedded in colored output", func() {
		brief, err := simlog.ParseBriefLines([]string{
			"\x1b[34mCore-0 instrCnt = 10, cycleCnt = 20, IPC = 0.500000\x1b[0m",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(brief.Cores).To(HaveLen(1))
		Expect(brief.Cores[0].IPC()).To(BeNumerically("~", 0.5))
	})

	It("should fail on unmatched lines in strict mode", func() {
		_, err := simlog.ParseBriefLines([]string{
			"Host time spent: 1ms",
			"",
			"noise",
		}, simlog.WithMode(simlog.Strict), simlog.WithSource("sim.out"))

		var pe *simlog.ParseError
		Expect(err).To(BeAssignableToTypeOf(pe))
		pe = err.(*simlog.ParseError)
		Expect(pe.Line).To(Equal(3))
		Expect(pe.Source).To(Equal("sim.out"))
	})

	Describe("overflowing counts", func() {
		lines := []string{
			"Core-0 instrCnt = 99999999999999999999999, cycleCnt = 1, IPC = 0.500000",
			"Core-1 instrCnt = 10, cycleCnt = 20, IPC = 0.500000",
			"Host time spent: 99999999999999999999ms",
		}

		It("should skip the lines when lenient", func() {
			brief, err := simlog.ParseBriefLines(lines)
			Expect(err).NotTo(HaveOccurred())
			Expect(brief.Cores).To(Equal([]simlog.CoreBrief{
				{CoreNumber: 1, InstructionsCount: 10, CyclesCount: 20},
			}))
			Expect(brief.TimeSpentMS).To(BeZero())
		})

		It("should fail in strict mode", func() {
			_, err := simlog.ParseBriefLines(lines, simlog.WithMode(simlog.Strict))

			var pe *simlog.ParseError
			Expect(err).To(BeAssignableToTypeOf(pe))
			pe = err.(*simlog.ParseError)
			Expect(pe.Line).To(Equal(1))
			Expect(pe.Cause).To(MatchError(ContainSubstring("value out of range")))
		})
	})

	Describe("Core lookup", func() {
		It("should return the last report of a core", func() {
			brief := &simlog.BriefSummary{Cores: []simlog.CoreBrief{
				{CoreNumber: 0, InstructionsCount: 1},
				{CoreNumber: 0, InstructionsCount: 2},
			}}
			core, ok := brief.Core(0)
			Expect(ok).To(BeTrue())
			Expect(core.InstructionsCount).To(Equal(int64(2)))

			_, ok = brief.Core(3)
			Expect(ok).To(BeFalse())
		})

		It("should report zero IPC without cycles", func() {
			Expect(simlog.CoreBrief{InstructionsCount: 5}.IPC()).To(BeZero())
		})
	})
})

var _ = Describe("Mode", func() {
	It("should name both modes", func() {
		Expect(simlog.Strict.String()).To(Equal("strict"))
		Expect(simlog.Lenient.String()).To(Equal("lenient"))
		Expect(simlog.Mode(9).String()).To(Equal("unknown"))
	})
})
