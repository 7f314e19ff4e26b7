package export_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/simuben/export"
	"github.com/sarchlab/simuben/simlog"
)

var _ = Describe("Brief export", func() {
	var brief *simlog.BriefSummary

	BeforeEach(func() {
		brief = &simlog.BriefSummary{
			Cores: []simlog.CoreBrief{
				{CoreNumber: 0, InstructionsCount: 1000, CyclesCount: 2000},
				{CoreNumber: 1, InstructionsCount: 10, CyclesCount: 40},
				{CoreNumber: 0, InstructionsCount: 3000, CyclesCount: 4000},
			},
			TimeSpentMS: 1234,
		}
	})

	Describe("BriefCSV", func() {
		It("should export the default core with a header", func() {
			var buf bytes.Buffer
			Expect(export.BriefCSV(&buf, brief, export.CSVConfig{})).To(Succeed())
			Expect(buf.String()).To(Equal("Instructions,Cycles\n1000,2000\n3000,4000\n"))
		})

		It("should select another core and hide the header", func() {
			var buf bytes.Buffer
			cfg := export.CSVConfig{CoreNumber: 1, HideHeader: true}
			Expect(export.BriefCSV(&buf, brief, cfg)).To(Succeed())
			Expect(buf.String()).To(Equal("10,40\n"))
		})

		It("should write only the header when the core never reported", func() {
			var buf bytes.Buffer
			Expect(export.BriefCSV(&buf, brief, export.CSVConfig{CoreNumber: 7})).To(Succeed())
			Expect(buf.String()).To(Equal("Instructions,Cycles\n"))
		})
	})

	Describe("BriefYAML", func() {
		It("should include IPC and simulated time", func() {
			var buf bytes.Buffer
			Expect(export.BriefYAML(&buf, brief, 2*sim.GHz)).To(Succeed())

			var report export.BriefReport
			Expect(yaml.Unmarshal(buf.Bytes(), &report)).To(Succeed())
			Expect(report.TimeSpentMS).To(Equal(int64(1234)))
			Expect(report.ClockMHz).To(BeNumerically("~", 2000))
			Expect(report.Cores).To(HaveLen(3))
			Expect(report.Cores[0].CoreNumber).To(Equal(0))
			Expect(report.Cores[0].InstructionsCount).To(Equal(int64(1000)))
			Expect(report.Cores[0].IPC).To(BeNumerically("~", 0.5))
			Expect(report.Cores[0].SimulatedSeconds).To(BeNumerically("~", 1e-6, 1e-12))
			Expect(buf.String()).To(ContainSubstring("instructions_count: 1000"))
		})

		It("should omit simulated time without a clock", func() {
			var buf bytes.Buffer
			Expect(export.BriefYAML(&buf, brief, 0)).To(Succeed())
			Expect(buf.String()).NotTo(ContainSubstring("simulated_seconds"))
			Expect(buf.String()).NotTo(ContainSubstring("clock_mhz"))
		})
	})

	It("should convert cycles to seconds", func() {
		Expect(export.SimulatedSeconds(1_000_000, 1*sim.GHz)).To(BeNumerically("~", 1e-3, 1e-12))
		Expect(export.SimulatedSeconds(10, 0)).To(BeZero())
	})
})
