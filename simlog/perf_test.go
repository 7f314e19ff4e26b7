package simlog_test

import (
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/simuben/metrics"
	"github.com/sarchlab/simuben/simlog"
)

var _ = Describe("ParsePerf", func() {
	const sample = `[PERF ][time=   3] dcache.miss: count, 0
[PERF ][time=   3] dcache.miss: count, 2

[PERF ][time=  12] ctrlBlock.rob: commitInstr,     17
[PERF ][time=  12] ctrlBlock.rob: robFull,      0
`

	It("should fold events into ordered buckets", func() {
		store, err := simlog.ParsePerf(strings.NewReader(sample))
		Expect(err).NotTo(HaveOccurred())

		Expect(store.Times()).To(Equal([]int64{3, 12}))
		values, ok := store.Values(3, "dcache.miss", "count")
		Expect(ok).To(BeTrue())
		Expect(values).To(Equal([]int64{0, 2}))

		values, ok = store.Values(12, "ctrlBlock.rob", "commitInstr")
		Expect(ok).To(BeTrue())
		Expect(values).To(Equal([]int64{17}))
	})

	It("should render the worked example without suppressing it", func() {
		store, err := simlog.ParsePerfLines([]string{
			"[PERF ][time=   3] dcache.miss: count, 0",
			"[PERF ][time=   3] dcache.miss: count, 2",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(metrics.Render(store)).To(Equal([]string{"dcache.miss.count: [0, 2]"}))
	})

	It("should be deterministic", func() {
		first, err := simlog.ParsePerf(strings.NewReader(sample))
		Expect(err).NotTo(HaveOccurred())
		second, err := simlog.ParsePerf(strings.NewReader(sample))
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Buckets()).To(Equal(first.Buckets()))
	})

	It("should trim namespace and name", func() {
		e, ok, err := simlog.ParsePerfEvent("  [PERF ][time=7]   frontend.ifu  :  fetchBubble  ,   9  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(e).To(Equal(metrics.Event{
			Time: 7, Namespace: "frontend.ifu", Name: "fetchBubble", Value: 9,
		}))
	})

	It("should report the exact line number counting blank lines", func() {
		input := "[PERF ][time=1] a: b, 1\n\n\nsomething else\n[PERF ][time=2] a: b, 1\n"

		store, err := simlog.ParsePerf(strings.NewReader(input), simlog.WithSource("sim.err"))
		Expect(store).To(BeNil())
		Expect(err).To(HaveOccurred())

		var pe *simlog.ParseError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Line).To(Equal(4))
		Expect(pe.Content).To(Equal("something else"))
		Expect(pe.Source).To(Equal("sim.err"))
		Expect(err.Error()).To(ContainSubstring("line 4"))
		Expect(simlog.IsParseError(err)).To(BeTrue())
	})

	It("should reject a negative value", func() {
		_, err := simlog.ParsePerfLines([]string{"[PERF ][time=1] a: b, -1"})
		Expect(simlog.IsParseError(err)).To(BeTrue())
	})

	It("should reject values that overflow", func() {
		_, err := simlog.ParsePerfLines([]string{
			"[PERF ][time=1] a: b, 99999999999999999999999",
		})
		var pe *simlog.ParseError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Line).To(Equal(1))
		Expect(pe.Cause).NotTo(BeNil())
	})

	It("should skip unmatched lines in lenient mode", func() {
		store, err := simlog.ParsePerfLines([]string{
			"booting",
			"[PERF ][time=1] a: b, 1",
			"done",
		}, simlog.WithMode(simlog.Lenient))
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Len()).To(Equal(1))
	})

	It("should accept an empty input", func() {
		store, err := simlog.ParsePerf(strings.NewReader("\n \n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Len()).To(Equal(0))
	})
})
