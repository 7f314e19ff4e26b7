package diff_test

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/simuben/diff"
	"github.com/sarchlab/simuben/table"
)

func mustLoad(name, content string) *table.RunTable {
	t, err := table.Load(strings.NewReader(content), name, table.DefaultKeyColumns)
	Expect(err).NotTo(HaveOccurred())
	return t
}

const header = "run_name,test_suite_name,instructions,cycles\n"

var _ = Describe("Compare", func() {
	It("should compute signed absolute and relative diffs", func() {
		oldTable := mustLoad("old.csv", header+"base,a,100,1000\n")
		newTable := mustLoad("new.csv", header+"patched,a,120,1100\n")

		result, err := diff.Compare(oldTable, newTable, diff.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows).To(HaveLen(1))

		row := result.Rows[0]
		Expect(row.Key).To(Equal(table.Key{"a"}))
		Expect(row.RunName).To(Equal("patched"))
		Expect(row.Instructions.Abs).To(Equal(int64(20)))
		Expect(row.Cycles.Abs).To(Equal(int64(100)))
		Expect(row.Instructions.Rel.String()).To(Equal("+20.00%"))
		Expect(row.Cycles.Rel.String()).To(Equal("+10.00%"))
	})

	It("should format decreases and unchanged values", func() {
		oldTable := mustLoad("old.csv", header+"r,a,400,100\n")
		newTable := mustLoad("new.csv", header+"r,a,350,100\n")

		result, err := diff.Compare(oldTable, newTable, diff.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows[0].Instructions.Abs).To(Equal(int64(-50)))
		Expect(result.Rows[0].Instructions.Rel.String()).To(Equal("-12.50%"))
		Expect(result.Rows[0].Cycles.Rel.String()).To(Equal("+0.00%"))
	})

	It("should keep extreme counts exact and refuse negative ones", func() {
		oldTable := mustLoad("old.csv", header+"r,a,9223372036854775807,0\n")
		newTable := mustLoad("new.csv", header+"r,a,0,9223372036854775807\n")

		result, err := diff.Compare(oldTable, newTable, diff.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows[0].Instructions.Abs).To(Equal(int64(-9223372036854775807)))
		Expect(result.Rows[0].Instructions.Rel.String()).To(Equal("-100.00%"))
		Expect(result.Rows[0].Cycles.Abs).To(Equal(int64(9223372036854775807)))

		_, err = table.Load(strings.NewReader(header+"r,a,-9223372036854775808,-5\n"),
			"old.csv", table.DefaultKeyColumns)
		var me *table.MalformedRowError
		Expect(errors.As(err, &me)).To(BeTrue())
	})

	It("should emit rows sorted by key", func() {
		oldTable := mustLoad("old.csv", header+"r,mem,1,1\nr,alu,1,1\nr,fpu,1,1\n")
		newTable := mustLoad("new.csv", header+"r,fpu,2,2\nr,mem,2,2\nr,alu,2,2\n")

		result, err := diff.Compare(oldTable, newTable, diff.Options{})
		Expect(err).NotTo(HaveOccurred())

		var keys []string
		for _, r := range result.Rows {
			keys = append(keys, r.Key[0])
		}
		Expect(keys).To(Equal([]string{"alu", "fpu", "mem"}))
	})

	It("should name keys missing on either side", func() {
		oldTable := mustLoad("old.csv", header+"r,a,1,1\n")
		newTable := mustLoad("new.csv", header+"r,b,1,1\n")

		_, err := diff.Compare(oldTable, newTable, diff.Options{})

		var ke *diff.KeySetMismatchError
		Expect(errors.As(err, &ke)).To(BeTrue())
		Expect(ke.MissingInNew).To(Equal([]table.Key{{"a"}}))
		Expect(ke.MissingInOld).To(Equal([]table.Key{{"b"}}))
		Expect(err.Error()).To(ContainSubstring(`keys in old file but not in new: [("a")]`))
		Expect(err.Error()).To(ContainSubstring(`keys in new file but not in old: [("b")]`))
	})

	It("should only list the side that is missing keys", func() {
		oldTable := mustLoad("old.csv", header+"r,c,1,1\nr,a,1,1\nr,b,1,1\n")
		newTable := mustLoad("new.csv", header+"r,b,1,1\n")

		_, err := diff.Compare(oldTable, newTable, diff.Options{})

		var ke *diff.KeySetMismatchError
		Expect(errors.As(err, &ke)).To(BeTrue())
		Expect(ke.MissingInNew).To(Equal([]table.Key{{"a"}, {"c"}}))
		Expect(ke.MissingInOld).To(BeEmpty())
		Expect(err.Error()).NotTo(ContainSubstring("in new file but not in old"))
	})

	It("should refuse tables keyed differently", func() {
		oldTable := mustLoad("old.csv", header+"r,a,1,1\n")
		newTable, err := table.Load(strings.NewReader(header+"r,a,1,1\n"), "new.csv",
			[]string{"run_name", "test_suite_name"})
		Expect(err).NotTo(HaveOccurred())

		_, err = diff.Compare(oldTable, newTable, diff.Options{})
		Expect(err).To(MatchError(ContainSubstring("key columns differ")))
	})

	Describe("zero baseline", func() {
		var oldTable, newTable *table.RunTable

		BeforeEach(func() {
			oldTable = mustLoad("old.csv", header+"r,idle,0,50\n")
			newTable = mustLoad("new.csv", header+"r,idle,10,50\n")
		})

		It("should mark the relative diff undefined by default", func() {
			result, err := diff.Compare(oldTable, newTable, diff.Options{})
			Expect(err).NotTo(HaveOccurred())

			d := result.Rows[0].Instructions
			Expect(d.Abs).To(Equal(int64(10)))
			Expect(d.Rel.Defined).To(BeFalse())
			Expect(d.Rel.String()).To(Equal("n/a"))
			Expect(result.Rows[0].Cycles.Rel.Defined).To(BeTrue())
		})

		It("should fail under the error policy", func() {
			_, err := diff.Compare(oldTable, newTable, diff.Options{ZeroPolicy: diff.ZeroAsError})

			var ze *diff.ZeroBaselineError
			Expect(errors.As(err, &ze)).To(BeTrue())
			Expect(ze.Metric).To(Equal("instructions"))
			Expect(ze.Key).To(Equal(table.Key{"idle"}))
		})
	})

	Describe("ParseZeroPolicy", func() {
		It("should parse known policies", func() {
			p, err := diff.ParseZeroPolicy("error")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(diff.ZeroAsError))

			p, err = diff.ParseZeroPolicy("")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.String()).To(Equal("undefined"))

			_, err = diff.ParseZeroPolicy("infinity")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Writers", func() {
	var result *diff.Result

	BeforeEach(func() {
		oldTable := mustLoad("old.csv", header+"base,b,200,400\nbase,a,100,1000\n")
		newTable := mustLoad("new.csv", header+"new,a,120,1100\nnew,b,194,400\n")

		var err error
		result, err = diff.Compare(oldTable, newTable, diff.Options{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should write the canonical CSV", func() {
		var buf bytes.Buffer
		Expect(diff.WriteCSV(&buf, result)).To(Succeed())

		Expect(buf.String()).To(Equal(
			"run_name,test_suite_name,instructions_old,instructions_new,instructions_diff_absolute,instructions_diff_relative,cycles_old,cycles_new,cycles_diff_absolute,cycles_diff_relative\n" +
				"new,a,100,120,20,+20.00%,1000,1100,100,+10.00%\n" +
				"new,b,200,194,-6,-3.00%,400,400,0,+0.00%\n"))
	})

	It("should not repeat run_name when it is a key column", func() {
		oldTable, err := table.Load(strings.NewReader(header+"base,a,1,1\n"), "old.csv",
			[]string{"run_name", "test_suite_name"})
		Expect(err).NotTo(HaveOccurred())
		newTable, err := table.Load(strings.NewReader(header+"base,a,2,2\n"), "new.csv",
			[]string{"run_name", "test_suite_name"})
		Expect(err).NotTo(HaveOccurred())

		result, err := diff.Compare(oldTable, newTable, diff.Options{})
		Expect(err).NotTo(HaveOccurred())
		records := result.Records()
		Expect(records[0][:3]).To(Equal([]string{"run_name", "test_suite_name", "instructions_old"}))
		Expect(records[1][:3]).To(Equal([]string{"base", "a", "1"}))
	})

	It("should render a text table", func() {
		var buf bytes.Buffer
		diff.WriteTable(&buf, result)

		out := buf.String()
		Expect(out).To(ContainSubstring("instructions_diff_relative"))
		Expect(out).To(ContainSubstring("+20.00%"))
		Expect(out).To(ContainSubstring("-3.00%"))
	})
})
