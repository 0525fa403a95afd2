package vectors_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/emu"
	"github.com/sarchlab/tt16sim/insts"
	"github.com/sarchlab/tt16sim/vectors"
)

var _ = Describe("Vector files", func() {
	Describe("Parse", func() {
		It("should parse words, assembly and expectations", func() {
			src := `
name: mixed
equ:
  K: 5
steps:
  - word: 0x00C2
  - asm: li r1, K
    expect: 0x05
`
			f, err := vectors.Parse(strings.NewReader(src))

			Expect(err).NotTo(HaveOccurred())
			Expect(f.Name).To(Equal("mixed"))
			Expect(f.Steps).To(HaveLen(2))
			Expect(*f.Steps[0].Word).To(Equal(uint16(0x00C2)))
			Expect(f.Steps[0].Expect).To(BeNil())
			Expect(*f.Steps[1].Expect).To(Equal(uint8(5)))

			words, err := f.Words()
			Expect(err).NotTo(HaveOccurred())
			Expect(words).To(Equal([]uint16{0x00C2, insts.LI(1, 5)}))
		})

		DescribeTable("should reject malformed files",
			func(src string) {
				_, err := vectors.Parse(strings.NewReader(src))
				Expect(err).To(HaveOccurred())
			},
			Entry("no steps", "name: empty\nsteps: []\n"),
			Entry("both asm and word", "name: x\nsteps:\n  - asm: li r0, 1\n    word: 0x42\n"),
			Entry("neither asm nor word", "name: x\nsteps:\n  - expect: 1\n"),
			Entry("unknown field", "name: x\nsteps:\n  - asm: li r0, 1\n    expected: 1\n"),
			Entry("word overflow", "name: x\nsteps:\n  - word: 0x10000\n"),
			Entry("bad policy", "name: x\nreserved_policy: panic\nsteps:\n  - word: 0\n"),
		)

		It("should reject steps that issue no instruction", func() {
			f, err := vectors.Parse(strings.NewReader("name: x\nsteps:\n  - asm: .equ A 1\n"))
			Expect(err).NotTo(HaveOccurred())

			_, err = f.Words()
			Expect(err).To(MatchError(ContainSubstring("issues no instruction")))
		})
	})

	Describe("Corpus", func() {
		It("should load the embedded corpus", func() {
			files, err := vectors.Corpus()

			Expect(err).NotTo(HaveOccurred())
			names := []string{}
			for _, f := range files {
				names = append(names, f.Name)
			}
			Expect(names).To(ContainElements("processor_basic", "scenarios"))
		})

		It("should agree with the in-code reference sequence", func() {
			files, err := vectors.Corpus()
			Expect(err).NotTo(HaveOccurred())

			var basic *vectors.File
			for _, f := range files {
				if f.Name == "processor_basic" {
					basic = f
				}
			}
			Expect(basic).NotTo(BeNil())

			fromYAML, err := basic.Words()
			Expect(err).NotTo(HaveOccurred())
			fromCode, err := vectors.Reference().Words()
			Expect(err).NotTo(HaveOccurred())

			Expect(fromYAML).To(Equal(fromCode))
		})
	})
})

var _ = Describe("Runner", func() {
	var (
		runner *vectors.Runner
		ctx    context.Context
	)

	BeforeEach(func() {
		runner = vectors.NewRunner()
		ctx = context.Background()
	})

	It("should pass the reference vectors", func() {
		report, err := runner.Run(ctx, vectors.Reference())

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Passed()).To(BeTrue())
		Expect(report.Checked).To(Equal(4))
		Expect(report.Steps).To(HaveLen(6))
	})

	It("should pass the whole embedded corpus", func() {
		files, err := vectors.Corpus()
		Expect(err).NotTo(HaveOccurred())

		reports, err := runner.RunAll(ctx, files)

		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(len(files)))
		for _, rep := range reports {
			Expect(rep.Passed()).To(BeTrue(), rep.Name)
		}
	})

	It("should fail the shift vector under the logical shift rule", func() {
		runner.Config.ShiftRule = config.ShiftLogical

		report, err := runner.Run(ctx, vectors.Reference())

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Passed()).To(BeFalse())
		Expect(report.Failed).To(Equal(1))
		Expect(report.Steps[4].Output).To(Equal(uint8(0x30)))
	})

	It("should record traps and stop the file", func() {
		src := "name: strict\nreserved_policy: trap\nsteps:\n  - asm: li r0, 1\n  - word: 0x0000\n  - asm: li r1, 1\n"
		f, err := vectors.Parse(strings.NewReader(src))
		Expect(err).NotTo(HaveOccurred())

		report, err := runner.Run(ctx, f)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Steps).To(HaveLen(2))
		Expect(report.Steps[1].Err).To(MatchError(emu.ErrUnspecifiedBehavior))
		Expect(report.Passed()).To(BeFalse())
	})

	It("should honor cancellation", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := runner.Run(cancelled, vectors.Reference())

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should run files from disk", func() {
		tempDir, err := os.MkdirTemp("", "vectors-test")
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = os.RemoveAll(tempDir) }()

		path := filepath.Join(tempDir, "v.yaml")
		Expect(os.WriteFile(path, []byte("name: disk\nsteps:\n  - asm: li r3, 9\n    expect: 9\n"), 0644)).To(Succeed())

		reports, err := runner.RunFiles(ctx, []string{path})

		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(1))
		Expect(reports[0].Path).To(Equal(path))
		Expect(reports[0].Passed()).To(BeTrue())
	})

	It("should render summary and failure tables", func() {
		runner.Config.ShiftRule = config.ShiftLogical
		report, err := runner.Run(ctx, vectors.Reference())
		Expect(err).NotTo(HaveOccurred())

		buf := &bytes.Buffer{}
		vectors.RenderReports(buf, []*vectors.Report{report})

		Expect(buf.String()).To(ContainSubstring("processor_basic"))
		Expect(buf.String()).To(ContainSubstring("FAIL"))
		Expect(buf.String()).To(ContainSubstring("sll r4, r0, r1"))
		Expect(buf.String()).To(ContainSubstring("0x18"))
	})
})
