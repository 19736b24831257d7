package verify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/tape"
)

// errNotRun is the run error of a report whose program failed STRUCT lint.
var errNotRun = errors.New("not run: program failed structural checks")

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Program    *program.Program
	Initial    *tape.Tape // tape the run started from
	LintIssues []Issue
	Counts     map[IssueType]int

	MaxSteps uint64
	RunErr   error
	RunOK    bool
	Steps    uint64
	Output   []uint64
	Cursor   int
	TapeLen  int
}

// GenerateReport runs lint and a bounded run of the program on an engine
// built from machine, and returns a report. Lint sees the initial tape of
// that engine. The output channel of machine is
// replaced by a collector.
func GenerateReport(
	p *program.Program,
	machine core.Builder,
	maxSteps uint64,
) *VerificationReport {
	report := &VerificationReport{
		Program:  p,
		MaxSteps: maxSteps,
	}

	collector := core.NewCollector()
	e := machine.
		WithOutput(collector).
		WithStepBudget(maxSteps).
		Build()
	report.Initial = e.Tape().Clone()

	report.LintIssues = RunLintOnTape(p, report.Initial)
	report.Counts = CountByType(report.LintIssues)

	if report.Counts[IssueStruct] > 0 {
		report.RunErr = errNotRun
		return report
	}

	report.RunErr = e.Run(p)
	report.RunOK = report.RunErr == nil
	report.Steps = e.Steps()
	report.Output = collector.Values()
	report.Cursor = e.Cursor()
	report.TapeLen = e.Tape().Len()

	return report
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	summary := table.NewWriter()
	summary.SetTitle("PROGRAM VERIFICATION REPORT")
	summary.AppendRows([]table.Row{
		{"Source", summarizeSource(r.Program.String())},
		{"Instructions", r.Program.Len()},
		{"Loops", len(r.Program.Loops())},
		{"Lint issues", len(r.LintIssues)},
	})
	for _, t := range []IssueType{
		IssueStruct, IssueUnderflow, IssueNonTerminating, IssueDeadCode,
	} {
		summary.AppendRow(table.Row{"  " + string(t), r.Counts[t]})
	}
	fmt.Fprintln(w, summary.Render())
	fmt.Fprintln(w)

	if len(r.LintIssues) > 0 {
		issues := table.NewWriter()
		issues.SetTitle("STAGE 1: STATIC LINT CHECKS")
		issues.AppendHeader(table.Row{"#", "Type", "PC", "Source", "Message"})
		for i, issue := range r.LintIssues {
			pc, pos := "-", "-"
			if issue.PC >= 0 {
				pc = fmt.Sprint(issue.PC)
				pos = issue.Pos.String()
			}
			issues.AppendRow(table.Row{i + 1, issue.Type, pc, pos, issue.Message})
		}
		fmt.Fprintln(w, issues.Render())
		fmt.Fprintln(w)
	}

	run := table.NewWriter()
	run.SetTitle("STAGE 2: BOUNDED RUN")
	status := "SUCCESS"
	if !r.RunOK {
		status = "FAILED: " + r.RunErr.Error()
	}
	run.AppendRows([]table.Row{
		{"Result", status},
		{"Initial non-zero cells", countNonZero(r.Initial)},
		{"Step budget", r.MaxSteps},
		{"Steps", r.Steps},
		{"Output values", len(r.Output)},
		{"Final cursor", r.Cursor},
		{"Tape length", r.TapeLen},
	})
	fmt.Fprintln(w, run.Render())
	fmt.Fprintln(w)

	if r.Passed() {
		fmt.Fprintln(w, "✓ PROGRAM PASSED ALL CHECKS")
	} else {
		fmt.Fprintln(w, "⚠ PROGRAM HAS ISSUES")
	}
}

func summarizeSource(src string) string {
	const limit = 48
	if len(src) <= limit {
		return src
	}
	return src[:limit] + "..."
}

func countNonZero(t *tape.Tape) int {
	if t == nil {
		return 0
	}

	n := 0
	for i := 0; i < t.Len(); i++ {
		if t.Get(i) != 0 {
			n++
		}
	}
	return n
}

// Passed reports whether lint found nothing and the run finished.
func (r *VerificationReport) Passed() bool {
	return len(r.LintIssues) == 0 && r.RunOK
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
