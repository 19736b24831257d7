// Package verify provides debugging tools for checking resolved programs
// before running them.
//
// It has two complementary stages:
//
// 1. Static Lint (lint.go): structural and behavioral checks on the
// instruction sequence alone
//   - STRUCT: loop targets that do not pair up (decoded programs only)
//   - UNDERFLOW: a '<' that is reached with the cursor at cell 0 on every
//     execution path
//   - NONTERMINATING: a loop whose body can never make the current cell
//     zero, so it runs forever once entered
//   - DEADCODE: a loop that is always skipped because the current cell is
//     known to be zero when it is reached
//
// 2. Bounded run (report.go): the program is executed by a core.Engine
// with a step budget, so infinite loops end with ErrStepBudgetExceeded
// instead of hanging the tool.
//
// The lint stage assumes the cursor starts at cell 0. RunLint assumes a zero
// tape; RunLintOnTape and GenerateReport take the initial tape into account.
//
// # Usage Example
//
//	p, err := program.Translate(src)
//	if err != nil {
//	    return err
//	}
//
//	for _, issue := range verify.RunLint(p) {
//	    log.Printf("[%s] pc=%d %s: %s", issue.Type, issue.PC, issue.Pos, issue.Message)
//	}
//
//	report := verify.GenerateReport(p, core.MakeBuilder(), 100000)
//	report.WriteReport(os.Stdout)
package verify

import (
	"fmt"

	"github.com/sarchlab/tapevm/program"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct         IssueType = "STRUCT"         // Loop targets do not pair up
	IssueUnderflow      IssueType = "UNDERFLOW"      // Guaranteed pointer underflow
	IssueNonTerminating IssueType = "NONTERMINATING" // Loop body cannot clear the cell
	IssueDeadCode       IssueType = "DEADCODE"       // Loop is never entered
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // Category
	PC      int                    // Instruction index (-1 if not applicable)
	Pos     program.Position       // Source position of the instruction
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func (i Issue) String() string {
	if i.PC < 0 {
		return fmt.Sprintf("[%s] %s", i.Type, i.Message)
	}
	return fmt.Sprintf("[%s] pc=%d %s: %s", i.Type, i.PC, i.Pos, i.Message)
}

func newIssue(
	t IssueType,
	p *program.Program,
	pc int,
	details map[string]interface{},
	format string,
	args ...interface{},
) Issue {
	issue := Issue{
		Type:    t,
		PC:      pc,
		Message: fmt.Sprintf(format, args...),
		Details: details,
	}
	if pc >= 0 && pc < p.Len() {
		issue.Pos = p.At(pc).Pos
	}
	return issue
}

// CountByType returns how many issues of each type are in issues.
func CountByType(issues []Issue) map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, issue := range issues {
		counts[issue.Type]++
	}
	return counts
}
