package verify

import (
	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/tape"
)

// RunLint performs static lint checks on a resolved program run on a zero
// tape.
// A program that fails the STRUCT check gets no further checks, since the
// others rely on loop targets.
// Returns a list of issues found, or empty list if no issues.
func RunLint(p *program.Program) []Issue {
	return RunLintOnTape(p, nil)
}

// RunLintOnTape is RunLint for a run that starts on initial with the cursor
// at cell 0. A nil tape is all zeros.
func RunLintOnTape(p *program.Program, initial *tape.Tape) []Issue {
	if err := p.Validate(); err != nil {
		return []Issue{{
			Type:    IssueStruct,
			PC:      -1,
			Message: err.Error(),
		}}
	}

	var issues []Issue
	issues = append(issues, lintUnderflow(p)...)
	issues = append(issues, lintNonTerminating(p)...)
	issues = append(issues, lintDeadCode(p, initial)...)

	return issues
}

// lintUnderflow follows the top-level instructions from the start while the
// cursor offset is known. A loop keeps the offset known only if every
// iteration returns the cursor to where it started.
func lintUnderflow(p *program.Program) []Issue {
	offset := 0

	for pc := 0; pc < p.Len(); pc++ {
		inst := p.At(pc)

		switch inst.Opcode {
		case program.MovePointerForward:
			offset++
		case program.MovePointerBackward:
			if offset == 0 {
				return []Issue{newIssue(IssueUnderflow, p, pc,
					map[string]interface{}{"offset": offset},
					"'<' moves the cursor left of cell 0")}
			}
			offset--
		case program.LoopStart:
			if !balanced(p, pc, inst.Target) {
				return nil
			}
			pc = inst.Target
		}
	}

	return nil
}

// balanced reports whether the loop spanning [start, end] moves the cursor
// by zero cells per iteration, and so do all loops nested in it.
func balanced(p *program.Program, start, end int) bool {
	offset := 0

	for pc := start + 1; pc < end; pc++ {
		inst := p.At(pc)

		switch inst.Opcode {
		case program.MovePointerForward:
			offset++
		case program.MovePointerBackward:
			offset--
		case program.LoopStart:
			if !balanced(p, pc, inst.Target) {
				return false
			}
			pc = inst.Target
		}
	}

	return offset == 0
}

func lintNonTerminating(p *program.Program) []Issue {
	var issues []Issue

	for _, loop := range p.Loops() {
		start, end := loop[0], loop[1]
		if neverClears(p, start, end) {
			issues = append(issues, newIssue(IssueNonTerminating, p, start,
				map[string]interface{}{"end": end},
				"loop %d..%d never changes the current cell; it runs forever once entered",
				start, end))
		}
	}

	return issues
}

// neverClears reports whether a loop body provably leaves the tested cell
// unchanged. Innermost loops are evaluated symbolically; loops with nested
// loops only when their body cannot touch the tape at all.
func neverClears(p *program.Program, start, end int) bool {
	offset := 0
	delta := 0
	nested := false

	for pc := start + 1; pc < end; pc++ {
		switch p.At(pc).Opcode {
		case program.InputCell:
			return false
		case program.MovePointerForward:
			offset++
		case program.MovePointerBackward:
			offset--
		case program.IncrementCell:
			if offset == 0 {
				delta++
			}
		case program.DecrementCell:
			if offset == 0 {
				delta--
			}
		case program.LoopStart, program.LoopEnd:
			nested = true
		}
	}

	if nested {
		return !touchesTape(p, start, end)
	}

	return offset == 0 && delta == 0
}

func touchesTape(p *program.Program, start, end int) bool {
	for pc := start + 1; pc < end; pc++ {
		switch p.At(pc).Opcode {
		case program.MovePointerForward, program.MovePointerBackward,
			program.IncrementCell, program.DecrementCell, program.InputCell:
			return true
		}
	}
	return false
}

// lintDeadCode reports loops reached with a known zero cell: loops right
// after the end of another loop, and loops before the first write whose
// cell is zero on the initial tape.
func lintDeadCode(p *program.Program, initial *tape.Tape) []Issue {
	var issues []Issue
	reported := make(map[int]bool)

	report := func(pc int, reason string) {
		if reported[pc] {
			return
		}
		reported[pc] = true
		issues = append(issues, newIssue(IssueDeadCode, p, pc,
			map[string]interface{}{"end": p.At(pc).Target},
			"loop %d..%d is never entered: %s", pc, p.At(pc).Target, reason))
	}

	initialCell := func(offset int) uint64 {
		if initial == nil || offset >= initial.Len() {
			return 0
		}
		return initial.Get(offset)
	}

	offset := 0
scan:
	for pc := 0; pc < p.Len(); {
		inst := p.At(pc)

		switch inst.Opcode {
		case program.LoopStart:
			if initialCell(offset) != 0 {
				break scan
			}
			report(pc, "the initial cell is zero")
			pc = inst.Target + 1
			continue
		case program.MovePointerForward:
			offset++
		case program.MovePointerBackward:
			if offset == 0 {
				break scan
			}
			offset--
		case program.OutputCell:
		default:
			break scan
		}
		pc++
	}

	for pc := 1; pc < p.Len(); pc++ {
		if p.At(pc).Opcode == program.LoopStart &&
			p.At(pc-1).Opcode == program.LoopEnd {
			report(pc, "the previous loop left the current cell at zero")
		}
	}

	return issues
}
