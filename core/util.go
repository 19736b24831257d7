package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace sits below debug: per-instruction traces are only emitted when
// a handler is configured for them.
const LevelTrace slog.Level = slog.LevelDebug - 4

// PrintToggle turns on the state table printed after every run.
var PrintToggle = false

// stateRadius is the number of cells shown on each side of the cursor.
const stateRadius = 8

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func traceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

func PrintState(e *Engine) {
	if !PrintToggle {
		return
	}

	fmt.Println(RenderState(e))
}

// RenderState renders the cells around the cursor as a table.
func RenderState(e *Engine) string {
	from := max(e.cursor-stateRadius, 0)
	to := min(e.cursor+stateRadius+1, e.tape.Len())

	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("State@PC %d, cursor %d, %d cells of %s",
		e.pc, e.cursor, e.tape.Len(), e.width))

	header := table.Row{""}
	values := table.Row{"Value"}
	for i, v := range e.tape.Window(from, to) {
		idx := from + i
		if idx == e.cursor {
			header = append(header, fmt.Sprintf("[%d]", idx))
		} else {
			header = append(header, idx)
		}
		values = append(values, v)
	}

	t.AppendHeader(header)
	t.AppendRow(values)

	return t.Render()
}

func LogState(e *Engine) {
	slog.Debug("StateCheckpoint",
		"PC", e.pc,
		"Steps", e.steps,
		"Cursor", e.cursor,
		"Cell", e.tape.Get(e.cursor),
		"TapeLen", e.tape.Len(),
		"Width", e.width.String(),
	)
}
