package program

import (
	"errors"
	"fmt"
	"strings"
)

// Translation errors. BracketError unwraps to one of the first two.
var (
	ErrUnmatchedCloseBracket = errors.New("unmatched close bracket")
	ErrUnmatchedOpenBracket  = errors.New("unmatched open bracket")

	// ErrInvalidProgram reports a decoded program whose loop targets do not
	// pair up.
	ErrInvalidProgram = errors.New("invalid program")
)

// BracketKind tells which side of a loop is unmatched.
type BracketKind int

// Bracket kinds.
const (
	UnmatchedClose BracketKind = iota
	UnmatchedOpen
)

// BracketError reports loop brackets without a partner. For an unmatched
// close bracket Positions holds the offending ']'. For unmatched open
// brackets it holds every '[' left open, in source order.
type BracketError struct {
	Kind      BracketKind
	Positions []Position
}

func (e *BracketError) Error() string {
	switch e.Kind {
	case UnmatchedClose:
		return fmt.Sprintf("unmatched ']' at %s", e.Positions[0])
	default:
		pos := make([]string, 0, len(e.Positions))
		for _, p := range e.Positions {
			pos = append(pos, p.String())
		}
		return fmt.Sprintf("unmatched '[' at %s", strings.Join(pos, ", "))
	}
}

func (e *BracketError) Unwrap() error {
	if e.Kind == UnmatchedClose {
		return ErrUnmatchedCloseBracket
	}
	return ErrUnmatchedOpenBracket
}
