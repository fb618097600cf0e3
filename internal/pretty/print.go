package pretty

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/trace-mea/internal/cet"
)

// #region format

const (
	lineSeparator = "|"
	indentUnit    = " "

	// EndMarker terminates every thread's rendering.
	EndMarker = "__ERROR__"
)

// lineField renders a line number right-aligned in a 5-character field.
func lineField(line int) string {
	return fmt.Sprintf("%5d", line)
}

// #endregion format

// #region diagnostics

// Diagnostic records a non-fatal irregularity found while printing.
type Diagnostic struct {
	Element cet.Element
	Message string
}

// #endregion diagnostics

// #region print

// Print renders a converted trace into indented, thread-aware text.
//
// Each call emits one line; the matching return emits nothing and decreases
// the indentation depth. Non-call lines indent by the current depth, or by
// the thread identifier when no call is open. An end marker line is emitted
// whenever the thread changes and once at the very end.
//
// A return that does not match the top of the per-thread call stack is
// reported as a diagnostic and dropped; printing continues.
func Print(seq []cet.Element) (string, []Diagnostic) {
	var b strings.Builder
	var diags []Diagnostic
	var stack []string
	level := 0
	curThread := 0
	started := false

	for _, e := range seq {
		if !started {
			curThread = e.Thread
			started = true
		} else if e.Thread != curThread {
			curThread = e.Thread
			writeMarker(&b, level)
			level = 0
		}

		switch e.Op {
		case cet.OpReturn:
			// A stale frame from another thread can still name-match after a
			// thread change reset depth; depth must never go below 0.
			if n := len(stack); n > 0 && stack[n-1] == e.Name && level > 0 {
				stack = stack[:n-1]
				level--
			} else {
				last := "<none>"
				if n := len(stack); n > 0 {
					last = stack[n-1]
				}
				diags = append(diags, Diagnostic{
					Element: e,
					Message: fmt.Sprintf("no call for function %s, last called function is %s, id %d",
						e.Name, last, e.ID),
				})
			}
		case cet.OpCall:
			fmt.Fprintf(&b, "%s\t%s%s%s\n",
				lineField(e.Line), lineSeparator, strings.Repeat(indentUnit, level), e.Name)
			level++
			stack = append(stack, e.Name)
		case cet.OpAssume, cet.OpAssign, cet.OpNote, cet.OpWarn:
			indent := level
			if level <= 0 {
				indent = e.Thread
			}
			if indent < 0 {
				indent = 0
			}
			spaces := strings.Repeat(indentUnit, indent)
			switch e.Op {
			case cet.OpAssume:
				if e.Truth {
					fmt.Fprintf(&b, "%s\t%s%sassume(%s)\n", lineField(e.Line), lineSeparator, spaces, e.Source)
				} else {
					fmt.Fprintf(&b, "%s\t%s%sassume(!(%s))\n", lineField(e.Line), lineSeparator, spaces, e.Source)
				}
			case cet.OpAssign:
				fmt.Fprintf(&b, "%s\t%s%sassign: '%s'\n", lineField(e.Line), lineSeparator, spaces, e.Source)
			default:
				fmt.Fprintf(&b, "%s\t%s%s%s: '%s'\n", lineField(e.Line), lineSeparator, spaces, e.Op, e.Name)
			}
		}
	}

	writeMarker(&b, level)
	return b.String(), diags
}

func writeMarker(b *strings.Builder, level int) {
	fmt.Fprintf(b, "%s\t%s%s%s\n", lineField(0), lineSeparator, strings.Repeat(indentUnit, level), EndMarker)
}

// #endregion print
