package pretty

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/trace-mea/internal/cet"
)

// #region parse-error

// ParseError reports a line that matches no production of the trace grammar.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse line %q in edited error trace", e.Line)
}

// #endregion parse-error

// #region grammar

// The three line shapes, matched in priority order: a call or end-marker
// line, an assume line, a generic "op: 'text'" line.
var (
	callLineRe    = regexp.MustCompile(`^\s*(\d+)\s*\|( *)(\w+)$`)
	assumeLineRe  = regexp.MustCompile(`^\s*(\d+)\s*\|( *)assume\((.*)\)$`)
	genericLineRe = regexp.MustCompile(`^\s*(\d+)\s*\|( *)(\w+): '(.*)'$`)
)

// #endregion grammar

// #region parse

// Parse converts pretty-printed (and possibly human-edited) text back into a
// converted trace. It is the left inverse of Print: indentation depth alone
// re-derives the call/return nesting, and the end marker advances the thread
// counter. A line matching none of the grammar shapes is first joined with
// the following line (tolerating wrapped edits); content that still cannot
// be parsed at the end yields a ParseError.
//
// All produced elements carry id 0: identity is not recoverable from text.
func Parse(text string) ([]cet.Element, error) {
	var seq []cet.Element
	var stack []string
	curThread := 0
	curLevel := -1
	pending := ""

	popReturn := func(line int) {
		if len(stack) == 0 {
			return
		}
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seq = append(seq, cet.Element{
			Op: cet.OpReturn, Thread: curThread, Line: line, Name: name,
		})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if pending != "" {
			line = pending + strings.TrimSpace(line)
			pending = ""
		} else {
			line = strings.TrimSpace(line)
		}
		if line == "" {
			continue
		}

		if m := callLineRe.FindStringSubmatch(line); m != nil {
			lineNo, _ := strconv.Atoi(m[1])
			level := len(m[2])
			name := m[3]
			if level == curLevel {
				popReturn(lineNo)
			} else if level < curLevel {
				for i := 0; i < curLevel-level+1; i++ {
					popReturn(lineNo)
				}
			}
			if name == EndMarker {
				curThread++
				curLevel = -1
			} else {
				seq = append(seq, cet.Element{
					Op: cet.OpCall, Thread: curThread, Line: lineNo, Name: name,
				})
				curLevel = level
				stack = append(stack, name)
			}
			continue
		}

		if m := assumeLineRe.FindStringSubmatch(line); m != nil {
			lineNo, _ := strconv.Atoi(m[1])
			truth := true
			source := m[3]
			if strings.HasPrefix(source, "!(") && strings.HasSuffix(source, ")") {
				truth = false
				source = source[2 : len(source)-1]
			}
			seq = append(seq, cet.Element{
				Op: cet.OpAssume, Thread: curThread, Line: lineNo,
				Source: source, Truth: truth,
			})
			continue
		}

		if m := genericLineRe.FindStringSubmatch(line); m != nil {
			op := cet.Op(m[3])
			if !op.Valid() || op == cet.OpCall || op == cet.OpReturn || op == cet.OpAssume {
				return nil, &ParseError{Line: line}
			}
			lineNo, _ := strconv.Atoi(m[1])
			text := m[4]
			seq = append(seq, cet.Element{
				Op: op, Thread: curThread, Line: lineNo,
				Source: text, Name: text,
			})
			continue
		}

		pending = line
	}

	if pending != "" {
		return nil, &ParseError{Line: pending}
	}
	return seq, nil
}

// #endregion parse
