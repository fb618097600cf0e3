package convert

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/trace-mea/internal/cet"
)

// #region functions

// Function names a conversion policy from raw trace to converted trace.
type Function string

const (
	ModelFunctions Function = "model_functions"
	CallTree       Function = "call_tree"
	Conditions     Function = "conditions"
	Assignments    Function = "assignments"
	Notes          Function = "notes"
	Full           Function = "full"
)

// DefaultFunction is the conversion applied when none is requested.
const DefaultFunction = ModelFunctions

// FunctionInfo pairs a conversion function with its stable registry id.
type FunctionInfo struct {
	Name Function
	ID   int
}

// Functions lists the known conversion functions in registry order.
func Functions() []FunctionInfo {
	return []FunctionInfo{
		{ModelFunctions, 0},
		{CallTree, 1},
		{Conditions, 2},
		{Assignments, 3},
		{Notes, 4},
		{Full, 5},
	}
}

// ParseFunction resolves a conversion function by name.
func ParseFunction(name string) (Function, error) {
	for _, fi := range Functions() {
		if string(fi.Name) == name {
			return fi.Name, nil
		}
	}
	return "", fmt.Errorf("unknown conversion function %q", name)
}

// #endregion functions

// #region convert

// Convert turns a raw error trace into a converted trace under the selected
// conversion function. The result is deterministic for identical inputs.
func Convert(raw RawTrace, fn Function, args Args) ([]cet.Element, error) {
	full, err := expand(raw, args)
	if err != nil {
		return nil, err
	}
	switch fn {
	case Full:
		return full, nil
	case CallTree:
		return filterOps(full, cet.OpCall, cet.OpReturn), nil
	case Conditions:
		return filterOps(full, cet.OpAssume), nil
	case Assignments:
		return filterOps(full, cet.OpAssign), nil
	case Notes:
		return filterNotes(full, args), nil
	case ModelFunctions:
		return collapseToModelFunctions(raw, full, args), nil
	}
	return nil, fmt.Errorf("unknown conversion function %q", fn)
}

// #endregion convert

// #region expand

// expand walks the raw edges and produces the full element sequence.
// Element ids are the 1-based originating edge index, so different
// conversions of the same raw trace stay correlated. Note and warn
// annotations are emitted before the structural element of their edge.
func expand(raw RawTrace, args Args) ([]cet.Element, error) {
	var seq []cet.Element
	for i, e := range raw.Edges {
		id := i + 1
		if e.Note != "" {
			seq = append(seq, annotation(cet.OpNote, e, id, e.Note, args))
		}
		if e.Warn != "" {
			seq = append(seq, annotation(cet.OpWarn, e, id, e.Warn, args))
		}
		switch {
		case e.Enter != nil:
			name, err := raw.funcName(*e.Enter)
			if err != nil {
				return nil, err
			}
			seq = append(seq, cet.Element{
				Op: cet.OpCall, Thread: e.Thread, Line: e.Line, Name: name, ID: id,
			})
		case e.Return != nil:
			name, err := raw.funcName(*e.Return)
			if err != nil {
				return nil, err
			}
			seq = append(seq, cet.Element{
				Op: cet.OpReturn, Thread: e.Thread, Line: e.Line, Name: name, ID: id,
			})
		case e.Condition != nil:
			source := e.Assumption
			if source == "" {
				source = e.Source
			}
			seq = append(seq, cet.Element{
				Op: cet.OpAssume, Thread: e.Thread, Line: e.Line,
				Source: source, Truth: *e.Condition, ID: id,
			})
		case isAssignment(e.Source):
			seq = append(seq, cet.Element{
				Op: cet.OpAssign, Thread: e.Thread, Line: e.Line,
				Source: e.Source, Name: e.Source, ID: id,
			})
		}
	}
	return seq, nil
}

// annotation builds a note or warn element. With ignore_notes_text set the
// text is blanked so it does not participate in comparison.
func annotation(op cet.Op, e RawEdge, id int, text string, args Args) cet.Element {
	if args.IgnoreNotesText {
		text = ""
	}
	return cet.Element{
		Op: op, Thread: e.Thread, Line: e.Line,
		Source: text, Name: text, ID: id,
	}
}

// isAssignment reports whether a statement source is an assignment: it must
// contain an '=' that is not part of a comparison operator.
func isAssignment(source string) bool {
	for i := 0; i < len(source); i++ {
		if source[i] != '=' {
			continue
		}
		if i > 0 && strings.ContainsRune("=!<>", rune(source[i-1])) {
			continue
		}
		if i+1 < len(source) && source[i+1] == '=' {
			i++ // skip "=="
			continue
		}
		return true
	}
	return false
}

// #endregion expand

// #region filters

func filterOps(seq []cet.Element, ops ...cet.Op) []cet.Element {
	keep := map[cet.Op]bool{}
	for _, op := range ops {
		keep[op] = true
	}
	var out []cet.Element
	for _, e := range seq {
		if keep[e.Op] {
			out = append(out, e)
		}
	}
	return out
}

func filterNotes(seq []cet.Element, args Args) []cet.Element {
	var out []cet.Element
	for _, e := range seq {
		if e.Op == cet.OpNote && args.UseNotes {
			out = append(out, e)
		}
		if e.Op == cet.OpWarn && args.UseWarns {
			out = append(out, e)
		}
	}
	return out
}

// #endregion filters

// #region model-functions

// collapseToModelFunctions keeps calls and returns of the interesting
// function set, collapsing all other frames, plus note/warn elements per the
// use flags. Per-thread call stacks keep the nesting invariant intact: a
// dropped call drops its matching return.
func collapseToModelFunctions(raw RawTrace, full []cet.Element, args Args) []cet.Element {
	model := modelFunctionSet(raw, args)

	type frame struct {
		name string
		kept bool
	}
	stacks := map[int][]frame{}
	var out []cet.Element

	for _, e := range full {
		switch e.Op {
		case cet.OpCall:
			kept := model[e.Name]
			stacks[e.Thread] = append(stacks[e.Thread], frame{e.Name, kept})
			if kept {
				out = append(out, e)
			}
		case cet.OpReturn:
			stack := stacks[e.Thread]
			if len(stack) == 0 {
				continue // return without call, nothing to close
			}
			top := stack[len(stack)-1]
			stacks[e.Thread] = stack[:len(stack)-1]
			if top.kept {
				out = append(out, cet.Element{
					Op: cet.OpReturn, Thread: e.Thread, Line: e.Line,
					Name: top.name, ID: e.ID,
				})
			}
		case cet.OpNote:
			if args.UseNotes {
				out = append(out, e)
			}
		case cet.OpWarn:
			if args.UseWarns {
				out = append(out, e)
			}
		}
	}
	return out
}

// modelFunctionSet derives the interesting set: functions whose frames carry
// note or warn annotations (per the use flags), plus the additional list,
// minus the filtered list.
func modelFunctionSet(raw RawTrace, args Args) map[string]bool {
	model := map[string]bool{}
	stacks := map[int][]string{}
	mark := func(thread int) {
		if stack := stacks[thread]; len(stack) > 0 {
			model[stack[len(stack)-1]] = true
		}
	}
	for _, e := range raw.Edges {
		if e.Enter != nil {
			if name, err := raw.funcName(*e.Enter); err == nil {
				stacks[e.Thread] = append(stacks[e.Thread], name)
			}
		}
		if (e.Note != "" && args.UseNotes) || (e.Warn != "" && args.UseWarns) {
			mark(e.Thread)
		}
		if e.Return != nil {
			if stack := stacks[e.Thread]; len(stack) > 0 {
				stacks[e.Thread] = stack[:len(stack)-1]
			}
		}
	}
	for _, name := range args.AdditionalModelFunctions {
		model[name] = true
	}
	for _, name := range args.FilteredModelFunctions {
		delete(model, name)
	}
	return model
}

// #endregion model-functions
