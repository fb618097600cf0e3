package mea

import (
	"github.com/danielpatrickdp/trace-mea/internal/cet"
	"github.com/danielpatrickdp/trace-mea/internal/compare"
	"github.com/danielpatrickdp/trace-mea/internal/convert"
)

// #region result

// AutoEditResult describes the outcome of automatic edited-trace matching.
type AutoEditResult struct {
	Equal        bool
	EditedTrace  []cet.Element
	ConversionFn convert.Function
	Args         convert.Args
	ComparisonFn compare.Function
	Similarity   float64
}

// #endregion result

// #region automatic-editing

// AutomaticEditing reconciles the visually edited rendering of a report's
// error trace with its stored conversions and picks the loosest conversion
// function under which they still match.
//
// Edited note texts are reconciled against the base conversion by element
// id: a note absent from the base cannot be compared against other traces
// and is dropped, a changed note is reverted to the base text. If no note
// survived editing the note-ignoring arguments are dropped as well. The
// comparison function falls back to include_partial_ordered when the visual
// trace diverged structurally from the cached conversion.
func AutomaticEditing(src TraceSource, cache Cache, reportID string, visualRaw []byte, cfg compare.Config) (AutoEditResult, error) {
	fn := convert.DefaultFunction
	args := convert.DefaultArgs()
	args.IgnoreNotesText = true

	base, err := GetOrConvert(src, cache, reportID, fn, args)
	if err != nil {
		return AutoEditResult{}, err
	}
	raw, err := convert.DecodeRaw(visualRaw)
	if err != nil {
		return AutoEditResult{}, err
	}
	visual, err := convert.Convert(raw, fn, args)
	if err != nil {
		return AutoEditResult{}, err
	}

	comparisonFn := compare.DefaultFunction
	if !tracesIdentical(visual, base) {
		comparisonFn = compare.IncludePartialOrdered
	}

	noteChanged := false
	var edited []cet.Element
	for _, elem := range visual {
		if elem.Op != cet.OpNote {
			edited = append(edited, elem)
			continue
		}
		basicNote, found := noteByID(base, elem.ID)
		switch {
		case elem.Name == basicNote && found:
			noteChanged = true
			edited = append(edited, elem)
		case found && basicNote != "":
			// Revert the edited text so the note stays comparable.
			noteChanged = true
			elem.Name = basicNote
			elem.Source = basicNote
			edited = append(edited, elem)
		default:
			// New note, cannot compare with other traces.
		}
	}
	if !noteChanged {
		args = convert.DefaultArgs()
	}

	result := AutoEditResult{
		EditedTrace:  edited,
		ConversionFn: fn,
		Args:         args,
		ComparisonFn: comparisonFn,
	}
	for _, cv := range []convert.Function{convert.ModelFunctions, convert.CallTree} {
		converted, err := GetOrConvert(src, cache, reportID, cv, args)
		if err != nil {
			return AutoEditResult{}, err
		}
		equal, similarity, err := CompareEdited(edited, converted, comparisonFn, compare.DefaultSimilarityThreshold, cfg)
		if err != nil {
			return AutoEditResult{}, err
		}
		result.Equal = equal
		result.Similarity = similarity
		if equal {
			result.ConversionFn = cv
			break
		}
	}
	return result, nil
}

// #endregion automatic-editing

// #region helpers

func tracesIdentical(a, b []cet.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// noteByID finds the base element with the given id and returns its text;
// found is true only when that element is itself a note.
func noteByID(base []cet.Element, id int) (string, bool) {
	for _, e := range base {
		if e.ID == id {
			if e.Op == cet.OpNote {
				return e.Name, true
			}
			return "", false
		}
	}
	return "", false
}

// #endregion helpers
