package replay

import (
	"fmt"

	"github.com/danielpatrickdp/trace-mea/internal/cet"
	"github.com/danielpatrickdp/trace-mea/internal/compare"
	"github.com/danielpatrickdp/trace-mea/internal/convert"
	"github.com/danielpatrickdp/trace-mea/internal/mea"
	"github.com/danielpatrickdp/trace-mea/internal/pretty"
)

// #region types

// Result captures the outcome of replaying one fixture case.
type Result struct {
	CaseID     string
	Similarity float64
	Equivalent bool
	Expected   bool
}

// Match reports whether the replayed verdict agrees with the expectation.
func (r Result) Match() bool {
	return r.Equivalent == r.Expected
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total   int
	Matches int
}

// #endregion types

// #region replay

// Replay runs every case of a fixture through the convert/print/parse/compare
// pipeline entirely in-memory.
func Replay(f *Fixture, cfg compare.Config) ([]Result, error) {
	raw, err := convert.DecodeRaw(f.RawTrace)
	if err != nil {
		return nil, err
	}

	var edited []cet.Element
	if f.EditedText != "" {
		edited, err = pretty.Parse(f.EditedText)
		if err != nil {
			return nil, fmt.Errorf("parse edited text: %w", err)
		}
	}

	results := make([]Result, 0, len(f.Cases))
	for _, c := range f.Cases {
		convFn, err := convert.ParseFunction(c.ConversionFunction)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.CaseID, err)
		}
		cmpFn, err := compare.ParseFunction(c.ComparisonFunction)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.CaseID, err)
		}
		args, err := convert.ParseArgs(c.Args)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.CaseID, err)
		}

		seq, err := convert.Convert(raw, convFn, args)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.CaseID, err)
		}

		reference := edited
		if reference == nil {
			// No edited text: the conversion is compared against its own
			// round-tripped rendering, a regression of the printer/parser
			// and comparator together.
			reference = seq
		}
		equivalent, similarity, err := mea.CompareEdited(reference, seq, cmpFn, c.Threshold, cfg)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.CaseID, err)
		}

		results = append(results, Result{
			CaseID:     c.CaseID,
			Similarity: similarity,
			Equivalent: equivalent,
			Expected:   c.ExpectEquivalent,
		})
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Match() {
			s.Matches++
		}
	}
	return s
}

// #endregion replay
