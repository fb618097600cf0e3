package mea

import (
	"fmt"

	"github.com/danielpatrickdp/trace-mea/internal/cet"
	"github.com/danielpatrickdp/trace-mea/internal/compare"
	"github.com/danielpatrickdp/trace-mea/internal/convert"
	"github.com/danielpatrickdp/trace-mea/internal/pretty"
)

// #region interfaces

// TraceSource supplies the raw error trace content for a report.
type TraceSource interface {
	RawTrace(reportID string) ([]byte, error)
}

// Cache stores converted traces keyed by report, conversion function and
// canonical arguments. Lookup's second return value is false on a miss.
type Cache interface {
	Lookup(reportID, function, args string) ([]byte, bool, error)
	Put(reportID, function, args string, converted []byte) error
}

// #endregion interfaces

// #region get-or-convert

// GetOrConvert returns the converted trace for a report, reusing a cached
// conversion when one exists. Conversion is deterministic, so cached
// payloads are always safe to reuse; a failed lookup is treated as a miss
// and a failed store is ignored (the conversion result still stands).
func GetOrConvert(src TraceSource, cache Cache, reportID string, fn convert.Function, args convert.Args) ([]cet.Element, error) {
	key := args.Canonical()

	if cache != nil {
		if payload, ok, err := cache.Lookup(reportID, string(fn), key); err == nil && ok {
			if seq, err := cet.Load(payload); err == nil {
				return seq, nil
			}
		}
	}

	rawBytes, err := src.RawTrace(reportID)
	if err != nil {
		return nil, fmt.Errorf("fetch raw trace: %w", err)
	}
	raw, err := convert.DecodeRaw(rawBytes)
	if err != nil {
		return nil, err
	}
	seq, err := convert.Convert(raw, fn, args)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if payload, err := cet.Dump(seq); err == nil {
			_ = cache.Put(reportID, string(fn), key, payload)
		}
	}
	return seq, nil
}

// #endregion get-or-convert

// #region compare-workflows

// CompareEdited scores an edited trace against a freshly converted one. The
// compared side is round-tripped through print-then-parse first, so both
// sequences lose the fields the text format cannot represent and meet on an
// equal representational footing.
func CompareEdited(edited, compared []cet.Element, fn compare.Function, threshold float64, cfg compare.Config) (bool, float64, error) {
	text, _ := pretty.Print(compared)
	normalized, err := pretty.Parse(text)
	if err != nil {
		return false, 0, fmt.Errorf("normalize compared trace: %w", err)
	}
	score, err := compare.Compare(edited, normalized, fn, cfg)
	if err != nil {
		return false, 0, err
	}
	return compare.Equivalent(score, threshold), score, nil
}

// CompareConverted scores two converted traces directly.
func CompareConverted(a, b []cet.Element, fn compare.Function, threshold float64, cfg compare.Config) (bool, float64, error) {
	score, err := compare.Compare(a, b, fn, cfg)
	if err != nil {
		return false, 0, err
	}
	return compare.Equivalent(score, threshold), score, nil
}

// #endregion compare-workflows
