package convert

import (
	"encoding/json"
	"errors"
	"fmt"
)

// #region errors

// ErrMalformedTrace marks a raw trace missing required structural data.
var ErrMalformedTrace = errors.New("malformed error trace")

// #endregion errors

// #region raw-types

// RawEdge is one edge of the verifier witness. An edge either enters a
// function, returns from one, assumes a condition, or carries a plain
// statement; note and warn annotations may accompany any of those.
type RawEdge struct {
	Thread     int    `json:"thread"`
	Line       int    `json:"start line"`
	Source     string `json:"source,omitempty"`
	Enter      *int   `json:"enter,omitempty"`
	Return     *int   `json:"return,omitempty"`
	Condition  *bool  `json:"condition,omitempty"`
	Assumption string `json:"assumption,omitempty"`
	Note       string `json:"note,omitempty"`
	Warn       string `json:"warn,omitempty"`
}

// RawTrace is the tool-specific error trace as produced by the verifier.
type RawTrace struct {
	Files []string  `json:"files"`
	Funcs []string  `json:"funcs"`
	Edges []RawEdge `json:"edges"`
}

// #endregion raw-types

// #region decode

// DecodeRaw parses and validates raw error trace content.
func DecodeRaw(data []byte) (RawTrace, error) {
	var raw RawTrace
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawTrace{}, fmt.Errorf("%w: %v", ErrMalformedTrace, err)
	}
	if raw.Edges == nil {
		return RawTrace{}, fmt.Errorf("%w: missing edges", ErrMalformedTrace)
	}
	for i, e := range raw.Edges {
		if e.Enter != nil {
			if _, err := raw.funcName(*e.Enter); err != nil {
				return RawTrace{}, fmt.Errorf("edge %d: %w", i, err)
			}
		}
		if e.Return != nil {
			if _, err := raw.funcName(*e.Return); err != nil {
				return RawTrace{}, fmt.Errorf("edge %d: %w", i, err)
			}
		}
	}
	return raw, nil
}

func (t RawTrace) funcName(idx int) (string, error) {
	if idx < 0 || idx >= len(t.Funcs) {
		return "", fmt.Errorf("%w: function index %d out of range", ErrMalformedTrace, idx)
	}
	return t.Funcs[idx], nil
}

// #endregion decode
