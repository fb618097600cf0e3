package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a comparison scenario fixture.
// EditedText, when present, is a pretty-printed trace with human edits; each
// case compares it (or, when absent, the conversion itself) against the
// conversion of the raw trace.
type Fixture struct {
	Description string          `json:"description"`
	RawTrace    json.RawMessage `json:"raw_trace"`
	EditedText  string          `json:"edited_text,omitempty"`
	Cases       []FixtureCase   `json:"cases"`
}

// FixtureCase is one convert-and-compare expectation.
type FixtureCase struct {
	CaseID             string                 `json:"case_id"`
	ConversionFunction string                 `json:"conversion_function"`
	Args               map[string]interface{} `json:"args,omitempty"`
	ComparisonFunction string                 `json:"comparison_function"`
	Threshold          float64                `json:"threshold"`
	ExpectEquivalent   bool                   `json:"expect_equivalent"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.RawTrace) == 0 {
		return nil, fmt.Errorf("fixture %s: missing raw_trace", path)
	}
	return &f, nil
}

// #endregion fixture-loader
