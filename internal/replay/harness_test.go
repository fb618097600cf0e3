package replay

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/trace-mea/internal/compare"
)

const fixtureTrace = `{
	"files": ["test.c"],
	"funcs": ["main", "ldv_assert"],
	"edges": [
		{"thread": 0, "start line": 1, "enter": 0},
		{"thread": 0, "start line": 2, "enter": 1, "note": "reached assert"},
		{"thread": 0, "start line": 3, "warn": "violation"},
		{"thread": 0, "start line": 4, "return": 1},
		{"thread": 0, "start line": 5, "return": 0}
	]
}`

func TestReplaySelfRoundTrip(t *testing.T) {
	f := &Fixture{
		RawTrace: json.RawMessage(fixtureTrace),
		Cases: []FixtureCase{
			{
				CaseID:             "full-equal",
				ConversionFunction: "full",
				ComparisonFunction: "equal",
				Threshold:          compare.DefaultSimilarityThreshold,
				ExpectEquivalent:   true,
			},
			{
				CaseID:             "call-tree-skip",
				ConversionFunction: "call_tree",
				ComparisonFunction: "skip",
				Threshold:          compare.DefaultSimilarityThreshold,
				ExpectEquivalent:   true,
			},
		},
	}

	results, err := Replay(f, compare.DefaultConfig())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Match() {
			t.Fatalf("case %s diverged: %+v", r.CaseID, r)
		}
		if r.Similarity != 1.0 {
			t.Fatalf("case %s: expected similarity 1.0, got %v", r.CaseID, r.Similarity)
		}
	}
}

func TestReplayEditedTextAgainstConversion(t *testing.T) {
	// The edited text keeps only the failing function call, so it is included
	// in the call tree conversion but not equal to it.
	edited := "    2\t|ldv_assert\n    0\t|__ERROR__\n"

	f := &Fixture{
		RawTrace:   json.RawMessage(fixtureTrace),
		EditedText: edited,
		Cases: []FixtureCase{
			{
				CaseID:             "included",
				ConversionFunction: "call_tree",
				ComparisonFunction: "include",
				Threshold:          compare.DefaultSimilarityThreshold,
				ExpectEquivalent:   true,
			},
			{
				CaseID:             "not-equal",
				ConversionFunction: "call_tree",
				ComparisonFunction: "equal",
				Threshold:          compare.DefaultSimilarityThreshold,
				ExpectEquivalent:   false,
			},
		},
	}

	results, err := Replay(f, compare.DefaultConfig())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, r := range results {
		if !r.Match() {
			t.Fatalf("case %s diverged: %+v", r.CaseID, r)
		}
	}
}

func TestReplayRejectsUnknownFunctions(t *testing.T) {
	f := &Fixture{
		RawTrace: json.RawMessage(fixtureTrace),
		Cases: []FixtureCase{
			{CaseID: "bad", ConversionFunction: "fuzzy", ComparisonFunction: "equal"},
		},
	}
	if _, err := Replay(f, compare.DefaultConfig()); err == nil {
		t.Fatal("expected error for unknown conversion function")
	}

	f.Cases[0] = FixtureCase{CaseID: "bad", ConversionFunction: "full", ComparisonFunction: "fuzzy"}
	if _, err := Replay(f, compare.DefaultConfig()); err == nil {
		t.Fatal("expected error for unknown comparison function")
	}
}

func TestReplayRejectsBadEditedText(t *testing.T) {
	f := &Fixture{
		RawTrace:   json.RawMessage(fixtureTrace),
		EditedText: "gibberish\n",
		Cases:      []FixtureCase{{CaseID: "x", ConversionFunction: "full", ComparisonFunction: "equal"}},
	}
	if _, err := Replay(f, compare.DefaultConfig()); err == nil {
		t.Fatal("expected error for unparseable edited text")
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	content := `{
		"description": "smoke",
		"raw_trace": ` + fixtureTrace + `,
		"cases": [
			{"case_id": "c1", "conversion_function": "full", "comparison_function": "equal", "threshold": 100, "expect_equivalent": true}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Description != "smoke" || len(f.Cases) != 1 {
		t.Fatalf("unexpected fixture %+v", f)
	}
	if f.Cases[0].ConversionFunction != "full" || f.Cases[0].Threshold != 100 {
		t.Fatalf("unexpected case %+v", f.Cases[0])
	}
}

func TestLoadFixtureRequiresRawTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := os.WriteFile(path, []byte(`{"cases": []}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected error for missing raw_trace")
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{CaseID: "a", Equivalent: true, Expected: true},
		{CaseID: "b", Equivalent: false, Expected: true},
		{CaseID: "c", Equivalent: false, Expected: false},
	}
	s := Summarize(results)
	if s.Total != 3 || s.Matches != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
}
