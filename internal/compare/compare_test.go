package compare

import (
	"testing"

	"github.com/danielpatrickdp/trace-mea/internal/cet"
)

func call(name string) cet.Element {
	return cet.Element{Op: cet.OpCall, Name: name}
}

func ret(name string) cet.Element {
	return cet.Element{Op: cet.OpReturn, Name: name}
}

func note(text string) cet.Element {
	return cet.Element{Op: cet.OpNote, Name: text, Source: text}
}

func TestParseFunctionKnownNames(t *testing.T) {
	for _, fi := range Functions() {
		fn, err := ParseFunction(string(fi.Name))
		if err != nil {
			t.Fatalf("parse %s: %v", fi.Name, err)
		}
		if fn != fi.Name {
			t.Fatalf("expected %s, got %s", fi.Name, fn)
		}
	}
}

func TestParseFunctionUnknown(t *testing.T) {
	if _, err := ParseFunction("fuzzy"); err == nil {
		t.Fatal("expected error for unknown function")
	}
}

func TestCompareSkipAlwaysMatches(t *testing.T) {
	score, err := Compare([]cet.Element{call("f")}, nil, Skip, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("expected 1.0, got %v", score)
	}
}

func TestCompareEqualIgnoresLinesAndIDs(t *testing.T) {
	a := []cet.Element{
		{Op: cet.OpCall, Thread: 0, Line: 1, Name: "f", ID: 1},
		{Op: cet.OpReturn, Thread: 0, Line: 2, Name: "f", ID: 2},
	}
	b := []cet.Element{
		{Op: cet.OpCall, Thread: 0, Line: 100, Name: "f", ID: 0},
		{Op: cet.OpReturn, Thread: 0, Line: 200, Name: "f", ID: 0},
	}

	score, err := Compare(a, b, Equal, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("expected 1.0, got %v", score)
	}
}

func TestCompareEqualIsStrictOnOrder(t *testing.T) {
	a := []cet.Element{call("f"), call("g")}
	b := []cet.Element{call("g"), call("f")}

	score, err := Compare(a, b, Equal, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 0.0 {
		t.Fatalf("expected 0.0, got %v", score)
	}
}

func TestCompareIncludeIsSymmetricOnSmallSide(t *testing.T) {
	small := []cet.Element{call("f"), ret("f")}
	large := []cet.Element{call("main"), call("f"), ret("f"), ret("main")}

	for _, pair := range [][2][]cet.Element{{small, large}, {large, small}} {
		score, err := Compare(pair[0], pair[1], Include, DefaultConfig())
		if err != nil {
			t.Fatalf("compare: %v", err)
		}
		if score != 1.0 {
			t.Fatalf("expected 1.0, got %v", score)
		}
	}
}

func TestCompareIncludeBinaryFailure(t *testing.T) {
	small := []cet.Element{call("f"), call("missing")}
	large := []cet.Element{call("f"), call("g"), call("h")}

	score, err := Compare(small, large, Include, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 0.0 {
		t.Fatalf("expected 0.0, got %v", score)
	}
}

func TestCompareIncludeWithErrorTolerance(t *testing.T) {
	// 1 of 10 reference elements missing: within the default 0.1 tolerance.
	var small, large []cet.Element
	for i := 0; i < 10; i++ {
		small = append(small, note(string(rune('a'+i))))
	}
	large = append(large, small[:9]...)
	large = append(large, note("x"), note("y"))

	score, err := Compare(small, large, IncludeWithError, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("expected 1.0 within tolerance, got %v", score)
	}
}

func TestCompareIncludeWithErrorBeyondTolerance(t *testing.T) {
	small := []cet.Element{note("a"), note("b"), note("c"), note("d")}
	large := []cet.Element{note("a"), note("b"), note("x"), note("y")}

	score, err := Compare(small, large, IncludeWithError, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 0.5 {
		t.Fatalf("expected matched fraction 0.5, got %v", score)
	}
}

func TestCompareIncludePartial(t *testing.T) {
	small := []cet.Element{call("f"), call("g"), call("h"), call("i")}
	large := []cet.Element{call("f"), call("h"), call("z"), call("w")}

	score, err := Compare(small, large, IncludePartial, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 0.5 {
		t.Fatalf("expected 0.5, got %v", score)
	}
}

func TestCompareIncludePartialOrderedPenalizesReordering(t *testing.T) {
	small := []cet.Element{call("a"), call("b"), call("c")}
	large := []cet.Element{call("c"), call("b"), call("a")}

	unordered, err := Compare(small, large, IncludePartial, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	ordered, err := Compare(small, large, IncludePartialOrdered, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if unordered != 1.0 {
		t.Fatalf("expected full unordered match, got %v", unordered)
	}
	if ordered >= unordered {
		t.Fatalf("ordered score %v should be below unordered %v", ordered, unordered)
	}
}

func TestCompareEmptySmallSideMatches(t *testing.T) {
	large := []cet.Element{call("f")}
	for _, fn := range []Function{Include, IncludeWithError, IncludePartial, IncludePartialOrdered} {
		score, err := Compare(nil, large, fn, DefaultConfig())
		if err != nil {
			t.Fatalf("compare %s: %v", fn, err)
		}
		if score != 1.0 {
			t.Fatalf("%s: expected 1.0 for empty small side, got %v", fn, score)
		}
	}
}

func TestCompareMultisetRespectsMultiplicity(t *testing.T) {
	small := []cet.Element{call("f"), call("f")}
	large := []cet.Element{call("f"), call("g"), call("h")}

	score, err := Compare(small, large, IncludePartial, DefaultConfig())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 0.5 {
		t.Fatalf("expected 0.5, got %v", score)
	}
}

func TestCompareRejectsUnknownFunction(t *testing.T) {
	if _, err := Compare([]cet.Element{call("f")}, []cet.Element{call("f")}, Function("fuzzy"), DefaultConfig()); err == nil {
		t.Fatal("expected error for unknown function")
	}
}

func TestEquivalentThreshold(t *testing.T) {
	cases := []struct {
		score     float64
		threshold float64
		want      bool
	}{
		{1.0, 100, true},
		{0.999, 100, false},
		{0.8, 80, true},
		{0.8, 80.1, false},
		{0.0, 0, true},
	}
	for _, c := range cases {
		if got := Equivalent(c.score, c.threshold); got != c.want {
			t.Fatalf("Equivalent(%v, %v) = %v, want %v", c.score, c.threshold, got, c.want)
		}
	}
}

func TestLCSLength(t *testing.T) {
	a := cet.Project([]cet.Element{call("a"), call("b"), call("c"), call("d")})
	b := cet.Project([]cet.Element{call("b"), call("a"), call("c"), call("d")})

	if got := lcsLength(a, b); got != 3 {
		t.Fatalf("expected lcs 3, got %d", got)
	}
}
