package cet

// #region op

// Op identifies the kind of a converted error trace element.
type Op string

const (
	OpCall   Op = "call"
	OpReturn Op = "return"
	OpAssume Op = "assume"
	OpAssign Op = "assign"
	OpNote   Op = "note"
	OpWarn   Op = "warn"
)

// Valid reports whether the op belongs to the closed element vocabulary.
func (o Op) Valid() bool {
	switch o {
	case OpCall, OpReturn, OpAssume, OpAssign, OpNote, OpWarn:
		return true
	}
	return false
}

// #endregion op

// #region element

// Element is one step of a converted error trace.
// Name is the display name: the function name for call/return, free text for
// note/warn, the statement text for assign. Truth is the assume truth value
// (the condition holds when true, is negated when false) and is meaningful
// only when Op is OpAssume.
// ID correlates elements across different conversions of the same raw trace;
// it is always 0 for elements recovered from pretty-printed text.
type Element struct {
	Op     Op
	Thread int
	Line   int
	Source string
	Name   string
	Truth  bool
	ID     int
}

// #endregion element

// #region comparable

// Comparable is the projection of an element onto the fields that carry
// comparison semantics. Line numbers and ids are display-only and excluded.
type Comparable struct {
	Op     Op
	Thread int
	Name   string
	Truth  bool
	Source string
}

// Comparable returns the comparison projection of the element.
func (e Element) Comparable() Comparable {
	c := Comparable{
		Op:     e.Op,
		Thread: e.Thread,
		Source: e.Source,
	}
	if e.Op == OpAssume {
		c.Truth = e.Truth
	} else {
		c.Name = e.Name
	}
	return c
}

// Project maps a sequence onto its comparison projections.
func Project(seq []Element) []Comparable {
	out := make([]Comparable, len(seq))
	for i, e := range seq {
		out[i] = e.Comparable()
	}
	return out
}

// #endregion comparable
