package logging

import "time"

// #region comparison-entry
// ComparisonEntry is a single row in the comparison_log table.
type ComparisonEntry struct {
	FirstReport  string
	SecondReport string
	Conversion   string
	Comparison   string
	Similarity   float64
	Equivalent   bool
	Reason       string
	CreatedAt    time.Time
}
// #endregion comparison-entry
