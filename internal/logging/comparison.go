package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-comparison
// LogComparison writes a comparison provenance entry to the comparison_log table.
func LogComparison(db *sql.DB, entry ComparisonEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO comparison_log (first_report, second_report, conversion, comparison, similarity, equivalent, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.FirstReport,
		entry.SecondReport,
		entry.Conversion,
		entry.Comparison,
		entry.Similarity,
		boolToInt(entry.Equivalent),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log comparison: %w", err)
	}
	return nil
}
// #endregion log-comparison

// #region list-comparisons
// ListComparisons returns the most recent comparison log entries.
func ListComparisons(db *sql.DB, limit int) ([]ComparisonEntry, error) {
	rows, err := db.Query(
		`SELECT first_report, second_report, conversion, comparison, similarity, equivalent, reason, created_at
		 FROM comparison_log ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	defer rows.Close()

	var entries []ComparisonEntry
	for rows.Next() {
		var e ComparisonEntry
		var equivalent int
		var reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.FirstReport, &e.SecondReport, &e.Conversion, &e.Comparison,
			&e.Similarity, &equivalent, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Equivalent = equivalent != 0
		if reason.Valid {
			e.Reason = reason.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion list-comparisons

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
// #endregion helpers
