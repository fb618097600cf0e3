package cache

import "time"

// #region entry
// Entry is one cached conversion: the canonical JSON payload for a
// (report, conversion function, canonical args) key.
type Entry struct {
	EntryID   string
	ReportID  string
	Function  string
	Args      string
	Converted []byte
	CreatedAt time.Time
}
// #endregion entry
