package cet

import (
	"encoding/json"
	"fmt"
)

// #region marshal

// MarshalJSON emits the stable cache field names: op, thread, line, source,
// display_name, id. display_name is a JSON boolean for assume elements and a
// string otherwise; source is null for call/return, matching the archived
// payload format. Keys come out sorted because the payload is built as a map.
func (e Element) MarshalJSON() ([]byte, error) {
	var display interface{} = e.Name
	if e.Op == OpAssume {
		display = e.Truth
	}
	var source interface{} = e.Source
	if e.Op == OpCall || e.Op == OpReturn {
		source = nil
	}
	return json.Marshal(map[string]interface{}{
		"op":           string(e.Op),
		"thread":       e.Thread,
		"line":         e.Line,
		"source":       source,
		"display_name": display,
		"id":           e.ID,
	})
}

// #endregion marshal

// #region unmarshal

// UnmarshalJSON accepts both boolean and string display names and a null or
// missing source.
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw struct {
		Op      string          `json:"op"`
		Thread  int             `json:"thread"`
		Line    int             `json:"line"`
		Source  *string         `json:"source"`
		Display json.RawMessage `json:"display_name"`
		ID      int             `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode element: %w", err)
	}
	op := Op(raw.Op)
	if !op.Valid() {
		return fmt.Errorf("decode element: unknown op %q", raw.Op)
	}
	*e = Element{
		Op:     op,
		Thread: raw.Thread,
		Line:   raw.Line,
		ID:     raw.ID,
	}
	if raw.Source != nil {
		e.Source = *raw.Source
	}
	if len(raw.Display) > 0 {
		var truth bool
		if err := json.Unmarshal(raw.Display, &truth); err == nil {
			e.Truth = truth
		} else {
			var name string
			if err := json.Unmarshal(raw.Display, &name); err != nil {
				return fmt.Errorf("decode element display name: %w", err)
			}
			e.Name = name
		}
	}
	return nil
}

// #endregion unmarshal

// #region dump-load

// Dump serializes a converted trace into the canonical cache payload:
// UTF-8 JSON array, sorted keys, 4-space indentation.
func Dump(seq []Element) ([]byte, error) {
	if seq == nil {
		seq = []Element{}
	}
	data, err := json.MarshalIndent(seq, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("dump converted trace: %w", err)
	}
	return data, nil
}

// Load parses a canonical cache payload back into a converted trace.
func Load(data []byte) ([]Element, error) {
	var seq []Element
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("load converted trace: %w", err)
	}
	return seq, nil
}

// #endregion dump-load
