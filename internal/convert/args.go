package convert

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// #region tags

// Argument tags recognized by the converter. List-valued tags accept either
// a JSON array of names or a single comma-separated string.
const (
	TagAdditionalModelFunctions = "additional_model_functions"
	TagFilteredModelFunctions   = "filtered_model_functions"
	TagUseNotes                 = "use_notes"
	TagUseWarns                 = "use_warns"
	TagIgnoreNotesText          = "ignore_notes_text"
)

// #endregion tags

// #region args

// Args holds the options affecting a conversion.
type Args struct {
	AdditionalModelFunctions []string
	FilteredModelFunctions   []string
	UseNotes                 bool
	UseWarns                 bool
	IgnoreNotesText          bool
}

// DefaultArgs returns the converter defaults: notes and warnings are used,
// note text participates in comparison.
func DefaultArgs() Args {
	return Args{UseNotes: true, UseWarns: true}
}

// #endregion args

// #region canonical

// Canonical returns the normalized JSON representation of the arguments,
// suitable as a cache key component: list values sorted and de-duplicated,
// empty lists and default-valued booleans omitted, keys sorted.
func (a Args) Canonical() string {
	m := map[string]interface{}{}
	if add := normalizeList(a.AdditionalModelFunctions); len(add) > 0 {
		m[TagAdditionalModelFunctions] = add
	}
	if fil := normalizeList(a.FilteredModelFunctions); len(fil) > 0 {
		m[TagFilteredModelFunctions] = fil
	}
	if !a.UseNotes {
		m[TagUseNotes] = false
	}
	if !a.UseWarns {
		m[TagUseWarns] = false
	}
	if a.IgnoreNotesText {
		m[TagIgnoreNotesText] = true
	}
	data, _ := json.Marshal(m) // map keys marshal sorted
	return string(data)
}

// normalizeList sorts, de-duplicates and drops empty names.
func normalizeList(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// #endregion canonical

// #region parse-args

// ParseArgs builds Args from a loosely typed option mapping, as supplied by
// CLI flags or fixture files. Unknown tags are rejected.
func ParseArgs(raw map[string]interface{}) (Args, error) {
	args := DefaultArgs()
	for tag, value := range raw {
		switch tag {
		case TagAdditionalModelFunctions:
			list, err := parseList(tag, value)
			if err != nil {
				return Args{}, err
			}
			args.AdditionalModelFunctions = list
		case TagFilteredModelFunctions:
			list, err := parseList(tag, value)
			if err != nil {
				return Args{}, err
			}
			args.FilteredModelFunctions = list
		case TagUseNotes:
			b, err := parseBool(tag, value)
			if err != nil {
				return Args{}, err
			}
			args.UseNotes = b
		case TagUseWarns:
			b, err := parseBool(tag, value)
			if err != nil {
				return Args{}, err
			}
			args.UseWarns = b
		case TagIgnoreNotesText:
			b, err := parseBool(tag, value)
			if err != nil {
				return Args{}, err
			}
			args.IgnoreNotesText = b
		default:
			return Args{}, fmt.Errorf("unknown argument tag %q", tag)
		}
	}
	return args, nil
}

func parseList(tag string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case string:
		return normalizeList(strings.Split(v, ",")), nil
	case []string:
		return normalizeList(v), nil
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("argument %s: expected string list", tag)
			}
			names = append(names, s)
		}
		return normalizeList(names), nil
	}
	return nil, fmt.Errorf("argument %s: expected string list", tag)
}

func parseBool(tag string, value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("argument %s: expected boolean", tag)
}

// #endregion parse-args
