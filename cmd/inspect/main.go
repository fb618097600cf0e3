package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/trace-mea/internal/cache"
	"github.com/danielpatrickdp/trace-mea/internal/cet"
	"github.com/danielpatrickdp/trace-mea/internal/logging"
	"github.com/danielpatrickdp/trace-mea/internal/pretty"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to conversion cache database")
	last := flag.Int("last", 20, "show N most recent cache entries")
	entry := flag.String("entry", "", "show single cache entry detail")
	comparisons := flag.Bool("comparisons", false, "list recent comparison log entries instead")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/cache.db [--last N] [--entry id] [--comparisons] [--json]")
		os.Exit(2)
	}

	store, err := cache.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *entry != "":
		err = runDetailMode(store, *entry, *jsonOut)
	case *comparisons:
		err = runComparisonMode(store, *last, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	EntryID   string `json:"entry_id"`
	ReportID  string `json:"report_id"`
	Function  string `json:"function"`
	Args      string `json:"args"`
	Elements  int    `json:"elements"`
	CreatedAt string `json:"created_at"`
}

func runListMode(store *cache.Store, last int, jsonOut bool) error {
	entries, err := store.List(last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no cache entries found")
		return nil
	}

	rows := make([]listRow, len(entries))
	for i, e := range entries {
		elements := -1
		if seq, err := cet.Load(e.Converted); err == nil {
			elements = len(seq)
		}
		rows[i] = listRow{
			EntryID:   e.EntryID,
			ReportID:  e.ReportID,
			Function:  e.Function,
			Args:      e.Args,
			Elements:  elements,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-12s  %-18s  %8s  %-20s  %s\n",
		"Entry", "Report", "Function", "Elements", "Time", "Args")
	fmt.Printf("%-10s+-%-12s+-%-18s+-%8s+-%-20s+-%s\n",
		"----------", "------------", "------------------", "--------", "--------------------", "--------")
	for _, r := range rows {
		fmt.Printf("%-10s  %-12s  %-18s  %8d  %-20s  %s\n",
			shortID(r.EntryID), r.ReportID, r.Function, r.Elements, r.CreatedAt, r.Args)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(store *cache.Store, entryID string, jsonOut bool) error {
	e, err := store.Get(entryID)
	if err != nil {
		return err
	}

	if jsonOut {
		fmt.Println(string(e.Converted))
		return nil
	}

	seq, err := cet.Load(e.Converted)
	if err != nil {
		return err
	}
	text, diags := pretty.Print(seq)

	fmt.Printf("Entry:    %s\n", e.EntryID)
	fmt.Printf("Report:   %s\n", e.ReportID)
	fmt.Printf("Function: %s\n", e.Function)
	fmt.Printf("Args:     %s\n", e.Args)
	fmt.Printf("Created:  %s\n", e.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("\n%s", text)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d.Message)
	}
	return nil
}

// #endregion detail-mode

// #region comparison-mode

func runComparisonMode(store *cache.Store, last int, jsonOut bool) error {
	entries, err := logging.ListComparisons(store.DB(), last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no comparison log entries found")
		return nil
	}

	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-14s  %-14s  %-22s  %10s  %-10s  %s\n",
		"First", "Second", "Comparison", "Similarity", "Verdict", "Time")
	fmt.Printf("%-14s+-%-14s+-%-22s+-%10s+-%-10s+-%s\n",
		"--------------", "--------------", "----------------------", "----------", "----------", "--------------------")
	for _, e := range entries {
		verdict := "different"
		if e.Equivalent {
			verdict = "equivalent"
		}
		fmt.Printf("%-14s  %-14s  %-22s  %9.2f%%  %-10s  %s\n",
			e.FirstReport, e.SecondReport, e.Comparison, e.Similarity*100,
			verdict, e.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion comparison-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
