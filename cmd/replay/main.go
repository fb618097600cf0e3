package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/trace-mea/internal/compare"
	"github.com/danielpatrickdp/trace-mea/internal/config"
	"github.com/danielpatrickdp/trace-mea/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to scenario fixture JSON")
	configPath := flag.String("config", "", "path to TOML settings file")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/scenario.json [--config mea.toml]")
		os.Exit(2)
	}

	cfg := compare.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load settings: %v\n", err)
			os.Exit(2)
		}
		cfg = loaded.CompareConfig()
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(2)
	}

	results, err := replay.Replay(f, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(2)
	}

	os.Exit(printComparison(f.Description, results))
}

// #endregion main

// #region output

// printComparison outputs a comparison table and returns the exit code.
func printComparison(description string, results []replay.Result) int {
	if description != "" {
		fmt.Printf("%s\n\n", description)
	}
	fmt.Printf("%-16s| %-10s| %-12s| %-12s| %s\n", "Case", "Similarity", "Expected", "Got", "Match")
	fmt.Printf("%-16s+%-11s+%-13s+%-13s+%s\n",
		"----------------", "-----------", "-------------", "-------------", "------")

	for _, r := range results {
		match := "DIFF"
		if r.Match() {
			match = "OK"
		}
		fmt.Printf("%-16s| %9.2f%%| %-12s| %-12s| %s\n",
			r.CaseID, r.Similarity*100, verdict(r.Expected), verdict(r.Equivalent), match)
	}

	summary := replay.Summarize(results)
	diverge := summary.Total - summary.Matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", summary.Total, summary.Matches, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}

func verdict(equivalent bool) string {
	if equivalent {
		return "equivalent"
	}
	return "different"
}

// #endregion output
