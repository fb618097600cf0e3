package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/trace-mea/internal/cache"
	"github.com/danielpatrickdp/trace-mea/internal/cet"
	"github.com/danielpatrickdp/trace-mea/internal/compare"
	"github.com/danielpatrickdp/trace-mea/internal/config"
	"github.com/danielpatrickdp/trace-mea/internal/logging"
	"github.com/danielpatrickdp/trace-mea/internal/mea"
	"github.com/danielpatrickdp/trace-mea/internal/pretty"
)

// #region main

func main() {
	firstPath := flag.String("first", "", "converted trace JSON, or edited pretty text with --edited")
	secondPath := flag.String("second", "", "converted trace JSON to compare against")
	edited := flag.Bool("edited", false, "treat --first as human-edited pretty text")
	function := flag.String("function", "", "comparison function (default from settings)")
	threshold := flag.Float64("threshold", -1, "required match percentage (default from settings)")
	configPath := flag.String("config", "", "path to TOML settings file")
	dbPath := flag.String("db", "", "log the comparison into this cache database")
	firstReport := flag.String("first-report", "", "report id of the first trace (for the log)")
	secondReport := flag.String("second-report", "", "report id of the second trace (for the log)")
	flag.Parse()

	if *firstPath == "" || *secondPath == "" {
		fmt.Fprintln(os.Stderr, "usage: compare --first converted.json --second converted.json [--edited] [--function name] [--threshold pct] [--config mea.toml] [--db cache.db]")
		os.Exit(2)
	}

	equivalent, err := run(*firstPath, *secondPath, *edited, *function, *threshold, *configPath, *dbPath, *firstReport, *secondReport)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if !equivalent {
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(firstPath, secondPath string, edited bool, function string, threshold float64, configPath, dbPath, firstReport, secondReport string) (bool, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return false, err
		}
		cfg = loaded
	}
	if function == "" {
		function = cfg.ComparisonFunction
	}
	fn, err := compare.ParseFunction(function)
	if err != nil {
		return false, err
	}
	if threshold < 0 {
		threshold = cfg.SimilarityThreshold
	}

	first, err := loadTrace(firstPath, edited)
	if err != nil {
		return false, err
	}
	second, err := loadTrace(secondPath, false)
	if err != nil {
		return false, err
	}

	// Edited text lost ids and line numbers in the text format, so the
	// compared side is normalized the same way; converted traces are
	// compared directly.
	var equivalent bool
	var similarity float64
	if edited {
		equivalent, similarity, err = mea.CompareEdited(first, second, fn, threshold, cfg.CompareConfig())
	} else {
		equivalent, similarity, err = mea.CompareConverted(first, second, fn, threshold, cfg.CompareConfig())
	}
	if err != nil {
		return false, err
	}

	verdict := "DIFFERENT"
	if equivalent {
		verdict = "EQUIVALENT"
	}
	fmt.Printf("Function:   %s\n", fn)
	fmt.Printf("Similarity: %.2f%%\n", similarity*100)
	fmt.Printf("Threshold:  %.2f%%\n", threshold)
	fmt.Printf("Verdict:    %s\n", verdict)

	if dbPath != "" {
		store, err := cache.NewStore(dbPath)
		if err != nil {
			return false, err
		}
		defer store.Close()
		err = logging.LogComparison(store.DB(), logging.ComparisonEntry{
			FirstReport:  orPath(firstReport, firstPath),
			SecondReport: orPath(secondReport, secondPath),
			Conversion:   cfg.ConversionFunction,
			Comparison:   string(fn),
			Similarity:   similarity,
			Equivalent:   equivalent,
		})
		if err != nil {
			return false, err
		}
	}
	return equivalent, nil
}

// loadTrace reads a converted trace payload, or parses edited pretty text.
func loadTrace(path string, edited bool) ([]cet.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if edited {
		seq, err := pretty.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return seq, nil
	}
	seq, err := cet.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

func orPath(reportID, path string) string {
	if reportID != "" {
		return reportID
	}
	return path
}

// #endregion run
