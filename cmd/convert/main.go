package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/trace-mea/internal/archive"
	"github.com/danielpatrickdp/trace-mea/internal/cache"
	"github.com/danielpatrickdp/trace-mea/internal/cet"
	"github.com/danielpatrickdp/trace-mea/internal/config"
	"github.com/danielpatrickdp/trace-mea/internal/convert"
	"github.com/danielpatrickdp/trace-mea/internal/mea"
	"github.com/danielpatrickdp/trace-mea/internal/pretty"
)

// #region main

func main() {
	tracePath := flag.String("trace", "", "path to raw error trace (JSON file or report archive)")
	function := flag.String("function", "", "conversion function (default from settings)")
	argsJSON := flag.String("args", "", "conversion arguments as a JSON object")
	prettyOut := flag.Bool("pretty", false, "print the human-editable rendering instead of JSON")
	configPath := flag.String("config", "", "path to TOML settings file")
	dbPath := flag.String("db", "", "path to conversion cache database")
	reportID := flag.String("report", "", "report id for cache keying (requires --db)")
	flag.Parse()

	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "usage: convert --trace path/to/error-trace.json [--function name] [--args json] [--pretty] [--config mea.toml] [--db cache.db --report id]")
		os.Exit(2)
	}

	if err := run(*tracePath, *function, *argsJSON, *prettyOut, *configPath, *dbPath, *reportID); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(tracePath, function, argsJSON string, prettyOut bool, configPath, dbPath, reportID string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if function == "" {
		function = cfg.ConversionFunction
	}
	fn, err := convert.ParseFunction(function)
	if err != nil {
		return err
	}

	args := cfg.Args()
	if argsJSON != "" {
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
			return fmt.Errorf("parse --args: %w", err)
		}
		args, err = convert.ParseArgs(raw)
		if err != nil {
			return err
		}
	}

	rawBytes, err := archive.ReadErrorTrace(tracePath)
	if err != nil {
		return err
	}

	var seq []cet.Element
	if dbPath != "" && reportID != "" {
		store, err := cache.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		seq, err = mea.GetOrConvert(literalSource{rawBytes}, store, reportID, fn, args)
		if err != nil {
			return err
		}
	} else {
		raw, err := convert.DecodeRaw(rawBytes)
		if err != nil {
			return err
		}
		seq, err = convert.Convert(raw, fn, args)
		if err != nil {
			return err
		}
	}

	if prettyOut {
		text, diags := pretty.Print(seq)
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "warning: %s\n", d.Message)
		}
		fmt.Print(text)
		return nil
	}

	payload, err := cet.Dump(seq)
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}

// literalSource serves already-loaded raw trace bytes for any report id.
type literalSource struct {
	data []byte
}

func (s literalSource) RawTrace(string) ([]byte, error) {
	return s.data, nil
}

// #endregion run
