package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/trace-mea/internal/compare"
	"github.com/danielpatrickdp/trace-mea/internal/convert"
)

func TestDefaultSettings(t *testing.T) {
	cfg := Default()

	if cfg.ConversionFunction != string(convert.DefaultFunction) {
		t.Fatalf("unexpected conversion function %s", cfg.ConversionFunction)
	}
	if cfg.ComparisonFunction != string(compare.DefaultFunction) {
		t.Fatalf("unexpected comparison function %s", cfg.ComparisonFunction)
	}
	if cfg.SimilarityThreshold != compare.DefaultSimilarityThreshold {
		t.Fatalf("unexpected threshold %v", cfg.SimilarityThreshold)
	}
	if !cfg.UseNotes || !cfg.UseWarns || cfg.IgnoreNotesText {
		t.Fatalf("unexpected note settings %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mea.toml")
	content := `
conversion_function = "call_tree"
comparison_function = "include_partial"
similarity_threshold = 85.0
error_tolerance = 0.2
filtered_model_functions = ["main"]
use_warns = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConversionFunction != "call_tree" || cfg.ComparisonFunction != "include_partial" {
		t.Fatalf("unexpected functions %+v", cfg)
	}
	if cfg.SimilarityThreshold != 85.0 || cfg.ErrorTolerance != 0.2 {
		t.Fatalf("unexpected tuning %+v", cfg)
	}
	if len(cfg.FilteredModelFunctions) != 1 || cfg.FilteredModelFunctions[0] != "main" {
		t.Fatalf("unexpected filter list %v", cfg.FilteredModelFunctions)
	}
	if cfg.UseWarns {
		t.Fatal("use_warns override ignored")
	}
	// Settings absent from the file keep their defaults.
	if !cfg.UseNotes {
		t.Fatal("use_notes default lost")
	}
}

func TestLoadRejectsUnknownFunction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mea.toml")
	if err := os.WriteFile(path, []byte(`conversion_function = "fuzzy"`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown conversion function")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mea.toml")
	if err := os.WriteFile(path, []byte(`= broken`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestArgsAccessor(t *testing.T) {
	cfg := Default()
	cfg.AdditionalModelFunctions = []string{"probe"}
	cfg.IgnoreNotesText = true

	args := cfg.Args()
	if len(args.AdditionalModelFunctions) != 1 || args.AdditionalModelFunctions[0] != "probe" {
		t.Fatalf("unexpected args %+v", args)
	}
	if !args.UseNotes || !args.UseWarns || !args.IgnoreNotesText {
		t.Fatalf("unexpected flags %+v", args)
	}
}

func TestCompareConfigAccessor(t *testing.T) {
	cfg := Default()
	cfg.ErrorTolerance = 0.25

	if got := cfg.CompareConfig().ErrorTolerance; got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}
