package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/danielpatrickdp/trace-mea/internal/compare"
	"github.com/danielpatrickdp/trace-mea/internal/convert"
)

// #region config

// Config holds the default conversion and comparison settings, loadable from
// a TOML file.
type Config struct {
	ConversionFunction  string  `toml:"conversion_function"`
	ComparisonFunction  string  `toml:"comparison_function"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	ErrorTolerance      float64 `toml:"error_tolerance"`

	AdditionalModelFunctions []string `toml:"additional_model_functions"`
	FilteredModelFunctions   []string `toml:"filtered_model_functions"`
	UseNotes                 bool     `toml:"use_notes"`
	UseWarns                 bool     `toml:"use_warns"`
	IgnoreNotesText          bool     `toml:"ignore_notes_text"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ConversionFunction:  string(convert.DefaultFunction),
		ComparisonFunction:  string(compare.DefaultFunction),
		SimilarityThreshold: compare.DefaultSimilarityThreshold,
		ErrorTolerance:      compare.DefaultConfig().ErrorTolerance,
		UseNotes:            true,
		UseWarns:            true,
	}
}

// #endregion config

// #region load

// Load reads a TOML settings file over the defaults and validates the
// function names.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: parse settings: %w", path, err)
	}
	if _, err := convert.ParseFunction(cfg.ConversionFunction); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := compare.ParseFunction(cfg.ComparisonFunction); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// #endregion load

// #region accessors

// Args builds converter arguments from the settings.
func (c Config) Args() convert.Args {
	return convert.Args{
		AdditionalModelFunctions: c.AdditionalModelFunctions,
		FilteredModelFunctions:   c.FilteredModelFunctions,
		UseNotes:                 c.UseNotes,
		UseWarns:                 c.UseWarns,
		IgnoreNotesText:          c.IgnoreNotesText,
	}
}

// CompareConfig builds comparator tuning from the settings.
func (c Config) CompareConfig() compare.Config {
	return compare.Config{ErrorTolerance: c.ErrorTolerance}
}

// #endregion accessors
