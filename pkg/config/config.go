// Package config loads and validates pipeline definitions.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"tabprep/pkg/dataprep"
	"tabprep/pkg/pipeline"
)

// EnvPrefix prefixes environment overrides, e.g. TABPREP__OUTPUT=out.csv.
const EnvPrefix = "TABPREP__"

// Step kinds.
const (
	KindSelect = "select"
	KindStrip  = "strip"
)

// Step is one string-to-string transformer of the pipeline.
type Step struct {
	Kind      string `koanf:"kind"`
	Positions []int  `koanf:"positions"`
	Normalize string `koanf:"normalize"`
}

// Config describes one preprocessing run.
type Config struct {
	SchemaVersion string `koanf:"schema_version"`
	Input         string `koanf:"input"`
	Output        string `koanf:"output"`
	Header        bool   `koanf:"header"`
	Delimiter     string `koanf:"delimiter"`
	Encoder       string `koanf:"encoder"`
	Steps         []Step `koanf:"steps"`
}

// Load reads a YAML pipeline file, validates it against the embedded schema,
// then overlays TABPREP__* environment variables (delimiter "__"). The merged
// result goes through Validate, so environment values obey the same rules.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	if err := ValidateDocument(k.Raw()); err != nil {
		return Config{}, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load %s* environment: %w", EnvPrefix, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = "v1"
	}
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
	if c.Encoder == "" {
		c.Encoder = "onehot"
	}
}

// Validate checks what the schema cannot, including values set from the environment.
func (c Config) Validate() error {
	var errs []error
	if c.SchemaVersion != "v1" {
		errs = append(errs, fmt.Errorf("schema_version %q not supported (want v1)", c.SchemaVersion))
	}
	if c.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("delimiter %q must be a single character", c.Delimiter))
	}
	if c.Encoder != "onehot" {
		errs = append(errs, fmt.Errorf("encoder %q not supported", c.Encoder))
	}
	for i, s := range c.Steps {
		switch s.Kind {
		case KindSelect:
			// an empty positions list is a valid projection onto no columns
		case KindStrip:
			if _, _, err := dataprep.ParseNormForm(s.Normalize); err != nil {
				errs = append(errs, fmt.Errorf("steps[%d]: %w", i, err))
			}
		default:
			errs = append(errs, fmt.Errorf("steps[%d]: unknown kind %q", i, s.Kind))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Comma returns the CSV field delimiter.
func (c Config) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Build assembles the configured steps in front of a one-hot encoder.
func (c Config) Build(opts ...dataprep.EncoderOption) (*pipeline.Pipeline[int8], *dataprep.SimpleOneHotEncoder[string], error) {
	steps := make([]pipeline.Step, 0, len(c.Steps))
	for i, s := range c.Steps {
		switch s.Kind {
		case KindSelect:
			steps = append(steps, dataprep.NewPositionalSelector[string](dataprep.SelectorConfig{Positions: s.Positions}))
		case KindStrip:
			form, ok, err := dataprep.ParseNormForm(s.Normalize)
			if err != nil {
				return nil, nil, fmt.Errorf("steps[%d]: %w", i, err)
			}
			var sopts []dataprep.StripOption
			if ok {
				sopts = append(sopts, dataprep.WithNormalization(form))
			}
			steps = append(steps, dataprep.NewStripString(sopts...))
		default:
			return nil, nil, fmt.Errorf("steps[%d]: unknown kind %q: %w", i, s.Kind, ErrInvalid)
		}
	}
	enc := dataprep.NewSimpleOneHotEncoder[string](opts...)
	return pipeline.NewPipeline[int8](enc, steps...), enc, nil
}
