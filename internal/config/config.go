// Package config loads and validates the YAML analysis configuration:
// categorization (standard or cartesian), subsamples, and the weight and
// variation assignment trees. Validation runs before any batch is
// processed and reports every detected issue at once, so a misconfigured
// run is rejected immediately and fixed in one pass.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-facing analysis configuration.
type Config struct {
	// Samples lists the known sample names. When non-empty, bysample
	// scopes and subsample parents are checked against it.
	Samples []string `yaml:"samples"`

	Categories Categories                  `yaml:"categories"`
	Subsamples map[string][]SubsampleEntry `yaml:"subsamples" validate:"dive,dive"`

	Weights    TreeEntry  `yaml:"weights"`
	Variations Variations `yaml:"variations"`
}

// Categories selects either a standard or a cartesian categorization.
// Declaring both is a configuration error; declaring neither yields a
// single all-true "baseline" category.
type Categories struct {
	Standard  []CategoryEntry `yaml:"standard" validate:"dive"`
	Cartesian *CartesianEntry `yaml:"cartesian"`
}

// CategoryEntry names one category and the cut names ANDed for
// membership. An empty cut list is the baseline "no cut" category.
type CategoryEntry struct {
	Name string   `yaml:"name" validate:"required"`
	Cuts []string `yaml:"cuts"`
}

// CartesianEntry declares the cross-product axes and the common
// categories merged alongside them.
type CartesianEntry struct {
	Axes   []AxisEntry     `yaml:"axes" validate:"required,min=1,dive"`
	Common []CategoryEntry `yaml:"common" validate:"dive"`
}

// AxisEntry is one partitioning axis with its ordered labeled bins.
type AxisEntry struct {
	Name string     `yaml:"name" validate:"required"`
	Bins []BinEntry `yaml:"bins" validate:"required,min=1,dive"`
}

// BinEntry labels one cut on an axis.
type BinEntry struct {
	Label string `yaml:"label" validate:"required"`
	Cut   string `yaml:"cut" validate:"required"`
}

// SubsampleEntry names one refinement of its parent sample.
type SubsampleEntry struct {
	Name string   `yaml:"name" validate:"required"`
	Cuts []string `yaml:"cuts"`
}

// ScopeEntry is one level pair of an assignment tree.
type ScopeEntry struct {
	Inclusive  []string            `yaml:"inclusive"`
	ByCategory map[string][]string `yaml:"bycategory"`
}

// TreeEntry is the 4-level additive override structure in YAML form.
type TreeEntry struct {
	Common   ScopeEntry            `yaml:"common"`
	BySample map[string]ScopeEntry `yaml:"bysample"`
}

// Variations scopes the requested weight variations. Only weight-type
// variations are carried by this engine; the identifiers name providers
// whose emitted variations produce varied totals.
type Variations struct {
	Weights TreeEntry `yaml:"weights"`
}

// Parse decodes a YAML configuration. Unknown fields are rejected so
// typos surface at load time rather than silently dropping a scope.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}
