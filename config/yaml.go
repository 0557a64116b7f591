// Copyright (C) 2024 jsonshiatsu authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// fileConfig mirrors ParseConfig with YAML/JSON struct tags so callers
// can check in a config.yaml (or config.json, since sigs.k8s.io/yaml
// is a thin YAML-to-JSON layer) alongside their service rather than
// constructing a ParseConfig literal in Go.
type fileConfig struct {
	Preset    string   `json:"preset"`
	Limits    fileLimits `json:"limits"`
	Toggles   Toggles  `json:"toggles"`
	Behavior  Behavior `json:"behavior"`
	Reporting Reporting `json:"reporting"`
}

type fileLimits struct {
	MaxInputSize               int `json:"maxInputSize"`
	MaxStringLength            int `json:"maxStringLength"`
	MaxNumberLength            int `json:"maxNumberLength"`
	MaxPreprocessingIterations int `json:"maxPreprocessingIterations"`
	MaxNestingDepth            int `json:"maxNestingDepth"`
	MaxObjectKeys              int `json:"maxObjectKeys"`
	MaxArrayItems              int `json:"maxArrayItems"`
	MaxTotalItems              int `json:"maxTotalItems"`
}

// LoadYAML reads a ParseConfig from a YAML (or JSON, which is valid
// YAML) document. An empty or absent "preset" field starts from the
// Aggressive preset before the document's fields are overlaid, since
// that matches Loads' own zero-value-config default.
func LoadYAML(data []byte) (ParseConfig, error) {
	var head fileConfig
	if err := yaml.Unmarshal(data, &head); err != nil {
		return ParseConfig{}, fmt.Errorf("jsonshiatsu/config: parsing config document: %w", err)
	}
	var base ParseConfig
	switch head.Preset {
	case "", "aggressive":
		base = Aggressive()
	case "conservative":
		base = Conservative()
	default:
		return ParseConfig{}, fmt.Errorf("jsonshiatsu/config: unknown preset %q", head.Preset)
	}

	// prefill from the chosen preset so fields the document leaves out
	// keep that preset's values
	var fc fileConfig
	fc.Toggles = base.Toggles
	fc.Behavior = base.Behavior
	fc.Reporting = base.Reporting
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return ParseConfig{}, fmt.Errorf("jsonshiatsu/config: parsing config document: %w", err)
	}

	cfg := base
	cfg.Toggles = fc.Toggles
	cfg.Behavior = fc.Behavior
	cfg.Reporting = fc.Reporting
	if fc.Limits != (fileLimits{}) {
		cfg.Limits.MaxInputSize = fc.Limits.MaxInputSize
		cfg.Limits.MaxStringLength = fc.Limits.MaxStringLength
		cfg.Limits.MaxNumberLength = fc.Limits.MaxNumberLength
		cfg.Limits.MaxPreprocessingIterations = fc.Limits.MaxPreprocessingIterations
		cfg.Limits.MaxNestingDepth = fc.Limits.MaxNestingDepth
		cfg.Limits.MaxObjectKeys = fc.Limits.MaxObjectKeys
		cfg.Limits.MaxArrayItems = fc.Limits.MaxArrayItems
		cfg.Limits.MaxTotalItems = fc.Limits.MaxTotalItems
	}
	return cfg.Resolve(), nil
}

// LoadYAMLFile reads and parses a config file from path.
func LoadYAMLFile(path string) (ParseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseConfig{}, fmt.Errorf("jsonshiatsu/config: reading %s: %w", path, err)
	}
	return LoadYAML(data)
}
