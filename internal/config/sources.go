package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one agency's stop registry (a GTFS stops.txt or a GTFS zip).
type Source struct {
	Agency string `yaml:"agency" validate:"required"`
	Path   string `yaml:"path" validate:"required"`
}

// PipelineFile describes a footpath computation run.
type PipelineFile struct {
	Output          string   `yaml:"output"`
	MaxDestinations int      `yaml:"maxDestinations" validate:"gte=0"`
	Sources         []Source `yaml:"sources" validate:"required,min=1,dive"`
}

const (
	DefaultOutput          = "foot_durations.csv"
	DefaultMaxDestinations = 99
)

// LoadPipelineFile reads and validates the YAML run description at path,
// filling defaults for omitted fields.
func LoadPipelineFile(path string) (*PipelineFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline file: read %q: %w", path, err)
	}

	var pf PipelineFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("pipeline file: parse %q: %w", path, err)
	}

	if err := validate.Struct(pf); err != nil {
		return nil, fmt.Errorf("pipeline file: %w", err)
	}

	if pf.Output == "" {
		pf.Output = DefaultOutput
	}
	if pf.MaxDestinations == 0 {
		pf.MaxDestinations = DefaultMaxDestinations
	}

	return &pf, nil
}
