package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rgehrsitz/ivadual/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of tax configuration and company input files.
// Files ending in .json are read as JSON, everything else as YAML.
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadConfiguration loads a tax configuration file. Values are decoded over
// the default configuration, so a file only needs the entries it changes.
// The result is fully validated, coverage sums included.
func (ip *InputParser) LoadConfiguration(filename string) (*domain.TaxConfiguration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration %s", filename)
	}

	cfg := domain.NewDefaultConfiguration()
	if err := decode(filename, data, &cfg); err != nil {
		return nil, err
	}

	if err := ip.ValidateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadCompany loads the annual figures of a company from a file
func (ip *InputParser) LoadCompany(filename string) (*domain.CompanyInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read company input %s", filename)
	}

	var input domain.CompanyInput
	if err := decode(filename, data, &input); err != nil {
		return nil, err
	}
	if input.Regime != "" {
		if _, err := domain.ParseRegime(string(input.Regime)); err != nil {
			return nil, fmt.Errorf("company input validation failed: %w",
				domain.NewValidationError(domain.RuleUnknownRegime, "%s", err.Error()))
		}
	}
	return &input, nil
}

// SaveConfiguration writes a configuration in the format given by the file extension
func (ip *InputParser) SaveConfiguration(cfg domain.TaxConfiguration, filename string) error {
	if err := ip.ValidateConfiguration(&cfg); err != nil {
		return fmt.Errorf("refusing to save an invalid configuration: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isJSON(filename) {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode configuration")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write configuration %s", filename)
	}
	return nil
}

// ValidateConfiguration validates a loaded configuration
func (ip *InputParser) ValidateConfiguration(cfg *domain.TaxConfiguration) error {
	if cfg == nil {
		return fmt.Errorf("configuration is required")
	}
	if len(cfg.TransitionSchedule) == 0 {
		return domain.NewValidationError(domain.RuleRateRange, "transition schedule must have at least one year")
	}
	return cfg.Validate()
}

func decode(filename string, data []byte, out any) error {
	if isJSON(filename) {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse JSON %s: %w", filename, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML %s: %w", filename, err)
	}
	return nil
}

func isJSON(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}
