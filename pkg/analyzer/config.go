package analyzer

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/querylimit/query-rate-limiter/pkg/limiter"
)

// Limits maps a field's declared name to its rate limit. The table is built
// once at setup and never mutated by the analyzer.
type Limits map[string]limiter.Spec

// Validate checks every entry for positive threshold and interval.
func (l Limits) Validate() error {
	for name, spec := range l {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("limit for %q: %w", name, err)
		}
	}
	return nil
}

type limitsFile struct {
	Limits map[string]specYAML `yaml:"limits"`
}

type specYAML struct {
	Threshold int `yaml:"threshold"`
	Interval  int `yaml:"interval"`
}

// ParseLimits reads a limits table from YAML. Intervals are in seconds:
//
//	limits:
//	  expensiveField:
//	    threshold: 5
//	    interval: 15
func ParseLimits(r io.Reader) (Limits, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file limitsFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding limits: %w", err)
	}

	limits := make(Limits, len(file.Limits))
	for name, s := range file.Limits {
		limits[name] = limiter.Spec{
			Threshold: s.Threshold,
			Interval:  time.Duration(s.Interval) * time.Second,
		}
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return limits, nil
}

// LoadLimits reads a limits table from a YAML file.
func LoadLimits(path string) (Limits, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLimits(f)
}
