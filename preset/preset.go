// Package preset builds retry strategies from declarative configuration, so
// that backoff tuning can live in config files instead of code.
//
// A preset file is a YAML map of named strategy configs:
//
//	upstream:
//	  kind: exponential
//	  initial_delay: 100ms
//	  multiplier: 2.0
//	  max_delay: 5s
//	  max_attempts: 4
//	  jitter: equal
//	poller:
//	  kind: infinite
//	  delay: 30s
package preset

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aponysus/redrive/strategy"
)

// Duration is a time.Duration that unmarshals from strings like "250ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("preset: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the serialized form of one strategy.
type Config struct {
	Kind string `yaml:"kind"`

	// Exponential fields.
	InitialDelay Duration `yaml:"initial_delay"`
	Multiplier   float64  `yaml:"multiplier"`
	MaxDelay     Duration `yaml:"max_delay"`
	MaxAttempts  int      `yaml:"max_attempts"`

	// Linear and infinite field.
	Delay Duration `yaml:"delay"`

	// Jitter optionally wraps the strategy: "full" or "equal".
	Jitter string `yaml:"jitter"`
}

// Build constructs the strategy described by c. Validation errors from the
// strategy constructors pass through as *strategy.ConfigError.
func (c Config) Build() (strategy.Strategy, error) {
	var (
		s   strategy.Strategy
		err error
	)

	switch c.Kind {
	case "exponential":
		opts := []strategy.ExponentialOption{}
		if c.InitialDelay != 0 {
			opts = append(opts, strategy.WithInitialDelay(time.Duration(c.InitialDelay)))
		}
		if c.Multiplier != 0 {
			opts = append(opts, strategy.WithMultiplier(c.Multiplier))
		}
		if c.MaxDelay != 0 {
			opts = append(opts, strategy.WithMaxDelay(time.Duration(c.MaxDelay)))
		}
		if c.MaxAttempts != 0 {
			opts = append(opts, strategy.WithMaxAttempts(c.MaxAttempts))
		}
		s, err = strategy.NewExponential(opts...)
	case "linear":
		s, err = strategy.NewLinear(time.Duration(c.Delay), c.MaxAttempts)
	case "infinite":
		s, err = strategy.NewInfinite(time.Duration(c.Delay))
	default:
		return nil, fmt.Errorf("preset: unknown strategy kind %q", c.Kind)
	}
	if err != nil {
		return nil, err
	}

	if c.Jitter != "" {
		s, err = strategy.NewJittered(s, strategy.JitterKind(c.Jitter))
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Parse decodes a preset file into named strategies.
func Parse(data []byte) (map[string]strategy.Strategy, error) {
	var configs map[string]Config
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("preset: parse: %w", err)
	}

	strategies := make(map[string]strategy.Strategy, len(configs))
	for name, cfg := range configs {
		s, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		strategies[name] = s
	}
	return strategies, nil
}

// Load reads and parses the preset file at path.
func Load(path string) (map[string]strategy.Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	return Parse(data)
}
