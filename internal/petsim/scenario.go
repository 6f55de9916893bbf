package petsim

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	KindDog = "dog"
	KindCat = "cat"

	defaultAppetite = 40
)

//go:embed default.yaml
var defaultScenario []byte

// Scenario lists the pets living in the simulation and the events published to them.
type Scenario struct {
	Pets  []PetSpec `yaml:"pets"`
	Steps []Step    `yaml:"steps"`
}

type PetSpec struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Appetite int    `yaml:"appetite"`
}

// Step publishes exactly one event: either Food or Sleep.
type Step struct {
	Food  *int `yaml:"food"`
	Sleep *int `yaml:"sleep"`
}

// DefaultScenario returns the scenario bundled with the binary.
func DefaultScenario() (*Scenario, error) {
	return ParseScenario(bytes.NewReader(defaultScenario))
}

// LoadScenario reads a scenario file. An empty path loads the default scenario.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return DefaultScenario()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario %s: %w", path, err)
	}
	defer f.Close()

	s, err := ParseScenario(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s: %w", path, err)
	}

	return s, nil
}

// ParseScenario decodes and validates a YAML scenario. Unknown fields are rejected.
func ParseScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

func (s *Scenario) validate() error {
	names := make(map[string]struct{}, len(s.Pets))
	for i := range s.Pets {
		p := &s.Pets[i]
		if p.Name == "" {
			return fmt.Errorf("pet %d has no name", i)
		}
		if _, ok := names[p.Name]; ok {
			return fmt.Errorf("pet %q listed twice", p.Name)
		}
		names[p.Name] = struct{}{}

		switch p.Kind {
		case KindDog:
		case KindCat:
			if p.Appetite < 0 {
				return fmt.Errorf("cat %q has negative appetite", p.Name)
			}
			if p.Appetite == 0 {
				p.Appetite = defaultAppetite
			}
		default:
			return fmt.Errorf("pet %q has unknown kind %q", p.Name, p.Kind)
		}
	}

	for i, step := range s.Steps {
		if (step.Food == nil) == (step.Sleep == nil) {
			return fmt.Errorf("step %d must set exactly one of food or sleep", i)
		}
	}

	return nil
}
