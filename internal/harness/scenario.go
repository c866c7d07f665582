package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a compiler conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE constraint files, relative to the scenario file.
	Specs []string `yaml:"specs,omitempty"`

	// Source is inline CUE compiled after Specs.
	Source string `yaml:"source,omitempty"`

	// Assertions are checked against the compiled rules.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of the compilation.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Constraint is the qualified name ("package/name") of the rule under
	// test. Required by every rule-level assertion.
	Constraint string `yaml:"constraint,omitempty"`

	// Count is the expected number of rules (rule_count).
	Count int `yaml:"count,omitempty"`

	// Arity is the expected rule arity (arity).
	Arity int `yaml:"arity,omitempty"`

	// Kinds are the expected item kinds (item_kinds).
	Kinds []string `yaml:"kinds,omitempty"`

	// Names are the expected item names (item_names) or consequence
	// references (outputs).
	Names []string `yaml:"names,omitempty"`

	// Text must occur in the rendered rule (rendered_contains).
	Text string `yaml:"text,omitempty"`

	// Code is the expected validation error code (validation_error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertRuleCount        = "rule_count"
	AssertArity            = "arity"
	AssertItemKinds        = "item_kinds"
	AssertItemNames        = "item_names"
	AssertOutputs          = "outputs"
	AssertRenderedContains = "rendered_contains"
	AssertValidationError  = "validation_error"
)

// LoadScenario reads and parses a scenario YAML file.
// Relative spec paths are resolved against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) {
			scenario.Specs[i] = filepath.Join(base, specPath)
		}
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML without resolving or checking spec
// paths.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 && s.Source == "" {
		return fmt.Errorf("specs or source is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRuleCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for rule_count", index)
		}
		return nil
	case AssertValidationError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for validation_error", index)
		}
		return nil
	case AssertArity, AssertItemKinds, AssertItemNames, AssertOutputs, AssertRenderedContains:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Constraint == "" {
		return fmt.Errorf("assertions[%d]: constraint is required for %s", index, a.Type)
	}

	switch a.Type {
	case AssertArity:
		if a.Arity < 1 || a.Arity > 4 {
			return fmt.Errorf("assertions[%d]: arity must be between 1 and 4", index)
		}
	case AssertItemKinds:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for item_kinds", index)
		}
	case AssertItemNames, AssertOutputs:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for %s", index, a.Type)
		}
	case AssertRenderedContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for rendered_contains", index)
		}
	}

	return nil
}
