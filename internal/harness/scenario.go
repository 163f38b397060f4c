package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/testutil"
)

// Scenario defines an addition scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Add gives the two operands of the initial network.
	Add AddSpec `yaml:"add"`

	// Expect is the value the initial normal form must decode to.
	// If nil, the initial value is not checked.
	Expect *uint64 `yaml:"expect,omitempty"`

	// Malformed lists extra records inserted into the initial network.
	Malformed []RawRecord `yaml:"malformed,omitempty"`

	// Steps are applied in order, one revision each.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the run as a whole.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// AddSpec holds the operands of an addition.
type AddSpec struct {
	Left  int `yaml:"left"`
	Right int `yaml:"right"`
}

// Step is one operand edit.
type Step struct {
	// Edit is one of decrement_left, decrement_right, increment_left,
	// increment_right.
	Edit string `yaml:"edit"`

	// Expect is the value the normal form must decode to after the edit.
	Expect *uint64 `yaml:"expect,omitempty"`
}

// Edit names.
const (
	EditDecrementLeft  = "decrement_left"
	EditDecrementRight = "decrement_right"
	EditIncrementLeft  = "increment_left"
	EditIncrementRight = "increment_right"
)

// RawRecord is a record given by sequential id numbers.
type RawRecord struct {
	Addr uint64   `yaml:"addr"`
	Kind string   `yaml:"kind"`
	Refs []uint64 `yaml:"refs,omitempty"`
}

// Node converts the raw record into a record over testutil.ID ids.
func (r RawRecord) Node() (ir.Node, error) {
	tag, err := ir.ParseKindTag(r.Kind)
	if err != nil {
		return ir.Node{}, err
	}
	if len(r.Refs) != tag.Arity() {
		return ir.Node{}, fmt.Errorf("%s takes %d refs, got %d", tag, tag.Arity(), len(r.Refs))
	}
	kind := ir.Kind{Tag: tag}
	for i, ref := range r.Refs {
		kind.Ports[i] = testutil.ID(ref)
	}
	return ir.At(testutil.ID(r.Addr), kind), nil
}

// Assertion validates a finished run.
type Assertion struct {
	// Type is one of rule_count, anomaly_count, live_count, revision_count.
	Type string `yaml:"type"`

	// Rule is the rule name (used by rule_count).
	Rule string `yaml:"rule,omitempty"`

	// Count is the expected number.
	Count int `yaml:"count"`
}

// Assertion type constants.
const (
	AssertRuleCount     = "rule_count"
	AssertAnomalyCount  = "anomaly_count"
	AssertLiveCount     = "live_count"
	AssertRevisionCount = "revision_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
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

	if s.Add.Left < 0 || s.Add.Right < 0 {
		return fmt.Errorf("add: operands must be non-negative")
	}

	for i, r := range s.Malformed {
		if _, err := r.Node(); err != nil {
			return fmt.Errorf("malformed[%d]: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		switch step.Edit {
		case EditDecrementLeft, EditDecrementRight, EditIncrementLeft, EditIncrementRight:
		case "":
			return fmt.Errorf("steps[%d]: edit is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown edit %q", i, step.Edit)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
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
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for rule_count", index)
		}
	case AssertAnomalyCount, AssertLiveCount, AssertRevisionCount:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}

	return nil
}
