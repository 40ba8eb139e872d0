package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/relviz/internal/queryir"
)

// Scenario defines a conformance test scenario: a sequence of queries run
// against a fresh catalog, with expectations on each step and assertions on
// the final catalog.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed selects the initial catalog: "bootstrap" (default) or "empty".
	Seed string `yaml:"seed,omitempty"`

	// LegacyDelete runs the scenario with OR-combined DELETE conditions.
	LegacyDelete bool `yaml:"legacy_delete,omitempty"`

	// Lenient runs the scenario with lenient SELECT projection.
	Lenient bool `yaml:"lenient,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final catalog.
	// Supported types: row_count, table_contains, tables
	Assertions []Assertion `yaml:"assertions"`
}

// Seed values.
const (
	SeedBootstrap = "bootstrap"
	SeedEmpty     = "empty"
)

// Step is one query document plus an optional expectation.
type Step struct {
	queryir.Document `yaml:",inline"`

	// Expect validates the step's outcome.
	// If nil, the step must succeed and nothing else is checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Error is the expected error code (e.g. UNKNOWN_TABLE).
	// When set, the step must fail with this code.
	Error string `yaml:"error,omitempty"`

	// Rows is the expected number of result rows.
	Rows *int `yaml:"rows,omitempty"`

	// Affected is the expected number of inserted, updated or deleted rows.
	Affected *int `yaml:"affected,omitempty"`

	// Columns is the expected result column list, in order.
	Columns []string `yaml:"columns,omitempty"`

	// SQL is the expected rendered SQL text.
	SQL string `yaml:"sql,omitempty"`

	// Result lists expected rows in order. Each entry is a subset match;
	// a null entry expects a Null cell.
	Result []map[string]queryir.Literal `yaml:"result,omitempty"`
}

// Assertion validates the final catalog.
type Assertion struct {
	// Type specifies the assertion type:
	// - "row_count": the table has Count rows matching Where
	// - "table_contains": the table has a row matching Row (subset match)
	// - "tables": the catalog holds exactly Names
	Type string `yaml:"type"`

	// Table is the table to inspect (row_count, table_contains).
	Table string `yaml:"table,omitempty"`

	// Where filters rows before counting (row_count).
	// Bare column names refer to Table.
	Where []queryir.ConditionDoc `yaml:"where,omitempty"`

	// Count is the expected number of rows (row_count).
	Count int `yaml:"count,omitempty"`

	// Row holds expected cell values (table_contains).
	Row map[string]queryir.Literal `yaml:"row,omitempty"`

	// Names lists the expected table names (tables).
	Names []string `yaml:"names,omitempty"`
}

// Assertion type constants.
const (
	AssertRowCount      = "row_count"
	AssertTableContains = "table_contains"
	AssertTables        = "tables"
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

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
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

// validateScenario checks that all required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch s.Seed {
	case "", SeedBootstrap, SeedEmpty:
	default:
		return fmt.Errorf("seed must be %q or %q, got %q", SeedBootstrap, SeedEmpty, s.Seed)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one step")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion checks that an assertion has required fields for its type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRowCount:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for row_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertTableContains:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for table_contains", index)
		}
		if len(a.Row) == 0 {
			return fmt.Errorf("assertions[%d]: row is required for table_contains", index)
		}
	case AssertTables:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
