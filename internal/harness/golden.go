package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/streamrule/internal/ir"
)

// Snapshot renders the catalog records of a result in catalog order,
// separated by blank lines.
func Snapshot(result *Result) []byte {
	parts := make([]string, len(result.Records))
	for i, rec := range result.Records {
		parts[i] = rec.Rendered
	}
	return []byte(strings.Join(parts, "\n"))
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the snapshot of an existing result against a
// golden file, without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()
	newGoldie(t).Assert(t, name, Snapshot(result))
}

// AssertRuleGolden compares the rendering of a single rule against a
// golden file.
func AssertRuleGolden(t *testing.T, name string, r *ir.Rule) {
	t.Helper()
	newGoldie(t).Assert(t, name, []byte(ir.FormatRule(r)))
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
