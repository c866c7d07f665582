package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/streamrule/internal/compiler"
	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/testutil"
)

// AssertionError is returned when an assertion fails.
// It carries the rendered rule to help debug the failure.
type AssertionError struct {
	Type       string // Assertion type for categorization
	Constraint string // Qualified rule name, empty for scenario-level assertions
	Expected   string // Human-readable expected outcome
	Actual     string // Human-readable actual outcome
	Rendered   string // Rendered rule, if one was found
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	if e.Constraint != "" {
		fmt.Fprintf(&buf, "  Constraint: %s\n", e.Constraint)
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Rendered != "" {
		fmt.Fprintf(&buf, "\nRule:\n%s", e.Rendered)
	}

	return buf.String()
}

// evaluateAssertion dispatches on the assertion type.
func evaluateAssertion(a Assertion, result *Result) error {
	switch a.Type {
	case AssertRuleCount:
		return assertRuleCount(result, a)
	case AssertValidationError:
		return assertValidationError(result, a)
	}

	r := result.Rule(a.Constraint)
	if r == nil {
		return &AssertionError{
			Type:       a.Type,
			Constraint: a.Constraint,
			Expected:   "rule to be compiled",
			Actual:     fmt.Sprintf("not among %d compiled rule(s)", len(result.Rules)),
		}
	}

	switch a.Type {
	case AssertArity:
		return assertArity(r, a)
	case AssertItemKinds:
		return assertItemKinds(r, a)
	case AssertItemNames:
		return assertItemNames(r, a)
	case AssertOutputs:
		return assertOutputs(r, a)
	case AssertRenderedContains:
		return assertRenderedContains(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRuleCount(result *Result, a Assertion) error {
	if len(result.Rules) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRuleCount,
		Expected: fmt.Sprintf("%d rule(s)", a.Count),
		Actual:   fmt.Sprintf("%d rule(s)", len(result.Rules)),
	}
}

func assertArity(r *ir.Rule, a Assertion) error {
	if r.Arity == a.Arity {
		return nil
	}
	return ruleMismatch(r, a, fmt.Sprint(a.Arity), fmt.Sprint(r.Arity))
}

func assertItemKinds(r *ir.Rule, a Assertion) error {
	kinds := make([]string, len(r.Items))
	for i, item := range r.Items {
		kinds[i] = ir.ItemKind(item)
	}
	if slices.Equal(kinds, a.Kinds) {
		return nil
	}
	return ruleMismatch(r, a, fmt.Sprint(a.Kinds), fmt.Sprint(kinds))
}

func assertItemNames(r *ir.Rule, a Assertion) error {
	names := testutil.ItemNames(r.Items)
	if slices.Equal(names, a.Names) {
		return nil
	}
	return ruleMismatch(r, a, fmt.Sprint(a.Names), fmt.Sprint(names))
}

// assertOutputs compares the consequence references, which are the rule's
// output variables.
func assertOutputs(r *ir.Rule, a Assertion) error {
	var refs []string
	if len(r.Items) > 0 {
		if c, ok := r.Items[len(r.Items)-1].(*ir.Consequence); ok {
			refs = c.Refs
		}
	}
	if slices.Equal(refs, a.Names) {
		return nil
	}
	return ruleMismatch(r, a, fmt.Sprint(a.Names), fmt.Sprint(refs))
}

func assertRenderedContains(r *ir.Rule, a Assertion) error {
	if strings.Contains(ir.FormatRule(r), a.Text) {
		return nil
	}
	return ruleMismatch(r, a, fmt.Sprintf("rendering to contain %q", a.Text), "not found")
}

func assertValidationError(result *Result, a Assertion) error {
	for _, verr := range result.ValidationErrors {
		if verr.Code == a.Code {
			return nil
		}
	}

	codes := make([]string, len(result.ValidationErrors))
	for i, verr := range result.ValidationErrors {
		codes[i] = verr.Code
	}
	return &AssertionError{
		Type:     AssertValidationError,
		Expected: fmt.Sprintf("validation error %s", a.Code),
		Actual:   fmt.Sprintf("codes %v", codes),
	}
}

// unclaimedValidationErrors returns the errors whose code no
// validation_error assertion expects.
func unclaimedValidationErrors(assertions []Assertion, errs []compiler.ValidationError) []compiler.ValidationError {
	expected := make(map[string]bool)
	for _, a := range assertions {
		if a.Type == AssertValidationError {
			expected[a.Code] = true
		}
	}

	var unclaimed []compiler.ValidationError
	for _, verr := range errs {
		if !expected[verr.Code] {
			unclaimed = append(unclaimed, verr)
		}
	}
	return unclaimed
}

func ruleMismatch(r *ir.Rule, a Assertion, expected, actual string) *AssertionError {
	return &AssertionError{
		Type:       a.Type,
		Constraint: a.Constraint,
		Expected:   expected,
		Actual:     actual,
		Rendered:   ir.FormatRule(r),
	}
}
