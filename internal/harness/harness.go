package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/streamrule/internal/compiler"
	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/store"
	"github.com/roach88/streamrule/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	store  *store.Store
	ids    *testutil.DeterministicAllocator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory catalog for isolation.
//
// Execution flow:
// 1. Compile every spec file, then the inline source
// 2. Validate all constraints together
// 3. Lower each constraint with a reset allocator and record it
// 4. Read the catalog back and evaluate the assertions
//
// An error is returned only when the scenario cannot be executed (missing
// file, CUE syntax error, catalog failure). Invalid constraints are
// reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		ids:    testutil.NewDeterministicAllocator(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	specs, err := h.compile(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.ValidationErrors = compiler.ValidateAll(specs)
	if len(result.ValidationErrors) == 0 {
		if err := h.lowerAndRecord(context.Background(), scenario.Name, specs, result); err != nil {
			return nil, err
		}
	}

	for i, assertion := range scenario.Assertions {
		if err := evaluateAssertion(assertion, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	for _, verr := range unclaimedValidationErrors(scenario.Assertions, result.ValidationErrors) {
		result.AddError(fmt.Sprintf("unexpected validation error: %v", verr))
	}

	return result, nil
}

// compile collects the constraints of every spec file and the inline
// source, in that order.
func (h *Harness) compile(scenario *Scenario) ([]ir.ConstraintSpec, error) {
	var specs []ir.ConstraintSpec
	for _, path := range scenario.Specs {
		compiled, err := compiler.CompileFile(path)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", path, err)
		}
		specs = append(specs, compiled...)
	}

	if scenario.Source != "" {
		compiled, err := compiler.CompileSource(scenario.Name+".cue", scenario.Source)
		if err != nil {
			return nil, fmt.Errorf("compile inline source: %w", err)
		}
		specs = append(specs, compiled...)
	}

	h.logger.Debug("compiled scenario", "scenario", scenario.Name, "constraints", len(specs))
	return specs, nil
}

// lowerAndRecord lowers every spec and writes its record to the catalog.
// The catalog is read back so assertions and golden snapshots see what a
// client of the catalog would see.
func (h *Harness) lowerAndRecord(ctx context.Context, name string, specs []ir.ConstraintSpec, result *Result) error {
	compilationID := "scenario-" + name

	for i := range specs {
		h.ids.Reset()
		r, err := compiler.Lower(&specs[i], h.ids)
		if err != nil {
			return fmt.Errorf("lower %s: %w", specs[i].Name, err)
		}

		rec, err := store.NewRuleRecord(r, compilationID, int64(i+1))
		if err != nil {
			return err
		}
		if _, err := h.store.WriteRule(ctx, rec); err != nil {
			return fmt.Errorf("record %s: %w", rec.QualifiedName(), err)
		}

		h.logger.Debug("recorded rule",
			"rule", rec.QualifiedName(),
			"arity", r.Arity,
			"ids", len(h.ids.Issued()))
		result.Rules = append(result.Rules, r)
	}

	records, err := h.store.ListRules(ctx, "")
	if err != nil {
		return err
	}
	result.Records = records
	return nil
}
