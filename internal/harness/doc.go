// Package harness runs conformance scenarios against the constraint
// compiler.
//
// A scenario names CUE constraint files (or carries inline CUE source),
// compiles and lowers every constraint, records the rules in an in-memory
// catalog and checks assertions over the result.
//
// # Scenario Format
//
//	name: room_conflict
//	description: "Grouping by two keys yields a tri rule"
//	specs:
//	  - ../constraints/timetabling.cue
//	assertions:
//	  - type: rule_count
//	    count: 2
//	  - type: arity
//	    constraint: timetabling/roomConflict
//	    arity: 3
//	  - type: item_kinds
//	    constraint: timetabling/roomConflict
//	    kinds: [accumulate, pattern, pattern, consequence]
//
// Spec paths are relative to the scenario file.
//
// # Assertion Types
//
//   - rule_count: number of compiled rules
//   - arity: arity of one rule
//   - item_kinds: item kinds of one rule, in order
//   - item_names: pattern variable names (or item kinds) of one rule
//   - outputs: variables passed to the rule's consequence
//   - rendered_contains: substring of the rendered rule
//   - validation_error: a validation error with the given code was reported
//
// Any validation error not claimed by a validation_error assertion fails
// the scenario.
//
// # Deterministic Testing
//
// Each constraint is lowered with a freshly reset
// testutil.DeterministicAllocator, so variable names, rule IDs and golden
// snapshots are identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/room_conflict.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
