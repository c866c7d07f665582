// Package ir provides the rule item vocabulary shared by the streamrule
// compiler layers.
//
// This package contains type definitions, canonical encoding and rendering
// only. All other internal packages import ir; ir imports nothing internal.
// This keeps ir the foundational layer with no circular dependencies.
//
// The vocabulary mirrors the primitives a production-matching engine
// offers to its rule builders:
//   - Declaration / Variable: a named, typed slot with a declaration source
//   - Pattern: a matched value plus its ordered binding and filter clauses
//   - Accumulate: a grouping or aggregation view over other rule items
//   - Consequence: the action clause that closes a rule
//
// RuleItem and Clause are sealed interfaces. Only types in this package
// implement them, so renderers can switch over them exhaustively.
//
// Key design constraints:
//   - NO float types in literal arguments - use int64 for numbers
//   - Canonical JSON (RFC 8785) is the only encoding used for rule identity
//   - Item order inside a Rule is significant and never re-sorted
package ir
