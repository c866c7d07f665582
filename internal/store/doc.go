// Package store provides the SQLite-backed catalog of compiled rules.
//
// Every rule a compile run produces is recorded once under its
// content-addressed ID (see ir.RuleID). Records carry:
//   - the canonical JSON of the rule's item list
//   - the rendered text form
//   - the compilation ID of the run that first wrote it
//   - a seq giving the rule's position within that run
//
// # Ordering
//
// Listing queries use ORDER BY seq ASC, id ASC COLLATE BINARY, never wall
// time, so two catalogs built from the same sources list identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
