package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/rule"
	"github.com/roach88/streamrule/internal/testutil"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRule builds a single-pattern rule over fromType.
func createTestRule(pkg, name, fromType string) *ir.Rule {
	s := rule.NewUni[any](rule.NewAllocator(), ir.Type(fromType), "fact")
	return &ir.Rule{
		Name:    name,
		Package: pkg,
		Arity:   s.Arity(),
		Items:   s.Finish(testutil.Consequence(name, s.A().Name())),
	}
}

// createTestRecord builds the record of createTestRule.
func createTestRecord(t *testing.T, pkg, name, fromType string, seq int64) RuleRecord {
	t.Helper()
	rec, err := NewRuleRecord(createTestRule(pkg, name, fromType), "compilation-1", seq)
	if err != nil {
		t.Fatalf("NewRuleRecord() failed: %v", err)
	}
	return rec
}
