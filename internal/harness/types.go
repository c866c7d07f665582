package harness

import (
	"github.com/roach88/streamrule/internal/compiler"
	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/store"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Rules are the lowered rules in compilation order.
	Rules []*ir.Rule `json:"-"`

	// Records are the rules as read back from the catalog.
	Records []store.RuleRecord `json:"records"`

	// ValidationErrors are reported instead of rules when any constraint
	// is invalid.
	ValidationErrors []compiler.ValidationError `json:"validation_errors,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Records: []store.RuleRecord{},
		Errors:  []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Rule returns the rule with the given qualified name, or nil.
func (r *Result) Rule(qualified string) *ir.Rule {
	for _, rl := range r.Rules {
		if rl.QualifiedName() == qualified {
			return rl
		}
	}
	return nil
}
