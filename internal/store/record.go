package store

import (
	"fmt"

	"github.com/roach88/streamrule/internal/ir"
)

// RuleRecord is one catalog row.
type RuleRecord struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Package         string `json:"package,omitempty"`
	Arity           int    `json:"arity"`
	CompilationID   string `json:"compilation_id"`
	Seq             int64  `json:"seq"`
	Items           string `json:"items"`    // canonical JSON of the item list
	Rendered        string `json:"rendered"` // ir.FormatRule text
	IRVersion       string `json:"ir_version"`
	CompilerVersion string `json:"compiler_version"`
}

// QualifiedName returns the rule's package-qualified name.
func (r RuleRecord) QualifiedName() string {
	return ir.QualifiedName(r.Package, r.Name)
}

// NewRuleRecord builds the catalog record of a finished rule.
// seq is the rule's position within the compilation.
func NewRuleRecord(r *ir.Rule, compilationID string, seq int64) (RuleRecord, error) {
	id, err := ir.RuleID(r)
	if err != nil {
		return RuleRecord{}, fmt.Errorf("new rule record %q: %w", r.QualifiedName(), err)
	}

	items, err := marshalItems(r.Items)
	if err != nil {
		return RuleRecord{}, fmt.Errorf("new rule record %q: %w", r.QualifiedName(), err)
	}

	return RuleRecord{
		ID:              id,
		Name:            r.Name,
		Package:         r.Package,
		Arity:           r.Arity,
		CompilationID:   compilationID,
		Seq:             seq,
		Items:           items,
		Rendered:        ir.FormatRule(r),
		IRVersion:       ir.IRVersion,
		CompilerVersion: ir.CompilerVersion,
	}, nil
}

// marshalItems converts the item list to canonical JSON TEXT for storage.
func marshalItems(items []ir.RuleItem) (string, error) {
	arr := make(ir.IRArray, len(items))
	for i, item := range items {
		arr[i] = ir.ItemToIR(item)
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}
