package testutil

import "github.com/roach88/streamrule/internal/ir"

// Item returns an opaque pattern item named name. Tests use it where the
// rule structures only order items and never look inside them.
func Item(name string) *ir.Pattern {
	return &ir.Pattern{Var: ir.Declaration{Name: name, Type: ir.AnyType, Source: ir.Matched{}}}
}

// Consequence returns a penalize-hard-1 consequence for constraint.
func Consequence(constraint string, refs ...string) *ir.Consequence {
	return &ir.Consequence{
		Constraint: constraint,
		Impact:     ir.Impact{Kind: "penalize", Level: "hard", Weight: 1},
		Refs:       refs,
	}
}

// ItemNames returns the variable name of every pattern item and the kind
// of every other item, in order.
func ItemNames(items []ir.RuleItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		if p, ok := item.(*ir.Pattern); ok {
			names[i] = p.Var.Name
			continue
		}
		names[i] = ir.ItemKind(item)
	}
	return names
}
