package ir

// RuleItem is one unit of a rule's left-hand side or its consequence.
//
// This is a sealed interface - only types in this package implement it.
// The compiler orders rule items but never interprets them; renderers and
// the engine switch over the concrete types.
//
// RuleItem types:
//   - *Pattern: declares a matched or derived variable plus its clauses
//   - *Accumulate: a grouping/aggregation view producing one variable
//   - *Consequence: the action clause, always last
type RuleItem interface {
	ruleItem()
}

// Clause is one constraint or binding inside a Pattern.
//
// This is a sealed interface - only Binding and Filter implement it.
type Clause interface {
	clauseNode()
}

// Pattern is a built pattern: one variable and its ordered clauses.
//
// Semantics:
//
//	$var: Type() from $source, clause1, clause2, ...
//
// Clause order is the order in which the pattern builder applied its
// expansions and is preserved by every renderer.
type Pattern struct {
	Var     Declaration
	Clauses []Clause
}

func (*Pattern) ruleItem() {}

// Binding projects a field of the pattern's value into a new variable.
//
// Extract is the runtime projection; it is not part of the rule's identity
// and is never rendered.
type Binding struct {
	Target  Declaration
	Field   string
	Extract func(any) any
}

func (Binding) clauseNode() {}

// Filter constrains the pattern by a named predicate over variables.
//
// Refs are variable names in argument order; Args are literal arguments
// appended after them.
type Filter struct {
	Predicate string
	Refs      []string
	Args      []IRValue
}

func (Filter) clauseNode() {}

// Accumulate is a view item that folds the matches of Sources into Result.
//
// With Keys the view groups: Result is bound to the collection of group
// results (one scalar or tuple per group). Without Keys the view
// aggregates: Result is bound to the single value of the sole function.
type Accumulate struct {
	Sources   []RuleItem
	Keys      []string
	Functions []AccumulateFunction
	Result    Declaration
}

func (*Accumulate) ruleItem() {}

// AccumulateFunction is one collector applied by an Accumulate view.
// Field is empty for functions that need no input (count).
type AccumulateFunction struct {
	Func  string
	Field string
}

// Impact is the score effect of a matched rule.
type Impact struct {
	Kind   string `json:"kind"`   // "penalize" or "reward"
	Level  string `json:"level"`  // "hard" or "soft"
	Weight int64  `json:"weight"` // positive match weight
}

// Consequence is the action clause of a rule.
// Refs are the variables passed to the action, in order.
type Consequence struct {
	Constraint string
	Impact     Impact
	Refs       []string
}

func (*Consequence) ruleItem() {}

// Rule is a finished rule: its identity plus the ordered item list handed
// to the engine's rule assembly.
type Rule struct {
	Name    string
	Package string
	Arity   int
	Items   []RuleItem
}

// QualifiedName joins a package and a name as "<package>/<name>".
// Without a package it is the bare name.
func QualifiedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "/" + name
}

// QualifiedName returns the rule's package-qualified name.
func (r *Rule) QualifiedName() string {
	return QualifiedName(r.Package, r.Name)
}
