package ir

// ConstraintSpec is a compiled constraint definition: a single-source stream
// pipeline and the impact applied to each of its final matches.
type ConstraintSpec struct {
	Name    string  `json:"name"`
	Package string  `json:"package,omitempty"`
	From    string  `json:"from"`   // fact type the stream starts from
	Stages  []Stage `json:"stages"` // applied in order
	Impact  Impact  `json:"impact"`
}

// QualifiedName returns the constraint's package-qualified name, which is
// also the name of the rule it lowers to.
func (s *ConstraintSpec) QualifiedName() string {
	return QualifiedName(s.Package, s.Name)
}

// Stage kinds.
const (
	StageFilter    = "filter"
	StageGroupBy   = "groupBy"
	StageAggregate = "aggregate"
)

// Stage is one stream operation.
//
// Field usage by kind:
//   - filter: Predicate, Args
//   - groupBy: Keys, Collectors (1..4 in total)
//   - aggregate: exactly one Collector
type Stage struct {
	Kind       string      `json:"kind"`
	Predicate  string      `json:"predicate,omitempty"`
	Args       IRArray     `json:"args,omitempty"`
	Keys       []string    `json:"keys,omitempty"`
	Collectors []Collector `json:"collectors,omitempty"`
}

// Arity returns the number of values the stage produces per match.
// Filters keep the incoming arity and report 0.
func (s Stage) Arity() int {
	switch s.Kind {
	case StageGroupBy:
		return len(s.Keys) + len(s.Collectors)
	case StageAggregate:
		return 1
	default:
		return 0
	}
}

// Collector is an accumulate function reference.
type Collector struct {
	Func  string `json:"func"`
	Field string `json:"field,omitempty"`
}

// ValidCollectorFuncs defines allowed collector functions. The value tells
// whether the function reads a field.
var ValidCollectorFuncs = map[string]bool{
	"count":         false,
	"countDistinct": true,
	"sum":           true,
	"min":           true,
	"max":           true,
	"average":       true,
	"toList":        true,
	"toSet":         true,
}

// ValidImpactKinds defines allowed impact kinds.
var ValidImpactKinds = map[string]bool{
	"penalize": true,
	"reward":   true,
}

// ValidImpactLevels defines allowed score levels.
var ValidImpactLevels = map[string]bool{
	"hard": true,
	"soft": true,
}
