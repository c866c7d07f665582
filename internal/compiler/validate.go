package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/streamrule/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General validation errors (E200)
	ErrUnsupportedIRType = "E200" // unsupported IR type for validation

	// ConstraintSpec errors (E201-E211)
	ErrConstraintNameEmpty    = "E201" // name is required
	ErrConstraintFromEmpty    = "E202" // from is required
	ErrUnknownStageKind       = "E203" // stage kind not filter/groupBy/aggregate
	ErrGroupByArity           = "E204" // groupBy must produce 1..4 values
	ErrAggregateShape         = "E205" // aggregate needs one collector, no keys
	ErrUnknownCollector       = "E206" // collector function not recognised
	ErrCollectorFieldRequired = "E207" // collector reads a field but none given
	ErrInvalidImpact          = "E208" // impact kind or level not recognised
	ErrNonPositiveWeight      = "E209" // impact weight must be > 0
	ErrFilterNoPredicate      = "E210" // filter stage without predicate
	ErrDuplicateConstraint    = "E211" // duplicate qualified constraint name
)

// maxGroupArity is the widest tuple a grouping can produce.
const maxGroupArity = 4

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled constraint against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.ConstraintSpec:
		return validateConstraintSpec(spec)
	case ir.ConstraintSpec:
		return validateConstraintSpec(&spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

// ValidateAll validates every spec and checks qualified names are unique.
// Field paths are prefixed with the constraint's position.
func ValidateAll(specs []ir.ConstraintSpec) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)

	for i := range specs {
		spec := &specs[i]
		for _, e := range validateConstraintSpec(spec) {
			e.Field = fmt.Sprintf("constraint[%d].%s", i, e.Field)
			errs = append(errs, e)
		}

		qualified := spec.QualifiedName()
		if first, dup := seen[qualified]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraint[%d].name", i),
				Message: fmt.Sprintf("duplicate constraint %q (first at constraint[%d])", qualified, first),
				Code:    ErrDuplicateConstraint,
			})
			continue
		}
		seen[qualified] = i
	}

	return errs
}

func validateConstraintSpec(spec *ir.ConstraintSpec) []ValidationError {
	var errs []ValidationError

	// E201: name is required
	if strings.TrimSpace(spec.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrConstraintNameEmpty,
		})
	}

	// E202: from is required
	if strings.TrimSpace(spec.From) == "" {
		errs = append(errs, ValidationError{
			Field:   "from",
			Message: "from is required and must name a fact type",
			Code:    ErrConstraintFromEmpty,
		})
	}

	for i, stage := range spec.Stages {
		errs = append(errs, validateStage(stage, fmt.Sprintf("stages[%d]", i))...)
	}

	errs = append(errs, validateImpact(spec.Impact)...)
	return errs
}

func validateStage(stage ir.Stage, path string) []ValidationError {
	var errs []ValidationError

	switch stage.Kind {
	case ir.StageFilter:
		// E210: filter needs a predicate
		if strings.TrimSpace(stage.Predicate) == "" {
			errs = append(errs, ValidationError{
				Field:   path + ".predicate",
				Message: "filter stage requires a predicate",
				Code:    ErrFilterNoPredicate,
			})
		}

	case ir.StageGroupBy:
		// E204: 1..4 outputs, at least one key
		if n := stage.Arity(); len(stage.Keys) == 0 || n > maxGroupArity {
			errs = append(errs, ValidationError{
				Field: path,
				Message: fmt.Sprintf("groupBy needs at least one key and at most %d keys and collectors in total, got %d keys and %d collectors",
					maxGroupArity, len(stage.Keys), len(stage.Collectors)),
				Code: ErrGroupByArity,
			})
		}
		errs = append(errs, validateCollectors(stage.Collectors, path)...)

	case ir.StageAggregate:
		// E205: exactly one collector, no keys
		if len(stage.Collectors) != 1 || len(stage.Keys) != 0 {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("aggregate needs exactly one collector and no keys, got %d collectors and %d keys", len(stage.Collectors), len(stage.Keys)),
				Code:    ErrAggregateShape,
			})
		}
		errs = append(errs, validateCollectors(stage.Collectors, path)...)

	default:
		// E203: unknown stage kind
		errs = append(errs, ValidationError{
			Field:   path + ".kind",
			Message: fmt.Sprintf("unknown stage kind %q (must be filter, groupBy or aggregate)", stage.Kind),
			Code:    ErrUnknownStageKind,
		})
	}

	return errs
}

func validateCollectors(collectors []ir.Collector, path string) []ValidationError {
	var errs []ValidationError
	for i, c := range collectors {
		field := fmt.Sprintf("%s.collectors[%d]", path, i)

		needsField, known := ir.ValidCollectorFuncs[c.Func]
		if !known {
			// E206: unknown collector
			errs = append(errs, ValidationError{
				Field:   field + ".function",
				Message: fmt.Sprintf("unknown collector function %q", c.Func),
				Code:    ErrUnknownCollector,
			})
			continue
		}

		// E207: field required
		if needsField && strings.TrimSpace(c.Field) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".field",
				Message: fmt.Sprintf("collector %q requires a field", c.Func),
				Code:    ErrCollectorFieldRequired,
			})
		}
	}
	return errs
}

func validateImpact(impact ir.Impact) []ValidationError {
	var errs []ValidationError

	// E208: impact kind and level
	if !ir.ValidImpactKinds[impact.Kind] {
		errs = append(errs, ValidationError{
			Field:   "impact.kind",
			Message: fmt.Sprintf("invalid impact kind %q (must be penalize or reward)", impact.Kind),
			Code:    ErrInvalidImpact,
		})
	}
	if !ir.ValidImpactLevels[impact.Level] {
		errs = append(errs, ValidationError{
			Field:   "impact.level",
			Message: fmt.Sprintf("invalid impact level %q (must be hard or soft)", impact.Level),
			Code:    ErrInvalidImpact,
		})
	}

	// E209: weight must be positive
	if impact.Weight <= 0 {
		errs = append(errs, ValidationError{
			Field:   "impact.weight",
			Message: fmt.Sprintf("weight must be positive, got %d", impact.Weight),
			Code:    ErrNonPositiveWeight,
		})
	}

	return errs
}
