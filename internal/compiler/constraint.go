package compiler

import (
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/streamrule/internal/ir"
)

// CompileConstraint parses a CUE value into a ConstraintSpec.
//
// The CUE value should be the constraint struct itself, e.g.:
//
//	v := cuecontext.New().CompileString(`constraint: roomConflict: { ... }`)
//	spec, err := CompileConstraint(v.LookupPath(cue.ParsePath("constraint.roomConflict")))
func CompileConstraint(v cue.Value) (*ir.ConstraintSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ConstraintSpec{}

	// Constraint name is the struct label
	if labels := v.Path().Selectors(); len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
		if name, err := strconv.Unquote(spec.Name); err == nil {
			spec.Name = name
		}
	}

	// "package" is a CUE keyword, so it is looked up as a quoted label.
	pkg, err := optionalString(v, cue.MakePath(cue.Str("package")))
	if err != nil {
		return nil, err
	}
	spec.Package = pkg

	fromVal := v.LookupPath(cue.ParsePath("from"))
	if !fromVal.Exists() {
		return nil, &CompileError{
			Field:   "from",
			Message: "from is required",
			Pos:     v.Pos(),
		}
	}
	if spec.From, err = fromVal.String(); err != nil {
		return nil, formatCUEError(err)
	}

	if spec.Stages, err = parseStages(v); err != nil {
		return nil, err
	}

	impactVal := v.LookupPath(cue.ParsePath("impact"))
	if !impactVal.Exists() {
		return nil, &CompileError{
			Field:   "impact",
			Message: "impact is required",
			Pos:     v.Pos(),
		}
	}
	if spec.Impact, err = parseImpact(impactVal); err != nil {
		return nil, err
	}

	return spec, nil
}

// CompileValue compiles every struct under the top-level "constraint" field
// of v, in declaration order. A value without constraints yields none.
func CompileValue(v cue.Value) ([]ir.ConstraintSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	constraintsVal := v.LookupPath(cue.ParsePath("constraint"))
	if !constraintsVal.Exists() {
		return nil, nil
	}

	iter, err := constraintsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.ConstraintSpec
	for iter.Next() {
		spec, err := CompileConstraint(iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
	return specs, nil
}

// CompileSource compiles the constraints of CUE source text.
// filename is only used for error positions.
func CompileSource(filename, src string) ([]ir.ConstraintSpec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return CompileValue(v)
}

// CompileFile compiles the constraints of a single CUE file.
func CompileFile(path string) ([]ir.ConstraintSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return CompileSource(path, string(data))
}

// parseStages extracts the ordered stage list. Stages are optional.
func parseStages(v cue.Value) ([]ir.Stage, error) {
	stagesVal := v.LookupPath(cue.ParsePath("stages"))
	if !stagesVal.Exists() {
		return nil, nil
	}

	iter, err := stagesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var stages []ir.Stage
	for i := 0; iter.Next(); i++ {
		stage, err := parseStage(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

func parseStage(v cue.Value, index int) (ir.Stage, error) {
	var stage ir.Stage

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return stage, &CompileError{
			Field:   fmt.Sprintf("stages[%d].kind", index),
			Message: "stage kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return stage, formatCUEError(err)
	}
	stage.Kind = kind

	if stage.Predicate, err = optionalString(v, cue.ParsePath("predicate")); err != nil {
		return stage, err
	}

	if argsVal := v.LookupPath(cue.ParsePath("args")); argsVal.Exists() {
		iter, err := argsVal.List()
		if err != nil {
			return stage, formatCUEError(err)
		}
		stage.Args = ir.IRArray{}
		for iter.Next() {
			lit, err := parseLiteral(iter.Value())
			if err != nil {
				return stage, err
			}
			stage.Args = append(stage.Args, lit)
		}
	}

	if keysVal := v.LookupPath(cue.ParsePath("keys")); keysVal.Exists() {
		iter, err := keysVal.List()
		if err != nil {
			return stage, formatCUEError(err)
		}
		for iter.Next() {
			key, err := iter.Value().String()
			if err != nil {
				return stage, formatCUEError(err)
			}
			stage.Keys = append(stage.Keys, key)
		}
	}

	if collectorsVal := v.LookupPath(cue.ParsePath("collectors")); collectorsVal.Exists() {
		iter, err := collectorsVal.List()
		if err != nil {
			return stage, formatCUEError(err)
		}
		for iter.Next() {
			collector, err := parseCollector(iter.Value())
			if err != nil {
				return stage, err
			}
			stage.Collectors = append(stage.Collectors, collector)
		}
	}

	return stage, nil
}

// parseCollector parses {function: "sum", field: "duration"}.
func parseCollector(v cue.Value) (ir.Collector, error) {
	var c ir.Collector

	fnVal := v.LookupPath(cue.ParsePath("function"))
	if !fnVal.Exists() {
		return c, &CompileError{
			Field:   "collectors.function",
			Message: "collector function is required",
			Pos:     v.Pos(),
		}
	}
	fn, err := fnVal.String()
	if err != nil {
		return c, formatCUEError(err)
	}
	c.Func = fn

	if c.Field, err = optionalString(v, cue.ParsePath("field")); err != nil {
		return c, err
	}
	return c, nil
}

// parseImpact parses {kind, level, weight}. Weight defaults to 1.
func parseImpact(v cue.Value) (ir.Impact, error) {
	impact := ir.Impact{Weight: 1}

	var err error
	if impact.Kind, err = optionalString(v, cue.ParsePath("kind")); err != nil {
		return impact, err
	}
	if impact.Level, err = optionalString(v, cue.ParsePath("level")); err != nil {
		return impact, err
	}

	if weightVal := v.LookupPath(cue.ParsePath("weight")); weightVal.Exists() {
		if weightVal.IncompleteKind() != cue.IntKind {
			return impact, &CompileError{
				Field:   "impact.weight",
				Message: "weight must be an int",
				Pos:     weightVal.Pos(),
			}
		}
		w, err := weightVal.Int64()
		if err != nil {
			return impact, formatCUEError(err)
		}
		impact.Weight = w
	}

	return impact, nil
}

// parseLiteral converts a concrete CUE value to an IR literal.
// Floats are forbidden.
func parseLiteral(v cue.Value) (ir.IRValue, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRString(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRInt(i), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRBool(b), nil
	case cue.NullKind:
		return ir.IRNull{}, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := ir.IRArray{}
		for iter.Next() {
			elem, err := parseLiteral(iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "args",
			Message: "float literals are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "args",
			Message: fmt.Sprintf("unsupported literal kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// optionalString returns the string at path, or "" if it does not exist.
func optionalString(v cue.Value, path cue.Path) (string, error) {
	val := v.LookupPath(path)
	if !val.Exists() {
		return "", nil
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}
