package compiler

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/pattern"
	"github.com/roach88/streamrule/internal/rule"
	"github.com/roach88/streamrule/internal/tuple"
)

// Lower turns a validated constraint into a finished rule.
//
// The stream starts as a Uni over spec.From and every stage transforms the
// current structure:
//   - filter: expands the primary pattern with a predicate over all current
//     variables
//   - groupBy: folds the open items and primary pattern into a grouping
//     accumulate and regroups to the stage's arity
//   - aggregate: folds them into a single-collector accumulate and
//     recollects its result
//
// The rule is finished with a consequence passing every output variable.
// All variables are named with ids from ids.
func Lower(spec *ir.ConstraintSpec, ids rule.IDSupplier) (*ir.Rule, error) {
	if errs := Validate(spec); len(errs) > 0 {
		return nil, fmt.Errorf("lower %q: %w", spec.Name, errs[0])
	}

	var s rule.Structure = rule.NewUni[any](ids, ir.Type(spec.From), rootHint(spec.From))

	for i, stage := range spec.Stages {
		switch stage.Kind {
		case ir.StageFilter:
			s = s.Expand(pattern.Filter(stage.Predicate, variableNames(s), stage.Args...))
		case ir.StageGroupBy:
			s = lowerGroupBy(s, stage)
		case ir.StageAggregate:
			s = lowerAggregate(s, stage)
		default:
			return nil, fmt.Errorf("lower %q: stage %d: unknown kind %q", spec.Name, i, stage.Kind)
		}

		slog.Debug("lowered stage",
			"constraint", spec.Name,
			"stage", i,
			"kind", stage.Kind,
			"arity", s.Arity())
	}

	consequence := &ir.Consequence{
		Constraint: spec.Name,
		Impact:     spec.Impact,
		Refs:       variableNames(s),
	}

	return &ir.Rule{
		Name:    spec.Name,
		Package: spec.Package,
		Arity:   s.Arity(),
		Items:   s.Finish(consequence),
	}, nil
}

// LowerAll lowers every spec with its own allocator, so variable names of
// one rule never depend on the rules compiled before it.
func LowerAll(specs []ir.ConstraintSpec) ([]*ir.Rule, error) {
	rules := make([]*ir.Rule, 0, len(specs))
	for i := range specs {
		r, err := Lower(&specs[i], rule.NewAllocator())
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func lowerGroupBy(s rule.Structure, stage ir.Stage) rule.Structure {
	switch stage.Arity() {
	case 1:
		src := rule.CreateVariable[[]any](s, ir.CollectionOf(ir.AnyType), "groupResult")
		accumulate, collect := grouping(s, stage, src)
		return rule.Regroup(s, src, collect, accumulate)
	case 2:
		src := rule.CreateVariable[[]tuple.Bi[any, any]](s, ir.TypeOf[[]tuple.Bi[any, any]](), "groupResult")
		accumulate, collect := grouping(s, stage, src)
		return rule.RegroupBi(s, src, collect, accumulate)
	case 3:
		src := rule.CreateVariable[[]tuple.Tri[any, any, any]](s, ir.TypeOf[[]tuple.Tri[any, any, any]](), "groupResult")
		accumulate, collect := grouping(s, stage, src)
		return rule.RegroupBiToTri(s, src, collect, accumulate)
	default:
		src := rule.CreateVariable[[]tuple.Quad[any, any, any, any]](s, ir.TypeOf[[]tuple.Quad[any, any, any, any]](), "groupResult")
		accumulate, collect := grouping(s, stage, src)
		return rule.RegroupBiToQuad(s, src, collect, accumulate)
	}
}

func lowerAggregate(s rule.Structure, stage ir.Stage) rule.Structure {
	result := rule.CreateAnyVariable[any](s, "result")
	accumulate := &ir.Accumulate{
		Sources:   foldedSources(s),
		Functions: functions(stage.Collectors),
		Result:    result.Declaration(),
	}
	return rule.Recollect(s, result, accumulate)
}

// grouping returns the accumulate binding src to the group results and the
// pattern matching that collection.
func grouping[T any](s rule.Structure, stage ir.Stage, src ir.Variable[T]) (accumulate, collect ir.RuleItem) {
	accumulate = &ir.Accumulate{
		Sources:   foldedSources(s),
		Keys:      slices.Clone(stage.Keys),
		Functions: functions(stage.Collectors),
		Result:    src.Declaration(),
	}
	return accumulate, pattern.New(src).Build()
}

// foldedSources returns s's open items followed by its built primary
// pattern: everything an accumulate over the current stream consumes.
func foldedSources(s rule.Structure) []ir.RuleItem {
	return append(slices.Clone(s.OpenItems()), s.PrimaryPattern().Build())
}

func functions(collectors []ir.Collector) []ir.AccumulateFunction {
	fns := make([]ir.AccumulateFunction, len(collectors))
	for i, c := range collectors {
		fns[i] = ir.AccumulateFunction{Func: c.Func, Field: c.Field}
	}
	return fns
}

func variableNames(s rule.Structure) []string {
	vars := s.Variables()
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

// rootHint lowercases the first rune of the fact type: Lesson -> lesson.
// Package-qualified types keep only the last segment.
func rootHint(from string) string {
	if i := strings.LastIndexByte(from, '.'); i >= 0 {
		from = from[i+1:]
	}
	r, size := utf8.DecodeRuneInString(from)
	if r == utf8.RuneError {
		return "fact"
	}
	return string(unicode.ToLower(r)) + from[size:]
}
