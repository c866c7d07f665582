package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormatRule renders a finished rule in a deterministic, DRL-like text form.
//
//	rule "timetabling/roomConflict"
//	when
//	    pattern($var1_lesson: Lesson)
//	then
//	    penalize hard 1 ($var1_lesson)
//	end
//
// Items are printed in rule order; consequences go under "then".
func FormatRule(r *Rule) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rule %q\n", r.QualifiedName())

	var then []string
	sb.WriteString("when\n")
	for _, item := range r.Items {
		if _, ok := item.(*Consequence); ok {
			then = append(then, FormatItem(item))
			continue
		}
		sb.WriteString("    " + FormatItem(item) + "\n")
	}
	sb.WriteString("then\n")
	for _, line := range then {
		sb.WriteString("    " + line + "\n")
	}
	sb.WriteString("end\n")
	return sb.String()
}

// FormatItem renders one rule item on a single line.
func FormatItem(item RuleItem) string {
	switch it := item.(type) {
	case *Pattern:
		parts := []string{formatDecl(it.Var)}
		for _, c := range it.Clauses {
			parts = append(parts, formatClause(c))
		}
		return "pattern(" + strings.Join(parts, "; ") + ")"
	case *Accumulate:
		sources := make([]string, len(it.Sources))
		for i, src := range it.Sources {
			sources[i] = FormatItem(src)
		}
		var sb strings.Builder
		sb.WriteString("accumulate(" + strings.Join(sources, "; ") + ")")
		if len(it.Keys) > 0 {
			sb.WriteString(" groupBy(" + strings.Join(it.Keys, ", ") + ")")
		}
		if len(it.Functions) > 0 {
			funcs := make([]string, len(it.Functions))
			for i, fn := range it.Functions {
				funcs[i] = fn.Func + "(" + fn.Field + ")"
			}
			sb.WriteString(" collect(" + strings.Join(funcs, ", ") + ")")
		}
		sb.WriteString(" -> " + formatDecl(it.Result))
		return sb.String()
	case *Consequence:
		return fmt.Sprintf("%s %s %d (%s)",
			it.Impact.Kind, it.Impact.Level, it.Impact.Weight, strings.Join(it.Refs, ", "))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<unknown %T>", item)
	}
}

func formatDecl(d Declaration) string {
	s := d.Name + ": " + string(d.Type)
	if from, ok := d.Source.(From); ok {
		s += " from " + from.Var
	}
	return s
}

func formatClause(c Clause) string {
	switch cl := c.(type) {
	case Binding:
		return "bind " + cl.Target.Name + " := " + cl.Field
	case Filter:
		args := append([]string{}, cl.Refs...)
		for _, a := range cl.Args {
			args = append(args, formatLiteral(a))
		}
		return "filter " + cl.Predicate + "(" + strings.Join(args, ", ") + ")"
	default:
		return fmt.Sprintf("<unknown %T>", c)
	}
}

func formatLiteral(v IRValue) string {
	switch val := v.(type) {
	case IRInt:
		return strconv.FormatInt(int64(val), 10)
	case IRBool:
		return strconv.FormatBool(bool(val))
	case IRString:
		return strconv.Quote(string(val))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("<invalid %T>", v)
		}
		return string(data)
	}
}

// RuleToIR converts a rule to an IRObject for canonical encoding.
func RuleToIR(r *Rule) IRObject {
	items := make(IRArray, len(r.Items))
	for i, item := range r.Items {
		items[i] = ItemToIR(item)
	}
	return IRObject{
		"name":    IRString(r.Name),
		"package": IRString(r.Package),
		"arity":   IRInt(r.Arity),
		"items":   items,
	}
}

// ItemToIR converts one rule item to an IRObject.
// Runtime projections (Binding.Extract) are not part of the result.
func ItemToIR(item RuleItem) IRObject {
	switch it := item.(type) {
	case *Pattern:
		clauses := make(IRArray, len(it.Clauses))
		for i, c := range it.Clauses {
			clauses[i] = clauseToIR(c)
		}
		return IRObject{
			"kind":    IRString("pattern"),
			"var":     declToIR(it.Var),
			"clauses": clauses,
		}
	case *Accumulate:
		sources := make(IRArray, len(it.Sources))
		for i, src := range it.Sources {
			sources[i] = ItemToIR(src)
		}
		funcs := make(IRArray, len(it.Functions))
		for i, fn := range it.Functions {
			funcs[i] = IRObject{"func": IRString(fn.Func), "field": IRString(fn.Field)}
		}
		return IRObject{
			"kind":      IRString("accumulate"),
			"sources":   sources,
			"keys":      stringsToIR(it.Keys),
			"functions": funcs,
			"result":    declToIR(it.Result),
		}
	case *Consequence:
		return IRObject{
			"kind":       IRString("consequence"),
			"constraint": IRString(it.Constraint),
			"impact": IRObject{
				"kind":   IRString(it.Impact.Kind),
				"level":  IRString(it.Impact.Level),
				"weight": IRInt(it.Impact.Weight),
			},
			"refs": stringsToIR(it.Refs),
		}
	default:
		return IRObject{"kind": IRString(fmt.Sprintf("unknown:%T", item))}
	}
}

// ItemKind returns the short kind name of a rule item.
func ItemKind(item RuleItem) string {
	switch item.(type) {
	case *Pattern:
		return "pattern"
	case *Accumulate:
		return "accumulate"
	case *Consequence:
		return "consequence"
	default:
		return "unknown"
	}
}

func declToIR(d Declaration) IRObject {
	obj := IRObject{
		"name": IRString(d.Name),
		"type": IRString(d.Type),
	}
	if from, ok := d.Source.(From); ok {
		obj["from"] = IRString(from.Var)
	}
	return obj
}

func clauseToIR(c Clause) IRObject {
	switch cl := c.(type) {
	case Binding:
		return IRObject{
			"kind":   IRString("bind"),
			"target": declToIR(cl.Target),
			"field":  IRString(cl.Field),
		}
	case Filter:
		return IRObject{
			"kind":      IRString("filter"),
			"predicate": IRString(cl.Predicate),
			"refs":      stringsToIR(cl.Refs),
			"args":      append(IRArray{}, cl.Args...),
		}
	default:
		return IRObject{"kind": IRString(fmt.Sprintf("unknown:%T", c))}
	}
}

func stringsToIR(ss []string) IRArray {
	arr := make(IRArray, len(ss))
	for i, s := range ss {
		arr[i] = IRString(s)
	}
	return arr
}
