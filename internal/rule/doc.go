// Package rule assembles the left-hand side of a single production rule.
//
// A Structure is the in-progress left-hand side: one primary pattern that
// later stream stages may still extend, an ordered list of open items that
// must precede it, and an ordered list of closed items that are fully
// resolved. Structures are values: every operation returns a new structure
// and shares unchanged item lists with its input.
//
// ARITY:
//
// Uni, Bi, Tri and Quad carry one to four output variables. Only NewUni
// creates a root; every other structure comes out of a transformation:
//
//	Recollect        aggregation result       -> Uni
//	Regroup          collection of keys       -> Uni
//	RegroupBi        collection of tuple.Bi   -> Bi
//	RegroupBiToTri   collection of tuple.Tri  -> Tri
//	RegroupBiToQuad  collection of tuple.Quad -> Quad
//
// The regroup family turns a grouping result, which the engine can only
// hold as one value per collection element, back into individually bound
// variables by binding the tuple fields a, b, c, d in that order.
//
// ORDERING:
//
// Finish emits closed ++ open ++ built(primary) ++ consequence. The engine
// requires declaration before use, and the primary pattern, having absorbed
// every stage's expansions, must be the last condition.
//
// NAMING:
//
// Variables are named "$var<id>_<hint>" with ids from the rule's
// IDSupplier. All structures of one rule share that supplier by reference.
package rule
