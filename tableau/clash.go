package tableau

import (
	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/expr"
)

// clash reports the dependency set of a contradiction at x, or ok=false
// if x is currently consistent. Covers every clash kind spec §4.5.2
// enumerates: label contradictions (a)/(b), nominal partition
// contradictions (c), functional violations (d), the datatype oracle
// (e), and the ≤0 case (f).
func (g *Graph) clash(x NodeID) (ds depSet, ok bool) {
	n := g.node(x)

	if d, present := n.label[expr.Bottom]; present {
		return d, true
	}

	// {C, ¬C} ⊆ L(x) for any NNF-atomic C: named classes (spec §4.5.2
	// clash (a)) and the other shapes NNF leaves negation in front of —
	// nominals, hasValue, hasSelf, data restrictions.
	for c, dc := range n.label {
		if g.arena.Tag(c) != expr.TagComplement {
			continue
		}
		inner := g.arena.Children(c)[0]
		if dp, present := n.label[inner]; present {
			return unionDep(dc, dp), true
		}
	}

	if d, ok := g.negatedNominalClash(x); ok {
		return d, true
	}

	if d, ok := g.negatedHasValueClash(x); ok {
		return d, true
	}

	if d, ok := g.inequalityClash(x); ok {
		return d, true
	}

	if n.kind == Nominal {
		if d, ok := g.nominalClash(x); ok {
			return d, true
		}
	}

	if d, ok := g.functionalClash(x); ok {
		return d, true
	}

	if d, ok := g.atMostZeroClash(x); ok {
		return d, true
	}

	if d, ok := g.roleCharacteristicClash(x); ok {
		return d, true
	}

	if d, ok := g.datatypeClash(x); ok {
		return d, true
	}

	return nil, false
}

// datatypeClash detects kind (e): the datatype oracle reports UNSAT for
// L(x) restricted to data restrictions.
func (g *Graph) datatypeClash(x NodeID) (depSet, bool) {
	n := g.node(x)
	if len(n.dataConstraints) == 0 {
		return nil, false
	}
	sat, err := g.oracle.Satisfiable(n.dataConstraints)
	if err != nil || sat {
		return nil, false
	}
	var ds depSet
	for c, d := range n.label {
		if _, ok := g.extractDataConstraint(c); ok {
			ds = unionDep(ds, d)
		}
	}
	return ds, true
}

// nominalClash detects kind (c): a same-as/different-from contradiction
// on the nominal partition. Two nominal nodes that have been merged
// (same-as) but whose underlying individuals were separately asserted
// DifferentIndividuals clash unconditionally.
func (g *Graph) nominalClash(x NodeID) (depSet, bool) {
	n := g.node(x)
	if !n.hasIndividual {
		return nil, false
	}
	here := g.resolve(x)
	for _, diff := range g.store.DifferentIndividualsAxioms() {
		// Any two listed entries resolving to this node contradict the
		// assertion — including a duplicated entry (DifferentIndividuals
		// (a, a) is inconsistent, spec §8 boundary cases). The clash
		// depends on whatever choices identified the individuals: the
		// dependency sets their singleton nominal labels accumulated
		// through the merges.
		hits := 0
		var ds depSet
		for _, ind := range diff.Individuals {
			node, ok := g.nominalIndex[ind]
			if !ok || g.resolve(node) != here {
				continue
			}
			hits++
			if d, labeled := n.label[g.arena.OneOf(ind)]; labeled {
				ds = unionDep(ds, d)
			}
		}
		if hits > 1 {
			return ds, true
		}
	}
	return nil, false
}

// inequalityClash fires when both ends of a recorded x ≠ y obligation
// have been merged into the same node — the ≥-rule analog of the
// nominal partition's same-as/different-from contradiction.
func (g *Graph) inequalityClash(x NodeID) (depSet, bool) {
	here := g.resolve(x)
	for _, iq := range g.inequalities {
		if g.resolve(iq.a) == here && g.resolve(iq.b) == here {
			return iq.ds, true
		}
	}
	return nil, false
}

// negatedNominalClash detects ¬{a₁..aₙ} ∈ L(x) where x is (or has been
// merged into) the nominal node of one of the aᵢ: x denotes that
// individual, so excluding it from the enumeration is contradictory.
func (g *Graph) negatedNominalClash(x NodeID) (depSet, bool) {
	n := g.node(x)
	if !n.hasIndividual {
		return nil, false
	}
	for c, dc := range n.label {
		if g.arena.Tag(c) != expr.TagComplement {
			continue
		}
		inner := g.arena.Children(c)[0]
		if g.arena.Tag(inner) != expr.TagOneOf {
			continue
		}
		for _, ind := range g.arena.Individuals(inner) {
			if node, ok := g.nominalIndex[ind]; ok && g.resolve(node) == g.resolve(x) {
				return dc, true
			}
		}
	}
	return nil, false
}

// negatedHasValueClash detects ¬HasValue(R, a) ∈ L(x) alongside an
// actual R-edge from x to a's nominal node.
func (g *Graph) negatedHasValueClash(x NodeID) (depSet, bool) {
	n := g.node(x)
	for c, dc := range n.label {
		if g.arena.Tag(c) != expr.TagComplement {
			continue
		}
		inner := g.arena.Children(c)[0]
		if g.arena.Tag(inner) != expr.TagObjectHasValue {
			continue
		}
		target, ok := g.nominalIndex[g.arena.Individuals(inner)[0]]
		if !ok {
			continue
		}
		r := g.arena.ObjectProperty(inner)
		for _, y := range g.successorsVia(x, r) {
			if g.resolve(y) == g.resolve(target) {
				return dc, true
			}
		}
	}
	return nil, false
}

// functionalClash detects kind (d): a functional (or, read through the
// edge inverses, inverse-functional) object property whose successors
// include a pair that can never be identified — two nominal nodes
// pinned apart by DifferentIndividuals. Mergeable excess successors are
// not a clash; the ≤-style merge handling in the search identifies them
// instead.
func (g *Graph) functionalClash(x NodeID) (depSet, bool) {
	for _, ch := range g.store.RoleCharacteristicAxioms() {
		var role expr.ObjectPropertyExpr
		switch ch.Trait {
		case axiom.Functional:
			role = ch.Role
		case axiom.InverseFunctional:
			role = inverseOf(ch.Role)
		default:
			continue
		}
		succ := g.successorsVia(x, role)
		for i := 0; i < len(succ); i++ {
			for j := i + 1; j < len(succ); j++ {
				if !g.canMerge(succ[i], succ[j]) {
					return nil, true
				}
			}
		}
	}
	return nil, false
}

// atMostZeroClash detects kind (f): (≤0 R.C) ∈ L(x) with an R-successor
// labeled C. With a bound of zero no amount of merging reduces the
// successor count below one, so this is always a clash.
func (g *Graph) atMostZeroClash(x NodeID) (depSet, bool) {
	n := g.node(x)
	for c, dc := range n.label {
		if g.arena.Tag(c) != expr.TagObjectMaxCardinality || g.arena.Cardinality(c) != 0 {
			continue
		}
		r := g.arena.ObjectProperty(c)
		filler := g.arena.Children(c)[0]
		for _, y := range g.successorsVia(x, r) {
			if g.nodeHasConcept(y, filler) {
				ds := dc
				if labelDS, ok := g.node(y).label[filler]; ok {
					ds = unionDep(dc, labelDS)
				}
				return ds, true
			}
		}
	}
	return nil, false
}

// roleCharacteristicClash detects irreflexive/asymmetric violations
// (spec §4.5.2: "irreflexive/asymmetric... violated by edges").
func (g *Graph) roleCharacteristicClash(x NodeID) (depSet, bool) {
	n := g.node(x)
	for _, ch := range g.store.RoleCharacteristicAxioms() {
		switch ch.Trait {
		case axiom.Irreflexive:
			for _, e := range n.edgesOut {
				if g.resolve(e.to) != g.resolve(x) {
					continue
				}
				if _, has := e.props[sig(ch.Role)]; has {
					return nil, true
				}
			}
		case axiom.Asymmetric:
			for _, e := range n.edgesOut {
				if _, has := e.props[sig(ch.Role)]; !has {
					continue
				}
				y := g.resolve(e.to)
				back := g.node(y)
				for _, be := range back.edgesOut {
					if g.resolve(be.to) != g.resolve(x) {
						continue
					}
					if _, has := be.props[sig(ch.Role)]; has {
						return nil, true
					}
				}
			}
		}
	}
	return nil, false
}
