package tableau

import (
	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/datatype"
	"github.com/anusornc/owl2go/expr"
)

// seedRoot creates the single root node labeled {C, U_T} (spec §4.5.1).
func (g *Graph) seedRoot(query expr.ExprID) NodeID {
	root := g.newNode(Blockable)
	g.addLabel(root, query, nil)
	g.addLabel(root, g.globalGCI, nil)
	return root
}

// saturateDeterministic applies the deterministic rules (⊓, ∃, ∀, ∀+,
// chain, ≡-class, self, Ⓞ-singleton, hasValue, domain/range,
// reflexive/symmetric) to fixpoint, preferring them over the
// non-deterministic rules per the scheduler policy spec §4.5.2
// specifies. Returns the clash dependency set and true on contradiction.
func (g *Graph) saturateDeterministic() (depSet, bool) {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(g.nodes); i++ {
			x := NodeID(i)
			if g.nodes[i].isMerged {
				continue
			}
			if g.globalAxiomRule(x) {
				changed = true
			}
			if g.conjunctionRule(x) {
				changed = true
			}
			if g.exactCardinalityRule(x) {
				changed = true
			}
			if g.nominalRule(x) {
				changed = true
			}
			if g.reflexiveRule(x) {
				changed = true
			}
			if g.symmetricRule(x) {
				changed = true
			}
			if g.equivalenceClassRule(x) {
				changed = true
			}
			if g.selfRule(x) {
				changed = true
			}
			if g.hasValueRule(x) {
				changed = true
			}
			if g.domainRangeRule(x) {
				changed = true
			}
			g.recomputeBlocking(x)
			if !g.isBlocked(x) {
				if g.existentialRule(x) {
					changed = true
				}
				if g.minCardinalityRule(x) {
					changed = true
				}
			}
			if g.universalRule(x) {
				changed = true
			}
			if g.transitiveUniversalRule(x) {
				changed = true
			}
			g.collectDataConstraints(x)

			if ds, ok := g.clash(x); ok {
				g.cfg.observe().OnClashDetected("label")
				return ds, true
			}
		}
		if ds, ok := g.negativeAssertionClash(); ok {
			g.cfg.observe().OnClashDetected("negative-assertion")
			return ds, true
		}
		if g.chainRule() {
			changed = true
		}
		for i := 0; i < len(g.nodes); i++ {
			g.recomputeBlocking(NodeID(i))
		}
	}
	return nil, false
}

// globalAxiomRule seeds U_T into every live node's label: the absorbed
// general concept inclusions constrain every element of the domain, not
// just the query root (spec §4.3 (iv)).
func (g *Graph) globalAxiomRule(x NodeID) bool {
	if g.globalGCI == expr.Top {
		return false
	}
	return g.addLabel(x, g.globalGCI, nil)
}

// exactCardinalityRule decomposes (=n R.C) ∈ L(x) into its ≥n and ≤n
// halves. NNF already performs this split, but query concepts reach the
// graph without passing through NNF, so raw labels are decomposed here
// too.
func (g *Graph) exactCardinalityRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagObjectExactCardinality {
			continue
		}
		r := g.arena.ObjectProperty(c)
		card := g.arena.Cardinality(c)
		filler := expr.Top
		if kids := g.arena.Children(c); len(kids) > 0 {
			filler = kids[0]
		}
		if g.addLabel(x, g.arena.ObjectMinCardinality(card, r, filler), ds) {
			changed = true
		}
		if g.addLabel(x, g.arena.ObjectMaxCardinality(card, r, filler), ds) {
			changed = true
		}
	}
	return changed
}

// nominalRule implements Ⓞ for the deterministic singleton case:
// {a} ∈ L(x) merges x with a's nominal node (spec §4.5.2). Multi-member
// ObjectOneOf labels are a disjunction over members and are handled by
// the non-deterministic search instead.
func (g *Graph) nominalRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagOneOf {
			continue
		}
		inds := g.arena.Individuals(c)
		if len(inds) != 1 {
			continue
		}
		y := g.nominalNode(inds[0])
		if g.resolve(x) != g.resolve(y) {
			g.merge(x, y, ds)
			changed = true
		}
	}
	return changed
}

// hasValueRule expands ObjectHasValue(R, a) ∈ L(x) into an R-edge from
// x to a's nominal node, the ∃R.{a} reading spec §3.3 gives it.
func (g *Graph) hasValueRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagObjectHasValue {
			continue
		}
		r := g.arena.ObjectProperty(c)
		y := g.nominalNode(g.arena.Individuals(c)[0])
		if g.addEdge(x, y, r, ds) {
			changed = true
		}
	}
	return changed
}

// symmetricRule mirrors every R-edge of a Symmetric property R.
func (g *Graph) symmetricRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for _, ch := range g.store.RoleCharacteristicAxioms() {
		if ch.Trait != axiom.Symmetric {
			continue
		}
		for _, e := range n.edgesOut {
			ds, has := e.props[sig(ch.Role)]
			if !has {
				continue
			}
			if g.addEdge(g.resolve(e.to), x, ch.Role, ds) {
				changed = true
			}
		}
	}
	return changed
}

// domainRangeRule applies PropertyDomain/PropertyRange axioms to every
// edge, in both the direct and the inverse reading of the edge.
func (g *Graph) domainRangeRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for _, e := range n.edgesOut {
		y := g.resolve(e.to)
		for s, ds := range e.props {
			p := unsig(s)
			for _, dom := range g.store.PropertyDomainAxioms() {
				if g.roles.IsSubPropertyOf(p, dom.Property) {
					if g.addLabel(x, g.arena.NNF(dom.Domain), ds) {
						changed = true
					}
				}
				if g.roles.IsSubPropertyOf(inverseOf(p), dom.Property) {
					if g.addLabel(y, g.arena.NNF(dom.Domain), ds) {
						changed = true
					}
				}
			}
			for _, rng := range g.store.PropertyRangeAxioms() {
				if g.roles.IsSubPropertyOf(p, rng.Property) {
					if g.addLabel(y, g.arena.NNF(rng.Range), ds) {
						changed = true
					}
				}
				if g.roles.IsSubPropertyOf(inverseOf(p), rng.Property) {
					if g.addLabel(x, g.arena.NNF(rng.Range), ds) {
						changed = true
					}
				}
			}
		}
	}
	return changed
}

// conjunctionRule implements ⊓: C1⊓…⊓Cn ∈ L(x) adds each Ci.
func (g *Graph) conjunctionRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagIntersection {
			continue
		}
		for _, op := range g.arena.Children(c) {
			if g.addLabel(x, op, ds) {
				changed = true
			}
		}
	}
	return changed
}

// equivalenceClassRule implements ≡-class: A ⊑ C with A named, A ∈
// L(x) adds C (spec §4.5.2). This is the tableau-side half of the
// absorption decision in package axiom's Normalizer: a primitive
// definition kept as its own SubClassOf axiom fires here instead of
// through the global GCI.
func (g *Graph) equivalenceClassRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagNamedClass {
			continue
		}
		cls := g.arena.ClassOf(c)
		for _, ax := range g.store.SubClassOfAxioms() {
			if g.arena.Tag(ax.Sub) != expr.TagNamedClass {
				continue
			}
			if g.arena.ClassOf(ax.Sub) != cls {
				continue
			}
			if g.addLabel(x, ax.Sup, ds) {
				changed = true
			}
		}
	}
	return changed
}

// existentialRule implements ∃: ∃R.C ∈ L(x) with no R-successor already
// labeled C creates a fresh blockable successor.
func (g *Graph) existentialRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagObjectSomeValuesFrom {
			continue
		}
		r := g.arena.ObjectProperty(c)
		filler := g.arena.Children(c)[0]
		satisfied := false
		for _, y := range g.successorsVia(x, r) {
			if g.nodeHasConcept(y, filler) {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		y := g.newNode(Blockable)
		g.addEdge(x, y, r, ds)
		g.addLabel(y, filler, ds)
		changed = true
	}
	return changed
}

// reflexiveRule adds a self-loop for every object property asserted
// Reflexive, at every node (SROIQ requires this for role-box
// reflexivity to hold model-wide, not just where ∃R.Self is asserted).
func (g *Graph) reflexiveRule(x NodeID) bool {
	changed := false
	for _, ch := range g.store.RoleCharacteristicAxioms() {
		if ch.Trait != axiom.Reflexive {
			continue
		}
		if g.addEdge(x, x, ch.Role, nil) {
			changed = true
		}
	}
	return changed
}

// selfRule implements self: ∃R.Self ∈ L(x) adds edge x —R→ x.
func (g *Graph) selfRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagObjectHasSelf {
			continue
		}
		r := g.arena.ObjectProperty(c)
		if g.addEdge(x, x, r, ds) {
			changed = true
		}
	}
	return changed
}

// universalRule implements ∀: ∀R.C ∈ L(x), x —R→ y adds C to L(y).
func (g *Graph) universalRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagObjectAllValuesFrom {
			continue
		}
		r := g.arena.ObjectProperty(c)
		filler := g.arena.Children(c)[0]
		for _, y := range g.successorsVia(x, r) {
			if g.addLabel(y, filler, ds) {
				changed = true
			}
		}
	}
	return changed
}

// transitiveUniversalRule implements ∀+: transitive R, ∀R.C ∈ L(x),
// x —R→ y adds ∀R.C itself to L(y), propagating it along the transitive
// chain.
func (g *Graph) transitiveUniversalRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagObjectAllValuesFrom {
			continue
		}
		r := g.arena.ObjectProperty(c)
		if !g.store.IsTransitive(r) {
			continue
		}
		for _, y := range g.successorsVia(x, r) {
			if g.addLabel(y, c, ds) {
				changed = true
			}
		}
	}
	return changed
}

// minCardinalityRule implements ≥: (≥nR.C) ∈ L(x) with fewer than n
// distinct R-successors labeled C creates fresh successors, each
// recorded pairwise different from the matching ones already present —
// without the inequality a later ≤-merge could collapse them, the rule
// would refire, and the genuine ≥n/≤m contradiction would never clash.
func (g *Graph) minCardinalityRule(x NodeID) bool {
	n := g.node(x)
	changed := false
	for c, ds := range snapshotLabel(n) {
		if g.arena.Tag(c) != expr.TagObjectMinCardinality {
			continue
		}
		r := g.arena.ObjectProperty(c)
		want := int(g.arena.Cardinality(c))
		filler := expr.Top
		if kids := g.arena.Children(c); len(kids) > 0 {
			filler = kids[0]
		}
		var matching []NodeID
		for _, y := range g.successorsVia(x, r) {
			if g.nodeHasConcept(y, filler) {
				matching = append(matching, y)
			}
		}
		for len(matching) < want {
			y := g.newNode(Blockable)
			g.addEdge(x, y, r, ds)
			g.addLabel(y, filler, ds)
			for _, other := range matching {
				g.setDistinct(y, other, ds)
			}
			matching = append(matching, y)
			changed = true
		}
	}
	return changed
}

// chainRule implements chain: for every accepted R1∘…∘Rn ⊑ S axiom,
// adds an S edge between the endpoints of any realized path.
func (g *Graph) chainRule() bool {
	changed := false
	for _, ch := range g.store.Roles().Chains() {
		paths := g.findChainPaths(ch.Chain)
		for _, ends := range paths {
			if g.addEdge(ends[0], ends[1], ch.Super, nil) {
				changed = true
			}
		}
	}
	return changed
}

// findChainPaths returns the (start, end) node pairs reachable by
// walking edges matching chain[0], chain[1], …, chain[n-1] in order
// (sub-properties of each step count, per the closed hierarchy).
func (g *Graph) findChainPaths(chain []expr.ObjectPropertyExpr) [][2]NodeID {
	var frontier [][2]NodeID
	for i := range g.nodes {
		if g.nodes[i].isMerged {
			continue
		}
		x := NodeID(i)
		frontier = append(frontier, [2]NodeID{x, x})
	}
	for _, r := range chain {
		var next [][2]NodeID
		for _, pair := range frontier {
			for _, y := range g.successorsVia(pair[1], r) {
				next = append(next, [2]NodeID{pair[0], y})
			}
		}
		frontier = next
	}
	return frontier
}

// collectDataConstraints re-derives x's accumulated data-property
// constraints from its label, for the datatype oracle's clash check
// (spec §4.5.2 clash (e)).
func (g *Graph) collectDataConstraints(x NodeID) {
	n := g.node(x)
	n.dataConstraints = n.dataConstraints[:0]
	for c := range n.label {
		if con, ok := g.extractDataConstraint(c); ok {
			n.dataConstraints = append(n.dataConstraints, con)
		}
	}
}

func (g *Graph) extractDataConstraint(c expr.ExprID) (datatype.Constraint, bool) {
	negated := false
	tag := g.arena.Tag(c)
	inner := c
	if tag == expr.TagComplement {
		inner = g.arena.Children(c)[0]
		tag = g.arena.Tag(inner)
		negated = true
	}
	switch tag {
	case expr.TagDataSomeValuesFrom, expr.TagDataAllValuesFrom, expr.TagDataMinCardinality,
		expr.TagDataMaxCardinality, expr.TagDataExactCardinality:
		return datatype.Constraint{
			Property: g.arena.DataProperty(inner),
			Range:    g.arena.Children(inner)[0],
			Negated:  negated,
		}, true
	case expr.TagDataHasValue:
		lit := g.arena.Children(inner)[0]
		return datatype.Constraint{
			Property: g.arena.DataProperty(inner),
			Range:    g.arena.DataOneOf(lit),
			Negated:  negated,
		}, true
	}
	return datatype.Constraint{}, false
}

func snapshotLabel(n *node) map[expr.ExprID]depSet {
	out := make(map[expr.ExprID]depSet, len(n.label))
	for k, v := range n.label {
		out[k] = v
	}
	return out
}
