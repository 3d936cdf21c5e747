// Package tableau implements the Tableaux Core (spec §4.5): the
// central SROIQ(D) decision procedure over a completion graph whose
// nodes are indices into a slice, not pointers — the same "arena of
// indices" representation the teacher uses for concepts and roles in
// package reasoner, generalized here from a flat symbol table to a
// mutable graph with dependency-tracked labels.
package tableau

import (
	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/datatype"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

// NodeID indexes into Graph.nodes. Zero is always the root.
type NodeID uint32

// BranchID identifies one non-deterministic choice point. Zero means
// "no choice" — a fact with an empty dependency set can never be
// retracted by backjumping.
type BranchID uint32

// depSet is a dependency set ds(x) / ds(x,C): the branch ids whose
// choice justifies a fact's presence (spec §4.5.3).
type depSet map[BranchID]struct{}

func unionDep(a, b depSet) depSet {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(depSet, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func singletonDep(b BranchID) depSet {
	if b == 0 {
		return nil
	}
	return depSet{b: struct{}{}}
}

// maxBranch returns the greatest branch id present in ds, or 0 if ds is
// unconditional. This is the backjump target spec §4.5.3 describes:
// "the most recent branch id in that union."
func maxBranch(ds depSet) BranchID {
	var m BranchID
	for b := range ds {
		if b > m {
			m = b
		}
	}
	return m
}

type nodeKind uint8

const (
	Blockable nodeKind = iota
	Nominal
)

type edge struct {
	to    NodeID
	props map[propSig]depSet
}

// propSig is an object property expression reduced to a map key.
type propSig struct {
	property entity.PropertyID
	inverse  bool
}

func sig(p expr.ObjectPropertyExpr) propSig { return propSig{p.Property, p.Inverse} }

func unsig(s propSig) expr.ObjectPropertyExpr {
	return expr.ObjectPropertyExpr{Property: s.property, Inverse: s.inverse}
}

func inverseOf(p expr.ObjectPropertyExpr) expr.ObjectPropertyExpr {
	return expr.ObjectPropertyExpr{Property: p.Property, Inverse: !p.Inverse}
}

type node struct {
	kind  nodeKind
	label map[expr.ExprID]depSet

	// individual is set for Nominal nodes: which named/anonymous
	// individual this node represents. The node's existence dependency
	// ds(x) is carried by its incoming edge and label entries rather
	// than duplicated here.
	individual entity.IndividualID
	hasIndividual bool

	edgesOut []edge
	parents  []NodeID // for blocking's ancestor walk

	mergedInto NodeID
	isMerged   bool

	blocked bool

	dataConstraints []datatype.Constraint

	// triedDisjuncts records disjuncts already attempted at this node,
	// so a re-expansion after an unrelated backjump does not re-explore
	// a branch already refuted (spec §4.5.3: "branches already tried at
	// the jump target are recorded").
	triedDisjuncts map[expr.ExprID]map[expr.ExprID]bool
}

// trailEntry is one undoable mutation, tagged with the branch that
// caused it. Backjumping truncates the trail's suffix whose branch
// exceeds the jump target, undoing in reverse order.
type trailEntry struct {
	branch BranchID
	undo   func()
}

// inequality records that two nodes must denote distinct elements: the
// "mutually different" obligation the ≥-rule places on the successors
// it introduces (spec §4.5.2). DifferentIndividuals assertions stay on
// the nominal partition; this relation covers blockable nodes, which
// that partition cannot express.
type inequality struct {
	a, b NodeID
	ds   depSet
}

// Graph is one completion graph, owned exclusively by the reasoning
// task that built it (spec §5: "no sharing").
type Graph struct {
	arena    *expr.Arena
	reg      *entity.Registry
	store    *axiom.Store
	roles    *axiom.RoleHierarchy
	oracle   *datatype.Oracle
	globalGCI expr.ExprID

	nodes        []*node
	trail        []trailEntry
	inequalities []*inequality

	nextBranch  BranchID
	ruleApplications int

	nominalIndex map[entity.IndividualID]NodeID

	cfg Config
}

func newGraph(arena *expr.Arena, reg *entity.Registry, store *axiom.Store, oracle *datatype.Oracle, globalGCI expr.ExprID, cfg Config) *Graph {
	return &Graph{
		arena:        arena,
		reg:          reg,
		store:        store,
		roles:        store.Roles(),
		oracle:       oracle,
		globalGCI:    globalGCI,
		nominalIndex: make(map[entity.IndividualID]NodeID, 16),
		cfg:          cfg,
	}
}

func (g *Graph) newNode(kind nodeKind) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &node{
		kind:           kind,
		label:          make(map[expr.ExprID]depSet, 8),
		triedDisjuncts: make(map[expr.ExprID]map[expr.ExprID]bool, 2),
	})
	return id
}

// resolve follows merge chains to the live representative of id.
func (g *Graph) resolve(id NodeID) NodeID {
	for g.nodes[id].isMerged {
		id = g.nodes[id].mergedInto
	}
	return id
}

func (g *Graph) node(id NodeID) *node { return g.nodes[g.resolve(id)] }

// addLabel adds concept to x's label with dependency ds, recording an
// undo entry tagged with ds's most recent branch. Returns true if the
// label was newly added (callers enqueue follow-up rule work only then).
func (g *Graph) addLabel(x NodeID, concept expr.ExprID, ds depSet) bool {
	n := g.node(x)
	if existing, ok := n.label[concept]; ok {
		merged := unionDep(existing, ds)
		if len(merged) == len(existing) {
			return false
		}
		n.label[concept] = merged
		return false
	}
	n.label[concept] = ds
	branch := maxBranch(ds)
	g.trail = append(g.trail, trailEntry{branch: branch, undo: func() {
		delete(n.label, concept)
	}})
	return true
}

// hasLabel reports whether concept ∈ L(x) and returns its dependency set.
func (g *Graph) hasLabel(x NodeID, concept expr.ExprID) (depSet, bool) {
	n := g.node(x)
	ds, ok := n.label[concept]
	return ds, ok
}

// addEdge adds x —R→ y (or strengthens an existing edge with another
// property), recording an undo entry. Returns true when the graph
// actually changed, so rule callers know to keep saturating.
func (g *Graph) addEdge(x, y NodeID, r expr.ObjectPropertyExpr, ds depSet) bool {
	nx := g.node(x)
	s := sig(r)
	for i := range nx.edgesOut {
		if nx.edgesOut[i].to == y {
			if _, ok := nx.edgesOut[i].props[s]; ok {
				return false
			}
			nx.edgesOut[i].props[s] = ds
			branch := maxBranch(ds)
			props := nx.edgesOut[i].props
			g.trail = append(g.trail, trailEntry{branch: branch, undo: func() {
				delete(props, s)
			}})
			return true
		}
	}
	nx.edgesOut = append(nx.edgesOut, edge{to: y, props: map[propSig]depSet{s: ds}})
	ny := g.node(y)
	ny.parents = append(ny.parents, x)
	branch := maxBranch(ds)
	g.trail = append(g.trail, trailEntry{branch: branch, undo: func() {
		for i := range nx.edgesOut {
			if nx.edgesOut[i].to == y {
				nx.edgesOut = append(nx.edgesOut[:i], nx.edgesOut[i+1:]...)
				break
			}
		}
		for i := range ny.parents {
			if ny.parents[i] == x {
				ny.parents = append(ny.parents[:i], ny.parents[i+1:]...)
				break
			}
		}
	}})
	return true
}

// successorsVia returns every y such that x —r→ y holds for r itself or
// any sub-property of r per the closed role hierarchy. Both directions
// count: an explicit edge x —s→ y with s ⊑ r, and an incoming edge
// z —s→ x whose inverse s⁻ ⊑ r (SROIQ treats an edge and its inverse as
// the same relational fact read from either end).
func (g *Graph) successorsVia(x NodeID, r expr.ObjectPropertyExpr) []NodeID {
	x = g.resolve(x)
	seen := make(map[NodeID]bool, 4)
	var out []NodeID
	add := func(id NodeID) {
		id = g.resolve(id)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, e := range g.node(x).edgesOut {
		for s := range e.props {
			if g.roles.IsSubPropertyOf(unsig(s), r) {
				add(e.to)
				break
			}
		}
	}
	for i := range g.nodes {
		n := g.nodes[i]
		if n.isMerged {
			continue
		}
		for _, e := range n.edgesOut {
			if g.resolve(e.to) != x {
				continue
			}
			for s := range e.props {
				if g.roles.IsSubPropertyOf(inverseOf(unsig(s)), r) {
					add(NodeID(i))
					break
				}
			}
		}
	}
	return out
}

// setDistinct records x ≠ y with dependency ds, undoable on backjump.
func (g *Graph) setDistinct(x, y NodeID, ds depSet) {
	iq := &inequality{a: x, b: y, ds: ds}
	g.inequalities = append(g.inequalities, iq)
	branch := maxBranch(ds)
	g.trail = append(g.trail, trailEntry{branch: branch, undo: func() {
		for i, cur := range g.inequalities {
			if cur == iq {
				g.inequalities = append(g.inequalities[:i], g.inequalities[i+1:]...)
				break
			}
		}
	}})
}

// areDistinct reports whether x ≠ y has been recorded, following merge
// chains on both the query and the stored pairs.
func (g *Graph) areDistinct(x, y NodeID) (depSet, bool) {
	x, y = g.resolve(x), g.resolve(y)
	for _, iq := range g.inequalities {
		a, b := g.resolve(iq.a), g.resolve(iq.b)
		if (a == x && b == y) || (a == y && b == x) {
			return iq.ds, true
		}
	}
	return nil, false
}

// nodeHasConcept reports whether c ∈ L(y), with ⊤ implicit in every
// label (spec §4.5.1).
func (g *Graph) nodeHasConcept(y NodeID, c expr.ExprID) bool {
	if c == expr.Top {
		return true
	}
	_, ok := g.node(y).label[c]
	return ok
}

// backjumpTo undoes every trail entry whose branch exceeds target, in
// reverse order (spec §4.5.3). Unconditional entries (branch 0) can be
// interleaved with branch-stamped ones — a deterministic rule keeps
// firing inside an open branch when its premises carry no choice — so
// the walk inspects the whole suffix rather than stopping at the first
// surviving entry.
func (g *Graph) backjumpTo(target BranchID) {
	var kept []trailEntry
	for i := len(g.trail) - 1; i >= 0; i-- {
		e := g.trail[i]
		if e.branch > target {
			e.undo()
		} else {
			kept = append(kept, e)
		}
	}
	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	g.trail = kept
}

func (g *Graph) freshBranch() BranchID {
	g.nextBranch++
	return g.nextBranch
}
