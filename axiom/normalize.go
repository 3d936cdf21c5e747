package axiom

import (
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

// Normalizer performs the rewriting passes spec §4.3 requires, in
// order: NNF, EquivalentClasses→clique, DisjointClasses→pairwise,
// GCI absorption into a global axiom, and role-hierarchy chain closure
// (delegated to RoleHierarchy, wired in at Store construction). It is
// the Go-idiomatic generalization of the teacher's normalizeIntersection
// pass in reasoner/normalize.go, widened from EL's restricted normal
// forms to full SROIQ(D) class expressions.
type Normalizer struct {
	arena *expr.Arena
	reg   *entity.Registry
	store *Store

	// globalGCI accumulates U_T := ⊓ᵢ (¬Cᵢ ⊔ Dᵢ) for every general
	// concept inclusion C ⊑ D whose left side is not itself a named
	// class (spec §4.3 (iv)). Every tableau root node is seeded with
	// this expression in addition to the query concept.
	globalGCI expr.ExprID
}

// NewNormalizer creates a Normalizer writing into store, using arena
// for expression construction and reg to recognize named classes.
func NewNormalizer(arena *expr.Arena, reg *entity.Registry, store *Store) *Normalizer {
	return &Normalizer{arena: arena, reg: reg, store: store, globalGCI: expr.Top}
}

// GlobalGCI returns the current U_T, the conjunction every tableau node
// must satisfy (spec §4.5.1: "One root node whose label is {C, U_T}").
func (n *Normalizer) GlobalGCI() expr.ExprID { return n.globalGCI }

// SubClassOf normalizes and stores C ⊑ D. If C is a named class the
// axiom is kept as a primitive definition (spec §4.3 (iv)); otherwise it
// is absorbed into the global GCI instead of being stored as its own
// SubClassOf axiom, avoiding redundant node labels during tableau
// expansion.
func (n *Normalizer) SubClassOf(sub, sup expr.ExprID) {
	sub = n.arena.NNF(sub)
	sup = n.arena.NNF(sup)

	if n.arena.Tag(sub) == expr.TagNamedClass {
		n.store.AddSubClassOf(SubClassOf{Sub: sub, Sup: sup})
		return
	}

	gci := n.arena.Union(n.arena.NNF(n.arena.Complement(sub)), sup)
	n.globalGCI = n.arena.Intersection(n.globalGCI, gci)
}

// EquivalentClasses rewrites EquivalentClasses({C1..Cn}) into the clique
// of SubClassOf(Ci, Cj) for every ordered pair i≠j (spec §4.3 (ii)).
func (n *Normalizer) EquivalentClasses(classes []expr.ExprID) {
	n.store.AddEquivalentClasses(EquivalentClasses{Classes: classes})
	for i, ci := range classes {
		for j, cj := range classes {
			if i == j {
				continue
			}
			n.SubClassOf(ci, cj)
		}
	}
}

// DisjointClasses rewrites DisjointClasses({C1..Cn}) into pairwise
// SubClassOf(Ci ⊓ Cj, ⊥) (spec §4.3 (iii)).
func (n *Normalizer) DisjointClasses(classes []expr.ExprID) {
	n.store.AddDisjointClasses(DisjointClasses{Classes: classes})
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			conj := n.arena.Intersection(classes[i], classes[j])
			n.SubClassOf(conj, expr.Bottom)
		}
	}
}

// DisjointUnion rewrites DisjointUnion(C, {D1..Dn}) into C ≡ (D1⊔…⊔Dn)
// plus DisjointClasses({D1..Dn}) (OWL 2's defined shorthand for this
// combination, spec §3.5).
func (n *Normalizer) DisjointUnion(class expr.ExprID, parts []expr.ExprID) {
	n.store.AddDisjointUnion(DisjointUnion{Class: class, Parts: parts})
	union := n.arena.Union(parts...)
	n.EquivalentClasses([]expr.ExprID{class, union})
	n.DisjointClasses(parts)
}

// RoleChain records R1∘…∘Rn ⊑ S, rejecting non-regular chains with the
// error RoleHierarchy.AddChain produces.
func (n *Normalizer) RoleChain(chain []expr.ObjectPropertyExpr, sup expr.ObjectPropertyExpr) error {
	return n.store.AddRoleChain(RoleChain{Chain: chain, Super: sup})
}

// SubObjectPropertyOf records R ⊑ S, the chain-length-1 degenerate case.
func (n *Normalizer) SubObjectPropertyOf(sub, sup expr.ObjectPropertyExpr) error {
	return n.RoleChain([]expr.ObjectPropertyExpr{sub}, sup)
}

// ClassAssertion normalizes C(a) to NNF before storing.
func (n *Normalizer) ClassAssertion(class expr.ExprID, ind entity.IndividualID) {
	n.store.AddClassAssertion(ClassAssertion{Class: n.arena.NNF(class), Individual: ind})
}
