// Package classify implements the Classifier (spec §4.8): Enhanced
// Traversal over the named-class taxonomy, generalizing the teacher's
// flat transitive-reduction pass in reasoner/taxonomy.go
// (BuildTaxonomy) from a single EL saturation pass to a sequence of
// tableau-backed subsumption tests, one pair of top/bottom searches per
// class, inserted into a Hasse diagram that never materializes the
// full transitive closure.
package classify

import (
	"fmt"

	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/internal/errs"
)

// Hierarchy is the classified subsumption lattice: direct parent/child
// edges only, plus equivalence classes collapsed into a single
// representative, mirroring the teacher's Taxonomy but addressed by
// entity.ClassID instead of the teacher's flat ConceptID namespace.
type Hierarchy struct {
	parents     map[entity.ClassID]map[entity.ClassID]struct{}
	children    map[entity.ClassID]map[entity.ClassID]struct{}
	equivalents map[entity.ClassID]map[entity.ClassID]struct{}
	classified  map[entity.ClassID]bool
}

func newHierarchy() *Hierarchy {
	h := &Hierarchy{
		parents:     make(map[entity.ClassID]map[entity.ClassID]struct{}),
		children:    make(map[entity.ClassID]map[entity.ClassID]struct{}),
		equivalents: make(map[entity.ClassID]map[entity.ClassID]struct{}),
		classified:  make(map[entity.ClassID]bool),
	}
	h.parents[entity.Nothing] = map[entity.ClassID]struct{}{entity.Thing: {}}
	h.children[entity.Thing] = map[entity.ClassID]struct{}{entity.Nothing: {}}
	h.classified[entity.Thing] = true
	h.classified[entity.Nothing] = true
	return h
}

// Trivial builds the degenerate hierarchy used when the ontology is
// inconsistent (spec §7: "classify() still returns a valid (trivial)
// hierarchy where ⊤ ≡ ⊥"): every class collapses into one equivalence
// class, directly under and over itself.
func Trivial(classes []entity.ClassID) *Hierarchy {
	h := newHierarchy()
	all := map[entity.ClassID]struct{}{}
	for _, c := range classes {
		all[c] = struct{}{}
	}
	for _, c := range classes {
		h.equivalents[c] = map[entity.ClassID]struct{}{}
		for other := range all {
			if other != c {
				h.equivalents[c][other] = struct{}{}
			}
		}
		h.classified[c] = true
	}
	return h
}

// DirectParents returns c's direct superclasses (insertion order not
// guaranteed).
func (h *Hierarchy) DirectParents(c entity.ClassID) []entity.ClassID {
	return setToSlice(h.parents[c])
}

// DirectChildren returns c's direct subclasses.
func (h *Hierarchy) DirectChildren(c entity.ClassID) []entity.ClassID {
	return setToSlice(h.children[c])
}

// Equivalents returns the other classes in c's equivalence class.
func (h *Hierarchy) Equivalents(c entity.ClassID) []entity.ClassID {
	return setToSlice(h.equivalents[c])
}

// Ancestors returns every transitive superclass of c, computed by
// walking the Hasse diagram — the closure is derived on demand, never
// stored (spec §4.8: "the transitive closure is never materialized").
func (h *Hierarchy) Ancestors(c entity.ClassID) []entity.ClassID {
	return h.walk(c, h.parents)
}

// Descendants returns every transitive subclass of c.
func (h *Hierarchy) Descendants(c entity.ClassID) []entity.ClassID {
	return h.walk(c, h.children)
}

func (h *Hierarchy) walk(start entity.ClassID, edges map[entity.ClassID]map[entity.ClassID]struct{}) []entity.ClassID {
	seen := map[entity.ClassID]bool{start: true}
	var out []entity.ClassID
	queue := []entity.ClassID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range edges[cur] {
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
				queue = append(queue, next)
			}
		}
	}
	return out
}

// insertDirect records a direct parent/child edge, asserting the
// acyclicity invariant spec §4.8 requires of a correctly saturated
// classifier: if child is already known to be a (transitive) ancestor
// of parent, the hierarchy itself is contradictory and the classifier
// has a bug, not the ontology.
func (h *Hierarchy) insertDirect(child, parent entity.ClassID) error {
	if h.isAncestor(parent, child) {
		return errs.Invariant(fmt.Sprintf("cycle detected inserting class %d as ancestor of class %d", parent, child))
	}
	if h.parents[child] == nil {
		h.parents[child] = map[entity.ClassID]struct{}{}
	}
	h.parents[child][parent] = struct{}{}
	if h.children[parent] == nil {
		h.children[parent] = map[entity.ClassID]struct{}{}
	}
	h.children[parent][child] = struct{}{}
	return nil
}

// removeDirect drops an edge that a later, more specific parent makes
// redundant.
func (h *Hierarchy) removeDirect(child, parent entity.ClassID) {
	delete(h.parents[child], parent)
	delete(h.children[parent], child)
}

func (h *Hierarchy) isAncestor(start, target entity.ClassID) bool {
	if start == target {
		return true
	}
	seen := map[entity.ClassID]bool{start: true}
	queue := []entity.ClassID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for p := range h.parents[cur] {
			if p == target {
				return true
			}
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return false
}

func (h *Hierarchy) collapseEquivalent(a, b entity.ClassID) {
	if h.equivalents[a] == nil {
		h.equivalents[a] = map[entity.ClassID]struct{}{}
	}
	if h.equivalents[b] == nil {
		h.equivalents[b] = map[entity.ClassID]struct{}{}
	}
	h.equivalents[a][b] = struct{}{}
	h.equivalents[b][a] = struct{}{}
	for other := range h.equivalents[a] {
		h.equivalents[b][other] = struct{}{}
		if h.equivalents[other] != nil {
			h.equivalents[other][b] = struct{}{}
		}
	}
}

func setToSlice(m map[entity.ClassID]struct{}) []entity.ClassID {
	out := make([]entity.ClassID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
