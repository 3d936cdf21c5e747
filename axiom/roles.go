package axiom

import (
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/internal/errs"
)

// roleKey is an object property expression reduced to a hashable key,
// collapsing direction the same way propKey does for the secondary
// indexes.
type roleKey struct {
	id      uint32
	inverse bool
}

func rk(p expr.ObjectPropertyExpr) roleKey { return roleKey{uint32(p.Property), p.Inverse} }

// RoleHierarchy closes sub-property and chain axioms into the regular
// structure SROIQ decidability requires (spec §4.3 (v)): sub-property
// edges are closed under transitivity, and chain axioms R1∘…∘Rn ⊑ S are
// accepted only when they respect a regular order over properties —
// every Ri in the chain must be ≤ S in that order, with R=S=…=S
// (transitivity-shaped self-chains) as the only admitted exception.
// This mirrors the teacher's role-closure pass in Saturate, generalized
// from EL's plain sub-property lattice to chains with a regularity
// check.
type RoleHierarchy struct {
	subs  map[roleKey]map[roleKey]bool // sub ⊑ sup, transitively closed
	order map[roleKey]int              // regular order position, assigned on first chain axiom
	chains []RoleChain
	nextOrder int
}

func newRoleHierarchy() *RoleHierarchy {
	return &RoleHierarchy{
		subs:  make(map[roleKey]map[roleKey]bool, 16),
		order: make(map[roleKey]int, 16),
	}
}

// AddSubPropertyOf records R ⊑ S and re-closes transitively.
func (h *RoleHierarchy) AddSubPropertyOf(sub, sup expr.ObjectPropertyExpr) {
	a, b := rk(sub), rk(sup)
	if h.subs[a] == nil {
		h.subs[a] = make(map[roleKey]bool, 4)
	}
	if h.subs[a][b] {
		return
	}
	h.subs[a][b] = true
	h.closeTransitively()
}

func (h *RoleHierarchy) closeTransitively() {
	changed := true
	for changed {
		changed = false
		for a, supsA := range h.subs {
			for b := range supsA {
				for c := range h.subs[b] {
					if !h.subs[a][c] {
						h.subs[a][c] = true
						changed = true
					}
				}
			}
		}
	}
}

// IsSubPropertyOf reports whether sub ⊑ sup holds, reflexively and
// transitively.
func (h *RoleHierarchy) IsSubPropertyOf(sub, sup expr.ObjectPropertyExpr) bool {
	a, b := rk(sub), rk(sup)
	if a == b {
		return true
	}
	return h.subs[a][b]
}

// AddChain records R1∘…∘Rn ⊑ S after checking the regularity condition,
// returning UnsupportedConstruct if the chain would make the role
// hierarchy irregular (a genuine cycle through distinct properties,
// rather than a transitivity-shaped self-composition).
func (h *RoleHierarchy) AddChain(c RoleChain) error {
	sup := rk(c.Super)
	if _, ok := h.order[sup]; !ok {
		h.order[sup] = h.nextOrder
		h.nextOrder++
	}
	supOrder := h.order[sup]

	allSelf := true
	for _, r := range c.Chain {
		if rk(r) != sup {
			allSelf = false
			break
		}
	}
	if allSelf {
		h.chains = append(h.chains, c)
		return nil
	}

	for _, r := range c.Chain {
		k := rk(r)
		if k == sup {
			continue
		}
		ord, ok := h.order[k]
		if !ok {
			h.order[k] = supOrder
			continue
		}
		if ord > supOrder {
			return errs.Unsupported("non-regular role chain (cyclic through property order)")
		}
	}
	h.chains = append(h.chains, c)
	return nil
}

// Chains returns every accepted chain axiom, for the tableau's chain rule.
func (h *RoleHierarchy) Chains() []RoleChain { return h.chains }

// SuperProperties returns every sup with sub ⊑ sup, sub included.
func (h *RoleHierarchy) SuperProperties(sub expr.ObjectPropertyExpr) []expr.ObjectPropertyExpr {
	out := []expr.ObjectPropertyExpr{sub}
	a := rk(sub)
	for b := range h.subs[a] {
		out = append(out, expr.ObjectPropertyExpr{Property: entity.PropertyID(b.id), Inverse: b.inverse})
	}
	return out
}
