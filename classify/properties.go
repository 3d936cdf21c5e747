package classify

import (
	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

// PropertyHierarchy is the object/data property analog of Hierarchy
// (spec §4.8 last line: "the analogous procedure... over object and
// data property expressions"). Object properties get a real
// subsumption structure from the already-closed role hierarchy
// (package axiom); data properties in this model carry no
// sub-property-of axiom, so their "hierarchy" is flat: every data
// property is listed in DataEquivalent with no equivalents, as a direct
// child of the implicit top data property. No data-property equivalence
// or disjointness is recorded.
type PropertyHierarchy struct {
	ObjectParents  map[expr.ObjectPropertyExpr][]expr.ObjectPropertyExpr
	ObjectChildren map[expr.ObjectPropertyExpr][]expr.ObjectPropertyExpr
	DataEquivalent map[entity.PropertyID][]entity.PropertyID
}

// BuildPropertyHierarchy computes the direct object-property
// subsumption edges by transitive reduction over the already-closed
// RoleHierarchy (package axiom performs the closure; this is purely
// the Hasse-diagram step, mirroring Hierarchy.insertDirect but for
// properties, which never participate in the tableau so need no
// tableau-backed test — subsumption here is exactly the asserted,
// transitively-closed sub-property relation).
func BuildPropertyHierarchy(store *axiom.Store, reg *entity.Registry) *PropertyHierarchy {
	ph := &PropertyHierarchy{
		ObjectParents:  make(map[expr.ObjectPropertyExpr][]expr.ObjectPropertyExpr),
		ObjectChildren: make(map[expr.ObjectPropertyExpr][]expr.ObjectPropertyExpr),
		DataEquivalent: make(map[entity.PropertyID][]entity.PropertyID),
	}

	roles := store.Roles()
	props := allObjectPropertyExprs(reg)
	for _, p := range props {
		supers := roles.SuperProperties(p)
		direct := make([]expr.ObjectPropertyExpr, 0, len(supers))
		for _, s := range supers {
			if s == p {
				continue
			}
			// s is direct unless some other proper super of p is itself
			// a proper sub-property of s (s is then redundant, reached
			// transitively through that closer super-property).
			isDirect := true
			for _, other := range supers {
				if other == s || other == p {
					continue
				}
				if roles.IsSubPropertyOf(other, s) {
					isDirect = false
					break
				}
			}
			if isDirect {
				direct = append(direct, s)
			}
		}
		for _, d := range direct {
			ph.ObjectParents[p] = append(ph.ObjectParents[p], d)
			ph.ObjectChildren[d] = append(ph.ObjectChildren[d], p)
		}
	}

	for id := entity.PropertyID(0); int(id) < reg.DataPropertyCount(); id++ {
		ph.DataEquivalent[id] = nil
	}

	return ph
}

func allObjectPropertyExprs(reg *entity.Registry) []expr.ObjectPropertyExpr {
	out := make([]expr.ObjectPropertyExpr, 0, reg.ObjectPropertyCount()*2)
	for id := entity.PropertyID(0); int(id) < reg.ObjectPropertyCount(); id++ {
		out = append(out, expr.ObjectPropertyExpr{Property: id, Inverse: false})
		out = append(out, expr.ObjectPropertyExpr{Property: id, Inverse: true})
	}
	return out
}
