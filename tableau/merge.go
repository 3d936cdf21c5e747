package tableau

import "github.com/anusornc/owl2go/entity"

// merge unifies y into x (spec §4.5.4): the merged node's label is the
// union of both labels, edges are redirected, and dependency sets of
// the introduced label/edge equalities are unioned with ds, the
// dependency of the merge decision itself. If either node is nominal,
// the nominal one survives as the representative regardless of id
// order; otherwise the smaller id survives.
func (g *Graph) merge(x, y NodeID, ds depSet) {
	x, y = g.resolve(x), g.resolve(y)
	if x == y {
		return
	}

	xn, yn := g.node(x), g.node(y)
	survivor, absorbed := x, y
	if yn.kind == Nominal && xn.kind != Nominal {
		survivor, absorbed = y, x
	} else if xn.kind != Nominal && yn.kind != Nominal && y < x {
		survivor, absorbed = y, x
	}
	sv, ab := g.node(survivor), g.node(absorbed)

	for c, d := range ab.label {
		g.addLabel(survivor, c, unionDep(d, ds))
	}

	for _, e := range ab.edgesOut {
		for s, d := range e.props {
			g.addEdge(survivor, e.to, unsig(s), unionDep(d, ds))
		}
	}
	for i := range g.nodes {
		n := g.nodes[i]
		for ei := range n.edgesOut {
			if g.resolve(n.edgesOut[ei].to) == absorbed {
				for s, d := range n.edgesOut[ei].props {
					g.addEdge(NodeID(i), survivor, unsig(s), unionDep(d, ds))
				}
			}
		}
	}

	var redirectedInd entity.IndividualID
	var prevIndexed NodeID
	redirected := false
	if ab.hasIndividual {
		if !sv.hasIndividual {
			sv.hasIndividual = true
			sv.individual = ab.individual
		}
		redirectedInd = ab.individual
		prevIndexed, redirected = g.nominalIndex[redirectedInd], true
		g.nominalIndex[redirectedInd] = survivor
	}

	ab.isMerged = true
	ab.mergedInto = survivor
	branch := maxBranch(ds)
	g.trail = append(g.trail, trailEntry{branch: branch, undo: func() {
		ab.isMerged = false
		if redirected {
			g.nominalIndex[redirectedInd] = prevIndexed
		}
	}})
}

// canMerge reports whether x and y may be merged without an immediate
// contradiction: two nodes the ≥-rule introduced as mutually different,
// or two nominal nodes pinned apart by DifferentIndividuals, can never
// merge.
func (g *Graph) canMerge(x, y NodeID) bool {
	if _, distinct := g.areDistinct(x, y); distinct {
		return false
	}
	xn, yn := g.node(x), g.node(y)
	if xn.kind != Nominal || yn.kind != Nominal {
		return true
	}
	if !xn.hasIndividual || !yn.hasIndividual {
		return true
	}
	for _, diff := range g.store.DifferentIndividualsAxioms() {
		hasX, hasY := false, false
		for _, ind := range diff.Individuals {
			if ind == xn.individual {
				hasX = true
			}
			if ind == yn.individual {
				hasY = true
			}
		}
		if hasX && hasY {
			return false
		}
	}
	return true
}
