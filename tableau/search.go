package tableau

import (
	"context"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/internal/errs"
)

type disjunctionPick struct {
	x       NodeID
	concept expr.ExprID
}

type choosePick struct {
	x, y    NodeID
	concept expr.ExprID
	filler  expr.ExprID
}

type mergePick struct {
	x      NodeID
	excess []NodeID
	ds     depSet
}

type oneOfPick struct {
	x       NodeID
	concept expr.ExprID
}

// search performs one level of the recursive backjumping search: it
// saturates deterministically, then picks and tries exactly one
// non-deterministic choice, recursing for each alternative (spec
// §4.5.2, §4.5.3). A nil, false result means a saturated, clash-free
// graph was reached — the model exists and satisfiability holds.
func (g *Graph) search(ctx context.Context) (depSet, bool, error) {
	if err := g.checkCancellation(ctx); err != nil {
		return nil, false, err
	}

	if ds, clashed := g.saturateDeterministic(); clashed {
		return ds, true, nil
	}

	if pick := g.pickDisjunction(); pick != nil {
		return g.tryDisjunction(ctx, *pick)
	}
	if pick := g.pickOneOf(); pick != nil {
		return g.tryOneOf(ctx, *pick)
	}
	if pick := g.pickChoose(); pick != nil {
		return g.tryChoose(ctx, *pick)
	}
	if pick := g.pickMerge(); pick != nil {
		return g.tryMerge(ctx, *pick)
	}

	return nil, false, nil
}

func (g *Graph) checkCancellation(ctx context.Context) error {
	g.ruleApplications++
	interval := g.cfg.CancellationCheckInterval
	if interval <= 0 {
		interval = DefaultConfig().CancellationCheckInterval
	}
	if g.ruleApplications%interval != 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return errs.New(errs.Timeout)
		}
		return errs.New(errs.Cancelled)
	default:
		return nil
	}
}

func (g *Graph) pickDisjunction() *disjunctionPick {
	for i := range g.nodes {
		x := NodeID(i)
		if g.nodes[i].isMerged {
			continue
		}
		for c := range g.node(x).label {
			if g.arena.Tag(c) != expr.TagUnion {
				continue
			}
			tried := g.node(x).triedDisjuncts[c]
			operands := g.arena.Children(c)
			realized := false
			allTried := true
			for _, op := range operands {
				if g.nodeHasConcept(x, op) {
					realized = true
					break
				}
				if !tried[op] {
					allTried = false
				}
			}
			if realized || allTried {
				continue
			}
			return &disjunctionPick{x: x, concept: c}
		}
	}
	return nil
}

func (g *Graph) tryDisjunction(ctx context.Context, pick disjunctionPick) (depSet, bool, error) {
	branch := g.freshBranch()
	g.cfg.observe().OnBranchOpened(uint32(branch))
	n := g.node(pick.x)
	if n.triedDisjuncts[pick.concept] == nil {
		n.triedDisjuncts[pick.concept] = make(map[expr.ExprID]bool, 2)
	}
	tried := n.triedDisjuncts[pick.concept]
	labelDS, _ := g.hasLabel(pick.x, pick.concept)

	// On exhaustion the disjunction's failure depends on every choice
	// that contributed to any alternative's clash, plus whatever
	// justified the disjunction label itself, minus this branch (spec
	// §4.5.3: the clash unions the contradictory facts' dependency sets).
	combined := depSet{}
	for _, op := range g.arena.Children(pick.concept) {
		if tried[op] {
			continue
		}
		g.addLabel(pick.x, op, unionDep(labelDS, singletonDep(branch)))
		ds, clashed, err := g.search(ctx)
		if err != nil {
			return nil, false, err
		}
		if !clashed {
			return nil, false, nil
		}
		if maxBranch(ds) != branch {
			return ds, true, nil
		}
		tried[op] = true
		// The refutation stands only while the other choices it depended
		// on stand; a backjump below the latest of them clears the mark.
		var keep BranchID
		for b := range ds {
			if b != branch {
				combined[b] = struct{}{}
				if b > keep {
					keep = b
				}
			}
		}
		refuted := op
		g.trail = append(g.trail, trailEntry{branch: keep, undo: func() { delete(tried, refuted) }})
		g.backjumpTo(branch - 1)
	}
	g.cfg.observe().OnBranchClosed(uint32(branch))
	for b := range labelDS {
		combined[b] = struct{}{}
	}
	return combined, true, nil
}

// pickOneOf finds a node whose label carries a multi-member ObjectOneOf
// it has not yet been identified with: the Ⓞ rule's non-deterministic
// case, choosing which enumerated individual the node denotes.
func (g *Graph) pickOneOf() *oneOfPick {
	for i := range g.nodes {
		x := NodeID(i)
		if g.nodes[i].isMerged {
			continue
		}
		for c := range g.node(x).label {
			if g.arena.Tag(c) != expr.TagOneOf {
				continue
			}
			inds := g.arena.Individuals(c)
			if len(inds) < 2 {
				continue
			}
			identified := false
			for _, ind := range inds {
				if node, ok := g.nominalIndex[ind]; ok && g.resolve(node) == g.resolve(x) {
					identified = true
					break
				}
			}
			if !identified {
				return &oneOfPick{x: x, concept: c}
			}
		}
	}
	return nil
}

func (g *Graph) tryOneOf(ctx context.Context, pick oneOfPick) (depSet, bool, error) {
	branch := g.freshBranch()
	g.cfg.observe().OnBranchOpened(uint32(branch))
	labelDS, _ := g.hasLabel(pick.x, pick.concept)

	combined := depSet{}
	for _, ind := range g.arena.Individuals(pick.concept) {
		y := g.nominalNode(ind)
		if !g.canMerge(g.resolve(pick.x), g.resolve(y)) {
			continue
		}
		g.merge(pick.x, y, unionDep(labelDS, singletonDep(branch)))
		ds, clashed, err := g.search(ctx)
		if err != nil {
			return nil, false, err
		}
		if !clashed {
			return nil, false, nil
		}
		if maxBranch(ds) != branch {
			return ds, true, nil
		}
		for b := range ds {
			if b != branch {
				combined[b] = struct{}{}
			}
		}
		g.backjumpTo(branch - 1)
	}
	g.cfg.observe().OnBranchClosed(uint32(branch))
	for b := range labelDS {
		combined[b] = struct{}{}
	}
	return combined, true, nil
}

func (g *Graph) pickChoose() *choosePick {
	for i := range g.nodes {
		x := NodeID(i)
		if g.nodes[i].isMerged {
			continue
		}
		for c := range g.node(x).label {
			tag := g.arena.Tag(c)
			if tag != expr.TagObjectMinCardinality && tag != expr.TagObjectMaxCardinality {
				continue
			}
			r := g.arena.ObjectProperty(c)
			filler := expr.Top
			if kids := g.arena.Children(c); len(kids) > 0 {
				filler = kids[0]
			}
			if filler == expr.Top {
				continue
			}
			for _, y := range g.successorsVia(x, r) {
				hasFiller := g.nodeHasConcept(y, filler)
				negFiller := g.arena.NNF(g.arena.Complement(filler))
				hasNeg := g.nodeHasConcept(y, negFiller)
				if !hasFiller && !hasNeg {
					return &choosePick{x: x, y: y, concept: c, filler: filler}
				}
			}
		}
	}
	return nil
}

func (g *Graph) tryChoose(ctx context.Context, pick choosePick) (depSet, bool, error) {
	branch := g.freshBranch()
	g.cfg.observe().OnBranchOpened(uint32(branch))
	neg := g.arena.NNF(g.arena.Complement(pick.filler))
	labelDS, _ := g.hasLabel(pick.x, pick.concept)

	combined := depSet{}
	for _, alt := range []expr.ExprID{pick.filler, neg} {
		g.addLabel(pick.y, alt, unionDep(labelDS, singletonDep(branch)))
		ds, clashed, err := g.search(ctx)
		if err != nil {
			return nil, false, err
		}
		if !clashed {
			return nil, false, nil
		}
		if maxBranch(ds) != branch {
			return ds, true, nil
		}
		for b := range ds {
			if b != branch {
				combined[b] = struct{}{}
			}
		}
		g.backjumpTo(branch - 1)
	}
	g.cfg.observe().OnBranchClosed(uint32(branch))
	for b := range labelDS {
		combined[b] = struct{}{}
	}
	return combined, true, nil
}

// pickMerge finds a node with more R-successors than a ≤-restriction or
// a functional/inverse-functional characteristic permits; the excess
// successors must be identified pairwise (spec §4.5.4).
func (g *Graph) pickMerge() *mergePick {
	for i := range g.nodes {
		x := NodeID(i)
		if g.nodes[i].isMerged {
			continue
		}
		for c, dc := range g.node(x).label {
			if g.arena.Tag(c) != expr.TagObjectMaxCardinality {
				continue
			}
			bound := int(g.arena.Cardinality(c))
			r := g.arena.ObjectProperty(c)
			filler := g.arena.Children(c)[0]
			var matching []NodeID
			for _, y := range g.successorsVia(x, r) {
				if g.nodeHasConcept(y, filler) {
					matching = append(matching, y)
				}
			}
			if len(matching) > bound && bound > 0 {
				return &mergePick{x: x, excess: matching, ds: dc}
			}
		}
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
			if len(succ) > 1 {
				return &mergePick{x: x, excess: succ}
			}
		}
	}
	return nil
}

func (g *Graph) tryMerge(ctx context.Context, pick mergePick) (depSet, bool, error) {
	branch := g.freshBranch()
	g.cfg.observe().OnBranchOpened(uint32(branch))
	ds := unionDep(pick.ds, singletonDep(branch))

	combined := depSet{}
	for i := 0; i < len(pick.excess); i++ {
		for j := i + 1; j < len(pick.excess); j++ {
			if !g.canMerge(g.resolve(pick.excess[i]), g.resolve(pick.excess[j])) {
				// An unmergeable pair contributes whatever choices made
				// it distinct to the eventual failure's dependency set.
				if d, ok := g.areDistinct(pick.excess[i], pick.excess[j]); ok {
					for b := range d {
						combined[b] = struct{}{}
					}
				}
				continue
			}
			g.merge(pick.excess[i], pick.excess[j], ds)
			result, clashed, err := g.search(ctx)
			if err != nil {
				return nil, false, err
			}
			if !clashed {
				return nil, false, nil
			}
			if maxBranch(result) != branch {
				return result, true, nil
			}
			for b := range result {
				if b != branch {
					combined[b] = struct{}{}
				}
			}
			g.backjumpTo(branch - 1)
		}
	}
	g.cfg.observe().OnBranchClosed(uint32(branch))
	for b := range pick.ds {
		combined[b] = struct{}{}
	}
	return combined, true, nil
}
