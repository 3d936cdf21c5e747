package classify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/tableau"
)

// Config holds the classifier's policy knobs (spec §6
// `classification.parallelism`).
type Config struct {
	// Parallelism bounds how many per-class traversals run
	// concurrently; <= 0 means unbounded (subject only to the
	// errgroup's own scheduling).
	Parallelism int
}

// DefaultConfig matches spec §6's stated default.
func DefaultConfig() Config {
	return Config{Parallelism: 4}
}

// Classifier computes the subsumption hierarchy over the named classes
// of one ontology snapshot via Enhanced Traversal (spec §4.8).
type Classifier struct {
	arena *expr.Arena
	reg   *entity.Registry
	store *axiom.Store
	cfg   Config
}

// New creates a Classifier over one ontology snapshot. As with
// tableau.Reasoner, a Classifier answers for exactly the store state at
// construction time.
func New(arena *expr.Arena, reg *entity.Registry, store *axiom.Store, cfg Config) *Classifier {
	return &Classifier{arena: arena, reg: reg, store: store, cfg: cfg}
}

// Classify runs Enhanced Traversal over every named class and returns
// the resulting Hasse diagram (spec §4.8). If the ontology is
// inconsistent, it short-circuits to the trivial ⊤≡⊥ hierarchy per
// spec §7 without invoking the tableau again per class.
func (c *Classifier) Classify(ctx context.Context, r *tableau.Reasoner) (*Hierarchy, error) {
	consistent, err := r.IsConsistent(ctx)
	if err != nil {
		return nil, err
	}
	classes := c.reg.AllClasses()
	if !consistent {
		return Trivial(classes), nil
	}

	h := newHierarchy()

	// Classes are classified one at a time; within one class the top
	// and bottom searches are independent of each other and run
	// concurrently, bounded by cfg.Parallelism — this is the
	// errgroup-bounded pool the Classifier-parallelism REDESIGN FLAG
	// calls for, replacing the teacher's inert SaturateParallel.
	for _, cls := range classes {
		if cls == entity.Thing || cls == entity.Nothing {
			continue
		}
		if h.classified[cls] {
			continue
		}
		if err := c.classifyOne(ctx, r, h, cls); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (c *Classifier) classifyOne(ctx context.Context, r *tableau.Reasoner, h *Hierarchy, cls entity.ClassID) error {
	ce := c.arena.NamedClass(cls)

	// An unsatisfiable class collapses straight into ⊥; running the
	// top/bottom searches for it would also defeat the asserted-
	// disjointness pre-filter, which is only sound for satisfiable
	// subsumees.
	sat, err := r.IsSatisfiable(ctx, ce)
	if err != nil {
		return err
	}
	if !sat {
		h.collapseEquivalent(cls, entity.Nothing)
		if h.parents[entity.Nothing] == nil {
			h.parents[entity.Nothing] = map[entity.ClassID]struct{}{}
		}
		if h.children[entity.Nothing] == nil {
			h.children[entity.Nothing] = map[entity.ClassID]struct{}{}
		}
		h.parents[cls] = h.parents[entity.Nothing]
		h.children[cls] = h.children[entity.Nothing]
		h.classified[cls] = true
		return nil
	}

	var parents, children []entity.ClassID
	g, gctx := errgroup.WithContext(ctx)
	if c.cfg.Parallelism > 0 {
		g.SetLimit(c.cfg.Parallelism)
	}
	g.Go(func() error {
		ps, err := c.topSearch(gctx, r, h, ce)
		parents = ps
		return err
	})
	g.Go(func() error {
		cs, err := c.bottomSearch(gctx, r, h, ce)
		children = cs
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for _, p := range parents {
		if alreadyEquivalent(h, p, cls) {
			continue
		}
		equiv, err := r.IsSubsumedBy(ctx, c.arena.NamedClass(p), ce)
		if err != nil {
			return err
		}
		if equiv {
			h.collapseEquivalent(cls, p)
			// An equivalent class occupies its representative's position:
			// share the edge sets so later insertions against either name
			// stay in sync.
			if h.parents[p] == nil {
				h.parents[p] = map[entity.ClassID]struct{}{}
			}
			if h.children[p] == nil {
				h.children[p] = map[entity.ClassID]struct{}{}
			}
			h.parents[cls] = h.parents[p]
			h.children[cls] = h.children[p]
			h.classified[cls] = true
			return nil
		}
		if err := h.insertDirect(cls, p); err != nil {
			return err
		}
	}
	for _, ch := range children {
		if err := h.insertDirect(ch, cls); err != nil {
			return err
		}
	}
	// Inserting cls between its parents and children makes any direct
	// parent↔child edge that bypasses cls redundant in the Hasse diagram.
	for _, p := range parents {
		for _, ch := range children {
			h.removeDirect(ch, p)
		}
	}
	h.classified[cls] = true
	return nil
}

func alreadyEquivalent(h *Hierarchy, a, b entity.ClassID) bool {
	for e := range h.equivalents[a] {
		if e == b {
			return true
		}
	}
	return false
}

// topSearch descends from ⊤ to find cls's direct parents: a frontier
// node is a candidate parent as long as cls ⊑ node; the search
// descends into a candidate's already-known children to find more
// specific candidates, stopping (and keeping the candidate as direct)
// when none of its children also subsume cls.
func (c *Classifier) topSearch(ctx context.Context, r *tableau.Reasoner, h *Hierarchy, clsExpr expr.ExprID) ([]entity.ClassID, error) {
	var direct []entity.ClassID
	visited := map[entity.ClassID]bool{}

	var visit func(node entity.ClassID) error
	visit = func(node entity.ClassID) error {
		if visited[node] {
			return nil
		}
		visited[node] = true

		descended := false
		for _, child := range h.DirectChildren(node) {
			if quickNonSubsumption(c.arena, c.store, child, c.classOf(clsExpr)) {
				continue
			}
			holds, err := r.IsSubsumedBy(ctx, clsExpr, c.arena.NamedClass(child))
			if err != nil {
				return err
			}
			if !holds {
				continue
			}
			descended = true
			if err := visit(child); err != nil {
				return err
			}
		}
		if !descended {
			direct = append(direct, node)
		}
		return nil
	}

	if err := visit(entity.Thing); err != nil {
		return nil, err
	}
	return direct, nil
}

// bottomSearch is topSearch's mirror image, ascending from ⊥ through
// already-known parents, testing node ⊑ cls.
func (c *Classifier) bottomSearch(ctx context.Context, r *tableau.Reasoner, h *Hierarchy, clsExpr expr.ExprID) ([]entity.ClassID, error) {
	var direct []entity.ClassID
	visited := map[entity.ClassID]bool{}

	var visit func(node entity.ClassID) error
	visit = func(node entity.ClassID) error {
		if visited[node] {
			return nil
		}
		visited[node] = true

		ascended := false
		for _, parent := range h.DirectParents(node) {
			if quickNonSubsumption(c.arena, c.store, parent, c.classOf(clsExpr)) {
				continue
			}
			holds, err := r.IsSubsumedBy(ctx, c.arena.NamedClass(parent), clsExpr)
			if err != nil {
				return err
			}
			if !holds {
				continue
			}
			ascended = true
			if err := visit(parent); err != nil {
				return err
			}
		}
		if !ascended {
			direct = append(direct, node)
		}
		return nil
	}

	if err := visit(entity.Nothing); err != nil {
		return nil, err
	}
	return direct, nil
}

func (c *Classifier) classOf(e expr.ExprID) entity.ClassID {
	return c.arena.ClassOf(e)
}

// quickNonSubsumption is the pseudo-model pre-filter (spec §9):
// generalizes the teacher's flat candidate-pruning idea from
// BuildTaxonomy into a cheap rejection test run in front of the real
// tableau call rather than as a substitute for it. Two named classes
// asserted disjoint can never stand in a subsumption relation (the
// ontology is already known consistent by the time this runs), so a
// direct DisjointClasses/DisjointUnion assertion between a and b is
// enough to skip the IsSubsumedBy round trip entirely.
func quickNonSubsumption(arena *expr.Arena, store *axiom.Store, a, b entity.ClassID) bool {
	if a == b {
		return false
	}
	for _, dc := range store.DisjointClassesAxioms() {
		hasA, hasB := false, false
		for _, cls := range dc.Classes {
			if isNamed(arena, cls, a) {
				hasA = true
			}
			if isNamed(arena, cls, b) {
				hasB = true
			}
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

func isNamed(arena *expr.Arena, e expr.ExprID, cls entity.ClassID) bool {
	return arena.Tag(e) == expr.TagNamedClass && arena.ClassOf(e) == cls
}
