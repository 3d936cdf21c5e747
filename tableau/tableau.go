package tableau

import (
	"context"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/datatype"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

// Observer receives trace callbacks from inside the decision procedure
// (spec §6's debug_trace events). Implementations must not call back
// into the reasoner.
type Observer interface {
	OnClashDetected(reason string)
	OnBranchOpened(branch uint32)
	OnBranchClosed(branch uint32)
}

type nopObserver struct{}

func (nopObserver) OnClashDetected(string) {}
func (nopObserver) OnBranchOpened(uint32)  {}
func (nopObserver) OnBranchClosed(uint32)  {}

// Config holds the tableau's per-invocation policy knobs (spec §6).
type Config struct {
	Blocking BlockingStrategy

	// CancellationCheckInterval sets how often the search tests the
	// context for cancellation or an expired deadline: the check runs on
	// every Nth entry into the recursive search, which happens once per
	// non-deterministic choice point. Deterministic saturation between
	// two choice points runs to completion without a check.
	CancellationCheckInterval int

	// Observer, when non-nil, receives clash and branch open/close trace
	// events; no per-rule event is emitted.
	Observer Observer
}

func (c Config) observe() Observer {
	if c.Observer != nil {
		return c.Observer
	}
	return nopObserver{}
}

// DefaultConfig matches spec §6's stated defaults.
func DefaultConfig() Config {
	return Config{
		Blocking:                  EqualityBlocking,
		CancellationCheckInterval: 64,
	}
}

// Reasoner is the public contract of the tableaux core (spec §4.5.7).
type Reasoner struct {
	arena  *expr.Arena
	reg    *entity.Registry
	store  *axiom.Store
	oracle *datatype.Oracle
	normalizer *axiom.Normalizer
	cfg    Config
}

// New creates a Reasoner over one immutable snapshot of the ontology.
// A new Reasoner must be built after every axiom addition: spec §5's
// snapshot semantics mean results reflect store state at invocation
// start, not at query time.
func New(arena *expr.Arena, reg *entity.Registry, store *axiom.Store, oracle *datatype.Oracle, normalizer *axiom.Normalizer, cfg Config) *Reasoner {
	return &Reasoner{arena: arena, reg: reg, store: store, oracle: oracle, normalizer: normalizer, cfg: cfg}
}

// IsConsistent decides whether the ontology has a model at all: the
// root is seeded with just U_T and the materialized ABox, no extra
// query concept.
func (r *Reasoner) IsConsistent(ctx context.Context) (bool, error) {
	return r.run(ctx, expr.Top)
}

// IsSatisfiable decides whether class expression c has a model
// consistent with the ontology.
func (r *Reasoner) IsSatisfiable(ctx context.Context, c expr.ExprID) (bool, error) {
	return r.run(ctx, c)
}

// IsSubsumedBy reduces to unsatisfiability of C ⊓ ¬D (spec §4.5.7).
func (r *Reasoner) IsSubsumedBy(ctx context.Context, c, d expr.ExprID) (bool, error) {
	negD := r.arena.NNF(r.arena.Complement(d))
	conj := r.arena.Intersection(c, negD)
	sat, err := r.run(ctx, conj)
	if err != nil {
		return false, err
	}
	return !sat, nil
}

// AreDisjoint is unsatisfiability of C ⊓ D (spec §4.5.7).
func (r *Reasoner) AreDisjoint(ctx context.Context, c, d expr.ExprID) (bool, error) {
	conj := r.arena.Intersection(c, d)
	sat, err := r.run(ctx, conj)
	if err != nil {
		return false, err
	}
	return !sat, nil
}

// AreSameIndividuals decides whether a = b is entailed, by the nominal
// reduction {a} ⊑ {b}: the ontology forces a and b to denote one
// element iff no model can place a outside {b}.
func (r *Reasoner) AreSameIndividuals(ctx context.Context, a, b entity.IndividualID) (bool, error) {
	return r.IsSubsumedBy(ctx, r.arena.OneOf(a), r.arena.OneOf(b))
}

// EntailsObjectPropertyAssertion decides whether R(a, b) is entailed,
// by the nominal reduction {a} ⊑ ∃R.{b}.
func (r *Reasoner) EntailsObjectPropertyAssertion(ctx context.Context, p expr.ObjectPropertyExpr, a, b entity.IndividualID) (bool, error) {
	return r.IsSubsumedBy(ctx, r.arena.OneOf(a), r.arena.ObjectSomeValuesFrom(p, r.arena.OneOf(b)))
}

func (r *Reasoner) run(ctx context.Context, query expr.ExprID) (bool, error) {
	g := newGraph(r.arena, r.reg, r.store, r.oracle, r.normalizer.GlobalGCI(), r.cfg)
	g.seedRoot(query)
	g.materializeABox()

	_, clashed, err := g.search(ctx)
	if err != nil {
		return false, err
	}
	return !clashed, nil
}

// nominalNode returns (or creates) the nominal node denoting ind,
// seeded with its own singleton ObjectOneOf label so identity-based
// clash checks can see which individual the node carries.
func (g *Graph) nominalNode(ind entity.IndividualID) NodeID {
	if id, ok := g.nominalIndex[ind]; ok {
		return g.resolve(id)
	}
	id := g.newNode(Nominal)
	n := g.nodes[id]
	n.hasIndividual = true
	n.individual = ind
	g.nominalIndex[ind] = id
	g.addLabel(id, g.arena.OneOf(ind), nil)
	return id
}

// materializeABox builds nominal nodes for every known individual and
// links them by assertion edges, per spec §4.5.1: "plus the conjunction
// of all ABox assertions materialized as nominal nodes linked by
// assertion edges." Every registered individual gets a node, asserted
// about or not — nominals in TBox expressions (OneOf, HasValue) must
// resolve to the same node an ABox assertion would, and the absorbed
// global axiom constrains them all.
func (g *Graph) materializeABox() {
	for _, ind := range g.reg.AllIndividuals() {
		g.nominalNode(ind)
	}

	for _, a := range g.store.ClassAssertions() {
		g.addLabel(g.nominalNode(a.Individual), a.Class, nil)
	}
	for _, a := range g.store.ObjectPropertyAssertions() {
		if a.Negative {
			continue
		}
		g.addEdge(g.nominalNode(a.Subject), g.nominalNode(a.Object), a.Property, nil)
	}
	for _, a := range g.store.DataPropertyAssertions() {
		if a.Negative {
			continue
		}
		g.addLabel(g.nominalNode(a.Subject), g.arena.DataHasValue(a.Property, a.Value), nil)
	}
	for _, a := range g.store.SameIndividualAxioms() {
		if len(a.Individuals) < 2 {
			continue
		}
		first := g.nominalNode(a.Individuals[0])
		for _, other := range a.Individuals[1:] {
			g.merge(first, g.nominalNode(other), nil)
		}
	}
}

// negativeAssertionClash materializes (¬)R(a,b) and (¬)P(a,v) as
// explicit clash tests rather than edges: an asserted negative
// assertion contradicts a positive one between the same pair.
func (g *Graph) negativeAssertionClash() (depSet, bool) {
	for _, na := range g.store.ObjectPropertyAssertions() {
		if !na.Negative {
			continue
		}
		x, okX := g.nominalIndex[na.Subject]
		y, okY := g.nominalIndex[na.Object]
		if !okX || !okY {
			continue
		}
		target := g.resolve(y)
		// Derived edges count too: a chain- or symmetry-derived R(a, b)
		// contradicts ¬R(a, b) exactly as an asserted one would.
		for _, s := range g.successorsVia(x, na.Property) {
			if s == target {
				return nil, true
			}
		}
	}
	for _, na := range g.store.DataPropertyAssertions() {
		if !na.Negative {
			continue
		}
		x, ok := g.nominalIndex[na.Subject]
		if !ok {
			continue
		}
		hv := g.arena.DataHasValue(na.Property, na.Value)
		if _, has := g.node(x).label[hv]; has {
			return nil, true
		}
	}
	return nil, false
}
