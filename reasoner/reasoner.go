// Package reasoner is the Query Facade (spec §4.9, §6): the one
// exported surface collaborators import. It assembles the IRI
// Interner, Entity Registry, Expression Arena, Axiom Store, Datatype
// Oracle, Reasoning Cache, Tableaux Core, and Classifier the lower
// packages implement, the way the teacher's main.go assembled
// ontology.ParseOBO/ParseOWL output into a single *ontology.Ontology —
// generalized here from a ChEBI-specific parse-and-write pipeline into
// a general ingestion-and-query facade.
package reasoner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/cache"
	"github.com/anusornc/owl2go/classify"
	"github.com/anusornc/owl2go/datatype"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/internal/errs"
	"github.com/anusornc/owl2go/internal/obs"
	"github.com/anusornc/owl2go/iri"
	"github.com/anusornc/owl2go/tableau"
)

// Reasoner is the Query Facade. One Reasoner owns exactly one
// iri.Interner/entity.Registry/expr.Arena/axiom.Ontology quadruple;
// every mutation bumps the ontology's version, invalidating the
// caches, and every query builds a fresh tableau.Reasoner/
// classify.Classifier snapshot against the store as it stands at call
// time (spec §5 snapshot semantics).
type Reasoner struct {
	mu sync.RWMutex

	interner *iri.Interner
	registry *entity.Registry
	arena    *expr.Arena
	ontology *axiom.Ontology
	oracle   *datatype.Oracle
	norm     *axiom.Normalizer
	caches   *cache.Caches

	cfg Config
}

// New assembles a fresh, empty Reasoner per the supplied options
// (spec §6's Config, exposed as functional options in the teacher's
// constructor-function idiom).
func New(opts ...Option) *Reasoner {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	in := iri.New()
	reg := entity.New(in)
	arena := expr.New(reg)
	store := axiom.New()
	ont := axiom.NewOntology(store)
	oracle := datatype.New(arena, in, cfg.DatatypeStrict)
	norm := axiom.NewNormalizer(arena, reg, store)

	caches, err := cache.New(cfg.CacheSize, cfg.CacheTTLs)
	if err != nil {
		// Only hashicorp/golang-lru/v2's size <= 0 guard can fail here;
		// DefaultConfig and every WithCacheSize option keep CacheSize
		// positive, so this path falls back to the smallest legal cache
		// rather than surfacing a constructor error from New's signature.
		caches, _ = cache.New(1, cfg.CacheTTLs)
	}

	return &Reasoner{
		interner: in,
		registry: reg,
		arena:    arena,
		ontology: ont,
		oracle:   oracle,
		norm:     norm,
		caches:   caches,
		cfg:      cfg,
	}
}

// Interner, Registry, Arena expose the entity-construction surface
// collaborators build axioms against (spec §4.9: "the one exported
// surface collaborators use... beyond the entity/expr builder types
// needed to construct axioms").
func (r *Reasoner) Interner() *iri.Interner  { return r.interner }
func (r *Reasoner) Registry() *entity.Registry { return r.registry }
func (r *Reasoner) Arena() *expr.Arena       { return r.arena }

// Class idempotently resolves a class IRI string to its ClassID,
// interning both the IRI and the entity. This is the thin convenience
// wrapper spec §6's Ingestion API names; lower-level callers can still
// reach Interner()/Registry() directly for bulk ingestion.
func (r *Reasoner) Class(classIRI string) (entity.ClassID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, err := r.interner.Intern(classIRI)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidIRI, err)
	}
	return r.registry.Class(h), nil
}

// ObjectProperty, DataProperty, NamedIndividual mirror Class for the
// other named-entity kinds.
func (r *Reasoner) ObjectProperty(propertyIRI string) (entity.PropertyID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, err := r.interner.Intern(propertyIRI)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidIRI, err)
	}
	return r.registry.ObjectProperty(h), nil
}

func (r *Reasoner) DataProperty(propertyIRI string) (entity.PropertyID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, err := r.interner.Intern(propertyIRI)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidIRI, err)
	}
	return r.registry.DataProperty(h), nil
}

func (r *Reasoner) NamedIndividual(individualIRI string) (entity.IndividualID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, err := r.interner.Intern(individualIRI)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidIRI, err)
	}
	return r.registry.NamedIndividual(h), nil
}

// ClassIRI resolves a ClassID from a query result back to its IRI
// string (spec §6: "Identifiers in results are opaque handles
// resolvable back to IRIs").
func (r *Reasoner) ClassIRI(id entity.ClassID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.interner.String(r.registry.ClassIRI(id))
}

// IndividualIRI resolves an IndividualID back to its IRI string; the
// second result is false for anonymous individuals.
func (r *Reasoner) IndividualIRI(id entity.IndividualID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.registry.IndividualIRI(id)
	if !ok {
		return "", false
	}
	return r.interner.String(h), true
}

// snapshot builds a tableau.Reasoner bound to the current store state.
// Callers must hold r.mu (read side suffices): lock ordering throughout
// this package is interner → registry → axiom store → caches (spec §5),
// and every query keeps the read lock for the duration of its tableau
// run so a concurrent AddAxiom cannot interleave with slice reads —
// the reader–writer lock at ontology granularity spec §5 prescribes.
func (r *Reasoner) snapshot() *tableau.Reasoner {
	return tableau.New(r.arena, r.registry, r.ontology.Store, r.oracle, r.norm, r.cfg.tableauConfig())
}

func (r *Reasoner) classifierLocked() *classify.Classifier {
	return classify.New(r.arena, r.registry, r.ontology.Store, r.cfg.classifyConfig())
}

func (r *Reasoner) logger() *zap.Logger {
	if r.cfg.Logger != nil {
		return r.cfg.Logger
	}
	return obs.NewNop()
}

func now() time.Time { return time.Now() }

func withTimeout(ctx context.Context, cfg Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}
