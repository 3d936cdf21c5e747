package reasoner

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/internal/errs"
)

// AddAxiom ingests one axiom, normalizing TBox axioms through the
// Normalizer's GCI-absorption path and storing everything else
// directly (spec §4.9's Ingestion API, §4.3's absorption policy). The
// type switch plays the role package axiom's per-kind Add* methods
// would otherwise force every caller to spell out by hand.
func (r *Reasoner) AddAxiom(ax interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch a := ax.(type) {
	case axiom.SubClassOf:
		r.norm.SubClassOf(a.Sub, a.Sup)
	case axiom.EquivalentClasses:
		r.norm.EquivalentClasses(a.Classes)
	case axiom.DisjointClasses:
		r.norm.DisjointClasses(a.Classes)
	case axiom.DisjointUnion:
		r.norm.DisjointUnion(a.Class, a.Parts)
	case axiom.RoleChain:
		return r.norm.RoleChain(a.Chain, a.Super)
	case axiom.RoleCharacteristicAxiom:
		r.ontology.Store.AddRoleCharacteristic(a)
	case axiom.EquivalentProperties:
		r.ontology.Store.AddEquivalentProperties(a)
	case axiom.DisjointProperties:
		r.ontology.Store.AddDisjointProperties(a)
	case axiom.PropertyDomain:
		r.ontology.Store.AddPropertyDomain(a)
	case axiom.PropertyRange:
		r.ontology.Store.AddPropertyRange(a)
	case axiom.DataPropertyFunctional:
		r.ontology.Store.AddDataPropertyFunctional(a)
	case axiom.DataPropertyDisjoint:
		r.ontology.Store.AddDataPropertyDisjoint(a)
	case axiom.DataPropertyDomain:
		r.ontology.Store.AddDataPropertyDomain(a)
	case axiom.DataPropertyRange:
		r.ontology.Store.AddDataPropertyRange(a)
	case axiom.ClassAssertion:
		r.norm.ClassAssertion(a.Class, a.Individual)
	case axiom.ObjectPropertyAssertion:
		r.ontology.Store.AddObjectPropertyAssertion(a)
	case axiom.DataPropertyAssertion:
		if err := r.oracle.ValidateLiteral(a.Value); err != nil {
			return err
		}
		r.ontology.Store.AddDataPropertyAssertion(a)
	case axiom.SameIndividual:
		r.ontology.Store.AddSameIndividual(a)
	case axiom.DifferentIndividuals:
		r.ontology.Store.AddDifferentIndividuals(a)
	case axiom.Annotation:
		r.ontology.Store.AddAnnotation(a)
	default:
		return errs.Unsupported(fmt.Sprintf("%T", ax))
	}

	// No explicit cache purge: every cached entry carries the store
	// version it was computed against (package cache), so a version
	// bump from this Add alone makes every prior entry a version
	// mismatch on the next read — a lazy invalidation, not an eager one.
	r.logger().Debug("axiom added",
		zap.String("kind", fmt.Sprintf("%T", ax)),
		zap.Uint64("version", r.ontology.Store.Version()))
	return nil
}

// AddAxioms ingests a batch, stopping at the first error. Each
// successfully added axiom before the failure remains in the store —
// spec §4.9 treats ingestion as a sequence of independent Add calls,
// not a transaction.
func (r *Reasoner) AddAxioms(axioms ...interface{}) error {
	for _, ax := range axioms {
		if err := r.AddAxiom(ax); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAxiom always fails: incremental retraction is an explicit
// Non-goal (spec.md §"Non-goals": "incremental retraction (additions
// are supported, deletions invalidate caches)" describes a future
// extension point, not current behavior).
func (r *Reasoner) RemoveAxiom(ax interface{}) error {
	return errs.Unsupported(fmt.Sprintf("RemoveAxiom(%T)", ax))
}
