// Package entity implements the Entity Registry (spec §3.2, §4.2):
// typed, interned sets of named classes, object/data/annotation
// properties, and named/anonymous individuals. Every named entity owns
// one iri.Handle; anonymous individuals own a document-scoped uuid.
package entity

import (
	"github.com/google/uuid"

	"github.com/anusornc/owl2go/iri"
)

// ClassID identifies a named class. ClassID(0) is always owl:Thing
// (Top); ClassID(1) is always owl:Nothing (Bottom) — lifted from the
// teacher's Top/Bottom ConceptID constants.
type ClassID uint32

// PropertyID identifies an object, data, or annotation property,
// depending on which registry map it was minted from.
type PropertyID uint32

// IndividualID identifies a named or anonymous individual.
type IndividualID uint32

const (
	Thing   ClassID = 0
	Nothing ClassID = 1
)

// AnonymousID is a document-scoped identifier for an anonymous
// individual, generated with github.com/google/uuid the way the teacher
// generates fresh concepts positionally — here the id needs to be
// globally unique instead of merely fresh within one run, since
// anonymous individuals can be merged in from multiple ingestion calls.
type AnonymousID uuid.UUID

// Registry is the typed entity store. All entities are idempotently
// interned per IRI handle; anonymous individuals are interned per
// caller-supplied document-scoped key if given, or minted fresh.
type Registry struct {
	interner *iri.Interner

	classToID map[iri.Handle]ClassID
	idToClass []iri.Handle

	objPropToID map[iri.Handle]PropertyID
	idToObjProp []iri.Handle

	dataPropToID map[iri.Handle]PropertyID
	idToDataProp []iri.Handle

	annotPropToID map[iri.Handle]PropertyID
	idToAnnotProp []iri.Handle

	indToID     map[iri.Handle]IndividualID
	anonToID    map[AnonymousID]IndividualID
	individuals []individualRecord
}

// individualRecord is one entry in the shared named/anonymous
// individual id space; exactly one of handle/anon is meaningful,
// discriminated by isAnon.
type individualRecord struct {
	handle iri.Handle
	anon   AnonymousID
	isAnon bool
}

// New creates a registry seeded with owl:Thing and owl:Nothing.
func New(in *iri.Interner) *Registry {
	r := &Registry{
		interner:      in,
		classToID:     make(map[iri.Handle]ClassID, 64),
		objPropToID:   make(map[iri.Handle]PropertyID, 16),
		dataPropToID:  make(map[iri.Handle]PropertyID, 16),
		annotPropToID: make(map[iri.Handle]PropertyID, 8),
		indToID:       make(map[iri.Handle]IndividualID, 64),
		anonToID:      make(map[AnonymousID]IndividualID, 8),
	}

	thing := in.MustIntern("http://www.w3.org/2002/07/owl#Thing")
	nothing := in.MustIntern("http://www.w3.org/2002/07/owl#Nothing")
	r.classToID[thing] = Thing
	r.classToID[nothing] = Nothing
	r.idToClass = []iri.Handle{thing, nothing}

	return r
}

// Class idempotently interns a named class by IRI handle.
func (r *Registry) Class(h iri.Handle) ClassID {
	if id, ok := r.classToID[h]; ok {
		return id
	}
	id := ClassID(len(r.idToClass))
	r.classToID[h] = id
	r.idToClass = append(r.idToClass, h)
	return id
}

// ObjectProperty idempotently interns an object property by IRI handle.
func (r *Registry) ObjectProperty(h iri.Handle) PropertyID {
	if id, ok := r.objPropToID[h]; ok {
		return id
	}
	id := PropertyID(len(r.idToObjProp))
	r.objPropToID[h] = id
	r.idToObjProp = append(r.idToObjProp, h)
	return id
}

// DataProperty idempotently interns a data property by IRI handle.
func (r *Registry) DataProperty(h iri.Handle) PropertyID {
	if id, ok := r.dataPropToID[h]; ok {
		return id
	}
	id := PropertyID(len(r.idToDataProp))
	r.dataPropToID[h] = id
	r.idToDataProp = append(r.idToDataProp, h)
	return id
}

// AnnotationProperty idempotently interns an annotation property by IRI handle.
func (r *Registry) AnnotationProperty(h iri.Handle) PropertyID {
	if id, ok := r.annotPropToID[h]; ok {
		return id
	}
	id := PropertyID(len(r.idToAnnotProp))
	r.annotPropToID[h] = id
	r.idToAnnotProp = append(r.idToAnnotProp, h)
	return id
}

// NamedIndividual idempotently interns a named individual by IRI handle.
func (r *Registry) NamedIndividual(h iri.Handle) IndividualID {
	if id, ok := r.indToID[h]; ok {
		return id
	}
	id := IndividualID(len(r.individuals))
	r.indToID[h] = id
	r.individuals = append(r.individuals, individualRecord{handle: h})
	return id
}

// AnonymousIndividual idempotently interns an anonymous individual by its
// document-scoped id.
func (r *Registry) AnonymousIndividual(a AnonymousID) IndividualID {
	if id, ok := r.anonToID[a]; ok {
		return id
	}
	id := IndividualID(len(r.individuals))
	r.anonToID[a] = id
	r.individuals = append(r.individuals, individualRecord{anon: a, isAnon: true})
	return id
}

// FreshAnonymousIndividual mints a brand-new anonymous individual with a
// random document-scoped id.
func (r *Registry) FreshAnonymousIndividual() IndividualID {
	return r.AnonymousIndividual(AnonymousID(uuid.New()))
}

// ClassCount, ObjectPropertyCount, etc. report the number of interned
// entities of each kind, used to size reasoner-internal arrays the way
// the teacher's SymbolTable.ConceptCount/RoleCount size the AxiomStore.
func (r *Registry) ClassCount() int             { return len(r.idToClass) }
func (r *Registry) ObjectPropertyCount() int     { return len(r.idToObjProp) }
func (r *Registry) DataPropertyCount() int       { return len(r.idToDataProp) }
func (r *Registry) AnnotationPropertyCount() int { return len(r.idToAnnotProp) }
func (r *Registry) IndividualCount() int         { return len(r.individuals) }

// ClassIRI resolves a ClassID back to its IRI handle.
func (r *Registry) ClassIRI(id ClassID) iri.Handle { return r.idToClass[id] }

// ObjectPropertyIRI resolves a PropertyID (object property namespace)
// back to its IRI handle.
func (r *Registry) ObjectPropertyIRI(id PropertyID) iri.Handle { return r.idToObjProp[id] }

// DataPropertyIRI resolves a PropertyID (data property namespace) back
// to its IRI handle.
func (r *Registry) DataPropertyIRI(id PropertyID) iri.Handle { return r.idToDataProp[id] }

// IsAnonymous reports whether an IndividualID names an anonymous individual.
func (r *Registry) IsAnonymous(id IndividualID) bool {
	if int(id) >= len(r.individuals) {
		return false
	}
	return r.individuals[id].isAnon
}

// IndividualIRI resolves an IndividualID back to its IRI handle; the
// second result is false for anonymous individuals, which have no IRI.
func (r *Registry) IndividualIRI(id IndividualID) (iri.Handle, bool) {
	if int(id) >= len(r.individuals) || r.individuals[id].isAnon {
		return 0, false
	}
	return r.individuals[id].handle, true
}

// AllClasses returns every interned ClassID, including Thing and Nothing.
func (r *Registry) AllClasses() []ClassID {
	ids := make([]ClassID, len(r.idToClass))
	for i := range ids {
		ids[i] = ClassID(i)
	}
	return ids
}

// AllIndividuals returns every interned IndividualID, named and anonymous.
func (r *Registry) AllIndividuals() []IndividualID {
	ids := make([]IndividualID, r.IndividualCount())
	for i := range ids {
		ids[i] = IndividualID(i)
	}
	return ids
}
