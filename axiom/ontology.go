package axiom

import "github.com/anusornc/owl2go/iri"

// Ontology is the container spec §3.7 describes: entity registry, axiom
// store, and a flattened import closure. The core never fetches
// imports — collaborators resolve and flatten them before calling
// AddImport; Ontology only records which ontology IRIs this one
// logically incorporates, for round-trip and provenance purposes.
type Ontology struct {
	Store *Store

	iriHandle       iri.Handle
	hasIRI          bool
	versionIRI      iri.Handle
	hasVersionIRI   bool
	imports         []iri.Handle
}

// NewOntology creates an empty ontology container backed by store.
func NewOntology(store *Store) *Ontology {
	return &Ontology{Store: store}
}

func (o *Ontology) SetIRI(h iri.Handle) {
	o.iriHandle = h
	o.hasIRI = true
}

func (o *Ontology) IRI() (iri.Handle, bool) { return o.iriHandle, o.hasIRI }

func (o *Ontology) SetVersionIRI(h iri.Handle) {
	o.versionIRI = h
	o.hasVersionIRI = true
}

func (o *Ontology) VersionIRI() (iri.Handle, bool) { return o.versionIRI, o.hasVersionIRI }

// AddImport records that importIRI's flattened axioms have already been
// merged into Store by the caller.
func (o *Ontology) AddImport(importIRI iri.Handle) {
	o.imports = append(o.imports, importIRI)
}

func (o *Ontology) Imports() []iri.Handle { return o.imports }
