// Package axiom implements the Axiom Store & Indexes and the ontology
// container (spec §3.5, §3.7, §4.4): canonical, typed axiom vectors with
// O(1) retrieval by kind, eagerly maintained secondary indexes, and a
// version counter that invalidates downstream caches on every mutation
// — the same "a store mutation bumps a generation stamp" idiom the
// teacher's AxiomStore leaves implicit in its single-pass Saturate and
// that package cache makes explicit.
package axiom

import (
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/iri"
)

// SubClassOf is C ⊑ D.
type SubClassOf struct {
	Sub, Sup expr.ExprID
}

// EquivalentClasses is EquivalentClasses({C1..Cn}).
type EquivalentClasses struct {
	Classes []expr.ExprID
}

// DisjointClasses is DisjointClasses({C1..Cn}).
type DisjointClasses struct {
	Classes []expr.ExprID
}

// DisjointUnion is DisjointUnion(C, {D1..Dn}): C is equivalent to the
// union of the Di, and the Di are pairwise disjoint.
type DisjointUnion struct {
	Class expr.ExprID
	Parts []expr.ExprID
}

// RoleChain is R1 ∘ R2 ∘ … ∘ Rn ⊑ S (n=1 degenerates to plain sub-property).
type RoleChain struct {
	Chain []expr.ObjectPropertyExpr
	Super expr.ObjectPropertyExpr
}

// RoleCharacteristic names one of the object-property characteristics
// SROIQ(D) supports (spec §3.4).
type RoleCharacteristic uint8

const (
	Transitive RoleCharacteristic = iota
	Symmetric
	Asymmetric
	Reflexive
	Irreflexive
	Functional
	InverseFunctional
)

// RoleCharacteristicAxiom asserts one characteristic of one object property.
type RoleCharacteristicAxiom struct {
	Role  expr.ObjectPropertyExpr
	Trait RoleCharacteristic
}

// EquivalentProperties and DisjointProperties mirror their class-level
// counterparts for object properties.
type EquivalentProperties struct {
	Properties []expr.ObjectPropertyExpr
}

type DisjointProperties struct {
	Properties []expr.ObjectPropertyExpr
}

// PropertyDomain / PropertyRange constrain an object property's domain
// or range to a class expression.
type PropertyDomain struct {
	Property expr.ObjectPropertyExpr
	Domain   expr.ExprID
}

type PropertyRange struct {
	Property expr.ObjectPropertyExpr
	Range    expr.ExprID
}

// DataPropertyFunctional / DataPropertyDisjoint are the data-property
// analogs of the RBox characteristics SROIQ(D) allows on data properties
// (spec §3.4: "Data properties support functionality and disjointness").
type DataPropertyFunctional struct {
	Property entity.PropertyID
}

type DataPropertyDisjoint struct {
	Properties []entity.PropertyID
}

type DataPropertyDomain struct {
	Property entity.PropertyID
	Domain   expr.ExprID
}

type DataPropertyRange struct {
	Property entity.PropertyID
	Range    expr.ExprID
}

// ClassAssertion is C(a).
type ClassAssertion struct {
	Class      expr.ExprID
	Individual entity.IndividualID
}

// ObjectPropertyAssertion / NegativeObjectPropertyAssertion is
// (¬)R(a, b) for a named, anonymous, or ObjectOneOf-derived individual
// b (spec §3.5: "b|anon").
type ObjectPropertyAssertion struct {
	Property   expr.ObjectPropertyExpr
	Subject    entity.IndividualID
	Object     entity.IndividualID
	Negative   bool
}

// DataPropertyAssertion / NegativeDataPropertyAssertion is (¬)P(a, v),
// closing the Open Question spec.md leaves about this axiom being only
// partially implemented (SPEC_FULL §9): both the positive and negative
// forms are first-class here and are both materialized into the
// completion graph's per-node data constraints (package tableau).
type DataPropertyAssertion struct {
	Property entity.PropertyID
	Subject  entity.IndividualID
	Value    expr.ExprID // a TagLiteral node
	Negative bool
}

// SameIndividual / DifferentIndividuals assert (in)equality between
// named or anonymous individuals.
type SameIndividual struct {
	Individuals []entity.IndividualID
}

type DifferentIndividuals struct {
	Individuals []entity.IndividualID
}

// AnnotationValue is either a literal or an IRI-valued annotation
// target, closing the second Open Question spec.md names (SPEC_FULL
// §9: "AnnotationValue::IRI not fully implemented").
type AnnotationValue struct {
	IsIRI   bool
	Literal expr.ExprID
	IRI     iri.Handle
}

// Annotation is stored but logically inert (spec §3.5): it never feeds
// the tableaux or the classifier, only round-trips through the Query
// Facade.
type Annotation struct {
	Property entity.PropertyID
	Subject  entity.IndividualID
	Value    AnnotationValue
}
