package axiom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/iri"
)

func TestVersionBumpsOnEveryMutatingAdd(t *testing.T) {
	s := New()
	assert.Equal(t, uint64(0), s.Version())

	s.AddSubClassOf(SubClassOf{Sub: expr.Top, Sup: expr.Bottom})
	assert.Equal(t, uint64(1), s.Version())

	s.AddDisjointClasses(DisjointClasses{Classes: []expr.ExprID{expr.Top, expr.Bottom}})
	assert.Equal(t, uint64(2), s.Version())
}

func TestAnnotationsDoNotBumpVersion(t *testing.T) {
	s := New()
	in := iri.New()
	reg := entity.New(in)
	p := reg.AnnotationProperty(in.MustIntern("http://example.org/label"))
	ind := reg.NamedIndividual(in.MustIntern("http://example.org/a"))

	before := s.Version()
	s.AddAnnotation(Annotation{Property: p, Subject: ind, Value: AnnotationValue{Literal: expr.Top}})
	assert.Equal(t, before, s.Version(), "annotations are logically inert and must not invalidate caches")
	assert.Len(t, s.Annotations(), 1)
}

func TestDirectInstancesOfIndexedByClassAssertion(t *testing.T) {
	s := New()
	in := iri.New()
	reg := entity.New(in)
	c := reg.Class(in.MustIntern("http://example.org/C"))
	a := expr.New(reg)
	classExpr := a.NamedClass(c)

	alice := reg.NamedIndividual(in.MustIntern("http://example.org/alice"))
	bob := reg.NamedIndividual(in.MustIntern("http://example.org/bob"))

	s.AddClassAssertion(ClassAssertion{Class: classExpr, Individual: alice})
	s.AddClassAssertion(ClassAssertion{Class: classExpr, Individual: bob})

	instances := s.DirectInstancesOf(classExpr)
	assert.ElementsMatch(t, []entity.IndividualID{alice, bob}, instances)
}

func TestObjectPropertyAssertionIndexesBothDirections(t *testing.T) {
	s := New()
	in := iri.New()
	reg := entity.New(in)
	p := reg.ObjectProperty(in.MustIntern("http://example.org/knows"))
	propExpr := expr.ObjectPropertyExpr{Property: p}

	alice := reg.NamedIndividual(in.MustIntern("http://example.org/alice"))
	bob := reg.NamedIndividual(in.MustIntern("http://example.org/bob"))

	s.AddObjectPropertyAssertion(ObjectPropertyAssertion{Property: propExpr, Subject: alice, Object: bob})

	assert.Equal(t, []entity.IndividualID{alice}, s.SubjectsOfObjectProperty(propExpr))
	assert.Equal(t, []entity.IndividualID{bob}, s.ObjectsOfObjectProperty(propExpr))
}

func TestIsTransitiveReflectsCharacteristicAxiom(t *testing.T) {
	s := New()
	in := iri.New()
	reg := entity.New(in)
	p := reg.ObjectProperty(in.MustIntern("http://example.org/partOf"))
	propExpr := expr.ObjectPropertyExpr{Property: p}

	assert.False(t, s.IsTransitive(propExpr))
	s.AddRoleCharacteristic(RoleCharacteristicAxiom{Role: propExpr, Trait: Transitive})
	assert.True(t, s.IsTransitive(propExpr))

	// Transitive also folds into the chain closure as R ∘ R ⊑ R.
	assert.Contains(t, s.Roles().Chains(), RoleChain{Chain: []expr.ObjectPropertyExpr{propExpr, propExpr}, Super: propExpr})
}

func TestAddRoleChainRejectsIrregularCycle(t *testing.T) {
	s := New()
	in := iri.New()
	reg := entity.New(in)
	propExpr := func(name string) expr.ObjectPropertyExpr {
		return expr.ObjectPropertyExpr{Property: reg.ObjectProperty(in.MustIntern(name))}
	}
	a := propExpr("http://example.org/a")
	b := propExpr("http://example.org/b")
	c := propExpr("http://example.org/c")

	as := assert.New(t)
	as.NoError(s.AddRoleChain(RoleChain{Chain: []expr.ObjectPropertyExpr{a}, Super: b}))
	as.NoError(s.AddRoleChain(RoleChain{Chain: []expr.ObjectPropertyExpr{b}, Super: c}))
	// a ≤ b ≤ c in the regular order so far; c ⊑ a would close a cycle
	// through three distinct properties, which AddChain must reject.
	err := s.AddRoleChain(RoleChain{Chain: []expr.ObjectPropertyExpr{c}, Super: a})
	as.Error(err)
}
