package tableau

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/datatype"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/internal/errs"
	"github.com/anusornc/owl2go/iri"
)

type fixture struct {
	in    *iri.Interner
	reg   *entity.Registry
	a     *expr.Arena
	store *axiom.Store
	ont   *axiom.Ontology
	norm  *axiom.Normalizer
	oracle *datatype.Oracle
}

func newFixture() *fixture {
	in := iri.New()
	reg := entity.New(in)
	a := expr.New(reg)
	store := axiom.New()
	return &fixture{
		in:     in,
		reg:    reg,
		a:      a,
		store:  store,
		ont:    axiom.NewOntology(store),
		norm:   axiom.NewNormalizer(a, reg, store),
		oracle: datatype.New(a, in, false),
	}
}

func (f *fixture) class(s string) entity.ClassID {
	return f.reg.Class(f.in.MustIntern(s))
}

func (f *fixture) objProp(s string) expr.ObjectPropertyExpr {
	return expr.ObjectPropertyExpr{Property: f.reg.ObjectProperty(f.in.MustIntern(s))}
}

func (f *fixture) reasoner() *Reasoner {
	return New(f.a, f.reg, f.store, f.oracle, f.norm, DefaultConfig())
}

func TestEmptyOntologyIsConsistent(t *testing.T) {
	f := newFixture()
	ok, err := f.reasoner().IsConsistent(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDisjointClassesMakeSharedInstanceInconsistent(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	d := f.a.NamedClass(f.class("http://example.org/D"))
	f.norm.DisjointClasses([]expr.ExprID{c, d})

	alice := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/alice"))
	f.norm.ClassAssertion(c, alice)
	f.norm.ClassAssertion(d, alice)

	ok, err := f.reasoner().IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "alice cannot be both C and D when C and D are disjoint")
}

func TestUnsatisfiableConceptCSquashedWithItsComplement(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	conj := f.a.Intersection(c, f.a.Complement(c))

	ok, err := f.reasoner().IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubClassOfImpliesSubsumption(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	d := f.a.NamedClass(f.class("http://example.org/D"))
	f.norm.SubClassOf(c, d)

	holds, err := f.reasoner().IsSubsumedBy(context.Background(), c, d)
	require.NoError(t, err)
	assert.True(t, holds)

	// The converse does not hold absent an EquivalentClasses axiom.
	holds, err = f.reasoner().IsSubsumedBy(context.Background(), d, c)
	require.NoError(t, err)
	assert.False(t, holds)
}

func TestEquivalentClassesImpliesMutualSubsumption(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	d := f.a.NamedClass(f.class("http://example.org/D"))
	f.norm.EquivalentClasses([]expr.ExprID{c, d})

	r := f.reasoner()
	forward, err := r.IsSubsumedBy(context.Background(), c, d)
	require.NoError(t, err)
	backward, err := r.IsSubsumedBy(context.Background(), d, c)
	require.NoError(t, err)
	assert.True(t, forward)
	assert.True(t, backward)
}

func TestDisjointClassesAreDisjoint(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	d := f.a.NamedClass(f.class("http://example.org/D"))
	f.norm.DisjointClasses([]expr.ExprID{c, d})

	disjoint, err := f.reasoner().AreDisjoint(context.Background(), c, d)
	require.NoError(t, err)
	assert.True(t, disjoint)
}

func TestExistentialRestrictionIsSatisfiableWithAFreshWitness(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	r := f.objProp("http://example.org/hasPart")
	some := f.a.ObjectSomeValuesFrom(r, c)

	ok, err := f.reasoner().IsSatisfiable(context.Background(), some)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUniversalPlusExistentialOfIncompatibleFillersClashes(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	notC := f.a.Complement(c)
	r := f.objProp("http://example.org/hasPart")

	// ∃r.C ⊓ ∀r.¬C forces the one r-successor to be both C and ¬C.
	conj := f.a.Intersection(
		f.a.ObjectSomeValuesFrom(r, c),
		f.a.ObjectAllValuesFrom(r, notC),
	)
	ok, err := f.reasoner().IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneralConceptInclusionIsEnforcedViaGlobalGCI(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	d := f.a.NamedClass(f.class("http://example.org/D"))
	r := f.objProp("http://example.org/hasPart")

	// A GCI whose left side isn't a named class absorbs into the global
	// U_T rather than a stored SubClassOf axiom (package axiom's
	// Normalizer): ∃r.C ⊑ D.
	f.norm.SubClassOf(f.a.ObjectSomeValuesFrom(r, c), d)

	conj := f.a.Intersection(f.a.ObjectSomeValuesFrom(r, c), f.a.Complement(d))
	ok, err := f.reasoner().IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.False(t, ok, "every model satisfying the GCI's antecedent must also satisfy D")
}

func TestExistentialOverAnyFillerTriggersSubsumption(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	b := f.a.NamedClass(f.class("http://example.org/B"))
	c := f.a.NamedClass(f.class("http://example.org/C"))
	r := f.objProp("http://example.org/r")

	// A ⊑ ∃r.B plus the GCI ∃r.⊤ ⊑ C entails A ⊑ C: every A has an
	// r-successor, and anything with an r-successor is a C.
	f.norm.SubClassOf(a, f.a.ObjectSomeValuesFrom(r, b))
	f.norm.SubClassOf(f.a.ObjectSomeValuesFrom(r, expr.Top), c)

	holds, err := f.reasoner().IsSubsumedBy(context.Background(), a, c)
	require.NoError(t, err)
	assert.True(t, holds)
}

func TestMaxCardinalityMergesAssertedSuccessors(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	r := f.objProp("http://example.org/r")
	f.norm.SubClassOf(a, f.a.ObjectMaxCardinality(1, r, expr.Top))

	ind := func(s string) entity.IndividualID {
		return f.reg.NamedIndividual(f.in.MustIntern(s))
	}
	anna := ind("http://example.org/anna")
	bert := ind("http://example.org/bert")
	carl := ind("http://example.org/carl")
	f.norm.ClassAssertion(a, anna)
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: r, Subject: anna, Object: bert})
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: r, Subject: anna, Object: carl})

	reasoner := f.reasoner()
	same, err := reasoner.AreSameIndividuals(context.Background(), bert, carl)
	require.NoError(t, err)
	assert.True(t, same, "at most one r-successor forces bert and carl together")

	// Pinning them apart instead makes the whole ontology inconsistent.
	f.store.AddDifferentIndividuals(axiom.DifferentIndividuals{Individuals: []entity.IndividualID{bert, carl}})
	ok, err := f.reasoner().IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNominalEquivalenceAgainstDifferentIndividualsIsInconsistent(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	b := f.a.NamedClass(f.class("http://example.org/B"))
	ia := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/ia"))
	ib := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/ib"))

	f.norm.EquivalentClasses([]expr.ExprID{a, f.a.OneOf(ia)})
	f.norm.EquivalentClasses([]expr.ExprID{b, f.a.OneOf(ib)})
	f.norm.SubClassOf(a, b)
	f.store.AddDifferentIndividuals(axiom.DifferentIndividuals{Individuals: []entity.IndividualID{ia, ib}})

	ok, err := f.reasoner().IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "A ≡ {ia} ⊑ B ≡ {ib} forces ia = ib against the difference assertion")
}

func TestDisjointnessEntailsComplementSubsumption(t *testing.T) {
	f := newFixture()
	male := f.a.NamedClass(f.class("http://example.org/Male"))
	female := f.a.NamedClass(f.class("http://example.org/Female"))
	f.norm.DisjointClasses([]expr.ExprID{male, female})

	adam := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/adam"))
	f.norm.ClassAssertion(male, adam)

	reasoner := f.reasoner()
	holds, err := reasoner.IsSubsumedBy(context.Background(), male, f.a.NNF(f.a.Complement(female)))
	require.NoError(t, err)
	assert.True(t, holds)

	// adam is not entailed to be Female (he is entailed not to be).
	isFemale, err := reasoner.IsSubsumedBy(context.Background(), f.a.OneOf(adam), female)
	require.NoError(t, err)
	assert.False(t, isFemale)
}

func TestRoleChainEntailsDerivedAssertion(t *testing.T) {
	f := newFixture()
	hasParent := f.objProp("http://example.org/hasParent")
	hasGrandparent := f.objProp("http://example.org/hasGrandparent")
	require.NoError(t, f.store.AddRoleChain(axiom.RoleChain{
		Chain: []expr.ObjectPropertyExpr{hasParent, hasParent},
		Super: hasGrandparent,
	}))

	ind := func(s string) entity.IndividualID {
		return f.reg.NamedIndividual(f.in.MustIntern(s))
	}
	ann, ben, cay := ind("http://example.org/ann"), ind("http://example.org/ben"), ind("http://example.org/cay")
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: hasParent, Subject: ann, Object: ben})
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: hasParent, Subject: ben, Object: cay})

	reasoner := f.reasoner()
	entailed, err := reasoner.EntailsObjectPropertyAssertion(context.Background(), hasGrandparent, ann, cay)
	require.NoError(t, err)
	assert.True(t, entailed)

	entailed, err = reasoner.EntailsObjectPropertyAssertion(context.Background(), hasGrandparent, ann, ben)
	require.NoError(t, err)
	assert.False(t, entailed, "one hasParent hop is not a grandparent relation")
}

func TestInverseReadingOfAssertedEdge(t *testing.T) {
	f := newFixture()
	r := f.objProp("http://example.org/r")
	ind := func(s string) entity.IndividualID {
		return f.reg.NamedIndividual(f.in.MustIntern(s))
	}
	x, y := ind("http://example.org/x"), ind("http://example.org/y")
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: r, Subject: x, Object: y})

	inv := expr.ObjectPropertyExpr{Property: r.Property, Inverse: true}
	entailed, err := f.reasoner().EntailsObjectPropertyAssertion(context.Background(), inv, y, x)
	require.NoError(t, err)
	assert.True(t, entailed)
}

func TestSymmetricPropertyMirrorsAssertion(t *testing.T) {
	f := newFixture()
	knows := f.objProp("http://example.org/knows")
	f.store.AddRoleCharacteristic(axiom.RoleCharacteristicAxiom{Role: knows, Trait: axiom.Symmetric})

	ind := func(s string) entity.IndividualID {
		return f.reg.NamedIndividual(f.in.MustIntern(s))
	}
	x, y := ind("http://example.org/p1"), ind("http://example.org/p2")
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: knows, Subject: x, Object: y})

	entailed, err := f.reasoner().EntailsObjectPropertyAssertion(context.Background(), knows, y, x)
	require.NoError(t, err)
	assert.True(t, entailed)
}

func TestFunctionalPropertyIdentifiesSuccessors(t *testing.T) {
	f := newFixture()
	hasMother := f.objProp("http://example.org/hasMother")
	f.store.AddRoleCharacteristic(axiom.RoleCharacteristicAxiom{Role: hasMother, Trait: axiom.Functional})

	ind := func(s string) entity.IndividualID {
		return f.reg.NamedIndividual(f.in.MustIntern(s))
	}
	kid, m1, m2 := ind("http://example.org/kid"), ind("http://example.org/m1"), ind("http://example.org/m2")
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: hasMother, Subject: kid, Object: m1})
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: hasMother, Subject: kid, Object: m2})

	same, err := f.reasoner().AreSameIndividuals(context.Background(), m1, m2)
	require.NoError(t, err)
	assert.True(t, same)

	f.store.AddDifferentIndividuals(axiom.DifferentIndividuals{Individuals: []entity.IndividualID{m1, m2}})
	ok, err := f.reasoner().IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIrreflexivePropertyWithSelfLoopIsInconsistent(t *testing.T) {
	f := newFixture()
	properPartOf := f.objProp("http://example.org/properPartOf")
	f.store.AddRoleCharacteristic(axiom.RoleCharacteristicAxiom{Role: properPartOf, Trait: axiom.Irreflexive})

	gear := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/gear"))
	f.norm.ClassAssertion(f.a.ObjectHasSelf(properPartOf), gear)

	ok, err := f.reasoner().IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDomainAxiomTypesSubject(t *testing.T) {
	f := newFixture()
	person := f.a.NamedClass(f.class("http://example.org/Person"))
	owns := f.objProp("http://example.org/owns")
	f.store.AddPropertyDomain(axiom.PropertyDomain{Property: owns, Domain: person})

	ind := func(s string) entity.IndividualID {
		return f.reg.NamedIndividual(f.in.MustIntern(s))
	}
	o, thing := ind("http://example.org/owner"), ind("http://example.org/item")
	f.store.AddObjectPropertyAssertion(axiom.ObjectPropertyAssertion{Property: owns, Subject: o, Object: thing})

	holds, err := f.reasoner().IsSubsumedBy(context.Background(), f.a.OneOf(o), person)
	require.NoError(t, err)
	assert.True(t, holds)
}

func TestCyclicExistentialTerminatesUnderBlocking(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	r := f.objProp("http://example.org/r")
	f.norm.SubClassOf(a, f.a.ObjectSomeValuesFrom(r, a))

	ok, err := f.reasoner().IsSatisfiable(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, ok, "the infinite r-chain must be folded by blocking, not expanded forever")
}

func TestSubsetBlockingAgreesOnCyclicExistential(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	r := f.objProp("http://example.org/r")
	f.norm.SubClassOf(a, f.a.ObjectSomeValuesFrom(r, a))

	cfg := DefaultConfig()
	cfg.Blocking = SubsetBlocking
	reasoner := New(f.a, f.reg, f.store, f.oracle, f.norm, cfg)
	ok, err := reasoner.IsSatisfiable(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSameIndividualIsEntailedReflexivelyAndVacuously(t *testing.T) {
	f := newFixture()
	ia := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/solo"))
	f.store.AddSameIndividual(axiom.SameIndividual{Individuals: []entity.IndividualID{ia, ia}})

	reasoner := f.reasoner()
	ok, err := reasoner.IsConsistent(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "SameIndividual(a, a) is vacuous")

	same, err := reasoner.AreSameIndividuals(context.Background(), ia, ia)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestDifferentIndividualsOfSameNameIsInconsistent(t *testing.T) {
	f := newFixture()
	ia := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/self"))
	f.store.AddDifferentIndividuals(axiom.DifferentIndividuals{Individuals: []entity.IndividualID{ia, ia}})

	ok, err := f.reasoner().IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncompatibleDataRangesClashViaOracle(t *testing.T) {
	f := newFixture()
	integer := f.a.Datatype(f.in.MustIntern("http://www.w3.org/2001/XMLSchema#integer"))
	atLeastFive := f.a.DatatypeRestriction(integer, expr.FacetRestriction{
		Facet: expr.FacetMinInclusive,
		Value: f.a.Literal("5", f.in.MustIntern("http://www.w3.org/2001/XMLSchema#integer"), ""),
	})
	atMostThree := f.a.DatatypeRestriction(integer, expr.FacetRestriction{
		Facet: expr.FacetMaxInclusive,
		Value: f.a.Literal("3", f.in.MustIntern("http://www.w3.org/2001/XMLSchema#integer"), ""),
	})
	p := f.reg.DataProperty(f.in.MustIntern("http://example.org/age"))

	conj := f.a.Intersection(
		f.a.DataSomeValuesFrom(p, atLeastFive),
		f.a.DataAllValuesFrom(p, atMostThree),
	)
	ok, err := f.reasoner().IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCancelledContextSurfacesCancelled(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	r := f.objProp("http://example.org/r")
	f.norm.SubClassOf(a, f.a.ObjectSomeValuesFrom(r, a))

	cfg := DefaultConfig()
	cfg.CancellationCheckInterval = 1
	reasoner := New(f.a, f.reg, f.store, f.oracle, f.norm, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := reasoner.IsSatisfiable(ctx, a)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Cancelled))
}

func TestExpiredDeadlineSurfacesTimeout(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	r := f.objProp("http://example.org/r")
	f.norm.SubClassOf(a, f.a.ObjectSomeValuesFrom(r, a))

	cfg := DefaultConfig()
	cfg.CancellationCheckInterval = 1
	reasoner := New(f.a, f.reg, f.store, f.oracle, f.norm, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	_, err := reasoner.IsSatisfiable(ctx, a)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Timeout))
}

func TestCardinalityBoundaryCases(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	r := f.objProp("http://example.org/r")

	reasoner := f.reasoner()

	// (>= 0 r.C) is a tautology: its negation is unsatisfiable.
	negMin0 := f.a.NNF(f.a.Complement(f.a.ObjectMinCardinality(0, r, c)))
	ok, err := reasoner.IsSatisfiable(context.Background(), negMin0)
	require.NoError(t, err)
	assert.False(t, ok)

	// (<= 0 r.C) forbids any r-successor in C.
	conj := f.a.Intersection(
		f.a.ObjectMaxCardinality(0, r, c),
		f.a.ObjectSomeValuesFrom(r, c),
	)
	ok, err = reasoner.IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExactCardinalityZeroForbidsSuccessors(t *testing.T) {
	f := newFixture()
	a := f.a.NamedClass(f.class("http://example.org/A"))
	c := f.a.NamedClass(f.class("http://example.org/C"))
	r := f.objProp("http://example.org/r")

	// A ⊑ (=0 r.C) together with A ⊑ ∃r.C leaves A no model.
	f.norm.SubClassOf(a, f.a.ObjectExactCardinality(0, r, c))
	f.norm.SubClassOf(a, f.a.ObjectSomeValuesFrom(r, c))

	ok, err := f.reasoner().IsSatisfiable(context.Background(), a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExactCardinalityDecomposesInRawQueries(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	r := f.objProp("http://example.org/r")

	reasoner := f.reasoner()

	// A raw query concept bypasses the normalizer's NNF pass, so the
	// tableau's own decomposition has to consume the exact bound.
	conj := f.a.Intersection(
		f.a.ObjectExactCardinality(0, r, c),
		f.a.ObjectSomeValuesFrom(r, c),
	)
	ok, err := reasoner.IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = reasoner.IsSatisfiable(context.Background(), f.a.ObjectExactCardinality(2, r, c))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMinMaxCardinalityContradictionClashes(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	r := f.objProp("http://example.org/r")

	reasoner := f.reasoner()

	// (≥2 r.C) introduces two mutually different successors; (≤1 r.C)
	// cannot merge them away.
	conj := f.a.Intersection(
		f.a.ObjectMinCardinality(2, r, c),
		f.a.ObjectMaxCardinality(1, r, c),
	)
	ok, err := reasoner.IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.False(t, ok)

	// With matching bounds the two successors stand.
	conj = f.a.Intersection(
		f.a.ObjectMinCardinality(2, r, c),
		f.a.ObjectMaxCardinality(2, r, c),
	)
	ok, err = reasoner.IsSatisfiable(context.Background(), conj)
	require.NoError(t, err)
	assert.True(t, ok)
}
