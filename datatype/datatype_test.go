package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/iri"
)

type testFixture struct {
	in  *iri.Interner
	reg *entity.Registry
	a   *expr.Arena
	p   entity.PropertyID
}

func newFixture() *testFixture {
	in := iri.New()
	reg := entity.New(in)
	a := expr.New(reg)
	p := reg.DataProperty(in.MustIntern("http://example.org/age"))
	return &testFixture{in: in, reg: reg, a: a, p: p}
}

func (f *testFixture) datatype(name Name) expr.ExprID {
	return f.a.Datatype(f.in.MustIntern(string(name)))
}

func (f *testFixture) literal(lexical string, dt Name) expr.ExprID {
	return f.a.Literal(lexical, f.in.MustIntern(string(dt)), "")
}

func TestSatisfiableWithNoConstraintsIsTriviallyTrue(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)
	ok, err := o.Satisfiable(nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSatisfiablePlainDatatypeIsUnconstrained(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)
	rng := f.datatype(Integer)
	ok, err := o.Satisfiable([]Constraint{{Property: f.p, Range: rng}})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSatisfiableContradictoryNumericBoundsIsUnsat(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)

	atLeast10 := f.a.DatatypeRestriction(f.datatype(Integer),
		expr.FacetRestriction{Facet: expr.FacetMinInclusive, Value: f.literal("10", Integer)})
	atMost5 := f.a.DatatypeRestriction(f.datatype(Integer),
		expr.FacetRestriction{Facet: expr.FacetMaxInclusive, Value: f.literal("5", Integer)})

	ok, err := o.Satisfiable([]Constraint{
		{Property: f.p, Range: atLeast10},
		{Property: f.p, Range: atMost5},
	})
	require.NoError(t, err)
	assert.False(t, ok, ">=10 and <=5 on the same value cannot both hold")
}

func TestSatisfiableCompatibleNumericBoundsIsSat(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)

	atLeast1 := f.a.DatatypeRestriction(f.datatype(Integer),
		expr.FacetRestriction{Facet: expr.FacetMinInclusive, Value: f.literal("1", Integer)})
	atMost5 := f.a.DatatypeRestriction(f.datatype(Integer),
		expr.FacetRestriction{Facet: expr.FacetMaxInclusive, Value: f.literal("5", Integer)})

	ok, err := o.Satisfiable([]Constraint{
		{Property: f.p, Range: atLeast1},
		{Property: f.p, Range: atMost5},
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSatisfiableDifferentPropertiesDoNotInteract(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)
	other := f.reg.DataProperty(f.in.MustIntern("http://example.org/height"))

	atLeast10 := f.a.DatatypeRestriction(f.datatype(Integer),
		expr.FacetRestriction{Facet: expr.FacetMinInclusive, Value: f.literal("10", Integer)})
	atMost5 := f.a.DatatypeRestriction(f.datatype(Integer),
		expr.FacetRestriction{Facet: expr.FacetMaxInclusive, Value: f.literal("5", Integer)})

	ok, err := o.Satisfiable([]Constraint{
		{Property: f.p, Range: atLeast10},
		{Property: other, Range: atMost5},
	})
	require.NoError(t, err)
	assert.True(t, ok, "constraints on distinct data properties never share a value space")
}

func TestUnknownDatatypeStrictRejectsUnsupported(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, true)
	rng := f.a.Datatype(f.in.MustIntern("http://example.org/NotARealDatatype"))
	_, err := o.Satisfiable([]Constraint{{Property: f.p, Range: rng}})
	assert.Error(t, err)
}

func TestUnknownDatatypeNonStrictTreatedAsUnconstrained(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)
	rng := f.a.Datatype(f.in.MustIntern("http://example.org/NotARealDatatype"))
	ok, err := o.Satisfiable([]Constraint{{Property: f.p, Range: rng}})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNegatedConstraintExcludesOneOfValue(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)
	oneOf := f.a.DataOneOf(f.literal("7", Integer))

	// The value must equal 7 and must also not equal 7: contradictory.
	ok, err := o.Satisfiable([]Constraint{
		{Property: f.p, Range: oneOf, Negated: false},
		{Property: f.p, Range: oneOf, Negated: true},
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateLiteralAcceptsWellFormedLexicalForms(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)

	assert.NoError(t, o.ValidateLiteral(f.literal("42", Integer)))
	assert.NoError(t, o.ValidateLiteral(f.literal("true", Boolean)))
	assert.NoError(t, o.ValidateLiteral(f.literal("2024-02-29", Date)))
}

func TestValidateLiteralRejectsMalformedLexicalForms(t *testing.T) {
	f := newFixture()
	o := New(f.a, f.in, false)

	assert.Error(t, o.ValidateLiteral(f.literal("forty-two", Integer)))
	assert.Error(t, o.ValidateLiteral(f.literal("yes", Boolean)))
}

func TestValidateLiteralUnknownDatatypeHonorsStrictMode(t *testing.T) {
	f := newFixture()
	lit := f.a.Literal("anything", f.in.MustIntern("http://example.org/NotADatatype"), "")

	assert.NoError(t, New(f.a, f.in, false).ValidateLiteral(lit))
	assert.Error(t, New(f.a, f.in, true).ValidateLiteral(lit))
}
