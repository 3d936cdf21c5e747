package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anusornc/owl2go/iri"
)

func TestNewSeedsThingAndNothing(t *testing.T) {
	reg := New(iri.New())
	assert.Equal(t, 2, reg.ClassCount())
	all := reg.AllClasses()
	assert.Contains(t, all, Thing)
	assert.Contains(t, all, Nothing)
}

func TestClassInterningIsIdempotent(t *testing.T) {
	in := iri.New()
	reg := New(in)
	h := in.MustIntern("http://example.org/Widget")

	a := reg.Class(h)
	b := reg.Class(h)
	assert.Equal(t, a, b)
	assert.NotEqual(t, Thing, a)
	assert.NotEqual(t, Nothing, a)
}

func TestDistinctEntityKindsGetIndependentNamespaces(t *testing.T) {
	in := iri.New()
	reg := New(in)
	h := in.MustIntern("http://example.org/Same")

	cls := reg.Class(h)
	prop := reg.ObjectProperty(h)

	// Class and property IDs are independently numbered, so they may
	// collide numerically without meaning the same entity.
	assert.Equal(t, ClassID(2), cls)
	assert.Equal(t, PropertyID(0), prop)
}

func TestNamedAndAnonymousIndividualsShareOneIDSpace(t *testing.T) {
	in := iri.New()
	reg := New(in)
	named := reg.NamedIndividual(in.MustIntern("http://example.org/alice"))
	anon := reg.FreshAnonymousIndividual()

	assert.NotEqual(t, named, anon)
	assert.False(t, reg.IsAnonymous(named))
	assert.True(t, reg.IsAnonymous(anon))
}

func TestAllIndividualsCoversBothKinds(t *testing.T) {
	in := iri.New()
	reg := New(in)
	reg.NamedIndividual(in.MustIntern("http://example.org/bob"))
	reg.FreshAnonymousIndividual()

	assert.Len(t, reg.AllIndividuals(), 2)
}

func TestIndividualIRIResolvesNamedOnly(t *testing.T) {
	in := iri.New()
	reg := New(in)
	h := in.MustIntern("http://example.org/carol")
	named := reg.NamedIndividual(h)
	anon := reg.FreshAnonymousIndividual()

	got, ok := reg.IndividualIRI(named)
	assert.True(t, ok)
	assert.Equal(t, h, got)

	_, ok = reg.IndividualIRI(anon)
	assert.False(t, ok)
}
